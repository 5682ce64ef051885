package lookup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Search(ctx context.Context, query string, limit int) ([]domain.CustomerCandidate, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CustomerCandidate), args.Error(1)
}

// manualTimers hands out debounce timers the test fires explicitly.
type manualTimers struct {
	started chan chan time.Time
}

func newManualTimers() *manualTimers {
	return &manualTimers{started: make(chan chan time.Time, 8)}
}

func (m *manualTimers) after(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	m.started <- ch
	return ch
}

type searchResult struct {
	candidates []domain.CustomerCandidate
	err        error
}

func TestLookupService_BlankQuery(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, 0, 20)

	result, err := service.Search(context.Background(), "s1", "   ")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestLookupService_NoDebounce(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, 0, 20)
	ctx := context.Background()
	candidates := []domain.CustomerCandidate{{ID: "c1", FirstName: "Sita", LastName: "Rai"}}

	mockRepo.On("Search", ctx, "sita", 20).Return(candidates, nil).Once()
	mockRepo.On("Search", ctx, "nobody", 20).Return(nil, nil).Once()

	result, err := service.Search(ctx, "s1", " sita ")
	require.NoError(t, err)
	assert.Equal(t, candidates, result)

	result, err = service.Search(ctx, "s1", "nobody")
	require.NoError(t, err)
	assert.Equal(t, []domain.CustomerCandidate{}, result)

	assert.Empty(t, service.latest)
	mockRepo.AssertExpectations(t)
}

func TestLookupService_RepositoryError(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, 0, 5)
	ctx := context.Background()

	mockRepo.On("Search", ctx, "x", 5).Return(nil, errors.New("db down")).Once()

	_, err := service.Search(ctx, "s1", "x")

	assert.EqualError(t, err, "db down")
}

func TestLookupService_NewerQuerySupersedes(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, 300*time.Millisecond, 20)
	timers := newManualTimers()
	service.after = timers.after
	ctx := context.Background()
	candidates := []domain.CustomerCandidate{{ID: "c1", FirstName: "Sita"}}

	mockRepo.On("Search", ctx, "sita", 20).Return(candidates, nil).Once()

	first := make(chan searchResult, 1)
	go func() {
		r, err := service.Search(ctx, "s1", "si")
		first <- searchResult{r, err}
	}()
	firstTimer := <-timers.started

	second := make(chan searchResult, 1)
	go func() {
		r, err := service.Search(ctx, "s1", "sita")
		second <- searchResult{r, err}
	}()
	secondTimer := <-timers.started

	firstTimer <- time.Now()
	got := <-first
	assert.ErrorIs(t, got.err, domain.ErrSuperseded)

	secondTimer <- time.Now()
	got = <-second
	require.NoError(t, got.err)
	assert.Equal(t, candidates, got.candidates)

	mockRepo.AssertNotCalled(t, "Search", ctx, "si", 20)
	mockRepo.AssertExpectations(t)
}

func TestLookupService_SessionsAreIndependent(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, 300*time.Millisecond, 20)
	timers := newManualTimers()
	service.after = timers.after
	ctx := context.Background()

	mockRepo.On("Search", ctx, "rai", 20).Return([]domain.CustomerCandidate{{ID: "c2"}}, nil).Twice()

	results := make(chan searchResult, 2)
	for _, key := range []string{"s1", "s2"} {
		go func() {
			r, err := service.Search(ctx, key, "rai")
			results <- searchResult{r, err}
		}()
		timer := <-timers.started
		timer <- time.Now()
	}

	for i := 0; i < 2; i++ {
		got := <-results
		require.NoError(t, got.err)
		assert.Len(t, got.candidates, 1)
	}
	mockRepo.AssertExpectations(t)
}

func TestLookupService_ContextCancelled(t *testing.T) {
	mockRepo := &MockCustomerRepository{}
	service := NewLookupService(mockRepo, time.Hour, 20)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Search(ctx, "s1", "sita")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, service.latest)
}
