package booking

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Domenick1991/travelbackoffice/config"
	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/draft"
	"github.com/Domenick1991/travelbackoffice/internal/schema"
	"github.com/Domenick1991/travelbackoffice/internal/validation"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Insert(ctx context.Context, rec domain.Record) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, id string, rec domain.Record) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error {
	args := m.Called(ctx, topic, key, value, maxRetries)
	return args.Error(0)
}

// memStore keeps drafts serialized, like the redis store does, so every read
// hands out an independent copy.
type memStore struct {
	data    map[string][]byte
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (s *memStore) SaveDraft(_ context.Context, sessionID string, d *domain.BookingDraft) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.data[sessionID] = raw
	return nil
}

func (s *memStore) GetDraft(_ context.Context, sessionID string) (*domain.BookingDraft, error) {
	raw, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	var d domain.BookingDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *memStore) DeleteDraft(_ context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

var fixedNow = time.Date(2024, time.March, 7, 9, 30, 0, 0, time.UTC)

func sequentialIDs() draft.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestService(repo *MockBookingRepository, store *memStore, producer Producer) *BookingService {
	return NewBookingService(
		repo,
		store,
		schema.NewMapper(config.DefaultSchema(), zerolog.Nop()),
		validation.NewDraftValidator(),
		producer,
		"Nepalese",
		zerolog.Nop(),
		WithAuditTopic("booking-audit"),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(sequentialIDs()),
	)
}

func fillRequired(e *draft.Editor) error {
	if err := e.UpdateTravellerField(0, "firstName", "Sita"); err != nil {
		return err
	}
	return e.UpdateTravellerField(0, "lastName", "Rai")
}

func TestNewBookingService_WithOptions(t *testing.T) {
	service := NewBookingService(nil, newMemStore(), nil, nil, nil, "Nepalese", zerolog.Nop(), WithAuditTopic("audit"))

	assert.Equal(t, "audit", service.auditTopic)
	assert.Equal(t, "Nepalese", service.defaultNationality)
	assert.NotNil(t, service.now)
	assert.NotNil(t, service.newID)
}

func TestBookingService_NewDraft(t *testing.T) {
	store := newMemStore()
	service := newTestService(&MockBookingRepository{}, store, nil)

	session, err := service.NewDraft(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	require.Len(t, session.Draft.Travellers, 1)
	assert.Equal(t, "t1", session.Draft.Travellers[0].ID)
	assert.Equal(t, "Nepalese", session.Legacy.Nationality)
	assert.Equal(t, "0.00", session.GrandTotal)
	assert.Contains(t, store.data, session.ID)
}

func TestBookingService_NewDraft_StoreError(t *testing.T) {
	store := newMemStore()
	store.saveErr = errors.New("redis down")
	service := newTestService(&MockBookingRepository{}, store, nil)

	_, err := service.NewDraft(context.Background())

	assert.EqualError(t, err, "redis down")
}

func TestBookingService_Edit(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&MockBookingRepository{}, newMemStore(), nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	edited, err := service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		if err := e.UpdateTravellerField(0, "firstName", "Sita"); err != nil {
			return err
		}
		if err := e.SetField("sellingPrice", "100"); err != nil {
			return err
		}
		return e.SetAddonPrice("meals", "10")
	})
	require.NoError(t, err)
	assert.Equal(t, "Sita", edited.Legacy.FirstName)
	assert.Equal(t, "10.00", edited.AddonsSubtotal)
	assert.Equal(t, "110.00", edited.GrandTotal)

	got, err := service.GetDraft(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, edited.Draft, got.Draft)
}

func TestBookingService_Edit_FailureKeepsSession(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&MockBookingRepository{}, newMemStore(), nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		if err := e.UpdateTravellerField(0, "firstName", "Half"); err != nil {
			return err
		}
		return e.RemoveTraveller(5)
	})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)

	got, err := service.GetDraft(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Draft.Travellers[0].FirstName)
}

func TestBookingService_GetDraft_NotFound(t *testing.T) {
	service := newTestService(&MockBookingRepository{}, newMemStore(), nil)

	_, err := service.GetDraft(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}

func TestBookingService_AssociateCustomer_PublishesAudit(t *testing.T) {
	ctx := context.Background()
	producer := &MockProducer{}
	service := newTestService(&MockBookingRepository{}, newMemStore(), producer)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	candidate := domain.CustomerCandidate{ID: "c-9", FirstName: "Gita", LastName: "KC", PassportNumber: "PA9"}
	bookingLink := domain.AuditEvent{
		Timestamp: fixedNow,
		ActorID:   "agent-1",
		Context:   fmt.Sprintf("draft:%s/customerId", session.ID),
		NewValue:  "c-9",
	}
	travellerLink := domain.AuditEvent{
		Timestamp: fixedNow,
		ActorID:   "agent-1",
		Context:   fmt.Sprintf("draft:%s/travellers[0]", session.ID),
		NewValue:  "c-9",
	}
	producer.On("PublishWithRetry", ctx, "booking-audit", bookingLink.Context, bookingLink, 3).Return(nil).Once()
	producer.On("PublishWithRetry", ctx, "booking-audit", travellerLink.Context, travellerLink, 3).Return(nil).Once()

	updated, err := service.AssociateCustomer(ctx, session.ID, "agent-1", 0, candidate)

	require.NoError(t, err)
	assert.Equal(t, "c-9", updated.Draft.CustomerID)
	assert.Equal(t, "Gita", updated.Legacy.FirstName)
	assert.Equal(t, "PA9", updated.Legacy.PassportNumber)
	producer.AssertExpectations(t)

	// same customer again is not a change
	_, err = service.AssociateCustomer(ctx, session.ID, "agent-1", 0, candidate)
	require.NoError(t, err)
	producer.AssertNumberOfCalls(t, "PublishWithRetry", 2)
}

func TestBookingService_Edit_AuditsCustomerLinkChanges(t *testing.T) {
	producer := &MockProducer{}
	service := newTestService(&MockBookingRepository{}, newMemStore(), producer)
	ctx := WithActor(context.Background(), "agent-7")
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	var published []domain.AuditEvent
	producer.On("PublishWithRetry", ctx, "booking-audit", mock.Anything, mock.AnythingOfType("domain.AuditEvent"), 3).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(3).(domain.AuditEvent))
		}).Return(nil)

	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		return e.SetField("customerId", "c-9")
	})
	require.NoError(t, err)

	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		e.AddTraveller()
		return e.UpdateTravellerField(1, "customerId", "c-7")
	})
	require.NoError(t, err)

	removed, err := service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		return e.RemoveTraveller(1)
	})
	require.NoError(t, err)
	assert.Len(t, removed.Draft.Travellers, 1)

	// edits that leave the links alone are not audited
	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		return e.SetField("pnr", "XK9Q2L")
	})
	require.NoError(t, err)

	require.Len(t, published, 3)
	assert.Equal(t, fmt.Sprintf("draft:%s/customerId", session.ID), published[0].Context)
	assert.Equal(t, "", published[0].OldValue)
	assert.Equal(t, "c-9", published[0].NewValue)
	assert.Equal(t, "agent-7", published[0].ActorID)
	assert.Equal(t, fixedNow, published[0].Timestamp)

	assert.Equal(t, fmt.Sprintf("draft:%s/travellers[1]", session.ID), published[1].Context)
	assert.Equal(t, "c-7", published[1].NewValue)

	assert.Contains(t, published[2].Context, fmt.Sprintf("draft:%s/travellers/", session.ID))
	assert.Equal(t, "c-7", published[2].OldValue)
	assert.Equal(t, "", published[2].NewValue)
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, "", ActorFromContext(context.Background()))
	assert.Equal(t, "agent-1", ActorFromContext(WithActor(context.Background(), "agent-1")))
}

func TestBookingService_AssociateCustomer_SecondaryTraveller(t *testing.T) {
	ctx := context.Background()
	producer := &MockProducer{}
	service := newTestService(&MockBookingRepository{}, newMemStore(), producer)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)
	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		e.AddTraveller()
		return nil
	})
	require.NoError(t, err)

	producer.On("PublishWithRetry", ctx, "booking-audit", mock.Anything, mock.AnythingOfType("domain.AuditEvent"), 3).
		Return(errors.New("broker unavailable")).Once()

	updated, err := service.AssociateCustomer(ctx, session.ID, "agent-1", 1, domain.CustomerCandidate{ID: "c-2", FirstName: "Hari"})

	require.NoError(t, err, "audit failures must not fail the edit")
	assert.Empty(t, updated.Draft.CustomerID)
	assert.Equal(t, "c-2", updated.Draft.Travellers[1].CustomerID)
	producer.AssertExpectations(t)

	_, err = service.AssociateCustomer(ctx, session.ID, "agent-1", 4, domain.CustomerCandidate{ID: "c-3"})
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestBookingService_Preview(t *testing.T) {
	ctx := context.Background()
	service := newTestService(&MockBookingRepository{}, newMemStore(), nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)
	_, err = service.Edit(ctx, session.ID, func(e *draft.Editor) error {
		if err := e.SetField("pnr", "XK9Q2L"); err != nil {
			return err
		}
		return e.SetField("agency", "Acme Travels")
	})
	require.NoError(t, err)

	preview, err := service.Preview(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, "bookings", preview.Table)
	assert.Equal(t, "Acme Travels", preview.Record["issuedthroughagency"])
	assert.Equal(t, "XK9Q2L01", preview.Record["ticketnumber"])
	assert.Equal(t, "7", preview.Record["issueday"])
	assert.NotContains(t, preview.Record, "dob")
	assert.NotContains(t, preview.Record, "agency")
}

func TestBookingService_Submit_Insert(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	store := newMemStore()
	service := newTestService(repo, store, nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)
	_, err = service.Edit(ctx, session.ID, fillRequired)
	require.NoError(t, err)

	repo.On("Insert", ctx, mock.MatchedBy(func(rec domain.Record) bool {
		return rec["travellerfirstname"] == "Sita" && rec["bookingstatus"] == "Pending"
	})).Return("b-42", nil).Once()

	result, err := service.Submit(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, &SubmitResult{BookingID: "b-42", Created: true}, result)
	assert.NotContains(t, store.data, session.ID)
	repo.AssertExpectations(t)
}

func TestBookingService_Submit_ValidationErrorKeepsDraft(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	store := newMemStore()
	service := newTestService(repo, store, nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	_, err = service.Submit(ctx, session.ID)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "travellers[0].firstName")
	assert.Contains(t, store.data, session.ID)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestBookingService_Submit_PersistenceErrorKeepsDraft(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	store := newMemStore()
	service := newTestService(repo, store, nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)
	_, err = service.Edit(ctx, session.ID, fillRequired)
	require.NoError(t, err)
	before := append([]byte(nil), store.data[session.ID]...)

	pgErr := &domain.PersistenceError{Code: "23502", Message: "null value in column", Hint: "check pnr"}
	repo.On("Insert", ctx, mock.Anything).Return("", pgErr).Once()

	_, err = service.Submit(ctx, session.ID)

	var pe *domain.PersistenceError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "23502", pe.Code)
	assert.Equal(t, before, store.data[session.ID])
	repo.AssertExpectations(t)
}

func TestBookingService_LoadAndSubmit_Update(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	store := newMemStore()
	service := newTestService(repo, store, nil)

	row := domain.Record{
		"id":                  "b-7",
		"pnr":                 "XK9Q2L",
		"bookingstatus":       "confirm",
		"issuedthroughagency": "Acme Travels",
		"travellerfirstname":  "Sita",
		"travellerlastname":   "Rai",
		"nationality":         "Indian",
		"sellingprice":        "1500.50",
	}
	repo.On("GetByID", ctx, "b-7").Return(row, nil).Once()

	session, err := service.LoadBooking(ctx, "b-7")
	require.NoError(t, err)
	assert.Equal(t, "b-7", session.Draft.BookingID)
	assert.Equal(t, domain.BookingStatusConfirmed, session.Draft.Status)
	assert.Equal(t, "Acme Travels", session.Draft.Agency)
	assert.Equal(t, "Sita", session.Draft.Travellers[0].FirstName)
	assert.Equal(t, "Indian", session.Legacy.Nationality)
	assert.Equal(t, "1500.50", session.GrandTotal)

	repo.On("Update", ctx, "b-7", mock.MatchedBy(func(rec domain.Record) bool {
		return rec["bookingstatus"] == "Confirmed" && rec["issuedthroughagency"] == "Acme Travels"
	})).Return(nil).Once()

	result, err := service.Submit(ctx, session.ID)

	require.NoError(t, err)
	assert.Equal(t, "b-7", result.BookingID)
	assert.False(t, result.Created)
	repo.AssertExpectations(t)
}

func TestBookingService_LoadBooking_DropsUnknownAddons(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	var logs bytes.Buffer
	service := NewBookingService(
		repo,
		newMemStore(),
		schema.NewMapper(config.DefaultSchema(), zerolog.Nop()),
		validation.NewDraftValidator(),
		nil,
		"Nepalese",
		zerolog.New(&logs),
		WithIDGenerator(sequentialIDs()),
	)

	row := domain.Record{
		"id":           "b-8",
		"sellingprice": "100",
		"prices":       map[string]any{"meals": "10", "lounge": "50"},
	}
	repo.On("GetByID", ctx, "b-8").Return(row, nil).Once()

	session, err := service.LoadBooking(ctx, "b-8")

	require.NoError(t, err)
	assert.Equal(t, "10.00", session.AddonsSubtotal)
	assert.Equal(t, "110.00", session.GrandTotal)
	assert.NotContains(t, session.Draft.Prices, domain.AddonName("lounge"))
	assert.Contains(t, logs.String(), `"field":"lounge"`)
}

func TestBookingService_LoadBooking_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := &MockBookingRepository{}
	service := newTestService(repo, newMemStore(), nil)
	repo.On("GetByID", ctx, "nope").Return(nil, domain.ErrBookingNotFound).Once()

	_, err := service.LoadBooking(ctx, "nope")

	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBookingService_Discard(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	service := newTestService(&MockBookingRepository{}, store, nil)
	session, err := service.NewDraft(ctx)
	require.NoError(t, err)

	require.NoError(t, service.Discard(ctx, session.ID))

	_, err = service.GetDraft(ctx, session.ID)
	assert.ErrorIs(t, err, domain.ErrDraftNotFound)
}
