package lookup

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/repository"
)

type LookupUseCase interface {
	Search(ctx context.Context, sessionKey, query string) ([]domain.CustomerCandidate, error)
}

// LookupService answers type-ahead customer searches. Each session key has at
// most one live query: a newer call for the same key supersedes any call still
// waiting out the debounce window or still in flight.
type LookupService struct {
	customers repository.CustomerRepository
	debounce  time.Duration
	limit     int
	after     func(time.Duration) <-chan time.Time

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func NewLookupService(customers repository.CustomerRepository, debounce time.Duration, limit int) *LookupService {
	return &LookupService{
		customers: customers,
		debounce:  debounce,
		limit:     limit,
		after:     time.After,
		latest:    make(map[string]uint64),
	}
}

func (s *LookupService) Search(ctx context.Context, sessionKey, query string) ([]domain.CustomerCandidate, error) {
	ticket := s.begin(sessionKey)
	q := strings.TrimSpace(query)
	if q == "" {
		s.finish(sessionKey, ticket)
		return []domain.CustomerCandidate{}, nil
	}

	if s.debounce > 0 {
		select {
		case <-ctx.Done():
			s.finish(sessionKey, ticket)
			return nil, ctx.Err()
		case <-s.after(s.debounce):
		}
		if !s.current(sessionKey, ticket) {
			return nil, domain.ErrSuperseded
		}
	}

	results, err := s.customers.Search(ctx, q, s.limit)
	if !s.finish(sessionKey, ticket) {
		return nil, domain.ErrSuperseded
	}
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.CustomerCandidate{}
	}
	return results, nil
}

func (s *LookupService) begin(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest[key] = s.seq
	return s.seq
}

func (s *LookupService) current(key string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[key] == ticket
}

// finish reports whether ticket was still the latest for key and, if so,
// forgets the key.
func (s *LookupService) finish(key string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[key] != ticket {
		return false
	}
	delete(s.latest, key)
	return true
}

var _ LookupUseCase = (*LookupService)(nil)
