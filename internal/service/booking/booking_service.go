package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/Domenick1991/travelbackoffice/internal/draft"
	"github.com/Domenick1991/travelbackoffice/internal/repository"
	"github.com/Domenick1991/travelbackoffice/internal/schema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const auditPublishRetries = 3

type BookingUseCase interface {
	NewDraft(ctx context.Context) (*Session, error)
	LoadBooking(ctx context.Context, bookingID string) (*Session, error)
	GetDraft(ctx context.Context, sessionID string) (*Session, error)
	Edit(ctx context.Context, sessionID string, fn func(*draft.Editor) error) (*Session, error)
	AssociateCustomer(ctx context.Context, sessionID, actorID string, index int, candidate domain.CustomerCandidate) (*Session, error)
	Preview(ctx context.Context, sessionID string) (*Preview, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
	Discard(ctx context.Context, sessionID string) error
}

type DraftStore interface {
	SaveDraft(ctx context.Context, sessionID string, d *domain.BookingDraft) error
	GetDraft(ctx context.Context, sessionID string) (*domain.BookingDraft, error)
	DeleteDraft(ctx context.Context, sessionID string) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

type Validator interface {
	Validate(d *domain.BookingDraft) error
}

// Session is a draft as the editing screens see it, with totals precomputed.
type Session struct {
	ID             string                 `json:"id"`
	Draft          *domain.BookingDraft   `json:"draft"`
	Legacy         domain.LegacyTraveller `json:"legacy"`
	AddonsSubtotal string                 `json:"addonsSubtotal"`
	GrandTotal     string                 `json:"grandTotal"`
}

// Preview is what Submit would write, without writing it.
type Preview struct {
	SessionID string        `json:"sessionId"`
	Table     string        `json:"table"`
	Record    domain.Record `json:"record"`
	Dropped   []string      `json:"dropped,omitempty"`
}

type SubmitResult struct {
	BookingID string   `json:"bookingId"`
	Created   bool     `json:"created"`
	Dropped   []string `json:"dropped,omitempty"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	drafts             DraftStore
	mapper             *schema.Mapper
	validator          Validator
	producer           Producer
	logger             zerolog.Logger
	defaultNationality string
	auditTopic         string
	now                func() time.Time
	newID              draft.IDGenerator
}

type BookingServiceOption func(*BookingService)

func WithAuditTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.auditTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithIDGenerator(newID draft.IDGenerator) BookingServiceOption {
	return func(s *BookingService) {
		s.newID = newID
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	drafts DraftStore,
	mapper *schema.Mapper,
	validator Validator,
	producer Producer,
	defaultNationality string,
	logger zerolog.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:           bookings,
		drafts:             drafts,
		mapper:             mapper,
		validator:          validator,
		producer:           producer,
		logger:             logger.With().Str("component", "booking_service").Logger(),
		defaultNationality: defaultNationality,
		now:                time.Now,
		newID:              uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) NewDraft(ctx context.Context) (*Session, error) {
	e := draft.New(s.defaultNationality, s.newID)
	return s.open(ctx, e)
}

func (s *BookingService) LoadBooking(ctx context.Context, bookingID string) (*Session, error) {
	row, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	e, err := draft.FromRecord(s.mapper.Unmap(row), s.defaultNationality, s.newID)
	if err != nil {
		return nil, err
	}
	for _, name := range e.StrayAddons() {
		s.logger.Warn().Str("booking", bookingID).Str("field", name).Msg("unknown add-on in stored booking, dropping")
	}
	return s.open(ctx, e)
}

func (s *BookingService) GetDraft(ctx context.Context, sessionID string) (*Session, error) {
	e, err := s.editor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newSession(sessionID, e), nil
}

// Edit applies fn to a fresh copy of the stored draft. The copy is saved only
// when fn succeeds, so a rejected edit leaves the session untouched. Customer
// link changes are audited under the actor carried by ctx.
func (s *BookingService) Edit(ctx context.Context, sessionID string, fn func(*draft.Editor) error) (*Session, error) {
	return s.edit(ctx, sessionID, ActorFromContext(ctx), fn)
}

// AssociateCustomer fills a traveller slot from a lookup result. Selecting for
// the primary traveller also links the booking itself to the customer.
func (s *BookingService) AssociateCustomer(ctx context.Context, sessionID, actorID string, index int, candidate domain.CustomerCandidate) (*Session, error) {
	return s.edit(ctx, sessionID, actorID, func(e *draft.Editor) error {
		if err := e.ApplyCandidate(index, candidate); err != nil {
			return err
		}
		if index == 0 {
			e.SetCustomer(candidate.ID)
		}
		return nil
	})
}

func (s *BookingService) edit(ctx context.Context, sessionID, actorID string, fn func(*draft.Editor) error) (*Session, error) {
	e, err := s.editor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	before := e.Draft().Clone()
	if err := fn(e); err != nil {
		return nil, err
	}
	if err := s.drafts.SaveDraft(ctx, sessionID, e.Draft()); err != nil {
		return nil, err
	}

	for _, event := range customerLinkChanges(sessionID, before, e.Draft()) {
		event.Timestamp = s.now().UTC()
		event.ActorID = actorID
		s.audit(ctx, event)
	}
	return newSession(sessionID, e), nil
}

// customerLinkChanges lists every customer association that differs between
// before and after: the booking link first, then travellers matched by id.
// A removed traveller that carried a link counts as unlinking it.
func customerLinkChanges(sessionID string, before, after *domain.BookingDraft) []domain.AuditEvent {
	var events []domain.AuditEvent
	if before.CustomerID != after.CustomerID {
		events = append(events, domain.AuditEvent{
			Context:  fmt.Sprintf("draft:%s/customerId", sessionID),
			OldValue: before.CustomerID,
			NewValue: after.CustomerID,
		})
	}

	previous := make(map[string]string, len(before.Travellers))
	for _, t := range before.Travellers {
		previous[t.ID] = t.CustomerID
	}
	for i, t := range after.Travellers {
		old := previous[t.ID]
		delete(previous, t.ID)
		if old != t.CustomerID {
			events = append(events, domain.AuditEvent{
				Context:  fmt.Sprintf("draft:%s/travellers[%d]", sessionID, i),
				OldValue: old,
				NewValue: t.CustomerID,
			})
		}
	}
	for _, t := range before.Travellers {
		if old, ok := previous[t.ID]; ok && old != "" {
			events = append(events, domain.AuditEvent{
				Context:  fmt.Sprintf("draft:%s/travellers/%s", sessionID, t.ID),
				OldValue: old,
			})
		}
	}
	return events
}

func (s *BookingService) Preview(ctx context.Context, sessionID string) (*Preview, error) {
	e, err := s.editor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	rec, dropped := s.mapper.Map(draft.ToPersistableRecord(e.Draft(), s.now()))
	return &Preview{SessionID: sessionID, Table: s.mapper.Table(), Record: rec, Dropped: dropped}, nil
}

// Submit validates, assembles and maps the draft, then inserts it or updates
// the booking it was loaded from. The session is discarded only after the
// write succeeds.
func (s *BookingService) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	e, err := s.editor(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	d := e.Draft()

	if s.validator != nil {
		if err := s.validator.Validate(d); err != nil {
			return nil, err
		}
	}

	rec, dropped := s.mapper.Map(draft.ToPersistableRecord(d, s.now()))
	result := &SubmitResult{BookingID: d.BookingID, Dropped: dropped}

	if d.BookingID == "" {
		id, err := s.bookings.Insert(ctx, rec)
		if err != nil {
			s.logWriteFailure(err, sessionID, "insert")
			return nil, err
		}
		result.BookingID = id
		result.Created = true
	} else if err := s.bookings.Update(ctx, d.BookingID, rec); err != nil {
		s.logWriteFailure(err, sessionID, "update")
		return nil, err
	}

	if err := s.drafts.DeleteDraft(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("discard submitted draft")
	}
	s.logger.Info().Str("session", sessionID).Str("booking", result.BookingID).Bool("created", result.Created).Msg("booking saved")
	return result, nil
}

func (s *BookingService) Discard(ctx context.Context, sessionID string) error {
	return s.drafts.DeleteDraft(ctx, sessionID)
}

func (s *BookingService) open(ctx context.Context, e *draft.Editor) (*Session, error) {
	sessionID := uuid.NewString()
	if err := s.drafts.SaveDraft(ctx, sessionID, e.Draft()); err != nil {
		return nil, err
	}
	return newSession(sessionID, e), nil
}

func (s *BookingService) editor(ctx context.Context, sessionID string) (*draft.Editor, error) {
	d, err := s.drafts.GetDraft(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return draft.Wrap(d, s.defaultNationality, s.newID), nil
}

func (s *BookingService) audit(ctx context.Context, event domain.AuditEvent) {
	if s.producer == nil || s.auditTopic == "" {
		return
	}
	if err := s.producer.PublishWithRetry(ctx, s.auditTopic, event.Context, event, auditPublishRetries); err != nil {
		s.logger.Warn().Err(err).Str("context", event.Context).Msg("publish audit event")
	}
}

func (s *BookingService) logWriteFailure(err error, sessionID, op string) {
	ev := s.logger.Error().Err(err).Str("session", sessionID).Str("op", op)
	var pe *domain.PersistenceError
	if errors.As(err, &pe) {
		ev = ev.Str("code", pe.Code).Str("details", pe.Details).Str("hint", pe.Hint)
	}
	ev.Msg("booking write failed, draft kept")
}

func newSession(id string, e *draft.Editor) *Session {
	d := e.Draft()
	return &Session{
		ID:             id,
		Draft:          d,
		Legacy:         d.Legacy(),
		AddonsSubtotal: draft.FormatMoney(e.AddonsSubtotal()),
		GrandTotal:     draft.FormatMoney(e.GrandTotal()),
	}
}

var _ BookingUseCase = (*BookingService)(nil)
