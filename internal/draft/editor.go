// Package draft owns the in-memory booking being created or edited and the
// rules that keep its redundant representations consistent before it is saved.
package draft

import (
	"fmt"
	"slices"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/google/uuid"
)

// IDGenerator produces stable local identifiers for new travellers.
type IDGenerator func() string

// Editor applies UI edits to a single BookingDraft. It is not safe for
// concurrent use; a draft belongs to exactly one editing session.
type Editor struct {
	draft              *domain.BookingDraft
	defaultNationality string
	newID              IDGenerator
	strayAddons        []string
}

// New starts an empty booking: one blank traveller, one empty one-way itinerary
// and every add-on present but disabled.
func New(defaultNationality string, newID IDGenerator) *Editor {
	return Wrap(&domain.BookingDraft{}, defaultNationality, newID)
}

// Wrap adopts an existing draft, filling in whatever structure it is missing.
func Wrap(d *domain.BookingDraft, defaultNationality string, newID IDGenerator) *Editor {
	if newID == nil {
		newID = uuid.NewString
	}
	e := &Editor{draft: d, defaultNationality: defaultNationality, newID: newID}
	e.normalize()
	return e
}

func (e *Editor) Draft() *domain.BookingDraft {
	return e.draft
}

func (e *Editor) normalize() {
	d := e.draft

	for i := range d.Travellers {
		if d.Travellers[i].ID == "" {
			d.Travellers[i].ID = e.newID()
		}
	}
	if len(d.Travellers) == 0 {
		d.Travellers = []domain.Traveller{e.blankTraveller()}
	}

	switch d.TripType {
	case domain.TripTypeOneWay, domain.TripTypeRoundTrip, domain.TripTypeMultiCity:
		// extra itineraries are kept and the trip type follows them
		if len(d.Itineraries) > maxItineraries(d.TripType) {
			d.TripType = inferTripType(len(d.Itineraries))
		}
	default:
		d.TripType = inferTripType(len(d.Itineraries))
	}
	for len(d.Itineraries) < minItineraries(d.TripType) {
		d.Itineraries = append(d.Itineraries, emptyItinerary())
	}
	for i := range d.Itineraries {
		if d.Itineraries[i].Segments == nil {
			d.Itineraries[i].Segments = []domain.FlightSegment{}
		}
	}

	if d.Addons == nil {
		d.Addons = domain.Addons{}
	}
	if d.Prices == nil {
		d.Prices = domain.Prices{}
	}
	e.dropStrayAddons()
	for _, name := range domain.AddonNames() {
		if _, ok := d.Addons[name]; !ok {
			d.Addons[name] = false
		}
		if _, ok := d.Prices[name]; !ok {
			d.Prices[name] = ""
		}
	}

	d.Status = domain.NormalizeStatus(string(d.Status))
	d.PaymentStatus = domain.NormalizePaymentStatus(string(d.PaymentStatus))
}

// StrayAddons names the add-on keys outside the fixed set that were dropped
// when the draft was adopted.
func (e *Editor) StrayAddons() []string {
	return e.strayAddons
}

func (e *Editor) dropStrayAddons() {
	d := e.draft
	for name := range d.Addons {
		if !domain.IsAddon(string(name)) {
			delete(d.Addons, name)
			e.strayAddons = append(e.strayAddons, string(name))
		}
	}
	for name := range d.Prices {
		if !domain.IsAddon(string(name)) {
			delete(d.Prices, name)
			if !slices.Contains(e.strayAddons, string(name)) {
				e.strayAddons = append(e.strayAddons, string(name))
			}
		}
	}
	slices.Sort(e.strayAddons)
}

func (e *Editor) blankTraveller() domain.Traveller {
	return domain.Traveller{
		ID:          e.newID(),
		Nationality: e.defaultNationality,
	}
}

func checkIndex(kind string, index, length int) error {
	if index < 0 || index >= length {
		return fmt.Errorf("%s %d of %d: %w", kind, index, length, domain.ErrIndexOutOfRange)
	}
	return nil
}

func stringValue(field string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s expects a string, got %T: %w", field, value, domain.ErrInvalidValue)
	}
	return s, nil
}
