package domain

import (
	"maps"
	"slices"
	"strings"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusTicketed  BookingStatus = "Ticketed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusRefunded  BookingStatus = "Refunded"
)

var bookingStatusAliases = map[string]BookingStatus{
	"":          BookingStatusPending,
	"pending":   BookingStatusPending,
	"hold":      BookingStatusPending,
	"on hold":   BookingStatusPending,
	"confirm":   BookingStatusConfirmed,
	"confirmed": BookingStatusConfirmed,
	"ticketed":  BookingStatusTicketed,
	"issued":    BookingStatusTicketed,
	"cancel":    BookingStatusCancelled,
	"cancelled": BookingStatusCancelled,
	"canceled":  BookingStatusCancelled,
	"void":      BookingStatusCancelled,
	"voided":    BookingStatusCancelled,
	"refund":    BookingStatusRefunded,
	"refunded":  BookingStatusRefunded,
}

// NormalizeStatus folds the status spellings used by older screens into one
// vocabulary. Unknown values are kept as entered.
func NormalizeStatus(s string) BookingStatus {
	trimmed := strings.TrimSpace(s)
	if status, ok := bookingStatusAliases[strings.ToLower(trimmed)]; ok {
		return status
	}
	return BookingStatus(trimmed)
}

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "Unpaid"
	PaymentStatusPartial PaymentStatus = "Partial"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

var paymentStatusAliases = map[string]PaymentStatus{
	"":               PaymentStatusUnpaid,
	"unpaid":         PaymentStatusUnpaid,
	"due":            PaymentStatusUnpaid,
	"pending":        PaymentStatusUnpaid,
	"partial":        PaymentStatusPartial,
	"partially paid": PaymentStatusPartial,
	"advance":        PaymentStatusPartial,
	"paid":           PaymentStatusPaid,
	"fully paid":     PaymentStatusPaid,
	"completed":      PaymentStatusPaid,
}

func NormalizePaymentStatus(s string) PaymentStatus {
	trimmed := strings.TrimSpace(s)
	if status, ok := paymentStatusAliases[strings.ToLower(trimmed)]; ok {
		return status
	}
	return PaymentStatus(trimmed)
}

// BookingDraft is the in-memory booking owned by a single editing session.
type BookingDraft struct {
	BookingID string `json:"bookingId,omitempty"`

	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone"`
	CustomerID string `json:"customerId,omitempty"`

	Travellers  []Traveller `json:"travellers" validate:"min=1,dive"`
	TripType    TripType    `json:"tripType"`
	Itineraries []Itinerary `json:"itineraries"`
	Addons      Addons      `json:"addons"`
	Prices      Prices      `json:"prices"`

	PNR           string        `json:"pnr"`
	TicketNumber  string        `json:"ticketNumber"`
	Status        BookingStatus `json:"status"`
	Agency        string        `json:"agency"`
	HandledBy     string        `json:"handledBy"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod"`
	CostPrice     string        `json:"costPrice" validate:"omitempty,numeric"`
	SellingPrice  string        `json:"sellingPrice" validate:"omitempty,numeric"`
	Airline       string        `json:"airline"`
	Origin        string        `json:"origin"`
	Destination   string        `json:"destination"`
	DepartureDate string        `json:"departureDate"`
	ReturnDate    string        `json:"returnDate"`
	Remarks       string        `json:"remarks"`

	IssueDay   string `json:"issueDay,omitempty"`
	IssueMonth string `json:"issueMonth,omitempty"`
	IssueYear  string `json:"issueYear,omitempty"`
}

// LegacyTraveller is the single-traveller view older booking rows were built on.
type LegacyTraveller struct {
	FirstName      string `json:"travellerFirstName"`
	LastName       string `json:"travellerLastName"`
	PassportNumber string `json:"passportNumber"`
	PassportExpiry string `json:"passportExpiry"`
	DOB            string `json:"dob"`
	Nationality    string `json:"nationality"`
}

// Legacy projects the primary traveller onto the flat legacy fields.
func (d *BookingDraft) Legacy() LegacyTraveller {
	if d == nil || len(d.Travellers) == 0 {
		return LegacyTraveller{}
	}
	p := d.Travellers[0]
	return LegacyTraveller{
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		PassportNumber: p.PassportNumber,
		PassportExpiry: p.PassportExpiry,
		DOB:            p.DOB,
		Nationality:    p.Nationality,
	}
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (d *BookingDraft) Clone() *BookingDraft {
	if d == nil {
		return nil
	}
	c := *d
	c.Travellers = slices.Clone(d.Travellers)
	c.Itineraries = slices.Clone(d.Itineraries)
	for i, it := range c.Itineraries {
		c.Itineraries[i] = Itinerary{Segments: slices.Clone(it.Segments)}
	}
	c.Addons = maps.Clone(d.Addons)
	c.Prices = maps.Clone(d.Prices)
	return &c
}
