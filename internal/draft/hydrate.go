package draft

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

// looseString accepts the JSON strings, numbers and nulls a stored row can hold
// for text-like columns (numeric prices, date columns, integer issue parts).
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*s = looseString(data)
	default:
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = looseString(data)
	}
	return nil
}

type storedBooking struct {
	BookingID     looseString `json:"id"`
	Email         looseString `json:"email"`
	Phone         looseString `json:"phone"`
	CustomerID    looseString `json:"customerId"`
	PNR           looseString `json:"pnr"`
	TicketNumber  looseString `json:"ticketNumber"`
	Status        looseString `json:"status"`
	Agency        looseString `json:"agency"`
	HandledBy     looseString `json:"handledBy"`
	PaymentStatus looseString `json:"paymentStatus"`
	PaymentMethod looseString `json:"paymentMethod"`
	CostPrice     looseString `json:"costPrice"`
	SellingPrice  looseString `json:"sellingPrice"`
	TripType      looseString `json:"tripType"`
	Airline       looseString `json:"airline"`
	Origin        looseString `json:"origin"`
	Destination   looseString `json:"destination"`
	DepartureDate looseString `json:"departureDate"`
	ReturnDate    looseString `json:"returnDate"`
	Remarks       looseString `json:"remarks"`
	IssueDay      looseString `json:"issueDay"`
	IssueMonth    looseString `json:"issueMonth"`
	IssueYear     looseString `json:"issueYear"`

	TravellerFirstName looseString `json:"travellerFirstName"`
	TravellerLastName  looseString `json:"travellerLastName"`
	PassportNumber     looseString `json:"passportNumber"`
	PassportExpiry     looseString `json:"passportExpiry"`
	DOB                looseString `json:"dob"`
	Nationality        looseString `json:"nationality"`

	Travellers  []domain.Traveller     `json:"travellers"`
	Itineraries []domain.Itinerary     `json:"itineraries"`
	Addons      domain.Addons          `json:"addons"`
	Prices      map[string]looseString `json:"prices"`
}

// FromRecord rebuilds an editable draft from a stored booking expressed in the
// draft vocabulary. Rows written before travellers were stored as an array
// only carry the flat fields; those seed travellers[0].
func FromRecord(rec domain.Record, defaultNationality string, newID IDGenerator) (*Editor, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode stored booking: %w", err)
	}
	var s storedBooking
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode stored booking: %w", err)
	}

	d := &domain.BookingDraft{
		BookingID:     string(s.BookingID),
		Email:         string(s.Email),
		Phone:         string(s.Phone),
		CustomerID:    string(s.CustomerID),
		Travellers:    s.Travellers,
		TripType:      domain.TripType(s.TripType),
		Itineraries:   s.Itineraries,
		Addons:        s.Addons,
		PNR:           string(s.PNR),
		TicketNumber:  string(s.TicketNumber),
		Status:        domain.BookingStatus(s.Status),
		Agency:        string(s.Agency),
		HandledBy:     string(s.HandledBy),
		PaymentStatus: domain.PaymentStatus(s.PaymentStatus),
		PaymentMethod: string(s.PaymentMethod),
		CostPrice:     string(s.CostPrice),
		SellingPrice:  string(s.SellingPrice),
		Airline:       string(s.Airline),
		Origin:        string(s.Origin),
		Destination:   string(s.Destination),
		DepartureDate: string(s.DepartureDate),
		ReturnDate:    string(s.ReturnDate),
		Remarks:       string(s.Remarks),
		IssueDay:      string(s.IssueDay),
		IssueMonth:    string(s.IssueMonth),
		IssueYear:     string(s.IssueYear),
	}
	if s.Prices != nil {
		d.Prices = domain.Prices{}
		for k, v := range s.Prices {
			d.Prices[domain.AddonName(k)] = string(v)
		}
	}

	e := Wrap(d, defaultNationality, newID)
	e.ReconcileLegacy(domain.LegacyTraveller{
		FirstName:      string(s.TravellerFirstName),
		LastName:       string(s.TravellerLastName),
		PassportNumber: string(s.PassportNumber),
		PassportExpiry: string(s.PassportExpiry),
		DOB:            string(s.DOB),
		Nationality:    string(s.Nationality),
	})
	return e, nil
}
