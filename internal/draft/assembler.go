package draft

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

// ToDateOrNull turns a blank date into nil and passes anything else through
// untouched; storage rejects malformed dates.
func ToDateOrNull(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// ToPersistableRecord assembles the record handed to the schema mapper. It
// fills defaults (issue date from now, ticket number from the PNR) and embeds
// the travellers array alongside the flat primary traveller fields. The draft
// is not modified.
func ToPersistableRecord(d *domain.BookingDraft, now time.Time) domain.Record {
	legacy := d.Legacy()

	ticketNumber := d.TicketNumber
	if strings.TrimSpace(ticketNumber) == "" && strings.TrimSpace(d.PNR) != "" {
		ticketNumber = d.PNR + "01"
	}

	status := d.Status
	if status == "" {
		status = domain.BookingStatusPending
	}
	paymentStatus := d.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = domain.PaymentStatusUnpaid
	}

	return domain.Record{
		"email":        d.Email,
		"phone":        d.Phone,
		"customerId":   d.CustomerID,
		"pnr":          d.PNR,
		"ticketNumber": ticketNumber,

		"status":        string(status),
		"agency":        d.Agency,
		"handledBy":     d.HandledBy,
		"paymentStatus": string(paymentStatus),
		"paymentMethod": d.PaymentMethod,
		"costPrice":     d.CostPrice,
		"sellingPrice":  d.SellingPrice,
		"addonsTotal":   FormatMoney(AddonsSubtotal(d)),
		"grandTotal":    FormatMoney(GrandTotal(d)),

		"tripType":      string(d.TripType),
		"airline":       d.Airline,
		"origin":        d.Origin,
		"destination":   d.Destination,
		"departureDate": ToDateOrNull(d.DepartureDate),
		"returnDate":    ToDateOrNull(d.ReturnDate),
		"remarks":       d.Remarks,

		"issueDay":   orDefault(d.IssueDay, strconv.Itoa(now.Day())),
		"issueMonth": orDefault(d.IssueMonth, strconv.Itoa(int(now.Month()))),
		"issueYear":  orDefault(d.IssueYear, strconv.Itoa(now.Year())),

		"travellerFirstName": legacy.FirstName,
		"travellerLastName":  legacy.LastName,
		"passportNumber":     legacy.PassportNumber,
		"passportExpiry":     ToDateOrNull(legacy.PassportExpiry),
		"dob":                ToDateOrNull(legacy.DOB),
		"nationality":        legacy.Nationality,

		"travellers":  persistableTravellers(d.Travellers),
		"itineraries": persistableItineraries(d.Itineraries),
		"addons":      maps.Clone(d.Addons),
		"prices":      maps.Clone(d.Prices),
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func persistableTravellers(in []domain.Traveller) []domain.Traveller {
	out := slices.Clone(in)
	for i := range out {
		if ToDateOrNull(out[i].PassportExpiry) == nil {
			out[i].PassportExpiry = ""
		}
		if ToDateOrNull(out[i].DOB) == nil {
			out[i].DOB = ""
		}
	}
	return out
}

func persistableItineraries(in []domain.Itinerary) []domain.Itinerary {
	out := make([]domain.Itinerary, len(in))
	for i, it := range in {
		out[i] = domain.Itinerary{Segments: slices.Clone(it.Segments)}
		if out[i].Segments == nil {
			out[i].Segments = []domain.FlightSegment{}
		}
	}
	return out
}
