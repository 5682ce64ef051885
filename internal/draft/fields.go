package draft

import (
	"fmt"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

// SetField edits a contact or booking metadata field by its draft name.
// Status vocabularies are normalized on the way in.
func (e *Editor) SetField(field, value string) error {
	d := e.draft
	switch field {
	case "status":
		d.Status = domain.NormalizeStatus(value)
		return nil
	case "paymentStatus":
		d.PaymentStatus = domain.NormalizePaymentStatus(value)
		return nil
	case "tripType":
		return e.SetTripType(domain.TripType(value))
	}

	target, ok := map[string]*string{
		"email":         &d.Email,
		"phone":         &d.Phone,
		"customerId":    &d.CustomerID,
		"pnr":           &d.PNR,
		"ticketNumber":  &d.TicketNumber,
		"agency":        &d.Agency,
		"handledBy":     &d.HandledBy,
		"paymentMethod": &d.PaymentMethod,
		"costPrice":     &d.CostPrice,
		"sellingPrice":  &d.SellingPrice,
		"airline":       &d.Airline,
		"origin":        &d.Origin,
		"destination":   &d.Destination,
		"departureDate": &d.DepartureDate,
		"returnDate":    &d.ReturnDate,
		"remarks":       &d.Remarks,
		"issueDay":      &d.IssueDay,
		"issueMonth":    &d.IssueMonth,
		"issueYear":     &d.IssueYear,
	}[field]
	if !ok {
		return fmt.Errorf("booking field %q: %w", field, domain.ErrUnknownField)
	}
	*target = value
	return nil
}
