package draft

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

// legacyFields maps the flat top-level field names to the primary traveller
// fields they mirror.
var legacyFields = map[string]string{
	"travellerFirstName": "firstName",
	"travellerLastName":  "lastName",
	"passportNumber":     "passportNumber",
	"passportExpiry":     "passportExpiry",
	"dob":                "dob",
	"nationality":        "nationality",
}

// SetLegacyField handles edits made through the flat contact form. The value
// lands on travellers[0], so BookingDraft.Legacy reflects it immediately.
func (e *Editor) SetLegacyField(field, value string) error {
	target, ok := legacyFields[field]
	if !ok {
		return fmt.Errorf("legacy field %q: %w", field, domain.ErrUnknownField)
	}
	return e.UpdateTravellerField(0, target, value)
}

// ReconcileLegacy fills blank primary traveller fields from a flat legacy row.
// Fields already set on travellers[0] win.
func (e *Editor) ReconcileLegacy(flat domain.LegacyTraveller) {
	t := e.draft.Travellers[0]
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" && strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	fill(&t.FirstName, flat.FirstName)
	fill(&t.LastName, flat.LastName)
	fill(&t.PassportNumber, flat.PassportNumber)
	fill(&t.PassportExpiry, flat.PassportExpiry)
	fill(&t.DOB, flat.DOB)
	if flat.Nationality != "" && (t.Nationality == "" || t.Nationality == e.defaultNationality) {
		t.Nationality = flat.Nationality
	}

	travellers := slices.Clone(e.draft.Travellers)
	travellers[0] = t
	e.draft.Travellers = travellers
}

// SetCustomer links the booking to a customer and returns the previous link.
func (e *Editor) SetCustomer(customerID string) string {
	old := e.draft.CustomerID
	e.draft.CustomerID = customerID
	return old
}
