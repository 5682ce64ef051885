package draft

import (
	"fmt"
	"slices"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
)

// AddTraveller appends a traveller with default values and a fresh id.
func (e *Editor) AddTraveller() domain.Traveller {
	t := e.blankTraveller()
	e.draft.Travellers = append(slices.Clone(e.draft.Travellers), t)
	return t
}

// RemoveTraveller drops the traveller at index. Removing the only traveller is
// ignored: a booking always keeps at least one.
func (e *Editor) RemoveTraveller(index int) error {
	if err := checkIndex("traveller", index, len(e.draft.Travellers)); err != nil {
		return err
	}
	if len(e.draft.Travellers) == 1 {
		return nil
	}
	e.draft.Travellers = slices.Delete(slices.Clone(e.draft.Travellers), index, index+1)
	return nil
}

// UpdateTravellerField replaces one field of one traveller. Every field takes a
// string except saveToDirectory, which takes a bool.
func (e *Editor) UpdateTravellerField(index int, field string, value any) error {
	if err := checkIndex("traveller", index, len(e.draft.Travellers)); err != nil {
		return err
	}

	t := e.draft.Travellers[index]
	if field == "saveToDirectory" {
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%s expects a bool, got %T: %w", field, value, domain.ErrInvalidValue)
		}
		t.SaveToDirectory = b
	} else {
		s, err := stringValue(field, value)
		if err != nil {
			return err
		}
		target, err := travellerField(&t, field)
		if err != nil {
			return err
		}
		*target = s
	}

	travellers := slices.Clone(e.draft.Travellers)
	travellers[index] = t
	e.draft.Travellers = travellers
	return nil
}

// ApplyCandidate copies a lookup selection into a traveller slot.
func (e *Editor) ApplyCandidate(index int, c domain.CustomerCandidate) error {
	if err := checkIndex("traveller", index, len(e.draft.Travellers)); err != nil {
		return err
	}

	t := e.draft.Travellers[index]
	t.CustomerID = c.ID
	t.FirstName = c.FirstName
	t.LastName = c.LastName
	t.PassportNumber = c.PassportNumber
	t.PassportExpiry = c.PassportExpiry
	t.DOB = c.DOB
	if c.Nationality != "" {
		t.Nationality = c.Nationality
	}

	travellers := slices.Clone(e.draft.Travellers)
	travellers[index] = t
	e.draft.Travellers = travellers
	return nil
}

func travellerField(t *domain.Traveller, field string) (*string, error) {
	switch field {
	case "firstName":
		return &t.FirstName, nil
	case "lastName":
		return &t.LastName, nil
	case "passportNumber":
		return &t.PassportNumber, nil
	case "passportExpiry":
		return &t.PassportExpiry, nil
	case "dob":
		return &t.DOB, nil
	case "nationality":
		return &t.Nationality, nil
	case "customerId":
		return &t.CustomerID, nil
	case "eticketNumber":
		return &t.ETicketNumber, nil
	default:
		return nil, fmt.Errorf("traveller field %q: %w", field, domain.ErrUnknownField)
	}
}
