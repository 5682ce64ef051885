package draft

import (
	"fmt"
	"strings"

	"github.com/Domenick1991/travelbackoffice/internal/domain"
	"github.com/shopspring/decimal"
)

// ParseDecimal reads a money string. Blank or malformed input is zero.
func ParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatMoney renders an amount with two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (e *Editor) SetAddonEnabled(name string, enabled bool) error {
	if !domain.IsAddon(name) {
		return fmt.Errorf("addon %q: %w", name, domain.ErrUnknownAddon)
	}
	e.draft.Addons[domain.AddonName(name)] = enabled
	return nil
}

// SetAddonPrice stores the price as entered, whether or not the addon is enabled.
func (e *Editor) SetAddonPrice(name, price string) error {
	if !domain.IsAddon(name) {
		return fmt.Errorf("addon %q: %w", name, domain.ErrUnknownAddon)
	}
	e.draft.Prices[domain.AddonName(name)] = price
	return nil
}

func (e *Editor) AddonsSubtotal() decimal.Decimal {
	return AddonsSubtotal(e.draft)
}

func (e *Editor) GrandTotal() decimal.Decimal {
	return GrandTotal(e.draft)
}

// AddonsSubtotal sums the entered price of every known add-on. The enabled
// flags are not consulted; every booking screen totals add-ons this way.
func AddonsSubtotal(d *domain.BookingDraft) decimal.Decimal {
	total := decimal.Zero
	for _, name := range domain.AddonNames() {
		total = total.Add(ParseDecimal(d.Prices[name]))
	}
	return total
}

func GrandTotal(d *domain.BookingDraft) decimal.Decimal {
	return ParseDecimal(d.SellingPrice).Add(AddonsSubtotal(d))
}
