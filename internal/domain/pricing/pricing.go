package pricing

import "github.com/shopspring/decimal"

// Quote is the input of a price calculation.
// A nil or non-positive PageCount counts as one page.
type Quote struct {
	ServiceType string
	PageCount   *int
	PaperTypeID string
	IsEmergency bool
}

// Price returns the order total for q. Unknown services price at zero
// (quote pending); unknown paper types add no surcharge.
//
// The emergency multiplier applies to the subtotal after the paper surcharge
// and the result is rounded half-up to a whole currency unit.
func (c *Catalog) Price(q Quote) decimal.Decimal {
	svc, ok := c.byName[q.ServiceType]
	if !ok {
		return decimal.Zero
	}

	var total decimal.Decimal
	switch svc.Mode {
	case ModePerPage:
		perPage := svc.Price
		if paper, ok := c.paperByID[q.PaperTypeID]; ok {
			perPage = perPage.Add(paper.Surcharge)
		}
		total = perPage.Mul(decimal.NewFromInt(int64(Pages(q.PageCount))))
	case ModeFixed:
		total = svc.Price
	}

	if q.IsEmergency {
		total = total.Mul(c.emergency).Round(0)
	}
	return total
}

// Pages normalises a requested page count: missing or below one becomes one.
func Pages(n *int) int {
	if n == nil || *n < 1 {
		return 1
	}
	return *n
}
