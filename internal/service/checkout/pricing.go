package checkout

import (
	"github.com/shopspring/decimal"
)

// LineItem is one requested ticket-type position of a checkout cart.
type LineItem struct {
	TypeID int64
	Count  int
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return ErrInvalidLineItems
	}

	for _, it := range items {
		if it.Count <= 0 || it.TypeID <= 0 {
			return ErrInvalidLineItems
		}
	}

	return nil
}

func typeIDs(items []LineItem) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.TypeID]; ok {
			continue
		}
		seen[it.TypeID] = struct{}{}
		ids = append(ids, it.TypeID)
	}

	return ids
}

// expandTypeIDs flattens line items into one type id per requested seat, in
// request order. Seats are fungible across types; the type only decides the
// price and the ticket record.
func expandTypeIDs(items []LineItem) []int64 {
	var out []int64
	for _, it := range items {
		for i := 0; i < it.Count; i++ {
			out = append(out, it.TypeID)
		}
	}

	return out
}

// expectedTotal recomputes the charge from the authoritative prices.
//
// Returns:
//   - decimal.Decimal: sum of count_i * price_i.
//   - error: ErrTicketTypeNotFound if an item references an unknown type.
func expectedTotal(items []LineItem, prices map[int64]decimal.Decimal) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, it := range items {
		price, ok := prices[it.TypeID]
		if !ok {
			return decimal.Zero, ErrTicketTypeNotFound
		}

		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Count))))
	}

	return total, nil
}

// checkDeclaredTotal compares with exact decimal equality. A cent off is a
// mismatch.
func checkDeclaredTotal(declared, expected decimal.Decimal) error {
	if !declared.Equal(expected) {
		return ErrPriceMismatch
	}

	return nil
}
