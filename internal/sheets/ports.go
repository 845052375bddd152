// Package sheets defines the outbound export surface for ledger rows.
package sheets

import (
	"context"

	"gastos/internal/core"
)

// LedgerRow is the flattened shape every ledger entry exports as. Kind
// distinguishes expenses, incomes, bill payments and reserve contributions;
// bill payments repurpose the category columns for the card and the type.
type LedgerRow struct {
	Kind         string
	ID           int64
	Profile      core.Profile
	Date         core.Date
	Description  string
	Amount       core.Money
	MainCategory string
	Subcategory  string
}

// RowWriter appends one row to the export target and returns a reference to
// the written range.
type RowWriter interface {
	Append(ctx context.Context, row LedgerRow) (rowRef string, err error)
}
