package core

import "fmt"

// MaxInstallments caps how far a purchase may be split. Card issuers rarely
// offer more than 48 monthly installments.
const MaxInstallments = 48

// Purchase is the user-entered input for a (possibly split) card purchase.
type Purchase struct {
	UserID        string
	Profile       Profile
	Description   string
	Total         Money
	Installments  int
	FirstDate     Date
	MainCategory  string
	Subcategory   string
	PaymentMethod PaymentMethod
	CardID        int64
}

// SplitPurchase decomposes a purchase into its dated installment expenses.
//
// Every record but the last carries the half-up rounded share of the total;
// the last absorbs the rounding remainder so the group sums exactly to the
// purchase total. Record i is dated FirstDate + (i-1) months (day clamped to
// month length) with CurrentInstallment = i. The returned records are not
// yet persisted and carry no IDs; the store links siblings to the root on
// insert.
//
// Input is rejected before any record is generated: the count must be in
// [1, MaxInstallments], the total positive, and large enough that every
// installment is at least one cent.
func SplitPurchase(p Purchase) ([]Expense, error) {
	n := int64(p.Installments)
	if n < 1 || n > MaxInstallments {
		return nil, ErrInvalidInstallments
	}
	if p.Total.Cents <= 0 {
		return nil, ErrInvalidAmount
	}
	if p.Total.Cents < n {
		return nil, ErrInvalidAmount
	}
	if err := p.FirstDate.Validate(); err != nil {
		return nil, err
	}

	// Half-up rounding of total/n in integer cents.
	share := (2*p.Total.Cents + n) / (2 * n)
	// A rounded-up share could push the last installment to zero or below;
	// fall back to the floor so every record stays positive.
	if p.Total.Cents-share*(n-1) < 1 {
		share = p.Total.Cents / n
	}
	last := p.Total.Cents - share*(n-1)

	expenses := make([]Expense, 0, p.Installments)
	for i := 1; i <= p.Installments; i++ {
		amount := share
		if i == p.Installments {
			amount = last
		}
		desc := p.Description
		if p.Installments > 1 {
			desc = installmentDescription(p.Description, i, p.Installments)
		}
		e := Expense{
			UserID:             p.UserID,
			Profile:            p.Profile,
			Description:        desc,
			Amount:             Money{Cents: amount},
			MainCategory:       p.MainCategory,
			Subcategory:        p.Subcategory,
			Date:               p.FirstDate.AddMonths(i - 1),
			PaymentMethod:      p.PaymentMethod,
			CardID:             p.CardID,
			Installments:       p.Installments,
			CurrentInstallment: i,
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func installmentDescription(desc string, current, total int) string {
	return fmt.Sprintf("%s (%d/%d)", desc, current, total)
}
