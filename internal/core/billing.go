package core

import (
	"fmt"
	"time"
)

// Period is the half-open statement window (Start, End] between two
// consecutive card closing dates.
type Period struct {
	Start Date
	End   Date
}

// Contains reports whether d falls inside the half-open window.
func (p Period) Contains(d Date) bool {
	return d.Time.After(p.Start.Time) && !d.Time.After(p.End.Time)
}

func (p Period) String() string {
	return fmt.Sprintf("(%s, %s]", p.Start, p.End)
}

// BillingPeriod computes the statement window of a card for a reference
// date: End is the most recent occurrence of closingDay on or before ref,
// Start one calendar month earlier. Months shorter than closingDay clamp to
// their last day, so a card closing on the 31st closes Feb 28 (or 29).
//
// Panics on a closing day outside 1..31: a card with an invalid closing day
// is a broken invariant, not a runtime condition.
func BillingPeriod(closingDay int, ref Date) Period {
	if closingDay < 1 || closingDay > 31 {
		panic(fmt.Sprintf("billing: closing day %d out of range", closingDay))
	}
	end := closingOfMonth(ref.Year(), time.Month(ref.Month()), closingDay)
	if end.Time.After(ref.Time) {
		end = closingOfMonth(ref.Year(), time.Month(ref.Month())-1, closingDay)
	}
	start := closingOfMonth(end.Year(), time.Month(end.Month())-1, closingDay)
	return Period{Start: start, End: end}
}

// closingOfMonth returns the closing date inside the given month, clamped to
// the month's length. time.Date normalizes month over/underflow.
func closingOfMonth(year int, month time.Month, closingDay int) Date {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	day := closingDay
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

// StatementTotal sums expense amounts in integer cents. Pure and order
// independent; callers pass the expenses already filtered to one card and
// period.
func StatementTotal(expenses []Expense) Money {
	var cents int64
	for _, e := range expenses {
		cents += e.Amount.Cents
	}
	return Money{Cents: cents}
}

// PaidTotal sums the payment and anticipation amounts, ignoring refunds.
func PaidTotal(payments []BillPayment) Money {
	var cents int64
	for _, bp := range payments {
		switch bp.Type {
		case BillPaymentRegular, BillPaymentAnticipate:
			cents += bp.Amount.Cents
		case BillPaymentRefund:
		default:
			panic(fmt.Sprintf("billing: unknown bill transaction type %q", bp.Type))
		}
	}
	return Money{Cents: cents}
}

// OutstandingBalance folds a card's period activity into the effective
// balance: expenses add, payments and anticipations subtract, refunds add
// back. The result may be negative when a statement was anticipated beyond
// its total.
func OutstandingBalance(activity []Transaction) Money {
	var cents int64
	for _, t := range activity {
		switch t.Kind {
		case TransactionExpense:
			cents += t.Expense.Amount.Cents
		case TransactionBillPayment:
			switch t.BillPayment.Type {
			case BillPaymentRegular, BillPaymentAnticipate:
				cents -= t.BillPayment.Amount.Cents
			case BillPaymentRefund:
				cents += t.BillPayment.Amount.Cents
			default:
				panic(fmt.Sprintf("billing: unknown bill transaction type %q", t.BillPayment.Type))
			}
		default:
			panic(fmt.Sprintf("billing: unknown transaction kind %d", t.Kind))
		}
	}
	return Money{Cents: cents}
}
