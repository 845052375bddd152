package core

import "sort"

// TransactionKind tags the variants of a card's money movements.
type TransactionKind int

const (
	TransactionExpense TransactionKind = iota
	TransactionBillPayment
)

// Transaction is the tagged union of anything that moves money on a card:
// an Expense or a BillPayment. Exactly one payload field is non-nil,
// matching Kind.
type Transaction struct {
	Kind        TransactionKind
	Expense     *Expense
	BillPayment *BillPayment
}

// Date returns the transaction's ledger date.
func (t Transaction) Date() Date {
	switch t.Kind {
	case TransactionExpense:
		return t.Expense.Date
	case TransactionBillPayment:
		return t.BillPayment.Date
	}
	panic("transaction: no payload")
}

// CardActivity merges a period's expenses and bill payments into one
// chronological feed. Ties keep expenses before payments, mirroring how a
// statement lists charges before its settlement.
func CardActivity(expenses []Expense, payments []BillPayment) []Transaction {
	activity := make([]Transaction, 0, len(expenses)+len(payments))
	for i := range expenses {
		activity = append(activity, Transaction{Kind: TransactionExpense, Expense: &expenses[i]})
	}
	for i := range payments {
		activity = append(activity, Transaction{Kind: TransactionBillPayment, BillPayment: &payments[i]})
	}
	sort.SliceStable(activity, func(i, j int) bool {
		return activity[i].Date().Time.Before(activity[j].Date().Time)
	})
	return activity
}
