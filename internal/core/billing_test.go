package core

import "testing"

func TestBillingPeriod(t *testing.T) {
	tests := []struct {
		name       string
		closingDay int
		ref        Date
		wantStart  Date
		wantEnd    Date
	}{
		{
			// Reference before the closing day: the open statement has not
			// closed yet, so the window is the previously closed one.
			name:       "reference before closing day",
			closingDay: 10,
			ref:        NewDate(2024, 3, 5),
			wantStart:  NewDate(2024, 1, 10),
			wantEnd:    NewDate(2024, 2, 10),
		},
		{
			name:       "reference on closing day",
			closingDay: 10,
			ref:        NewDate(2024, 3, 10),
			wantStart:  NewDate(2024, 2, 10),
			wantEnd:    NewDate(2024, 3, 10),
		},
		{
			name:       "reference after closing day",
			closingDay: 10,
			ref:        NewDate(2024, 3, 25),
			wantStart:  NewDate(2024, 2, 10),
			wantEnd:    NewDate(2024, 3, 10),
		},
		{
			name:       "closing day clamps in february",
			closingDay: 31,
			ref:        NewDate(2024, 3, 15),
			wantStart:  NewDate(2024, 1, 31),
			wantEnd:    NewDate(2024, 2, 29),
		},
		{
			name:       "clamped end with clamped start",
			closingDay: 31,
			ref:        NewDate(2023, 3, 10),
			wantStart:  NewDate(2023, 1, 31),
			wantEnd:    NewDate(2023, 2, 28),
		},
		{
			name:       "january reference crosses the year",
			closingDay: 20,
			ref:        NewDate(2024, 1, 5),
			wantStart:  NewDate(2023, 11, 20),
			wantEnd:    NewDate(2023, 12, 20),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BillingPeriod(tt.closingDay, tt.ref)
			if !got.Start.Equal(tt.wantStart.Time) || !got.End.Equal(tt.wantEnd.Time) {
				t.Fatalf("expected (%s, %s], got %s", tt.wantStart, tt.wantEnd, got)
			}
		})
	}
}

func TestBillingPeriodStableAtEnd(t *testing.T) {
	// Re-querying with the period's own end date returns the same period.
	for _, closingDay := range []int{1, 10, 28, 31} {
		p := BillingPeriod(closingDay, NewDate(2024, 6, 15))
		again := BillingPeriod(closingDay, p.End)
		if again != p {
			t.Fatalf("closing day %d: period %s re-queried as %s", closingDay, p, again)
		}
	}
}

func TestBillingPeriodPanicsOnBadClosingDay(t *testing.T) {
	for _, day := range []int{0, -1, 32} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("closing day %d: expected panic", day)
				}
			}()
			BillingPeriod(day, NewDate(2024, 3, 5))
		}()
	}
}

func TestPeriodContains(t *testing.T) {
	p := Period{Start: NewDate(2024, 1, 10), End: NewDate(2024, 2, 10)}
	cases := []struct {
		d    Date
		want bool
	}{
		{NewDate(2024, 1, 10), false}, // start is exclusive
		{NewDate(2024, 1, 11), true},
		{NewDate(2024, 2, 10), true}, // end is inclusive
		{NewDate(2024, 2, 11), false},
	}
	for _, tc := range cases {
		if got := p.Contains(tc.d); got != tc.want {
			t.Fatalf("%s in %s: expected %v, got %v", tc.d, p, tc.want, got)
		}
	}
}

func TestStatementTotal(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 1050}},
		{Amount: Money{Cents: 2500}},
		{Amount: Money{Cents: 33}},
	}
	if got := StatementTotal(expenses); got.Cents != 3583 {
		t.Fatalf("expected 3583, got %d", got.Cents)
	}
	// Order independence.
	reversed := []Expense{expenses[2], expenses[1], expenses[0]}
	if got := StatementTotal(reversed); got.Cents != 3583 {
		t.Fatalf("reversed: expected 3583, got %d", got.Cents)
	}
	if got := StatementTotal(nil); got.Cents != 0 {
		t.Fatalf("empty: expected 0, got %d", got.Cents)
	}
}

func TestOutstandingBalance(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 30000}, Date: NewDate(2024, 2, 1)},
		{Amount: Money{Cents: 20000}, Date: NewDate(2024, 2, 3)},
	}

	t.Run("payment then refund restores balance", func(t *testing.T) {
		before := OutstandingBalance(CardActivity(expenses, nil))
		if before.Cents != 50000 {
			t.Fatalf("expected 50000, got %d", before.Cents)
		}
		paid := []BillPayment{
			{Type: BillPaymentRegular, Amount: Money{Cents: 50000}, Date: NewDate(2024, 2, 12)},
		}
		if got := OutstandingBalance(CardActivity(expenses, paid)); got.Cents != 0 {
			t.Fatalf("after payment: expected 0, got %d", got.Cents)
		}
		refunded := append(paid, BillPayment{
			Type: BillPaymentRefund, Amount: Money{Cents: 50000}, Date: NewDate(2024, 2, 15),
		})
		if got := OutstandingBalance(CardActivity(expenses, refunded)); got.Cents != before.Cents {
			t.Fatalf("after refund: expected %d, got %d", before.Cents, got.Cents)
		}
	})

	t.Run("partial refund after full payment", func(t *testing.T) {
		payments := []BillPayment{
			{Type: BillPaymentRegular, Amount: Money{Cents: 50000}, Date: NewDate(2024, 2, 12)},
			{Type: BillPaymentRefund, Amount: Money{Cents: 10000}, Date: NewDate(2024, 2, 20)},
		}
		if got := OutstandingBalance(CardActivity(expenses, payments)); got.Cents != 10000 {
			t.Fatalf("expected 10000, got %d", got.Cents)
		}
	})

	t.Run("anticipation may go negative", func(t *testing.T) {
		payments := []BillPayment{
			{Type: BillPaymentAnticipate, Amount: Money{Cents: 60000}, Date: NewDate(2024, 2, 5)},
		}
		if got := OutstandingBalance(CardActivity(expenses, payments)); got.Cents != -10000 {
			t.Fatalf("expected -10000, got %d", got.Cents)
		}
	})
}

func TestCardActivityChronological(t *testing.T) {
	expenses := []Expense{
		{Description: "late", Amount: Money{Cents: 100}, Date: NewDate(2024, 2, 9)},
		{Description: "early", Amount: Money{Cents: 100}, Date: NewDate(2024, 2, 1)},
	}
	payments := []BillPayment{
		{Type: BillPaymentRegular, Amount: Money{Cents: 100}, Date: NewDate(2024, 2, 5)},
	}
	activity := CardActivity(expenses, payments)
	if len(activity) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(activity))
	}
	if activity[0].Kind != TransactionExpense || activity[0].Expense.Description != "early" {
		t.Fatalf("expected the earliest expense first, got %+v", activity[0])
	}
	if activity[1].Kind != TransactionBillPayment {
		t.Fatalf("expected the payment second, got %+v", activity[1])
	}
	if activity[2].Kind != TransactionExpense || activity[2].Expense.Description != "late" {
		t.Fatalf("expected the latest expense last, got %+v", activity[2])
	}
}

func TestPaidTotal(t *testing.T) {
	payments := []BillPayment{
		{Type: BillPaymentRegular, Amount: Money{Cents: 10000}},
		{Type: BillPaymentAnticipate, Amount: Money{Cents: 5000}},
		{Type: BillPaymentRefund, Amount: Money{Cents: 3000}},
	}
	if got := PaidTotal(payments); got.Cents != 15000 {
		t.Fatalf("expected 15000, got %d", got.Cents)
	}
}
