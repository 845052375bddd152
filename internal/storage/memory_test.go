package storage

import (
	"context"
	"errors"
	"testing"

	"gastos/internal/core"
)

func date(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestInstallmentGroupLinking(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	group := []core.Expense{
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "tv (1/3)", Amount: core.Money{Cents: 3334}, MainCategory: "Home", Subcategory: "Electronics", Date: date(t, "2024-03-05"), PaymentMethod: core.PayCredit, CardID: 1, Installments: 3, CurrentInstallment: 1},
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "tv (2/3)", Amount: core.Money{Cents: 3333}, MainCategory: "Home", Subcategory: "Electronics", Date: date(t, "2024-04-05"), PaymentMethod: core.PayCredit, CardID: 1, Installments: 3, CurrentInstallment: 2},
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "tv (3/3)", Amount: core.Money{Cents: 3333}, MainCategory: "Home", Subcategory: "Electronics", Date: date(t, "2024-05-05"), PaymentMethod: core.PayCredit, CardID: 1, Installments: 3, CurrentInstallment: 3},
	}

	saved, err := repo.CreateInstallmentGroup(ctx, group)
	if err != nil {
		t.Fatalf("CreateInstallmentGroup: %v", err)
	}
	if len(saved) != 3 {
		t.Fatalf("saved %d records, want 3", len(saved))
	}
	root := saved[0]
	if root.OriginalExpenseID != 0 {
		t.Errorf("root OriginalExpenseID = %d, want 0", root.OriginalExpenseID)
	}
	for _, sib := range saved[1:] {
		if sib.OriginalExpenseID != root.ID {
			t.Errorf("sibling %d OriginalExpenseID = %d, want %d", sib.ID, sib.OriginalExpenseID, root.ID)
		}
	}
}

func TestSoftDeleteGroupRemovesAllRecords(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	group := []core.Expense{
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "sofa (1/2)", Amount: core.Money{Cents: 5000}, MainCategory: "Home", Subcategory: "Furniture", Date: date(t, "2024-03-05"), PaymentMethod: core.PayCredit, CardID: 1, Installments: 2, CurrentInstallment: 1},
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "sofa (2/2)", Amount: core.Money{Cents: 5000}, MainCategory: "Home", Subcategory: "Furniture", Date: date(t, "2024-04-05"), PaymentMethod: core.PayCredit, CardID: 1, Installments: 2, CurrentInstallment: 2},
	}
	saved, err := repo.CreateInstallmentGroup(ctx, group)
	if err != nil {
		t.Fatalf("CreateInstallmentGroup: %v", err)
	}

	n, err := repo.SoftDeleteGroup(ctx, saved[0].ID)
	if err != nil {
		t.Fatalf("SoftDeleteGroup: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d records, want 2", n)
	}

	for _, e := range saved {
		if _, err := repo.GetExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("GetExpense(%d) after group delete: err = %v, want ErrNotFound", e.ID, err)
		}
	}

	if _, err := repo.SoftDeleteGroup(ctx, saved[0].ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second SoftDeleteGroup: err = %v, want ErrNotFound", err)
	}
}

func TestListExpensesFiltersByProfileAndMonth(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	seed := []core.Expense{
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "groceries", Amount: core.Money{Cents: 1200}, MainCategory: "Food", Subcategory: "Groceries", Date: date(t, "2024-03-10"), PaymentMethod: core.PayDebit, Installments: 1, CurrentInstallment: 1},
		{UserID: "u1", Profile: core.ProfileBusiness, Description: "hosting", Amount: core.Money{Cents: 900}, MainCategory: "Operations", Subcategory: "Infrastructure", Date: date(t, "2024-03-12"), PaymentMethod: core.PayDebit, Installments: 1, CurrentInstallment: 1},
		{UserID: "u1", Profile: core.ProfilePersonal, Description: "april rent", Amount: core.Money{Cents: 80000}, MainCategory: "Housing", Subcategory: "Rent", Date: date(t, "2024-04-01"), PaymentMethod: core.PayPix, Installments: 1, CurrentInstallment: 1},
		{UserID: "u2", Profile: core.ProfilePersonal, Description: "other user", Amount: core.Money{Cents: 500}, MainCategory: "Food", Subcategory: "Groceries", Date: date(t, "2024-03-15"), PaymentMethod: core.PayMoney, Installments: 1, CurrentInstallment: 1},
	}
	for _, e := range seed {
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	got, err := repo.ListExpenses(ctx, "u1", core.ProfilePersonal, 2024, 3)
	if err != nil {
		t.Fatalf("ListExpenses: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d expenses, want 1", len(got))
	}
	if got[0].Description != "groceries" {
		t.Errorf("got %q, want groceries", got[0].Description)
	}
}

func TestListCardExpensesHalfOpenPeriod(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, day := range []string{"2024-01-10", "2024-01-11", "2024-02-10", "2024-02-11"} {
		e := core.Expense{
			UserID: "u1", Profile: core.ProfilePersonal, Description: "charge " + day,
			Amount: core.Money{Cents: 1000}, MainCategory: "Food", Subcategory: "Dining",
			Date: date(t, day), PaymentMethod: core.PayCredit, CardID: 7,
			Installments: 1, CurrentInstallment: 1,
		}
		if _, err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("CreateExpense: %v", err)
		}
	}

	period := core.Period{Start: date(t, "2024-01-10"), End: date(t, "2024-02-10")}
	got, err := repo.ListCardExpenses(ctx, 7, period)
	if err != nil {
		t.Fatalf("ListCardExpenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d expenses, want 2", len(got))
	}
	// Start excluded, end included.
	if got[0].Date.String() != "2024-01-11" || got[1].Date.String() != "2024-02-10" {
		t.Errorf("got dates %s, %s", got[0].Date, got[1].Date)
	}
}

func TestDeleteCardInUse(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	cardID, err := repo.CreateCard(ctx, core.Card{
		UserID: "u1", Profile: core.ProfilePersonal, Name: "Visa",
		Limit: core.Money{Cents: 500000}, ClosingDay: 10, DueDay: 20,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}

	eid, err := repo.CreateExpense(ctx, core.Expense{
		UserID: "u1", Profile: core.ProfilePersonal, Description: "dinner",
		Amount: core.Money{Cents: 4500}, MainCategory: "Food", Subcategory: "Dining",
		Date: date(t, "2024-03-01"), PaymentMethod: core.PayCredit, CardID: cardID,
		Installments: 1, CurrentInstallment: 1,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	if err := repo.DeleteCard(ctx, cardID); !errors.Is(err, core.ErrCardInUse) {
		t.Fatalf("DeleteCard with live expense: err = %v, want ErrCardInUse", err)
	}

	if err := repo.SoftDeleteExpense(ctx, eid); err != nil {
		t.Fatalf("SoftDeleteExpense: %v", err)
	}
	if err := repo.DeleteCard(ctx, cardID); err != nil {
		t.Fatalf("DeleteCard after expense removed: %v", err)
	}
	if _, err := repo.GetCard(ctx, cardID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetCard after delete: err = %v, want ErrNotFound", err)
	}
}

func TestSumCardPaidAndRefunded(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	payments := []core.BillPayment{
		{UserID: "u1", Profile: core.ProfilePersonal, CardID: 3, Type: core.BillPaymentRegular, Amount: core.Money{Cents: 10000}, Date: date(t, "2024-02-20")},
		{UserID: "u1", Profile: core.ProfilePersonal, CardID: 3, Type: core.BillPaymentAnticipate, Amount: core.Money{Cents: 2500}, Date: date(t, "2024-03-01")},
		{UserID: "u1", Profile: core.ProfilePersonal, CardID: 3, Type: core.BillPaymentRefund, Amount: core.Money{Cents: 1500}, Date: date(t, "2024-03-05")},
		{UserID: "u1", Profile: core.ProfilePersonal, CardID: 9, Type: core.BillPaymentRegular, Amount: core.Money{Cents: 7000}, Date: date(t, "2024-03-05")},
	}
	for _, bp := range payments {
		if _, err := repo.CreateBillPayment(ctx, bp); err != nil {
			t.Fatalf("CreateBillPayment: %v", err)
		}
	}

	paid, err := repo.SumCardPaid(ctx, 3)
	if err != nil {
		t.Fatalf("SumCardPaid: %v", err)
	}
	if paid != 12500 {
		t.Errorf("SumCardPaid = %d, want 12500", paid)
	}

	refunded, err := repo.SumCardRefunded(ctx, 3)
	if err != nil {
		t.Fatalf("SumCardRefunded: %v", err)
	}
	if refunded != 1500 {
		t.Errorf("SumCardRefunded = %d, want 1500", refunded)
	}
}

func TestReserveBalance(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	for _, cents := range []int64{10000, 5000, 2500} {
		rc := core.ReserveContribution{
			UserID: "u1", Profile: core.ProfileHome,
			Amount: core.Money{Cents: cents}, Date: date(t, "2024-03-01"),
		}
		if _, err := repo.CreateReserveContribution(ctx, rc); err != nil {
			t.Fatalf("CreateReserveContribution: %v", err)
		}
	}

	balance, err := repo.ReserveBalance(ctx, "u1", core.ProfileHome)
	if err != nil {
		t.Fatalf("ReserveBalance: %v", err)
	}
	if balance != 17500 {
		t.Errorf("ReserveBalance = %d, want 17500", balance)
	}

	other, err := repo.ReserveBalance(ctx, "u1", core.ProfilePersonal)
	if err != nil {
		t.Fatalf("ReserveBalance: %v", err)
	}
	if other != 0 {
		t.Errorf("ReserveBalance for empty profile = %d, want 0", other)
	}
}
