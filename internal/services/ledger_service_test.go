package services

import (
	"context"
	"errors"
	"testing"

	"gastos/internal/core"
	"gastos/internal/storage"
)

func newLedgerFixture(t *testing.T) (*LedgerService, *CardService, *recordingPublisher, core.Card) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	pub := &recordingPublisher{}
	ledger := NewLedgerService(repo, pub)
	cards := NewCardService(repo, pub, 0)

	card, err := cards.CreateCard(context.Background(), core.Card{
		UserID: "u1", Profile: core.ProfilePersonal, Name: "Visa",
		Limit: core.Money{Cents: 1_000_000}, ClosingDay: 10, DueDay: 20,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	return ledger, cards, pub, card
}

func purchase(card core.Card, totalCents int64, installments int, firstDate core.Date) core.Purchase {
	return core.Purchase{
		UserID:        card.UserID,
		Profile:       card.Profile,
		Description:   "notebook",
		Total:         core.Money{Cents: totalCents},
		Installments:  installments,
		FirstDate:     firstDate,
		MainCategory:  "Home",
		Subcategory:   "Electronics",
		PaymentMethod: core.PayCredit,
		CardID:        card.ID,
	}
}

func TestCreatePurchaseSplitsAndPublishes(t *testing.T) {
	ledger, _, pub, card := newLedgerFixture(t)
	ctx := context.Background()

	group, err := ledger.CreatePurchase(ctx, purchase(card, 10000, 3, mustDate(t, "2024-03-05")))
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if len(group) != 3 {
		t.Fatalf("got %d records, want 3", len(group))
	}

	var sum int64
	for _, e := range group {
		sum += e.Amount.Cents
	}
	if sum != 10000 {
		t.Errorf("group sum = %d, want 10000", sum)
	}
	for _, e := range group[1:] {
		if e.OriginalExpenseID != group[0].ID {
			t.Errorf("sibling %d not linked to root %d", e.ID, group[0].ID)
		}
	}
	if len(pub.events) != 3 {
		t.Errorf("published %d events, want 3", len(pub.events))
	}
}

func TestCreatePurchaseRequiresOwnedCard(t *testing.T) {
	ledger, cards, _, _ := newLedgerFixture(t)
	ctx := context.Background()

	// Credit purchase with no card at all.
	p := purchase(core.Card{UserID: "u1", Profile: core.ProfilePersonal}, 5000, 1, mustDate(t, "2024-03-05"))
	if _, err := ledger.CreatePurchase(ctx, p); !errors.Is(err, core.ErrMissingCard) {
		t.Fatalf("no card: err = %v, want ErrMissingCard", err)
	}

	// Card registered under a different profile.
	businessCard, err := cards.CreateCard(ctx, core.Card{
		UserID: "u1", Profile: core.ProfileBusiness, Name: "Corp",
		Limit: core.Money{Cents: 500000}, ClosingDay: 1, DueDay: 10,
	})
	if err != nil {
		t.Fatalf("CreateCard: %v", err)
	}
	p = purchase(businessCard, 5000, 1, mustDate(t, "2024-03-05"))
	p.Profile = core.ProfilePersonal
	if _, err := ledger.CreatePurchase(ctx, p); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-profile card: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteSiblingRemovesWholeGroup(t *testing.T) {
	ledger, _, _, card := newLedgerFixture(t)
	ctx := context.Background()

	group, err := ledger.CreatePurchase(ctx, purchase(card, 9000, 3, mustDate(t, "2024-03-05")))
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	// Delete through the middle installment, not the root.
	if err := ledger.DeleteExpense(ctx, group[1].ID); err != nil {
		t.Fatalf("DeleteExpense: %v", err)
	}
	for _, e := range group {
		if _, err := ledger.GetExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("record %d survived group delete: err = %v", e.ID, err)
		}
	}
}

func TestUpdateExpensePreservesInstallmentFields(t *testing.T) {
	ledger, _, _, card := newLedgerFixture(t)
	ctx := context.Background()

	group, err := ledger.CreatePurchase(ctx, purchase(card, 6000, 2, mustDate(t, "2024-03-05")))
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	edit := group[1]
	edit.Description = "notebook sleeve"
	edit.Amount = core.Money{Cents: 3500}
	edit.Installments = 1    // must be ignored
	edit.OriginalExpenseID = 0
	if err := ledger.UpdateExpense(ctx, edit); err != nil {
		t.Fatalf("UpdateExpense: %v", err)
	}

	got, err := ledger.GetExpense(ctx, group[1].ID)
	if err != nil {
		t.Fatalf("GetExpense: %v", err)
	}
	if got.Description != "notebook sleeve" || got.Amount.Cents != 3500 {
		t.Errorf("edit not applied: %+v", got)
	}
	if got.Installments != 2 || got.CurrentInstallment != 2 || got.OriginalExpenseID != group[0].ID {
		t.Errorf("installment bookkeeping mutated: %+v", got)
	}

	// Sibling untouched: no group rebalance on edit.
	root, err := ledger.GetExpense(ctx, group[0].ID)
	if err != nil {
		t.Fatalf("GetExpense root: %v", err)
	}
	if root.Amount.Cents != 3000 {
		t.Errorf("root amount = %d, want 3000", root.Amount.Cents)
	}
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	repo := storage.NewMemoryRepository()
	pub := &recordingPublisher{failWith: errors.New("broker down")}
	ledger := NewLedgerService(repo, pub)
	ctx := context.Background()

	in, err := ledger.CreateIncome(ctx, core.Income{
		UserID: "u1", Profile: core.ProfilePersonal, Description: "salary",
		Amount: core.Money{Cents: 500000}, MainCategory: "Work", Subcategory: "Salary",
		Date: mustDate(t, "2024-03-01"),
	})
	if err != nil {
		t.Fatalf("CreateIncome with failing publisher: %v", err)
	}
	if in.ID == 0 {
		t.Error("income not persisted")
	}
}

func TestIncomeImmutableOnceCreated(t *testing.T) {
	ledger, _, _, _ := newLedgerFixture(t)
	ctx := context.Background()

	in, err := ledger.CreateIncome(ctx, core.Income{
		UserID: "u1", Profile: core.ProfileHome, Description: "rent received",
		Amount: core.Money{Cents: 120000}, MainCategory: "Housing", Subcategory: "Rent",
		Date: mustDate(t, "2024-03-01"),
	})
	if err != nil {
		t.Fatalf("CreateIncome: %v", err)
	}

	if err := ledger.DeleteIncome(ctx, in.ID); err != nil {
		t.Fatalf("DeleteIncome: %v", err)
	}
	list, err := ledger.ListIncomes(ctx, "u1", core.ProfileHome, 2024, 3)
	if err != nil {
		t.Fatalf("ListIncomes: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("deleted income still listed: %+v", list)
	}
}
