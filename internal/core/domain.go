package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ProfilePersonal Profile = "personal"
	ProfileHome     Profile = "home"
	ProfileBusiness Profile = "business"
)

const (
	PayMoney  PaymentMethod = "money"
	PayDebit  PaymentMethod = "debit"
	PayCredit PaymentMethod = "credit"
	PayPix    PaymentMethod = "pix"
)

const (
	BillPaymentRegular    BillTransactionType = "payment"
	BillPaymentAnticipate BillTransactionType = "anticipate"
	BillPaymentRefund     BillTransactionType = "refund"
)

type (
	// Profile partitions all financial data. It is a value, not a stored
	// entity, and every query and mutation takes it explicitly.
	Profile string

	PaymentMethod string

	// BillTransactionType distinguishes how a bill payment affects the
	// outstanding balance of a card statement.
	BillTransactionType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Expense struct {
		ID            int64
		UserID        string
		Profile       Profile
		Description   string
		Amount        Money
		MainCategory  string
		Subcategory   string
		Date          Date
		PaymentMethod PaymentMethod
		CardID        int64 // 0 unless PaymentMethod is credit

		// Installment fields. A standalone expense has Installments = 1,
		// CurrentInstallment = 1 and OriginalExpenseID = 0. For a split
		// purchase the root record keeps OriginalExpenseID = 0 and its own
		// ID identifies the group.
		Installments       int
		CurrentInstallment int
		OriginalExpenseID  int64
	}

	Income struct {
		ID           int64
		UserID       string
		Profile      Profile
		Description  string
		Amount       Money
		MainCategory string
		Subcategory  string
		Date         Date
	}

	Card struct {
		ID         int64
		UserID     string
		Profile    Profile
		Name       string
		Limit      Money
		ClosingDay int // 1-31
		DueDay     int // 1-31
		CreatedAt  time.Time
	}

	BillPayment struct {
		ID      int64
		UserID  string
		Profile Profile
		CardID  int64
		Type    BillTransactionType
		Amount  Money
		Date    Date
	}

	// ReserveContribution is one append-only entry of the emergency
	// reserve ledger, independent of the expense/income ledger.
	ReserveContribution struct {
		ID      int64
		UserID  string
		Profile Profile
		Amount  Money
		Date    Date
	}
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidProfile      = errors.New("invalid profile")
	ErrEmptyDescription    = errors.New("empty description")
	ErrEmptyMainCategory   = errors.New("empty main category")
	ErrEmptySubcategory    = errors.New("empty subcategory")
	ErrInvalidInstallments = errors.New("invalid installment count")
	ErrInvalidPayment      = errors.New("invalid payment method")
	ErrInvalidBillType     = errors.New("invalid bill transaction type")
	ErrInvalidClosingDay   = errors.New("invalid closing day")
	ErrInvalidDueDay       = errors.New("invalid due day")
	ErrEmptyCardName       = errors.New("empty card name")
	ErrMissingUser         = errors.New("missing user id")
	ErrMissingCard         = errors.New("credit expense requires a card")
	ErrNotFound            = errors.New("not found")
	ErrCardInUse           = errors.New("card still referenced by ledger records")
	ErrPaymentTooLarge     = errors.New("payment exceeds outstanding balance")
	ErrRefundExceedsPaid   = errors.New("refund exceeds total paid")
)

// DateFormat is the on-disk and on-the-wire representation of dates.
const DateFormat = "2006-01-02"

func ParseProfile(s string) (Profile, error) {
	p := Profile(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case ProfilePersonal, ProfileHome, ProfileBusiness:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProfile, s)
}

// Profiles returns all known profiles in declaration order.
func Profiles() []Profile {
	return []Profile{ProfilePersonal, ProfileHome, ProfileBusiness}
}

func (p Profile) Validate() error {
	switch p {
	case ProfilePersonal, ProfileHome, ProfileBusiness:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidProfile, string(p))
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PayMoney, PayDebit, PayCredit, PayPix:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPayment, s)
}

func ParseBillTransactionType(s string) (BillTransactionType, error) {
	t := BillTransactionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case BillPaymentRegular, BillPaymentAnticipate, BillPaymentRefund:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBillType, s)
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

// Day returns the day of the month.
func (d Date) Day() int { return d.Time.Day() }

// Month returns the month as 1-12.
func (d Date) Month() int { return int(d.Time.Month()) }

// Year returns the year.
func (d Date) Year() int { return d.Time.Year() }

// AddMonths advances the date by n calendar months, clamping the day to the
// length of the target month (Jan 31 + 1 month = Feb 28/29).
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Time.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := lastDayOfMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }

func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrMissingUser
	}
	if err := e.Profile.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.MainCategory) == "" {
		return ErrEmptyMainCategory
	}
	if strings.TrimSpace(e.Subcategory) == "" {
		return ErrEmptySubcategory
	}
	switch e.PaymentMethod {
	case PayMoney, PayDebit, PayCredit, PayPix:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPayment, string(e.PaymentMethod))
	}
	if e.PaymentMethod == PayCredit && e.CardID == 0 {
		return ErrMissingCard
	}
	if e.Installments < 1 || e.Installments > MaxInstallments {
		return ErrInvalidInstallments
	}
	if e.CurrentInstallment < 1 || e.CurrentInstallment > e.Installments {
		return ErrInvalidInstallments
	}
	return nil
}

func (in Income) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return ErrMissingUser
	}
	if err := in.Profile.Validate(); err != nil {
		return err
	}
	if err := in.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(in.Description)) == 0 {
		return ErrEmptyDescription
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(in.MainCategory) == "" {
		return ErrEmptyMainCategory
	}
	if strings.TrimSpace(in.Subcategory) == "" {
		return ErrEmptySubcategory
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrMissingUser
	}
	if err := c.Profile.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCardName
	}
	if err := c.Limit.Validate(); err != nil {
		return err
	}
	if c.ClosingDay < 1 || c.ClosingDay > 31 {
		return ErrInvalidClosingDay
	}
	if c.DueDay < 1 || c.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

func (bp BillPayment) Validate() error {
	if strings.TrimSpace(bp.UserID) == "" {
		return ErrMissingUser
	}
	if err := bp.Profile.Validate(); err != nil {
		return err
	}
	if bp.CardID == 0 {
		return ErrMissingCard
	}
	switch bp.Type {
	case BillPaymentRegular, BillPaymentAnticipate, BillPaymentRefund:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidBillType, string(bp.Type))
	}
	if err := bp.Amount.Validate(); err != nil {
		return err
	}
	return bp.Date.Validate()
}

func (rc ReserveContribution) Validate() error {
	if strings.TrimSpace(rc.UserID) == "" {
		return ErrMissingUser
	}
	if err := rc.Profile.Validate(); err != nil {
		return err
	}
	if err := rc.Amount.Validate(); err != nil {
		return err
	}
	return rc.Date.Validate()
}
