package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrFutureDate       = errors.New("date cannot be in the future")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyCategory    = errors.New("empty category")
	ErrCategoryTooShort = errors.New("category name must be at least 2 characters")
)

type (
	// Date is a calendar date without a time component. It marshals as
	// YYYY-MM-DD, the format the backend uses for expense dates.
	Date struct {
		time.Time
	}

	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	Category struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		IsDefault bool      `json:"isDefault"`
		CreatedBy string    `json:"createdBy"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	Expense struct {
		ID         string          `json:"id"`
		Title      string          `json:"title"`
		Amount     decimal.Decimal `json:"amount"`
		CategoryID string          `json:"category"`
		Date       Date            `json:"date"`
		CreatedBy  string          `json:"createdBy"`
		CreatedAt  time.Time       `json:"createdAt"`
		UpdatedAt  time.Time       `json:"updatedAt"`
	}

	// ExpenseWithCategory is the client-side join of an expense and its
	// category record. It is never sent back to the backend.
	ExpenseWithCategory struct {
		ID        string          `json:"id"`
		Title     string          `json:"title"`
		Amount    decimal.Decimal `json:"amount"`
		Category  Category        `json:"category"`
		Date      Date            `json:"date"`
		CreatedBy string          `json:"createdBy"`
		CreatedAt time.Time       `json:"createdAt"`
		UpdatedAt time.Time       `json:"updatedAt"`
	}

	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		TotalPages int `json:"totalPages"`
	}

	// ExpenseFilter narrows expense listings. Category matches an exact
	// category id. Month is a two-digit month string ("01".."12") and
	// matches that calendar month of every year; this mirrors the
	// backend's contract and is deliberate.
	ExpenseFilter struct {
		Category string
		Month    string
	}

	// ExpenseInput is the payload for creating or editing an expense.
	ExpenseInput struct {
		Title      string
		Amount     decimal.Decimal
		CategoryID string
		Date       Date
	}
)

const dateLayout = "2006-01-02"

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthString returns the calendar month as a two-digit string, the form
// month filters use.
func (d Date) MonthString() string {
	return d.Format("01")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// Backends vary between bare dates and full timestamps.
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

// Validate checks that the input can be submitted. A failing input never
// reaches the network.
func (in ExpenseInput) Validate(now time.Time) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrEmptyTitle
	}
	if !in.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.CategoryID) == "" {
		return ErrEmptyCategory
	}
	if in.Date.IsZero() {
		return ErrInvalidDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.Date.Time.After(today) {
		return ErrFutureDate
	}
	return nil
}

// ValidateCategoryName applies the client-side rules for a new category
// name. Uniqueness stays server-side.
func ValidateCategoryName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	if len(name) < 2 {
		return ErrCategoryTooShort
	}
	return nil
}
