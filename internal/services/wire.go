package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tracker/internal/core"
)

// Wire shapes as the backend sends them. Each is validated before it is
// handed to the rest of the application: a backend change that drops or
// retypes a field should fail here, loudly, not surface as blank cells
// in a rendered page.

type wireCategory struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"isDefault"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (w wireCategory) validate() error {
	if w.ID == "" {
		return errors.New("category missing id")
	}
	if w.Name == "" {
		return errors.New("category missing name")
	}
	return nil
}

func (w wireCategory) toCore() core.Category {
	return core.Category{
		ID:        w.ID,
		Name:      w.Name,
		IsDefault: w.IsDefault,
		CreatedBy: w.CreatedBy,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

type wireExpense struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  wireCategory    `json:"category"`
	Date      core.Date       `json:"date"`
	CreatedBy string          `json:"createdBy"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func (w wireExpense) validate() error {
	if w.ID == "" {
		return errors.New("expense missing id")
	}
	if w.Title == "" {
		return errors.New("expense missing title")
	}
	if w.Date.IsZero() {
		return errors.New("expense missing date")
	}
	if err := w.Category.validate(); err != nil {
		return fmt.Errorf("expense %s: %w", w.ID, err)
	}
	return nil
}

func (w wireExpense) toCore() core.ExpenseWithCategory {
	return core.ExpenseWithCategory{
		ID:        w.ID,
		Title:     w.Title,
		Amount:    w.Amount,
		Category:  w.Category.toCore(),
		Date:      w.Date,
		CreatedBy: w.CreatedBy,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func mapExpenses(ws []wireExpense) ([]core.ExpenseWithCategory, error) {
	out := make([]core.ExpenseWithCategory, 0, len(ws))
	for _, w := range ws {
		if err := w.validate(); err != nil {
			return nil, err
		}
		out = append(out, w.toCore())
	}
	return out, nil
}

type wireUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (w wireUser) validate() error {
	if w.ID == "" || w.Email == "" {
		return errors.New("user payload incomplete")
	}
	return nil
}

func (w wireUser) toCore() core.User {
	return core.User{ID: w.ID, Name: w.Name, Email: w.Email}
}

// Request payloads.

type listPayload struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	Category string `json:"category,omitempty"`
	Month    string `json:"month,omitempty"`
}

type exportPayload struct {
	Category string `json:"category,omitempty"`
	Month    string `json:"month,omitempty"`
}

type expensePayload struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
	Date     core.Date       `json:"date"`
}

type monthYearPayload struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}
