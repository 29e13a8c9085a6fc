package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// stubBackend is an in-memory stand-in for the expense backend, faithful
// to its contract: envelope responses, cookie session, month filters that
// ignore the year, empty pages past the end, status:false for unknown ids.
type stubBackend struct {
	mu sync.Mutex

	expenses   []stubExpense
	categories []stubCategory
	nextID     int

	// Seeded credentials and the token issued on successful login.
	userEmail    string
	userPassword string
	token        string

	failLogout   bool
	requestCount map[string]int
}

type stubCategory struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
	CreatedBy string `json:"createdBy"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type stubExpense struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Amount    float64      `json:"amount"`
	Category  stubCategory `json:"category"`
	Date      string       `json:"date"`
	CreatedBy string       `json:"createdBy"`
	CreatedAt string       `json:"createdAt"`
	UpdatedAt string       `json:"updatedAt"`
}

func newStubBackend() *stubBackend {
	now := time.Now().UTC().Format(time.RFC3339)
	food := stubCategory{ID: "cat-food", Name: "Food", IsDefault: true, CreatedBy: "u1", CreatedAt: now, UpdatedAt: now}
	travel := stubCategory{ID: "cat-travel", Name: "Travel", IsDefault: true, CreatedBy: "u1", CreatedAt: now, UpdatedAt: now}
	return &stubBackend{
		categories:   []stubCategory{food, travel},
		userEmail:    "a@b.com",
		userPassword: "correct-password",
		token:        "valid-token",
		nextID:       1,
		requestCount: make(map[string]int),
	}
}

func (b *stubBackend) addExpense(title string, amount float64, catID, date string) stubExpense {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addExpenseLocked(title, amount, catID, date)
}

func (b *stubBackend) addExpenseLocked(title string, amount float64, catID, date string) stubExpense {
	now := time.Now().UTC().Format(time.RFC3339)
	e := stubExpense{
		ID:        fmt.Sprintf("exp-%d", b.nextID),
		Title:     title,
		Amount:    amount,
		Category:  b.categoryByIDLocked(catID),
		Date:      date,
		CreatedBy: "u1",
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.nextID++
	b.expenses = append(b.expenses, e)
	return e
}

func (b *stubBackend) categoryByIDLocked(id string) stubCategory {
	for _, c := range b.categories {
		if c.ID == id {
			return c
		}
	}
	return stubCategory{ID: id, Name: "Unknown"}
}

func (b *stubBackend) calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requestCount[path]
}

func writeEnvelope(w http.ResponseWriter, code int, status bool, message string, data any, pagination any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	body := map[string]any{"status": status, "message": message}
	if data != nil {
		body["data"] = data
	}
	if pagination != nil {
		body["pagination"] = pagination
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (b *stubBackend) authorized(r *http.Request) bool {
	ck, err := r.Cookie("token")
	return err == nil && ck.Value == b.token
}

func (b *stubBackend) server() *httptest.Server {
	mux := http.NewServeMux()

	count := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			b.mu.Lock()
			b.requestCount[r.URL.Path]++
			b.mu.Unlock()
			next(w, r)
		}
	}
	protected := func(next http.HandlerFunc) http.HandlerFunc {
		return count(func(w http.ResponseWriter, r *http.Request) {
			if !b.authorized(r) {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next(w, r)
		})
	}

	mux.HandleFunc("/api/auth/login", count(func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email != b.userEmail || in.Password != b.userPassword {
			writeEnvelope(w, http.StatusBadRequest, false, "Login failed", nil, nil)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: b.token, HttpOnly: true})
		writeEnvelope(w, http.StatusOK, true, "Login successful",
			map[string]any{"user": map[string]string{"id": "u1", "name": "Ada", "email": b.userEmail}}, nil)
	}))

	mux.HandleFunc("/api/auth/signup", count(func(w http.ResponseWriter, r *http.Request) {
		var in struct{ Name, Email, Password string }
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Email == b.userEmail {
			writeEnvelope(w, http.StatusConflict, false, "User with this email already exists", nil, nil)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: b.token, HttpOnly: true})
		writeEnvelope(w, http.StatusOK, true, "Signup successful",
			map[string]any{"user": map[string]string{"id": "u2", "name": in.Name, "email": in.Email}}, nil)
	}))

	mux.HandleFunc("/api/auth/logout", count(func(w http.ResponseWriter, r *http.Request) {
		if b.failLogout {
			http.Error(w, "backend down", http.StatusInternalServerError)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "Logged out", nil, nil)
	}))

	mux.HandleFunc("/api/auth/profile", protected(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "",
			map[string]any{"user": map[string]string{"id": "u1", "name": "Ada", "email": b.userEmail}}, nil)
	}))

	mux.HandleFunc("/api/expenses/list", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Page     int    `json:"page"`
			Limit    int    `json:"limit"`
			Category string `json:"category"`
			Month    string `json:"month"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Page < 1 {
			in.Page = 1
		}
		if in.Limit < 1 {
			in.Limit = 10
		}

		b.mu.Lock()
		matched := make([]stubExpense, 0)
		for _, e := range b.expenses {
			if in.Category != "" && e.Category.ID != in.Category {
				continue
			}
			if in.Month != "" && len(e.Date) >= 7 && e.Date[5:7] != in.Month {
				continue
			}
			matched = append(matched, e)
		}
		b.mu.Unlock()

		total := len(matched)
		totalPages := (total + in.Limit - 1) / in.Limit
		if totalPages < 1 {
			totalPages = 1
		}
		start := (in.Page - 1) * in.Limit
		if start > total {
			start = total
		}
		end := start + in.Limit
		if end > total {
			end = total
		}
		writeEnvelope(w, http.StatusOK, true, "", matched[start:end],
			map[string]int{"page": in.Page, "limit": in.Limit, "total": total, "totalPages": totalPages})
	}))

	mux.HandleFunc("/api/expenses", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Title    string  `json:"title"`
			Amount   float64 `json:"amount"`
			Category string  `json:"category"`
			Date     string  `json:"date"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		e := b.addExpenseLocked(in.Title, in.Amount, in.Category, in.Date)
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "Expense created", e, nil)
	}))

	mux.HandleFunc("/api/expenses/get", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ExpenseID string `json:"expenseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, e := range b.expenses {
			if e.ID == in.ExpenseID {
				writeEnvelope(w, http.StatusOK, true, "", e, nil)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, false, "Expense not found", nil, nil)
	}))

	mux.HandleFunc("/api/expenses/update", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ExpenseID string  `json:"expenseId"`
			Title     string  `json:"title"`
			Amount    float64 `json:"amount"`
			Category  string  `json:"category"`
			Date      string  `json:"date"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.expenses {
			if e.ID == in.ExpenseID {
				b.expenses[i].Title = in.Title
				b.expenses[i].Amount = in.Amount
				b.expenses[i].Category = b.categoryByIDLocked(in.Category)
				b.expenses[i].Date = in.Date
				b.expenses[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
				writeEnvelope(w, http.StatusOK, true, "Expense updated", b.expenses[i], nil)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, false, "Expense not found", nil, nil)
	}))

	mux.HandleFunc("/api/expenses/delete", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			ExpenseID string `json:"expenseId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, e := range b.expenses {
			if e.ID == in.ExpenseID {
				b.expenses = append(b.expenses[:i], b.expenses[i+1:]...)
				writeEnvelope(w, http.StatusOK, true, "Expense deleted", nil, nil)
				return
			}
		}
		writeEnvelope(w, http.StatusNotFound, false, "Expense not found", nil, nil)
	}))

	mux.HandleFunc("/api/categories", protected(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		cats := append([]stubCategory(nil), b.categories...)
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", cats, nil)
	}))

	mux.HandleFunc("/api/categories/create", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Name string `json:"name"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, c := range b.categories {
			if strings.EqualFold(c.Name, in.Name) {
				writeEnvelope(w, http.StatusConflict, false, "Category already exists", nil, nil)
				return
			}
		}
		now := time.Now().UTC().Format(time.RFC3339)
		c := stubCategory{ID: fmt.Sprintf("cat-%d", len(b.categories)+1), Name: in.Name, CreatedBy: "u1", CreatedAt: now, UpdatedAt: now}
		b.categories = append(b.categories, c)
		writeEnvelope(w, http.StatusOK, true, "Category created", c, nil)
	}))

	mux.HandleFunc("/api/expenses/chart-data", protected(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"monthlyData":          []map[string]any{{"date": "2025-01", "amount": 120.5}},
			"categoryDistribution": []map[string]any{{"name": "Food", "value": 80, "color": "#dcfce7"}},
		}, nil)
	}))

	mux.HandleFunc("/api/expenses/export", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Category string `json:"category"`
			Month    string `json:"month"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		var sb strings.Builder
		sb.WriteString("Title,Amount,Category,Date\n")
		b.mu.Lock()
		for _, e := range b.expenses {
			if in.Category != "" && e.Category.ID != in.Category {
				continue
			}
			if in.Month != "" && len(e.Date) >= 7 && e.Date[5:7] != in.Month {
				continue
			}
			fmt.Fprintf(&sb, "%s,%.2f,%s,%s\n", e.Title, e.Amount, e.Category.Name, e.Date)
		}
		b.mu.Unlock()
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sb.String()))
	}))

	mux.HandleFunc("/api/expenses/dashboard", protected(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		var total float64
		for _, e := range b.expenses {
			total += e.Amount
		}
		recent := append([]stubExpense(nil), b.expenses...)
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		b.mu.Unlock()
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"stats": map[string]any{
				"totalExpenses":     total,
				"thisMonthExpenses": total,
				"lastMonthExpenses": 0,
				"percentageChange":  0,
			},
			"recentExpenses":      recent,
			"expenseDistribution": []map[string]any{{"name": "Food", "value": total}},
			"monthlyExpensesData": []map[string]any{{"date": "2025-06", "amount": total}},
		}, nil)
	}))

	mux.HandleFunc("/api/monthly-breakdown", protected(func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Month int `json:"month"`
			Year  int `json:"year"`
		}
		_ = json.NewDecoder(r.Body).Decode(&in)
		month := fmt.Sprintf("%02d", in.Month)
		prefix := fmt.Sprintf("%04d-%s", in.Year, month)

		b.mu.Lock()
		matched := make([]stubExpense, 0)
		var total float64
		for _, e := range b.expenses {
			if strings.HasPrefix(e.Date, prefix) {
				matched = append(matched, e)
				total += e.Amount
			}
		}
		b.mu.Unlock()

		days := time.Date(in.Year, time.Month(in.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
		writeEnvelope(w, http.StatusOK, true, "", map[string]any{
			"summary": map[string]any{
				"totalSpent":    total,
				"totalExpenses": len(matched),
				"averagePerDay": total / float64(days),
				"daysInMonth":   days,
			},
			"expenses":             matched,
			"categoryDistribution": []map[string]any{{"name": "Food", "value": total}},
			"dailyBreakdown":       []map[string]any{{"date": prefix + "-01", "amount": total}},
		}, nil)
	}))

	return httptest.NewServer(mux)
}
