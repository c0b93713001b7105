package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Salary        Category = "Salary"
	Housing       Category = "Housing"
	Groceries     Category = "Groceries"
	DiningOut     Category = "Dining Out"
	Entertainment Category = "Entertainment"
	Transport     Category = "Transport"
	Utilities     Category = "Utilities"
)

type (
	TransactionType string

	Category string

	// Date is a calendar date with no time-of-day component.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is the sole ledger entity. The wire and durable shapes
	// are identical: amount is a decimal number, date is YYYY-MM-DD.
	Transaction struct {
		ID          string          `json:"id"`
		Description string          `json:"description"`
		Amount      Money           `json:"amount"`
		Category    Category        `json:"category"`
		Type        TransactionType `json:"type"`
		Date        Date            `json:"date"`
	}
)

var (
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrEmptyDescription = errors.New("description cannot be empty")
	ErrInvalidDate      = errors.New("invalid date")
	ErrUnknownType      = errors.New("type must be income or expense")
	ErrUnknownCategory  = errors.New("unknown category")

	// ErrNotFound reports an operation addressed to an id that does not exist.
	ErrNotFound = errors.New("transaction not found")

	// ErrStoreUnavailable reports that the backing store cannot be reached.
	// It is kept distinct from data errors so callers can tell "your data is
	// wrong" apart from "the system is down".
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)

// ValidationError collects every constraint a transaction violates, so a
// caller sees the full list rather than the first failure.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense:
		return true
	}
	return false
}

// Categories returns the closed category set in display order.
func Categories() []Category {
	return []Category{Salary, Housing, Groceries, DiningOut, Entertainment, Transport, Utilities}
}

func (c Category) Valid() bool {
	switch c {
	case Salary, Housing, Groceries, DiningOut, Entertainment, Transport, Utilities:
		return true
	}
	return false
}

// TypeOf returns the transaction type a category belongs to. Salary is the
// only income category; every other valid category is expense-only.
func (c Category) TypeOf() TransactionType {
	if c == Salary {
		return Income
	}
	return Expense
}

const dateLayout = "2006-01-02"

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO 8601 YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date shifted by the given number of calendar days.
func (d Date) AddDays(days int) Date {
	return Date{Time: d.AddDate(0, 0, days)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate checks every invariant of the data model and reports all
// violations at once.
func (t Transaction) Validate() error {
	var violations []string

	if len(strings.TrimSpace(t.Description)) == 0 {
		violations = append(violations, ErrEmptyDescription.Error())
	}
	if t.Amount.Cents <= 0 {
		violations = append(violations, ErrInvalidAmount.Error())
	}
	if err := t.Date.Validate(); err != nil {
		violations = append(violations, err.Error())
	}

	switch {
	case !t.Type.Valid():
		violations = append(violations, ErrUnknownType.Error())
	case !t.Category.Valid():
		violations = append(violations, fmt.Sprintf("%s: %q", ErrUnknownCategory, t.Category))
	case t.Category.TypeOf() != t.Type:
		violations = append(violations, fmt.Sprintf("category %q is not valid for type %q", t.Category, t.Type))
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
