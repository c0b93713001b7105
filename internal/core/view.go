package core

import (
	"sort"
	"strings"
)

// DefaultPageSize is the fixed page size the history view renders with.
const DefaultPageSize = 10

// FilterAll is the sentinel that passes every category or type.
const FilterAll = "all"

// Date range presets offered by the history view. Every preset ends at
// "today"; only the start varies.
const (
	PresetToday   Preset = "today"
	PresetWeek    Preset = "week"
	PresetMonth   Preset = "month"
	PresetQuarter Preset = "quarter"
	PresetYear    Preset = "year"
	PresetAll     Preset = "all"
)

type (
	Preset string

	// DateRange bounds a query inclusively on both sides. A zero bound is
	// unbounded on that side.
	DateRange struct {
		Start Date
		End   Date
	}

	// Query is the view projection over a transaction collection. The chain
	// is applied in fixed order: search, category filter, type filter, date
	// range filter, stable sort, pagination.
	Query struct {
		Search   string
		Category string
		Type     string
		Range    DateRange
		Page     int
		PageSize int
	}

	// Page is one slice of the projected collection plus the counts a
	// consumer needs to render pagination controls.
	Page struct {
		Items      []Transaction
		Page       int
		PageSize   int
		TotalItems int
		TotalPages int
	}
)

// PresetRange computes the inclusive [start, end] range for a preset
// relative to the given day. End is always that day.
func PresetRange(p Preset, today Date) DateRange {
	r := DateRange{End: today}
	switch p {
	case PresetToday:
		r.Start = today
	case PresetWeek:
		r.Start = today.AddDays(-7)
	case PresetMonth:
		r.Start = today.AddDays(-30)
	case PresetQuarter:
		r.Start = Date{Time: today.AddDate(0, -3, 0)}
	case PresetYear:
		r.Start = Date{Time: today.AddDate(-1, 0, 0)}
	default:
		// All time: unbounded start.
	}
	return r
}

// Contains reports whether d falls inside the range, bounds included.
func (r DateRange) Contains(d Date) bool {
	if !r.Start.IsZero() && d.Before(r.Start.Time) {
		return false
	}
	if !r.End.IsZero() && d.After(r.End.Time) {
		return false
	}
	return true
}

func passAll(v string) bool {
	return v == "" || strings.EqualFold(v, FilterAll)
}

func (q Query) matches(t Transaction) bool {
	if s := strings.TrimSpace(q.Search); s != "" {
		needle := strings.ToLower(s)
		if !strings.Contains(strings.ToLower(t.Description), needle) &&
			!strings.Contains(strings.ToLower(string(t.Category)), needle) {
			return false
		}
	}
	if !passAll(q.Category) && string(t.Category) != q.Category {
		return false
	}
	if !passAll(q.Type) && string(t.Type) != q.Type {
		return false
	}
	return q.Range.Contains(t.Date)
}

// Filter applies the search, category, type and date-range steps and the
// stable date-descending sort, without pagination. The input is never
// mutated; ties keep the collection's own order.
func (q Query) Filter(transactions []Transaction) []Transaction {
	filtered := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if q.matches(t) {
			filtered = append(filtered, t)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.After(filtered[j].Date.Time)
	})
	return filtered
}

// Apply runs the full projection chain including pagination. Page is
// 1-indexed; a page past the end yields an empty slice, and the returned
// counts let the consumer self-correct an invalidated page.
func (q Query) Apply(transactions []Transaction) Page {
	filtered := q.Filter(transactions)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + size - 1) / size

	result := Page{
		Page:       page,
		PageSize:   size,
		TotalItems: total,
		TotalPages: totalPages,
	}

	start := (page - 1) * size
	if start >= total {
		result.Items = []Transaction{}
		return result
	}
	end := start + size
	if end > total {
		end = total
	}
	result.Items = filtered[start:end]
	return result
}
