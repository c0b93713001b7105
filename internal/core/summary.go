package core

// Summary holds the derived aggregates over a transaction collection.
type Summary struct {
	TotalIncome        Money
	TotalExpense       Money
	CashBalance        Money
	SpendingByCategory map[Category]Money
}

// Summarize re-derives all aggregates from scratch. It is pure and
// order-independent; callers must not patch the result incrementally, a
// changed collection gets a fresh Summarize.
func Summarize(transactions []Transaction) Summary {
	s := Summary{SpendingByCategory: make(map[Category]Money)}
	for _, t := range transactions {
		switch t.Type {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			s.SpendingByCategory[t.Category] = s.SpendingByCategory[t.Category].Add(t.Amount)
		}
	}
	s.CashBalance = s.TotalIncome.Sub(s.TotalExpense)
	return s
}
