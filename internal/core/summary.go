package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// View is a filtered expense list with its totals.
type View struct {
	Window     Window
	Expenses   []Expense
	Count      int
	Total      Money
	ByCategory []CategoryAmount
}

// TotalSpending sums the amounts of records. Empty input yields zero.
func TotalSpending(records []Expense) Money {
	var total Money
	for _, e := range records {
		total = total.Add(e.Amount)
	}
	return total
}

// TotalsByCategory groups amounts by exact category name, in order of first
// appearance.
func TotalsByCategory(records []Expense) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, e := range records {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryAmount{Name: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	return out
}

// Summarize builds the view of an already filtered record set.
func Summarize(w Window, records []Expense) View {
	return View{
		Window:     w,
		Expenses:   records,
		Count:      len(records),
		Total:      TotalSpending(records),
		ByCategory: TotalsByCategory(records),
	}
}
