package dashboard

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// UncategorizedName labels expenses whose category id has no match.
const UncategorizedName = "Uncategorized"

// NoneCategory is the top-category sentinel for periods without expenses.
const NoneCategory = "None"

// MonthNames maps the zero-based month index to its display name.
var MonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// yearOptionCount is how many years back the dashboard offers.
const yearOptionCount = 5

// Period selects a calendar month for dashboard filtering.
// Month is zero-based (0 = January), matching the month dropdown.
type Period struct {
	Year  int
	Month int
}

// YearOptions returns the selectable years: the current year down through
// four years prior.
func YearOptions(now time.Time) []int {
	years := make([]int, 0, yearOptionCount)
	for i := 0; i < yearOptionCount; i++ {
		years = append(years, now.Year()-i)
	}
	return years
}

// Entry is an expense joined with its resolved category display name.
type Entry struct {
	ID       int64
	Amount   decimal.Decimal
	Date     time.Time
	Note     string
	Category string
}

// entryDateLayout is the wire format of expense dates.
const entryDateLayout = "2006-01-02"

// JoinCategories resolves each expense's category id to the category's
// display name, falling back to the uncategorized label. Expenses with
// unparseable dates keep a zero date and never match a period.
func JoinCategories(expenses []Expense, categories []Category) []Entry {
	names := make(map[int64]string, len(categories))
	for _, cat := range categories {
		names[cat.ID] = cat.Name
	}

	entries := make([]Entry, 0, len(expenses))
	for _, exp := range expenses {
		name := UncategorizedName
		if exp.CategoryID != nil {
			if n, ok := names[*exp.CategoryID]; ok {
				name = n
			}
		}

		day, err := time.Parse(entryDateLayout, exp.Date)
		if err != nil {
			day = time.Time{}
		}

		entries = append(entries, Entry{
			ID:       exp.ID,
			Amount:   exp.Amount.Decimal,
			Date:     day,
			Note:     exp.Note,
			Category: name,
		})
	}
	return entries
}

// Contains reports whether the date falls in the selected period.
func (p Period) Contains(date time.Time) bool {
	if date.IsZero() {
		return false
	}
	return date.Year() == p.Year && int(date.Month())-1 == p.Month
}

// Bucket is a per-category running sum for the selected period.
type Bucket struct {
	Name  string
	Total decimal.Decimal
}

// recentLimit caps the recent-expenses table.
const recentLimit = 5

// ViewModel holds everything the dashboard renders for one period.
type ViewModel struct {
	Period      Period
	Total       decimal.Decimal
	Buckets     []Bucket
	TopCategory Bucket
	TopPercent  int
	Recent      []Entry
}

// BuildViewModel filters entries to the period and derives the dashboard
// numbers: category buckets in first-appearance order, the grand total, the
// top category (first encountered wins ties; a "None" sentinel when the
// period is empty) and the five most recent expenses.
func BuildViewModel(entries []Entry, period Period) ViewModel {
	vm := ViewModel{
		Period:      period,
		Total:       decimal.Zero,
		TopCategory: Bucket{Name: NoneCategory, Total: decimal.Zero},
	}

	var filtered []Entry
	for _, e := range entries {
		if period.Contains(e.Date) {
			filtered = append(filtered, e)
		}
	}

	index := make(map[string]int)
	for _, e := range filtered {
		i, ok := index[e.Category]
		if !ok {
			i = len(vm.Buckets)
			index[e.Category] = i
			vm.Buckets = append(vm.Buckets, Bucket{Name: e.Category, Total: decimal.Zero})
		}
		vm.Buckets[i].Total = vm.Buckets[i].Total.Add(e.Amount)
	}

	for _, b := range vm.Buckets {
		vm.Total = vm.Total.Add(b.Total)
	}

	for _, b := range vm.Buckets {
		if b.Total.GreaterThan(vm.TopCategory.Total) {
			vm.TopCategory = b
		}
	}

	if vm.Total.IsPositive() {
		percent := vm.TopCategory.Total.Div(vm.Total).Mul(decimal.NewFromInt(100))
		vm.TopPercent = int(percent.Round(0).IntPart())
	}

	recent := make([]Entry, len(filtered))
	copy(recent, filtered)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	vm.Recent = recent

	return vm
}
