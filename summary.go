package fintidy

import (
	"sort"

	"fintidy/date"
)

// CategoryTotal is the rolled-up total for one category path.
type CategoryTotal struct {
	Path  string
	Total Money
	Count int
}

// BucketTotal is the income/spending pair for one period bucket of the range.
type BucketTotal struct {
	Label    string
	Income   Money
	Spending Money
	Net      Money

	start date.Date // for calendar ordering
}

// Summary aggregates spending per category over a date range. Hidden
// transactions are excluded; pending ones count.
type Summary struct {
	Range    date.Range
	Currency string

	Income    Money
	Spending  Money
	Transfers Money
	Net       Money // income plus spending, transfers ignored

	Uncategorized int // transactions no rule or verdict has touched yet

	Categories []CategoryTotal // rolled up to the requested depth
	Buckets    []BucketTotal   // per-period subtotals, when the range spans several
}

// NewSummary computes a summary of the ledger over the range r, rolling
// category paths up to depth segments and bucketing by the given period.
func NewSummary(l *Ledger, r date.Range, bucket date.Period, depth int, currency string) *Summary {
	s := &Summary{
		Range:     r,
		Currency:  currency,
		Income:    MFloat(0, currency),
		Spending:  MFloat(0, currency),
		Transfers: MFloat(0, currency),
	}

	totals := make(map[string]*CategoryTotal)
	buckets := make(map[string]*BucketTotal)

	for _, tx := range l.Select(r, "") {
		if tx.Hidden {
			continue
		}
		category := l.CategoryOf(tx)
		switch TopLevel(category) {
		case TopIncome:
			s.Income = s.Income.Add(tx.Amount)
		case TopSpending:
			s.Spending = s.Spending.Add(tx.Amount)
		case TopTransfers:
			s.Transfers = s.Transfers.Add(tx.Amount)
		default:
			s.Uncategorized++
			// Count uncategorized cash flow with income or spending by sign,
			// so the net figure stays honest.
			if tx.Amount.IsNegative() {
				s.Spending = s.Spending.Add(tx.Amount)
			} else {
				s.Income = s.Income.Add(tx.Amount)
			}
		}

		rolled := Rollup(category, depth)
		ct, ok := totals[rolled]
		if !ok {
			ct = &CategoryTotal{Path: rolled, Total: MFloat(0, currency)}
			totals[rolled] = ct
		}
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++

		bucketRange := bucket.Range(tx.Date)
		label := bucketRange.Identifier()
		bt, ok := buckets[label]
		if !ok {
			zero := MFloat(0, currency)
			bt = &BucketTotal{Label: label, Income: zero, Spending: zero, Net: zero, start: bucketRange.From}
			buckets[label] = bt
		}
		if tx.Amount.IsNegative() {
			bt.Spending = bt.Spending.Add(tx.Amount)
		} else {
			bt.Income = bt.Income.Add(tx.Amount)
		}
		bt.Net = bt.Income.Add(bt.Spending)
	}

	s.Net = s.Income.Add(s.Spending)

	for _, ct := range totals {
		s.Categories = append(s.Categories, *ct)
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		a, b := s.Categories[i], s.Categories[j]
		ra, rb := topRank(a.Path), topRank(b.Path)
		if ra != rb {
			return ra < rb
		}
		return a.Path < b.Path
	})

	// Emit the non-empty buckets in calendar order.
	for _, bt := range buckets {
		s.Buckets = append(s.Buckets, *bt)
	}
	sort.Slice(s.Buckets, func(i, j int) bool { return s.Buckets[i].start.Before(s.Buckets[j].start) })
	if len(s.Buckets) <= 1 {
		s.Buckets = nil
	}
	return s
}

// topRank orders top-level buckets the way the tree declares them.
func topRank(path string) int {
	switch TopLevel(path) {
	case TopIncome:
		return 0
	case TopSpending:
		return 1
	case TopTransfers:
		return 2
	default:
		return 3
	}
}
