// Package analytics computes the admin dashboard views: daily stats, item
// rankings and per-student pending balances. Everything here is a pure
// function over an in-memory order slice; callers re-run it on every
// request against the full day's orders.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/canteen-hub/api/internal/enum"
)

// Item is one line of an order as seen by the dashboard.
type Item struct {
	ID       string
	Name     string
	Price    int64
	Category string
	Quantity int32
}

// Order is the dashboard's read model of a persisted order.
type Order struct {
	ID            string
	StudentName   string
	RollNumber    string
	Items         []Item
	Total         int64
	PaymentMethod string
	PaymentStatus string
	Timestamp     time.Time
}

// Day is a calendar date. Comparing Days avoids the timezone-boundary bugs
// of comparing date strings sliced out of timestamps.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar date of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	local := t.In(loc)
	return Day{Year: local.Year(), Month: local.Month(), Day: local.Day()}
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Day {
	return DayOf(time.Now(), loc)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", s, err)
	}
	return Day{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight of d in loc.
func (d Day) Time(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// FilterByDay keeps orders whose timestamp falls on day in loc.
func FilterByDay(orders []Order, day Day, loc *time.Location) []Order {
	var out []Order
	for _, o := range orders {
		if DayOf(o.Timestamp, loc) == day {
			out = append(out, o)
		}
	}
	return out
}

// Stats is the aggregate summary for one day. Money amounts are in paise.
type Stats struct {
	TotalOrders     int
	TotalMeals      int64
	TotalRevenue    int64
	PendingAmount   int64
	RazorpayOrders  int
	RazorpayRevenue int64
}

// ComputeStats aggregates the given (already date-filtered) orders.
// Revenue counts paid orders only; pending counts pending orders only.
func ComputeStats(orders []Order) Stats {
	var s Stats
	s.TotalOrders = len(orders)
	for _, o := range orders {
		for _, it := range o.Items {
			if it.Category == enum.CategoryMeal {
				s.TotalMeals += int64(it.Quantity)
			}
		}
		switch o.PaymentStatus {
		case enum.PaymentStatusPaid:
			s.TotalRevenue += o.Total
		case enum.PaymentStatusPending:
			s.PendingAmount += o.Total
		}
		if o.PaymentMethod == enum.PaymentMethodRazorpay {
			s.RazorpayOrders++
			if o.PaymentStatus == enum.PaymentStatusPaid {
				s.RazorpayRevenue += o.Total
			}
		}
	}
	return s
}

// ItemRank is one row of the item popularity ranking.
type ItemRank struct {
	ID       string
	Name     string
	Category string
	Quantity int64
	Revenue  int64
	// Share is this item's percentage of the total ranked quantity.
	Share decimal.Decimal
}

// RankItems groups line items across orders by item id, summing quantity and
// revenue, and returns the top `limit` items by quantity. The sort is stable:
// items with equal quantity keep their first-encountered order.
func RankItems(orders []Order, limit int) []ItemRank {
	index := make(map[string]int)
	var ranks []ItemRank
	for _, o := range orders {
		for _, it := range o.Items {
			i, ok := index[it.ID]
			if !ok {
				index[it.ID] = len(ranks)
				ranks = append(ranks, ItemRank{ID: it.ID, Name: it.Name, Category: it.Category})
				i = len(ranks) - 1
			}
			ranks[i].Quantity += int64(it.Quantity)
			ranks[i].Revenue += it.Price * int64(it.Quantity)
		}
	}

	// Insertion sort keeps encounter order on ties; the slice is tiny.
	for i := 1; i < len(ranks); i++ {
		for j := i; j > 0 && ranks[j].Quantity > ranks[j-1].Quantity; j-- {
			ranks[j], ranks[j-1] = ranks[j-1], ranks[j]
		}
	}

	if limit > 0 && len(ranks) > limit {
		ranks = ranks[:limit]
	}

	var total int64
	for _, r := range ranks {
		total += r.Quantity
	}
	if total > 0 {
		hundred := decimal.NewFromInt(100)
		totalDec := decimal.NewFromInt(total)
		for i := range ranks {
			ranks[i].Share = decimal.NewFromInt(ranks[i].Quantity).Mul(hundred).Div(totalDec).Round(1)
		}
	}
	return ranks
}

// PendingOrder is one unpaid order inside a student's pending group.
type PendingOrder struct {
	ID        string
	Items     string
	Total     int64
	Timestamp time.Time
}

// StudentPending accumulates a student's unpaid balance for the day.
type StudentPending struct {
	Name         string
	RollNumber   string
	TotalPending int64
	OrderCount   int
	Orders       []PendingOrder
}

// PendingByStudent groups pending orders by (name, roll number) and sorts the
// groups by total pending amount, highest first.
func PendingByStudent(orders []Order) []StudentPending {
	index := make(map[string]int)
	var groups []StudentPending
	for _, o := range orders {
		if o.PaymentStatus != enum.PaymentStatusPending {
			continue
		}
		key := o.StudentName + "\x00" + o.RollNumber
		i, ok := index[key]
		if !ok {
			index[key] = len(groups)
			groups = append(groups, StudentPending{Name: o.StudentName, RollNumber: o.RollNumber})
			i = len(groups) - 1
		}
		groups[i].TotalPending += o.Total
		groups[i].OrderCount++
		groups[i].Orders = append(groups[i].Orders, PendingOrder{
			ID:        o.ID,
			Items:     ItemSummary(o.Items),
			Total:     o.Total,
			Timestamp: o.Timestamp,
		})
	}

	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && groups[j].TotalPending > groups[j-1].TotalPending; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}
	return groups
}

// ItemSummary renders items as "Veg Meal x1, Regular Chai x2".
func ItemSummary(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s x%d", it.Name, it.Quantity)
	}
	return strings.Join(parts, ", ")
}

// FilterOrders applies the orders-table filters: a payment status filter
// ("all", "paid" or "pending") and a case-insensitive substring search over
// student name and roll number.
func FilterOrders(orders []Order, status, query string) []Order {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Order
	for _, o := range orders {
		if status != "" && status != "all" && o.PaymentStatus != status {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(o.StudentName), q) &&
			!strings.Contains(strings.ToLower(o.RollNumber), q) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// FilterPending applies the pending-sidebar search, which has its own query
// string independent of the orders-table search.
func FilterPending(groups []StudentPending, query string) []StudentPending {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return groups
	}
	var out []StudentPending
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Name), q) ||
			strings.Contains(strings.ToLower(g.RollNumber), q) {
			out = append(out, g)
		}
	}
	return out
}

// Rupees formats a paise amount as a rupee string, e.g. 6000 -> "60.00".
func Rupees(paise int64) string {
	return decimal.NewFromInt(paise).Div(decimal.NewFromInt(100)).StringFixed(2)
}
