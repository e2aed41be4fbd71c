package analytics

import (
	"testing"
	"time"

	"github.com/canteen-hub/api/internal/enum"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func order(id, name, roll, method, status string, total int64, ts time.Time, items ...Item) Order {
	return Order{
		ID:            id,
		StudentName:   name,
		RollNumber:    roll,
		Items:         items,
		Total:         total,
		PaymentMethod: method,
		PaymentStatus: status,
		Timestamp:     ts,
	}
}

func TestDayOf_TimezoneBoundary(t *testing.T) {
	// 23:30 UTC on March 1st is already March 2nd in IST.
	utc := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)

	got := DayOf(utc, ist)
	want := Day{Year: 2026, Month: time.March, Day: 2}
	if got != want {
		t.Errorf("DayOf in IST = %v, want %v", got, want)
	}

	if got := DayOf(utc, time.UTC); got != (Day{2026, time.March, 1}) {
		t.Errorf("DayOf in UTC = %v, want 2026-03-01", got)
	}
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2026-03-01")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if d.String() != "2026-03-01" {
		t.Errorf("round-trip = %q", d.String())
	}

	if _, err := ParseDay("01/03/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

func TestFilterByDay(t *testing.T) {
	day := Day{2026, time.March, 1}
	inDay := time.Date(2026, 3, 1, 12, 0, 0, 0, ist)
	nextDay := time.Date(2026, 3, 2, 0, 5, 0, 0, ist)

	orders := []Order{
		order("1", "A", "R1", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 100, inDay),
		order("2", "B", "R2", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 100, nextDay),
	}

	got := FilterByDay(orders, day, ist)
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("FilterByDay kept %v, want only order 1", got)
	}
}

func TestComputeStats(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, ist)
	orders := []Order{
		order("1", "A", "R1", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 6500, ts,
			Item{ID: "meal-1", Name: "Veg Meal", Price: 4000, Category: enum.CategoryMeal, Quantity: 1},
			Item{ID: "snack-5", Name: "Sandwich", Price: 2500, Category: enum.CategorySnacks, Quantity: 1}),
		order("2", "B", "R2", enum.PaymentMethodAccount, enum.PaymentStatusPending, 6000, ts,
			Item{ID: "meal-1", Name: "Veg Meal", Price: 4000, Category: enum.CategoryMeal, Quantity: 1},
			Item{ID: "chai-1", Name: "Regular Chai", Price: 1000, Category: enum.CategoryChai, Quantity: 2}),
		order("3", "C", "R3", enum.PaymentMethodRazorpay, enum.PaymentStatusPaid, 4000, ts,
			Item{ID: "meal-2", Name: "Non-Veg Meal", Price: 4000, Category: enum.CategoryMeal, Quantity: 1}),
	}

	s := ComputeStats(orders)
	if s.TotalOrders != 3 {
		t.Errorf("TotalOrders = %d, want 3", s.TotalOrders)
	}
	if s.TotalMeals != 3 {
		t.Errorf("TotalMeals = %d, want 3", s.TotalMeals)
	}
	if s.TotalRevenue != 10500 {
		t.Errorf("TotalRevenue = %d, want 10500", s.TotalRevenue)
	}
	if s.PendingAmount != 6000 {
		t.Errorf("PendingAmount = %d, want 6000", s.PendingAmount)
	}
	if s.RazorpayOrders != 1 || s.RazorpayRevenue != 4000 {
		t.Errorf("razorpay slice = %d orders / %d paise, want 1 / 4000", s.RazorpayOrders, s.RazorpayRevenue)
	}
}

func TestComputeStats_EmptyDay(t *testing.T) {
	s := ComputeStats(nil)
	if s.TotalOrders != 0 || s.TotalRevenue != 0 || s.PendingAmount != 0 || s.TotalMeals != 0 {
		t.Errorf("stats for empty day = %+v, want all zero", s)
	}
}

func TestRankItems_TieKeepsEncounterOrder(t *testing.T) {
	ts := time.Now()
	// A appears first with 3, then B with 5, then A again with 2: both end at
	// 5 and A must stay ahead because it was encountered first.
	orders := []Order{
		order("1", "A", "R1", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 0, ts,
			Item{ID: "item-a", Name: "A", Price: 100, Category: enum.CategorySnacks, Quantity: 3},
			Item{ID: "item-b", Name: "B", Price: 200, Category: enum.CategorySnacks, Quantity: 5}),
		order("2", "B", "R2", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 0, ts,
			Item{ID: "item-a", Name: "A", Price: 100, Category: enum.CategorySnacks, Quantity: 2}),
	}

	ranks := RankItems(orders, 10)
	if len(ranks) != 2 {
		t.Fatalf("got %d ranks, want 2", len(ranks))
	}
	if ranks[0].ID != "item-a" || ranks[1].ID != "item-b" {
		t.Fatalf("tie order = [%s %s], want [item-a item-b]", ranks[0].ID, ranks[1].ID)
	}
	if ranks[0].Quantity != 5 || ranks[1].Quantity != 5 {
		t.Errorf("quantities = %d/%d, want 5/5", ranks[0].Quantity, ranks[1].Quantity)
	}
	if ranks[0].Revenue != 500 {
		t.Errorf("item-a revenue = %d, want 500", ranks[0].Revenue)
	}
	if want := "50"; ranks[0].Share.String() != want {
		t.Errorf("item-a share = %s, want %s", ranks[0].Share, want)
	}
}

func TestRankItems_TruncatesToLimit(t *testing.T) {
	ts := time.Now()
	var items []Item
	for i := 0; i < 12; i++ {
		items = append(items, Item{
			ID:       string(rune('a' + i)),
			Name:     string(rune('A' + i)),
			Price:    100,
			Category: enum.CategorySnacks,
			Quantity: int32(12 - i),
		})
	}
	orders := []Order{order("1", "A", "R1", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 0, ts, items...)}

	ranks := RankItems(orders, 10)
	if len(ranks) != 10 {
		t.Fatalf("got %d ranks, want 10", len(ranks))
	}
	if ranks[0].Quantity != 12 {
		t.Errorf("top quantity = %d, want 12", ranks[0].Quantity)
	}
}

func TestPendingByStudent_AccumulatesPerStudent(t *testing.T) {
	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, ist)
	chai := Item{ID: "chai-1", Name: "Regular Chai", Price: 1000, Category: enum.CategoryChai, Quantity: 2}
	meal := Item{ID: "meal-1", Name: "Veg Meal", Price: 4000, Category: enum.CategoryMeal, Quantity: 1}

	orders := []Order{
		order("1", "Rahul Sharma", "CS2021001", enum.PaymentMethodAccount, enum.PaymentStatusPending, 6000, ts, meal, chai),
		order("2", "Priya Patel", "EC2020045", enum.PaymentMethodAccount, enum.PaymentStatusPending, 2000, ts.Add(time.Hour), chai),
		order("3", "Rahul Sharma", "CS2021001", enum.PaymentMethodAccount, enum.PaymentStatusPending, 4000, ts.Add(2*time.Hour), meal),
		order("4", "Amit Kumar", "ME2021089", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 1500, ts),
	}

	groups := PendingByStudent(orders)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Rahul owes 10000 and sorts above Priya's 2000.
	g := groups[0]
	if g.Name != "Rahul Sharma" || g.RollNumber != "CS2021001" {
		t.Fatalf("top group = %s/%s", g.Name, g.RollNumber)
	}
	if g.TotalPending != 10000 {
		t.Errorf("TotalPending = %d, want 10000", g.TotalPending)
	}
	if g.OrderCount != 2 {
		t.Errorf("OrderCount = %d, want 2", g.OrderCount)
	}
	if len(g.Orders) != 2 || g.Orders[0].ID != "1" || g.Orders[1].ID != "3" {
		t.Errorf("group orders = %+v", g.Orders)
	}
	if g.Orders[0].Items != "Veg Meal x1, Regular Chai x2" {
		t.Errorf("item summary = %q", g.Orders[0].Items)
	}
}

func TestFilterOrders(t *testing.T) {
	ts := time.Now()
	orders := []Order{
		order("1", "Rahul Sharma", "CS2021001", enum.PaymentMethodAccount, enum.PaymentStatusPending, 100, ts),
		order("2", "Priya Patel", "EC2020045", enum.PaymentMethodPayNow, enum.PaymentStatusPaid, 100, ts),
	}

	if got := FilterOrders(orders, "pending", ""); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("pending filter = %v", got)
	}
	if got := FilterOrders(orders, "all", "priya"); len(got) != 1 || got[0].ID != "2" {
		t.Errorf("name search = %v", got)
	}
	if got := FilterOrders(orders, "", "2021"); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("roll search = %v", got)
	}
	if got := FilterOrders(orders, "paid", "rahul"); got != nil {
		t.Errorf("combined filter = %v, want none", got)
	}
}

func TestFilterPending(t *testing.T) {
	groups := []StudentPending{
		{Name: "Rahul Sharma", RollNumber: "CS2021001"},
		{Name: "Priya Patel", RollNumber: "EC2020045"},
	}
	if got := FilterPending(groups, "ec2020"); len(got) != 1 || got[0].Name != "Priya Patel" {
		t.Errorf("FilterPending = %v", got)
	}
	if got := FilterPending(groups, ""); len(got) != 2 {
		t.Errorf("empty query should keep all groups, got %v", got)
	}
}

func TestRupees(t *testing.T) {
	if got := Rupees(6000); got != "60.00" {
		t.Errorf("Rupees(6000) = %q, want 60.00", got)
	}
	if got := Rupees(1550); got != "15.50" {
		t.Errorf("Rupees(1550) = %q, want 15.50", got)
	}
	if got := Rupees(0); got != "0.00" {
		t.Errorf("Rupees(0) = %q, want 0.00", got)
	}
}
