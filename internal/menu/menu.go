// Package menu holds the static canteen catalog. Items are reference data:
// prices are in paise and the set only changes with a deploy.
package menu

import "github.com/canteen-hub/api/internal/enum"

type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

var catalog = []Item{
	{ID: "meal-1", Name: "Veg Meal", Price: 4000, Category: enum.CategoryMeal, Description: "Rice, dal, sabzi, roti and salad"},
	{ID: "meal-2", Name: "Non-Veg Meal", Price: 4000, Category: enum.CategoryMeal, Description: "Rice, chicken curry, roti and salad"},
	{ID: "meal-3", Name: "Special Thali", Price: 4000, Category: enum.CategoryMeal, Description: "Full thali with dessert"},
	{ID: "chai-1", Name: "Regular Chai", Price: 1000, Category: enum.CategoryChai},
	{ID: "chai-2", Name: "Ginger Chai", Price: 1000, Category: enum.CategoryChai},
	{ID: "chai-3", Name: "Cardamom Chai", Price: 1000, Category: enum.CategoryChai},
	{ID: "snack-1", Name: "Samosa", Price: 1500, Category: enum.CategorySnacks},
	{ID: "snack-2", Name: "Vada Pav", Price: 2000, Category: enum.CategorySnacks},
	{ID: "snack-3", Name: "Maggi", Price: 2500, Category: enum.CategorySnacks},
	{ID: "snack-4", Name: "Pakoda", Price: 1500, Category: enum.CategorySnacks},
	{ID: "snack-5", Name: "Sandwich", Price: 2500, Category: enum.CategorySnacks},
}

var byID = func() map[string]Item {
	m := make(map[string]Item, len(catalog))
	for _, it := range catalog {
		m[it.ID] = it
	}
	return m
}()

// Items returns a copy of the full catalog in display order.
func Items() []Item {
	out := make([]Item, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a catalog item.
func ByID(id string) (Item, bool) {
	it, ok := byID[id]
	return it, ok
}

// ByCategory returns the catalog items in the given category, in display order.
func ByCategory(category string) []Item {
	var out []Item
	for _, it := range catalog {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out
}
