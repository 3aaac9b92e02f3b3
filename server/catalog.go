// Copyright 2025 gusto Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/gusto-io/gusto/storage/data"
)

// CatalogLookup resolves a food id to its meta data. The recommendation join
// consults the database first, then a CatalogLookup, then falls back to a
// placeholder, so which catalog backs the lookup stays a caller decision.
type CatalogLookup func(foodId string) (data.Food, bool)

// StaticCatalog builds a CatalogLookup over a fixed food list.
func StaticCatalog(foods []data.Food) CatalogLookup {
	return func(foodId string) (data.Food, bool) {
		return lo.Find(foods, func(f data.Food) bool { return f.FoodId == foodId })
	}
}

// StaticFoods is the built-in menu. Reviews may reference these foods before
// they are ever written to the data store, so recommendation responses resolve
// against this list when a food is missing from the database.
var StaticFoods = []data.Food{
	{FoodId: "1", Name: "Cheese Pasta", Description: "Delicious Food, healthy", Category: "Pasta", Price: 150},
	{FoodId: "2", Name: "Tomato Pasta", Description: "Delicious Food, healthy", Category: "Pasta", Price: 120},
	{FoodId: "3", Name: "Creamy Pasta", Description: "Delicious Food, healthy", Category: "Pasta", Price: 100},
	{FoodId: "4", Name: "Chicken Pasta", Description: "Delicious Food, healthy", Category: "Pasta", Price: 130},
	{FoodId: "5", Name: "Greek salad", Description: "Delicious Food, healthy", Category: "Salad", Price: 100},
	{FoodId: "6", Name: "Veg salad", Description: "Delicious Food, healthy", Category: "Salad", Price: 90},
	{FoodId: "7", Name: "Clover Salad", Description: "Delicious Food, healthy", Category: "Salad", Price: 80},
	{FoodId: "8", Name: "Chicken Salad", Description: "Delicious Food, healthy", Category: "Salad", Price: 120},
	{FoodId: "9", Name: "Ripple Ice Cream", Description: "Delicious Food, healthy", Category: "Deserts", Price: 120},
	{FoodId: "10", Name: "Fruit Ice Cream", Description: "Delicious Food, healthy", Category: "Deserts", Price: 140},
	{FoodId: "11", Name: "Jar Ice Cream", Description: "Delicious Food, healthy", Category: "Deserts", Price: 160},
	{FoodId: "12", Name: "Vanilla Ice Cream", Description: "Delicious Food, healthy", Category: "Deserts", Price: 180},
	{FoodId: "13", Name: "Chicken Sandwich", Description: "Delicious Food, healthy", Category: "Sandwich", Price: 100},
	{FoodId: "14", Name: "Vegan Sandwich", Description: "Delicious Food, healthy", Category: "Sandwich", Price: 90},
	{FoodId: "15", Name: "Grilled Sandwich", Description: "Delicious Food, healthy", Category: "Sandwich", Price: 80},
	{FoodId: "16", Name: "Bread Sandwich", Description: "Delicious Food, healthy", Category: "Sandwich", Price: 70},
	{FoodId: "17", Name: "Buttter Noodles", Description: "Delicious Food, healthy", Category: "Noodles", Price: 60},
	{FoodId: "18", Name: "Veg Noodles", Description: "Delicious Food, healthy", Category: "Noodles", Price: 70},
	{FoodId: "19", Name: "Somen Noodles", Description: "Delicious Food, healthy", Category: "Noodles", Price: 100},
	{FoodId: "20", Name: "Cooked Noodles", Description: "Delicious Food, healthy", Category: "Noodles", Price: 90},
	{FoodId: "21", Name: "Cup Cake", Description: "Delicious Food, healthy", Category: "Cake", Price: 100},
	{FoodId: "22", Name: "Vegan Cake", Description: "Delicious Food, healthy", Category: "Cake", Price: 110},
	{FoodId: "23", Name: "Butterscotch Cake", Description: "Delicious Food, healthy", Category: "Cake", Price: 150},
	{FoodId: "24", Name: "Sliced Cake", Description: "Delicious Food, healthy", Category: "Cake", Price: 120},
}

// lookupFood resolves a food id against the database foods first, then the
// injected catalog, then a placeholder so a recommendation is never dropped
// for missing meta data.
func lookupFood(foodId string, dbFoods []data.Food, catalog CatalogLookup) data.Food {
	if food, exist := lo.Find(dbFoods, func(f data.Food) bool { return f.FoodId == foodId }); exist {
		return food
	}
	if catalog != nil {
		if food, exist := catalog(foodId); exist {
			return food
		}
	}
	return data.Food{
		FoodId:      foodId,
		Name:        fmt.Sprintf("Food %s", foodId),
		Description: "Recommended food",
		Category:    "Unknown",
		Price:       100,
	}
}
