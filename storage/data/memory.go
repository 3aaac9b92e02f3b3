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

package data

import (
	"context"
	"sort"
	"sync"
)

type reviewKey struct {
	userId string
	foodId string
}

// MemoryDatabase is an in-memory data storage for development and tests.
type MemoryDatabase struct {
	mu          sync.RWMutex
	foods       map[string]Food
	users       map[string]User
	reviews     map[reviewKey]Review
	reviewOrder []reviewKey
}

// NewMemoryDatabase creates an empty in-memory data storage.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		foods:   make(map[string]Food),
		users:   make(map[string]User),
		reviews: make(map[reviewKey]Review),
	}
}

func (db *MemoryDatabase) Init() error {
	return nil
}

func (db *MemoryDatabase) Ping() error {
	return nil
}

func (db *MemoryDatabase) Close() error {
	return nil
}

func (db *MemoryDatabase) InsertFood(_ context.Context, food Food) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.foods[food.FoodId] = food
	return nil
}

func (db *MemoryDatabase) GetFood(_ context.Context, foodId string) (Food, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	food, exist := db.foods[foodId]
	if !exist {
		return Food{}, ErrFoodNotExist
	}
	return food, nil
}

func (db *MemoryDatabase) GetFoods(_ context.Context) ([]Food, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	foods := make([]Food, 0, len(db.foods))
	for _, food := range db.foods {
		foods = append(foods, food)
	}
	sort.Slice(foods, func(i, j int) bool {
		return foods[i].FoodId < foods[j].FoodId
	})
	return foods, nil
}

func (db *MemoryDatabase) InsertUser(_ context.Context, user User) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.users[user.UserId] = user
	return nil
}

func (db *MemoryDatabase) GetUser(_ context.Context, userId string) (User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	user, exist := db.users[userId]
	if !exist {
		return User{}, ErrUserNotExist
	}
	return user, nil
}

func (db *MemoryDatabase) InsertReview(_ context.Context, review Review) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	key := reviewKey{userId: review.UserId, foodId: review.FoodId}
	if _, exist := db.reviews[key]; !exist {
		db.reviewOrder = append(db.reviewOrder, key)
	}
	db.reviews[key] = review
	return nil
}

func (db *MemoryDatabase) GetReviews(_ context.Context) ([]Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	reviews := make([]Review, 0, len(db.reviewOrder))
	for _, key := range db.reviewOrder {
		reviews = append(reviews, db.reviews[key])
	}
	return reviews, nil
}

func (db *MemoryDatabase) GetUserReviews(_ context.Context, userId string) ([]Review, error) {
	return db.filterReviews(func(review Review) bool {
		return review.UserId == userId
	})
}

func (db *MemoryDatabase) GetFoodReviews(_ context.Context, foodId string) ([]Review, error) {
	return db.filterReviews(func(review Review) bool {
		return review.FoodId == foodId
	})
}

func (db *MemoryDatabase) filterReviews(pred func(Review) bool) ([]Review, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	reviews := make([]Review, 0)
	for _, key := range db.reviewOrder {
		if review := db.reviews[key]; pred(review) {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}
