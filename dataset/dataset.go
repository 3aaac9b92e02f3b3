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

package dataset

import (
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/gusto-io/gusto/base"
	"github.com/gusto-io/gusto/base/log"
)

// Rating is a single (user, item, rating) triple. Rating values live in
// [1, maxRating]; a zero cell in the rating matrix means "no rating", never
// "rating of zero".
type Rating struct {
	UserId string
	ItemId string
	Value  float64
}

// ErrRatingOutOfRange is returned by NewRating for values outside [1, maxRating].
var ErrRatingOutOfRange = errors.New("rating out of range")

// NewRating creates a validated rating triple.
func NewRating(userId, itemId string, value, maxRating float64) (Rating, error) {
	if value < 1 || value > maxRating {
		return Rating{}, errors.Annotatef(ErrRatingOutOfRange, "rating %v for user %v and item %v", value, userId, itemId)
	}
	return Rating{UserId: userId, ItemId: itemId, Value: value}, nil
}

// Dataset is the user-item rating matrix of one recommendation request along
// with the index maps between sparse IDs and matrix positions. It is rebuilt
// from scratch on every request and never shared between requests.
type Dataset struct {
	UserIndex *base.Index
	ItemIndex *base.Index
	matrix    *mat.Dense
	userRated [][]int // item indices rated by each user
	itemCount []int   // number of ratings received by each item
	count     int
}

// Build creates a Dataset from rating triples and the distinct user and item
// IDs to be mapped. Triples referencing an ID absent from the supplied lists
// are skipped. If multiple triples target the same (user, item) cell, the last
// one processed wins.
func Build(ratings []Rating, userIds, itemIds []string) *Dataset {
	set := &Dataset{
		UserIndex: base.NewIndex(),
		ItemIndex: base.NewIndex(),
	}
	for _, userId := range userIds {
		set.UserIndex.Add(userId)
	}
	for _, itemId := range itemIds {
		set.ItemIndex.Add(itemId)
	}
	numUsers := set.UserIndex.Len()
	numItems := set.ItemIndex.Len()
	if numUsers == 0 || numItems == 0 {
		return set
	}
	set.matrix = mat.NewDense(numUsers, numItems, nil)
	set.userRated = make([][]int, numUsers)
	set.itemCount = make([]int, numItems)
	var skipped, overwritten int
	for _, rating := range ratings {
		userIndex := set.UserIndex.ToNumber(rating.UserId)
		itemIndex := set.ItemIndex.ToNumber(rating.ItemId)
		if userIndex == base.NotId || itemIndex == base.NotId {
			skipped++
			log.Logger().Warn("skip rating with unknown user or item",
				zap.String("user_id", rating.UserId),
				zap.String("item_id", rating.ItemId))
			continue
		}
		if set.matrix.At(userIndex, itemIndex) != 0 {
			overwritten++
		} else {
			set.userRated[userIndex] = append(set.userRated[userIndex], itemIndex)
		}
		set.matrix.Set(userIndex, itemIndex, rating.Value)
		set.itemCount[itemIndex]++
		set.count++
	}
	log.Logger().Debug("built rating matrix",
		zap.Int("num_users", numUsers),
		zap.Int("num_items", numItems),
		zap.Int("num_ratings", set.count),
		zap.Int("num_skipped", skipped),
		zap.Int("num_overwritten", overwritten))
	return set
}

// Matrix returns the dense rating matrix. Nil if either dimension is empty.
func (set *Dataset) Matrix() *mat.Dense {
	return set.matrix
}

// UserCount returns the number of users (matrix rows).
func (set *Dataset) UserCount() int {
	return set.UserIndex.Len()
}

// ItemCount returns the number of items (matrix columns).
func (set *Dataset) ItemCount() int {
	return set.ItemIndex.Len()
}

// Count returns the number of ratings filled into the matrix. Overwrites of
// the same cell count once per triple.
func (set *Dataset) Count() int {
	return set.count
}

// UserRated returns the item indices rated by a user.
func (set *Dataset) UserRated(userIndex int) []int {
	if set.userRated == nil {
		return nil
	}
	return set.userRated[userIndex]
}

// ItemRatingCount returns the number of ratings an item received across all
// users.
func (set *Dataset) ItemRatingCount(itemIndex int) int {
	if set.itemCount == nil {
		return 0
	}
	return set.itemCount[itemIndex]
}
