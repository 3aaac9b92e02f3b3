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

package model

import (
	"github.com/gusto-io/gusto/base"
	"github.com/gusto-io/gusto/dataset"
)

// Base structure of all models.
type Base struct {
	Params    Params           // Hyper-parameters
	UserIndex *base.Index      // Users' ID index
	ItemIndex *base.Index      // Items' ID index
	rng       base.RandomGenerator
	randState int64
}

// SetParams sets hyper-parameters of the Base model.
func (b *Base) SetParams(params Params) {
	b.Params = params
	b.randState = b.Params.GetInt64(RandomState, 0)
}

// GetParams returns hyper-parameters of the Base model.
func (b *Base) GetParams() Params {
	return b.Params
}

// Init the base model with a training set.
func (b *Base) Init(trainSet *dataset.Dataset) {
	b.UserIndex = trainSet.UserIndex
	b.ItemIndex = trainSet.ItemIndex
	b.rng = base.NewRandomGenerator(b.randState)
}

// ItemPop scores items by their popularity, the number of ratings each item
// received across all users. It backs the fallback ranking used when
// factorization produces no usable signal.
type ItemPop struct {
	Base
	Pop []float64
}

// NewItemPop creates an ItemPop model.
func NewItemPop(params Params) *ItemPop {
	pop := new(ItemPop)
	pop.SetParams(params)
	return pop
}

// Fit the ItemPop model.
func (pop *ItemPop) Fit(trainSet *dataset.Dataset) {
	pop.Init(trainSet)
	pop.Pop = make([]float64, trainSet.ItemCount())
	for i := range pop.Pop {
		pop.Pop[i] = float64(trainSet.ItemRatingCount(i))
	}
}

// Predict returns the popularity of an item.
func (pop *ItemPop) Predict(itemId string) float64 {
	itemIndex := pop.ItemIndex.ToNumber(itemId)
	if itemIndex == base.NotId {
		return 0
	}
	return pop.Pop[itemIndex]
}

// InternalPredict returns the popularity of an item by its dense index.
func (pop *ItemPop) InternalPredict(itemIndex int) float64 {
	return pop.Pop[itemIndex]
}
