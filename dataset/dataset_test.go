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
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestNewRating(t *testing.T) {
	rating, err := NewRating("u1", "i1", 4, 5)
	assert.NoError(t, err)
	assert.Equal(t, Rating{UserId: "u1", ItemId: "i1", Value: 4}, rating)
	_, err = NewRating("u1", "i1", 0, 5)
	assert.True(t, errors.Is(err, ErrRatingOutOfRange))
	_, err = NewRating("u1", "i1", 5.5, 5)
	assert.True(t, errors.Is(err, ErrRatingOutOfRange))
}

func TestBuild(t *testing.T) {
	ratings := []Rating{
		{"u1", "i1", 5},
		{"u1", "i2", 3},
		{"u2", "i1", 4},
		{"u2", "i3", 5},
		{"u3", "i2", 2},
	}
	set := Build(ratings, []string{"u1", "u2", "u3"}, []string{"i1", "i2", "i3", "i4"})
	assert.Equal(t, 3, set.UserCount())
	assert.Equal(t, 4, set.ItemCount())
	assert.Equal(t, 5, set.Count())
	// index maps follow insertion order
	assert.Equal(t, 0, set.UserIndex.ToNumber("u1"))
	assert.Equal(t, 2, set.UserIndex.ToNumber("u3"))
	assert.Equal(t, "i4", set.ItemIndex.ToName(3))
	// cells
	assert.Equal(t, 5.0, set.Matrix().At(0, 0))
	assert.Equal(t, 3.0, set.Matrix().At(0, 1))
	assert.Equal(t, 4.0, set.Matrix().At(1, 0))
	assert.Equal(t, 5.0, set.Matrix().At(1, 2))
	assert.Equal(t, 2.0, set.Matrix().At(2, 1))
	// unrated cells stay exactly zero
	assert.Zero(t, set.Matrix().At(0, 2))
	assert.Zero(t, set.Matrix().At(0, 3))
	// rated item indices and popularity counts
	assert.ElementsMatch(t, []int{0, 1}, set.UserRated(0))
	assert.Equal(t, 2, set.ItemRatingCount(0))
	assert.Equal(t, 2, set.ItemRatingCount(1))
	assert.Equal(t, 1, set.ItemRatingCount(2))
	assert.Zero(t, set.ItemRatingCount(3))
}

func TestBuild_SkipUnknown(t *testing.T) {
	ratings := []Rating{
		{"u1", "i1", 5},
		{"ghost", "i1", 4},
		{"u1", "unknown", 3},
	}
	set := Build(ratings, []string{"u1"}, []string{"i1"})
	assert.Equal(t, 1, set.Count())
	assert.Equal(t, 5.0, set.Matrix().At(0, 0))
}

func TestBuild_LastRatingWins(t *testing.T) {
	ratings := []Rating{
		{"u1", "i1", 5},
		{"u1", "i1", 2},
	}
	set := Build(ratings, []string{"u1"}, []string{"i1", "i2"})
	assert.Equal(t, 2.0, set.Matrix().At(0, 0))
	// the rated-item list doesn't grow on overwrite
	assert.Equal(t, []int{0}, set.UserRated(0))
	// popularity counts every triple, matching the review feed
	assert.Equal(t, 2, set.ItemRatingCount(0))
}

func TestBuild_Empty(t *testing.T) {
	set := Build(nil, nil, nil)
	assert.Zero(t, set.UserCount())
	assert.Zero(t, set.ItemCount())
	assert.Nil(t, set.Matrix())
	assert.Nil(t, set.UserRated(0))
	assert.Zero(t, set.ItemRatingCount(0))
}
