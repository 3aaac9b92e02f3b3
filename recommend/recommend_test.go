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

package recommend

import (
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gusto-io/gusto/config"
	"github.com/gusto-io/gusto/dataset"
	"github.com/gusto-io/gusto/model"
)

func newTestConfig() *config.RecommendConfig {
	cfg := (*config.RecommendConfig)(nil).LoadDefaultIfNil()
	cfg.RandomState = 42
	return cfg
}

func scenarioRatings() []dataset.Rating {
	return []dataset.Rating{
		{UserId: "u1", ItemId: "i1", Value: 5},
		{UserId: "u1", ItemId: "i2", Value: 3},
		{UserId: "u2", ItemId: "i1", Value: 4},
		{UserId: "u2", ItemId: "i3", Value: 5},
		{UserId: "u3", ItemId: "i2", Value: 2},
	}
}

func TestRecommend(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		Ratings: scenarioRatings(),
		ItemIds: []string{"i1", "i2", "i3", "i4"},
		UserId:  "u1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Recommendations)
	assert.LessOrEqual(t, len(result.Recommendations), 2)
	for _, recommendation := range result.Recommendations {
		// never recommend already rated items
		assert.NotContains(t, []string{"i1", "i2"}, recommendation.ItemId)
		assert.Contains(t, []string{"i3", "i4"}, recommendation.ItemId)
		assert.GreaterOrEqual(t, recommendation.PredictedRating, 0.0)
		assert.LessOrEqual(t, recommendation.PredictedRating, 5.0)
	}
	// ranked descending
	for i := 1; i < len(result.Recommendations); i++ {
		assert.GreaterOrEqual(t, result.Recommendations[i-1].PredictedRating,
			result.Recommendations[i].PredictedRating)
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	request := &Request{
		Ratings: scenarioRatings(),
		ItemIds: []string{"i1", "i2", "i3", "i4"},
		UserId:  "u1",
	}
	a, err := recommender.Recommend(request)
	require.NoError(t, err)
	b, err := recommender.Recommend(request)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRecommend_NoReviews(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		ItemIds: []string{"i1", "i2"},
		UserId:  "u1",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, "no reviews available for recommendations", result.Message)
}

func TestRecommend_UserWithoutRatings(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		Ratings: scenarioRatings(),
		ItemIds: []string{"i1", "i2", "i3", "i4"},
		UserId:  "stranger",
	})
	require.NoError(t, err)
	assert.Empty(t, result.Recommendations)
	assert.Equal(t, "user has no ratings yet", result.Message)
}

func TestRecommend_PopularityFallback(t *testing.T) {
	// A 2×2 diagonal matrix factorizes exactly, so the prediction for the
	// unrated cell collapses to zero and the popularity fallback takes over.
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		Ratings: []dataset.Rating{
			{UserId: "u1", ItemId: "i1", Value: 5},
			{UserId: "u2", ItemId: "i2", Value: 4},
		},
		ItemIds: []string{"i1", "i2"},
		UserId:  "u1",
	})
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "i2", result.Recommendations[0].ItemId)
	// one rating scales to 2.5 + 0.1
	assert.InDelta(t, 2.6, result.Recommendations[0].PredictedRating, 1e-9)
}

func TestRecommend_FallbackThresholdDisabled(t *testing.T) {
	// With a zero threshold the factorization branch always wins, even for
	// degenerate predictions.
	cfg := newTestConfig()
	cfg.FallbackThreshold = 0
	recommender := NewRecommender(cfg)
	result, err := recommender.Recommend(&Request{
		Ratings: []dataset.Rating{
			{UserId: "u1", ItemId: "i1", Value: 5},
			{UserId: "u2", ItemId: "i2", Value: 4},
		},
		ItemIds: []string{"i1", "i2"},
		UserId:  "u1",
	})
	require.NoError(t, err)
	assert.False(t, result.Fallback)
}

func TestRecommend_NExceedsCandidates(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		Ratings: scenarioRatings(),
		ItemIds: []string{"i1", "i2", "i3", "i4"},
		UserId:  "u1",
		N:       10,
	})
	require.NoError(t, err)
	// u1 rated 2 of 4 items, so at most 2 candidates exist
	assert.LessOrEqual(t, len(result.Recommendations), 2)
}

func TestRecommend_ItemsOutsideCatalog(t *testing.T) {
	// Reviews of items missing from the catalog still enter the matrix and
	// may be recommended.
	recommender := NewRecommender(newTestConfig())
	result, err := recommender.Recommend(&Request{
		Ratings: []dataset.Rating{
			{UserId: "u1", ItemId: "legacy", Value: 5},
			{UserId: "u2", ItemId: "legacy", Value: 5},
			{UserId: "u2", ItemId: "i1", Value: 5},
		},
		ItemIds: []string{"i1"},
		UserId:  "u1",
	})
	require.NoError(t, err)
	itemIds := lo.Map(result.Recommendations, func(r Recommendation, _ int) string { return r.ItemId })
	assert.NotContains(t, itemIds, "legacy")
}

func TestRank(t *testing.T) {
	recommender := NewRecommender(newTestConfig())
	assert.Equal(t, 2, recommender.rank(1, 1))
	assert.Equal(t, 2, recommender.rank(0, 24))
	assert.Equal(t, 3, recommender.rank(10, 24))
	assert.Equal(t, 10, recommender.rank(500, 500))
}

func TestTopN(t *testing.T) {
	predictions := []float64{0.5, 4.2, 3.1, 2.0, 4.9}
	excluded := mapset.NewSet(4)
	candidates := topN(predictions, excluded, 3)
	require.Len(t, candidates, 3)
	assert.Equal(t, []candidate{{1, 4.2}, {2, 3.1}, {3, 2.0}}, candidates)
	// the excluded index never appears
	for _, c := range topN(predictions, excluded, 10) {
		assert.NotEqual(t, 4, c.itemIndex)
	}
}

func TestPopularityTopN(t *testing.T) {
	trainSet := dataset.Build(scenarioRatings(),
		[]string{"u1", "u2", "u3"}, []string{"i1", "i2", "i3", "i4"})
	pop := model.NewItemPop(nil)
	pop.Fit(trainSet)
	candidates := popularityTopN(pop, mapset.NewSet[int](), 10, 5)
	// i4 has no ratings and is not a candidate
	require.Len(t, candidates, 3)
	assert.InDelta(t, 2.7, candidates[0].predictedRating, 1e-9)
	assert.InDelta(t, 2.6, candidates[2].predictedRating, 1e-9)
	// excluding the most popular item promotes the rest
	candidates = popularityTopN(pop, mapset.NewSet(0, 1), 10, 5)
	require.Len(t, candidates, 1)
	assert.Equal(t, 2, candidates[0].itemIndex)
}
