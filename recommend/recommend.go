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

// Package recommend runs the recommendation pipeline: build the rating matrix
// from reviews, factorize it, predict the requesting user's unseen ratings and
// rank the top items, falling back to popularity when factorization carries no
// signal. Each request is a stateless one-shot computation; nothing is shared
// or persisted between requests.
package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/gusto-io/gusto/base/log"
	"github.com/gusto-io/gusto/config"
	"github.com/gusto-io/gusto/dataset"
	"github.com/gusto-io/gusto/model"
)

// Request is one recommendation request.
type Request struct {
	Ratings []dataset.Rating // all known rating triples
	ItemIds []string         // distinct catalog item IDs
	UserId  string           // the user to recommend for
	N       int              // requested count, 0 means the configured default
}

// Recommendation is one ranked item.
type Recommendation struct {
	ItemId          string  `json:"itemId"`
	PredictedRating float64 `json:"predictedRating"`
}

// Result is the outcome of a recommendation request. An empty recommendation
// list with a message is a normal outcome, not an error.
type Result struct {
	Recommendations []Recommendation
	Message         string
	Fallback        bool // true if the popularity fallback produced the ranking
}

// Recommender runs recommendation requests.
type Recommender struct {
	config *config.RecommendConfig
}

// NewRecommender creates a Recommender.
func NewRecommender(cfg *config.RecommendConfig) *Recommender {
	return &Recommender{config: cfg.LoadDefaultIfNil()}
}

// Recommend runs the pipeline for one user.
func (r *Recommender) Recommend(request *Request) (*Result, error) {
	n := request.N
	if n <= 0 {
		n = r.config.TopN
	}
	if len(request.Ratings) == 0 {
		return &Result{Message: "no reviews available for recommendations"}, nil
	}
	userIds := lo.Uniq(lo.Map(request.Ratings, func(rating dataset.Rating, _ int) string {
		return rating.UserId
	}))
	if !lo.Contains(userIds, request.UserId) {
		return &Result{Message: "user has no ratings yet"}, nil
	}
	// The matrix covers the union of catalog items and items observed in
	// reviews, so reviews of items missing from the catalog still count.
	observedItemIds := lo.Map(request.Ratings, func(rating dataset.Rating, _ int) string {
		return rating.ItemId
	})
	itemIds := lo.Uniq(append(append(make([]string, 0, len(request.ItemIds)), request.ItemIds...), observedItemIds...))
	trainSet := dataset.Build(request.Ratings, userIds, itemIds)
	// Factorize.
	nFactors := r.rank(len(userIds), len(request.ItemIds))
	seed := r.config.RandomState
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	nmf := model.NewNMF(model.Params{
		model.NFactors:    nFactors,
		model.NEpochs:     r.config.MaxIterations,
		model.Tol:         r.config.Tolerance,
		model.MaxRating:   r.config.MaxRating,
		model.RandomState: seed,
	})
	nmf.SetObserver(func(iteration int, loss float64) {
		log.Logger().Debug("factorization progress",
			zap.Int("iteration", iteration),
			zap.Float64("loss", loss))
	})
	lastLoss, err := nmf.Fit(trainSet)
	if err != nil {
		return nil, errors.Trace(err)
	}
	log.Logger().Info("factorization finished",
		zap.Int("num_users", trainSet.UserCount()),
		zap.Int("num_items", trainSet.ItemCount()),
		zap.Int("n_factors", nFactors),
		zap.Float64("loss", lastLoss))
	// Predict and rank.
	userIndex := trainSet.UserIndex.ToNumber(request.UserId)
	predictions := nmf.PredictUser(userIndex)
	excluded := mapset.NewSet(trainSet.UserRated(userIndex)...)
	candidates := topN(predictions, excluded, n)
	fallback := false
	if len(candidates) > 0 && candidates[0].predictedRating < r.config.FallbackThreshold {
		log.Logger().Warn("predictions are near zero, using popularity fallback",
			zap.String("user_id", request.UserId),
			zap.Float64("max_prediction", candidates[0].predictedRating))
		pop := model.NewItemPop(nil)
		pop.Fit(trainSet)
		candidates = popularityTopN(pop, excluded, n, r.config.MaxRating)
		fallback = true
	}
	recommendations := lo.Map(candidates, func(c candidate, _ int) Recommendation {
		return Recommendation{
			ItemId:          trainSet.ItemIndex.ToName(c.itemIndex),
			PredictedRating: c.predictedRating,
		}
	})
	return &Result{
		Recommendations: recommendations,
		Message:         fmt.Sprintf("generated %d recommendations", len(recommendations)),
		Fallback:        fallback,
	}, nil
}

// rank derives the latent rank from the matrix shape: sqrt of the smaller
// dimension, clamped into the configured range.
func (r *Recommender) rank(numUsers, numItems int) int {
	nFactors := int(math.Sqrt(float64(min(numUsers, numItems))))
	return min(r.config.MaxFactors, max(r.config.MinFactors, nFactors))
}

type candidate struct {
	itemIndex       int
	predictedRating float64
}

// topN returns the n highest-predicted items outside the excluded set, in
// descending order of predicted rating.
func topN(predictions []float64, excluded mapset.Set[int], n int) []candidate {
	candidates := make([]candidate, 0, len(predictions))
	for itemIndex, predictedRating := range predictions {
		if !excluded.Contains(itemIndex) {
			candidates = append(candidates, candidate{itemIndex, predictedRating})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].predictedRating > candidates[j].predictedRating
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}

// popularityTopN ranks non-excluded rated items by their rating count, scaled
// linearly into the upper half of the rating scale.
func popularityTopN(pop *model.ItemPop, excluded mapset.Set[int], n int, maxRating float64) []candidate {
	candidates := make([]candidate, 0, len(pop.Pop))
	for itemIndex, count := range pop.Pop {
		if count > 0 && !excluded.Contains(itemIndex) {
			candidates = append(candidates, candidate{
				itemIndex:       itemIndex,
				predictedRating: math.Min(maxRating, 2.5+0.1*count),
			})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].predictedRating > candidates[j].predictedRating
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	return candidates
}
