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
	"math"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/gusto-io/gusto/base"
	"github.com/gusto-io/gusto/dataset"
)

// epsilon keeps every denominator of the multiplicative update away from zero.
const epsilon = 1e-10

var (
	// ErrInvalidRank is returned when the requested number of latent factors
	// is not positive.
	ErrInvalidRank = errors.New("number of latent factors must be positive")
	// ErrEmptyMatrix is returned when the rating matrix has no rows or no
	// columns. The recommendation pipeline short-circuits this case before
	// factorization, so hitting it indicates a caller bug.
	ErrEmptyMatrix = errors.New("empty rating matrix")
)

// NMF factorizes the user-item rating matrix R into two non-negative low-rank
// matrices W (users × k) and H (k × items) such that W·H ≈ R, using the
// Lee-Seung multiplicative update rules:
//
//	H ← H ⊙ (Wᵗ·R) ⊘ (Wᵗ·W·H + ε)
//	W ← W ⊙ (R·Hᵗ) ⊘ (W·H·Hᵗ + ε)
//
// Factors are initialized with small positive uniform random values, so
// non-negativity holds from initialization onward. Iteration stops when the
// change of the Frobenius reconstruction error drops below the tolerance or
// after NEpochs iterations; running out of iterations is a normal termination.
//
// Hyper-parameters:
//
//	NFactors  - The number of latent factors. Default is 4.
//	NEpochs   - The maximum number of iterations. Default is 200.
//	Tol       - The convergence tolerance. Default is 1e-4.
//	InitLow   - The lower bound of initial random factors. Default is 0.01.
//	InitHigh  - The upper bound of initial random factors. Default is 0.11.
//	MaxRating - The ceiling of the rating scale. Default is 5.
type NMF struct {
	Base
	UserFactor *mat.Dense // W
	ItemFactor *mat.Dense // H
	nFactors   int
	nEpochs    int
	tol        float64
	initLow    float64
	initHigh   float64
	maxRating  float64
	verbose    int
	observer   func(iteration int, loss float64)
}

// MaxRating is the ceiling of the rating scale used to clamp predictions.
const MaxRating ParamName = "MaxRating"

// NewNMF creates an NMF model.
func NewNMF(params Params) *NMF {
	nmf := new(NMF)
	nmf.SetParams(params)
	return nmf
}

// SetParams sets hyper-parameters of the NMF model.
func (nmf *NMF) SetParams(params Params) {
	nmf.Base.SetParams(params)
	nmf.nFactors = nmf.Params.GetInt(NFactors, 4)
	nmf.nEpochs = nmf.Params.GetInt(NEpochs, 200)
	nmf.tol = nmf.Params.GetFloat64(Tol, 1e-4)
	nmf.initLow = nmf.Params.GetFloat64(InitLow, 0.01)
	nmf.initHigh = nmf.Params.GetFloat64(InitHigh, 0.11)
	nmf.maxRating = nmf.Params.GetFloat64(MaxRating, 5)
	nmf.verbose = nmf.Params.GetInt(Verbose, 10)
	if nmf.verbose < 1 {
		nmf.verbose = 1
	}
}

// SetObserver registers a callback invoked with the reconstruction error every
// Verbose iterations and on the final iteration. It replaces any previous
// observer.
func (nmf *NMF) SetObserver(observer func(iteration int, loss float64)) {
	nmf.observer = observer
}

// Fit the NMF model. Returns the reconstruction error of the last iteration.
func (nmf *NMF) Fit(trainSet *dataset.Dataset) (float64, error) {
	if nmf.nFactors <= 0 {
		return 0, errors.Trace(ErrInvalidRank)
	}
	nmf.Init(trainSet)
	r := trainSet.Matrix()
	if r == nil {
		return 0, errors.Trace(ErrEmptyMatrix)
	}
	numUsers, numItems := r.Dims()
	// Initialize factors with small strictly positive values so multiplicative
	// updates can move away from zero.
	w := mat.NewDense(numUsers, nmf.nFactors,
		nmf.rng.UniformVector(numUsers*nmf.nFactors, nmf.initLow, nmf.initHigh))
	h := mat.NewDense(nmf.nFactors, numItems,
		nmf.rng.UniformVector(nmf.nFactors*numItems, nmf.initLow, nmf.initHigh))
	var (
		wtr, wtw, wtwh mat.Dense
		rht, wh, whht  mat.Dense
		diff           mat.Dense
	)
	prevLoss := math.Inf(1)
	lastLoss := math.Inf(1)
	for iteration := 1; iteration <= nmf.nEpochs; iteration++ {
		// H ← H ⊙ (Wᵗ·R) ⊘ (Wᵗ·W·H + ε)
		wtr.Mul(w.T(), r)
		clampNonNegative(&wtr)
		wtw.Mul(w.T(), w)
		clampNonNegative(&wtw)
		wtwh.Mul(&wtw, h)
		smooth(&wtwh)
		wtr.DivElem(&wtr, &wtwh)
		h.MulElem(h, &wtr)
		// W ← W ⊙ (R·Hᵗ) ⊘ (W·H·Hᵗ + ε)
		rht.Mul(r, h.T())
		clampNonNegative(&rht)
		wh.Mul(w, h)
		clampNonNegative(&wh)
		whht.Mul(&wh, h.T())
		smooth(&whht)
		rht.DivElem(&rht, &whht)
		w.MulElem(w, &rht)
		// Frobenius norm of R − W·H
		wh.Mul(w, h)
		clampNonNegative(&wh)
		diff.Sub(r, &wh)
		lastLoss = mat.Norm(&diff, 2)
		converged := math.Abs(prevLoss-lastLoss) < nmf.tol
		if nmf.observer != nil && (iteration%nmf.verbose == 0 || converged || iteration == nmf.nEpochs) {
			nmf.observer(iteration, lastLoss)
		}
		if converged {
			break
		}
		prevLoss = lastLoss
	}
	nmf.UserFactor = w
	nmf.ItemFactor = h
	return lastLoss, nil
}

// PredictUser reconstructs the full predicted-rating vector of one user from
// the learned factors. Every entry is clamped into [0, maxRating].
func (nmf *NMF) PredictUser(userIndex int) []float64 {
	_, numItems := nmf.ItemFactor.Dims()
	userFactor := nmf.UserFactor.RowView(userIndex)
	predictions := make([]float64, numItems)
	for itemIndex := 0; itemIndex < numItems; itemIndex++ {
		score := mat.Dot(userFactor, nmf.ItemFactor.ColView(itemIndex))
		predictions[itemIndex] = math.Min(nmf.maxRating, math.Max(0, score))
	}
	return predictions
}

// Predict the rating given by a user to an item. Returns 0 for unknown users
// or items.
func (nmf *NMF) Predict(userId, itemId string) float64 {
	userIndex := nmf.UserIndex.ToNumber(userId)
	itemIndex := nmf.ItemIndex.ToNumber(itemId)
	if userIndex == base.NotId || itemIndex == base.NotId {
		return 0
	}
	score := mat.Dot(nmf.UserFactor.RowView(userIndex), nmf.ItemFactor.ColView(itemIndex))
	return math.Min(nmf.maxRating, math.Max(0, score))
}

// clampNonNegative guards intermediate products against floating-point drift
// below zero.
func clampNonNegative(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, m)
}

// smooth clamps a denominator matrix to non-negative values and adds ε to
// every entry before division.
func smooth(m *mat.Dense) {
	m.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v) + epsilon
	}, m)
}
