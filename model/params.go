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
	"reflect"

	"go.uber.org/zap"

	"github.com/gusto-io/gusto/base/log"
)

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	NFactors    ParamName = "NFactors"    // number of latent factors
	NEpochs     ParamName = "NEpochs"     // maximum number of iterations
	Tol         ParamName = "Tol"         // convergence tolerance
	InitLow     ParamName = "InitLow"     // lower bound of uniform initial factors
	InitHigh    ParamName = "InitHigh"    // upper bound of uniform initial factors
	RandomState ParamName = "RandomState" // random state (seed)
	Verbose     ParamName = "Verbose"     // iterations between observer calls
)

// Params stores hyper-parameters for a model. It is a map between strings
// (names) and interface{}s (values). For example, hyper-parameters for NMF
// are given by:
//
//	model.Params{
//		model.NFactors: 4,
//		model.NEpochs:  200,
//		model.Tol:      1e-4,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params)
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets an integer parameter by name. Returns _default if not exists or
// type doesn't match.
func (parameters Params) GetInt(name ParamName, _default int) int {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "int"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}

// GetInt64 gets an int64 parameter by name. Returns _default if not exists or
// type doesn't match. The type will be converted if given int.
func (parameters Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "int64"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}

// GetFloat64 gets a float64 parameter by name. Returns _default if not exists
// or type doesn't match. The type will be converted if given int.
func (parameters Params) GetFloat64(name ParamName, _default float64) float64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case float64:
			return val
		case int:
			return float64(val)
		default:
			log.Logger().Error("invalid parameter type",
				zap.String("name", string(name)),
				zap.String("expect", "float64"),
				zap.String("actual", reflect.TypeOf(val).String()))
		}
	}
	return _default
}
