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

package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the gusto server.
type Config struct {
	Recommend RecommendConfig `mapstructure:"recommend"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server"`
}

// RecommendConfig is the configuration of the recommendation engine.
type RecommendConfig struct {
	TopN              int     `mapstructure:"top_n"`              // default number of recommendations
	MaxRating         float64 `mapstructure:"max_rating"`         // ceiling of the rating scale
	MaxIterations     int     `mapstructure:"max_iterations"`     // factorization iteration cap
	Tolerance         float64 `mapstructure:"tolerance"`          // factorization convergence tolerance
	MinFactors        int     `mapstructure:"min_factors"`        // lower clamp of the latent rank
	MaxFactors        int     `mapstructure:"max_factors"`        // upper clamp of the latent rank
	FallbackThreshold float64 `mapstructure:"fallback_threshold"` // max prediction below which popularity kicks in
	RandomState       int64   `mapstructure:"random_state"`       // factor init seed, 0 means time-based
}

// DatabaseConfig is the configuration of the data store.
type DatabaseConfig struct {
	Address string `mapstructure:"address"` // e.g. mongodb://localhost:27017/gusto
}

// ServerConfig is the configuration of the REST server.
type ServerConfig struct {
	HttpHost string `mapstructure:"http_host"`
	HttpPort int    `mapstructure:"http_port"`
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() *Config {
	return &Config{
		Recommend: *(*RecommendConfig)(nil).LoadDefaultIfNil(),
		Database: DatabaseConfig{
			Address: "mongodb://localhost:27017/gusto",
		},
		Server: ServerConfig{
			HttpHost: "127.0.0.1",
			HttpPort: 8088,
		},
	}
}

func (config *RecommendConfig) LoadDefaultIfNil() *RecommendConfig {
	if config == nil {
		return &RecommendConfig{
			TopN:              5,
			MaxRating:         5,
			MaxIterations:     200,
			Tolerance:         1e-4,
			MinFactors:        2,
			MaxFactors:        10,
			FallbackThreshold: 0.1,
		}
	}
	return config
}

func setDefault() {
	viper.SetDefault("recommend.top_n", 5)
	viper.SetDefault("recommend.max_rating", 5)
	viper.SetDefault("recommend.max_iterations", 200)
	viper.SetDefault("recommend.tolerance", 1e-4)
	viper.SetDefault("recommend.min_factors", 2)
	viper.SetDefault("recommend.max_factors", 10)
	viper.SetDefault("recommend.fallback_threshold", 0.1)
	viper.SetDefault("recommend.random_state", 0)
	viper.SetDefault("database.address", "mongodb://localhost:27017/gusto")
	viper.SetDefault("server.http_host", "127.0.0.1")
	viper.SetDefault("server.http_port", 8088)
}

// LoadConfig loads the configuration from a TOML file. An empty path loads the
// defaults.
func LoadConfig(path string) (*Config, error) {
	setDefault()
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, errors.Trace(err)
	}
	return &config, nil
}
