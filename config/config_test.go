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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Default(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 5, config.Recommend.TopN)
	assert.Equal(t, 5.0, config.Recommend.MaxRating)
	assert.Equal(t, 200, config.Recommend.MaxIterations)
	assert.Equal(t, 1e-4, config.Recommend.Tolerance)
	assert.Equal(t, 2, config.Recommend.MinFactors)
	assert.Equal(t, 10, config.Recommend.MaxFactors)
	assert.Equal(t, 0.1, config.Recommend.FallbackThreshold)
	assert.Equal(t, "mongodb://localhost:27017/gusto", config.Database.Address)
	assert.Equal(t, 8088, config.Server.HttpPort)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[recommend]
top_n = 10
max_iterations = 100

[server]
http_port = 9000
`), 0o644))
	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 10, config.Recommend.TopN)
	assert.Equal(t, 100, config.Recommend.MaxIterations)
	assert.Equal(t, 9000, config.Server.HttpPort)
	// untouched keys keep defaults
	assert.Equal(t, 5.0, config.Recommend.MaxRating)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}
