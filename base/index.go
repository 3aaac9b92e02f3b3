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

package base

// Index manages the map between sparse names and dense indices. A sparse name
// is a user ID or food ID. The dense index is the matrix row or column position
// assigned to the name. Indices are assigned in insertion order: the first name
// added gets index 0.
type Index struct {
	numbers map[string]int // sparse name -> dense index
	names   []string       // dense index -> sparse name
}

// NotId represents a name that doesn't exist in the index.
const NotId = -1

// NewIndex creates an Index.
func NewIndex() *Index {
	return &Index{
		numbers: make(map[string]int),
		names:   make([]string, 0),
	}
}

// Len returns the number of indexed names.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.names)
}

// Add adds a new name to the index. Adding an existing name is a no-op, so the
// index of a name never changes once assigned.
func (idx *Index) Add(name string) {
	if _, exist := idx.numbers[name]; !exist {
		idx.numbers[name] = len(idx.names)
		idx.names = append(idx.names, name)
	}
}

// ToNumber converts a sparse name to a dense index. Returns NotId if the name
// was never added.
func (idx *Index) ToNumber(name string) int {
	if denseId, exist := idx.numbers[name]; exist {
		return denseId
	}
	return NotId
}

// ToName converts a dense index back to its sparse name.
func (idx *Index) ToName(index int) string {
	return idx.names[index]
}

// GetNames returns all names in insertion order.
func (idx *Index) GetNames() []string {
	return idx.names
}
