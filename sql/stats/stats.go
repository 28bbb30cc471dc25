// Copyright 2023 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package stats estimates the output of plan nodes from table statistics.
package stats

import (
	"fmt"
	"sync"
	"sync/atomic"

	errors "gopkg.in/src-d/go-errors.v1"
	yaml "gopkg.in/yaml.v2"

	"github.com/dolthub/go-join-planner/sql"
)

// ErrStatsStoreClosed is returned when a closed statistics store is used.
var ErrStatsStoreClosed = errors.NewKind("statistics store is closed")

// ErrInvalidStats is returned when table statistics cannot be decoded.
var ErrInvalidStats = errors.NewKind("invalid table statistics: %s")

// TableStats are the statistics of a single table. A zero AvgRowSize means
// the row size is not known.
type TableStats struct {
	RowCount   uint64  `yaml:"row-count"`
	AvgRowSize float64 `yaml:"avg-row-size,omitempty"`
}

func (s TableStats) String() string {
	return fmt.Sprintf("{rows: %d, avgRowSize: %g}", s.RowCount, s.AvgRowSize)
}

// Provider returns the statistics of tables. Providers may block on I/O.
type Provider interface {
	// TableStats returns the statistics of the given table and whether
	// there are any.
	TableStats(ctx *sql.Context, table string) (TableStats, bool, error)
}

// Versioned is implemented by providers whose statistics can change. The
// version changes on every update.
type Versioned interface {
	Version() uint64
}

// MemoryProvider is a Provider holding statistics in memory.
type MemoryProvider struct {
	mu      sync.RWMutex
	tables  map[string]TableStats
	version atomic.Uint64
}

var _ Provider = (*MemoryProvider)(nil)
var _ Versioned = (*MemoryProvider)(nil)

// NewMemoryProvider creates a provider with the given statistics.
func NewMemoryProvider(tables map[string]TableStats) *MemoryProvider {
	p := &MemoryProvider{tables: make(map[string]TableStats, len(tables))}
	for name, s := range tables {
		p.tables[name] = s
	}
	return p
}

// ParseMemoryProvider creates a provider from a YAML document mapping table
// names to their statistics.
func ParseMemoryProvider(data []byte) (*MemoryProvider, error) {
	var tables map[string]TableStats
	if err := yaml.UnmarshalStrict(data, &tables); err != nil {
		return nil, ErrInvalidStats.Wrap(err, err.Error())
	}
	return NewMemoryProvider(tables), nil
}

// Put sets the statistics of a table.
func (p *MemoryProvider) Put(table string, s TableStats) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables[table] = s
	p.version.Add(1)
}

// Version implements the Versioned interface.
func (p *MemoryProvider) Version() uint64 {
	return p.version.Load()
}

// Tables returns a copy of all statistics.
func (p *MemoryProvider) Tables() map[string]TableStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make(map[string]TableStats, len(p.tables))
	for name, s := range p.tables {
		result[name] = s
	}
	return result
}

// TableStats implements the Provider interface.
func (p *MemoryProvider) TableStats(_ *sql.Context, table string) (TableStats, bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.tables[table]
	return s, ok, nil
}
