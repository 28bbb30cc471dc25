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

package stats

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

func TestBoltProvider(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "stats")
	require.NoError(err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "stats.db")
	p, err := OpenBoltProvider(path)
	require.NoError(err)

	ctx := sql.NewEmptyContext()
	require.NoError(p.Put("orders", TableStats{RowCount: 1000, AvgRowSize: 100}))
	require.NoError(p.PutAll(map[string]TableStats{"customers": {RowCount: 10}}))

	s, ok, err := p.TableStats(ctx, "orders")
	require.NoError(err)
	require.True(ok)
	require.Equal(TableStats{RowCount: 1000, AvgRowSize: 100}, s)

	_, ok, err = p.TableStats(ctx, "lineitem")
	require.NoError(err)
	require.False(ok)

	require.NoError(p.Close())
	_, _, err = p.TableStats(ctx, "orders")
	require.True(ErrStatsStoreClosed.Is(err))
	require.True(ErrStatsStoreClosed.Is(p.Put("orders", TableStats{})))

	p, err = OpenBoltProvider(path)
	require.NoError(err)
	defer p.Close()

	s, ok, err = p.TableStats(ctx, "customers")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint64(10), s.RowCount)
}

func TestCalculatorOverBolt(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "stats")
	require.NoError(err)
	defer os.RemoveAll(dir)

	p, err := OpenBoltProvider(filepath.Join(dir, "stats.db"))
	require.NoError(err)
	require.NoError(p.Put("orders", TableStats{RowCount: 1000, AvgRowSize: 100}))

	c := NewCalculator(p)
	ctx := sql.NewEmptyContext()
	require.NoError(p.Close())

	// A closed store is an unknown estimate, never an error.
	require.True(c.EstimateOutputSizeBytes(ctx, plan.NewTableScan(1, "orders", "o_id")).IsUnknown())
}

func TestCalculatorOverBoltInvalidatesOnUpdate(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "stats")
	require.NoError(err)
	defer os.RemoveAll(dir)

	p, err := OpenBoltProvider(filepath.Join(dir, "stats.db"))
	require.NoError(err)
	defer p.Close()
	require.NoError(p.Put("orders", TableStats{RowCount: 1000, AvgRowSize: 100}))

	c := NewCalculator(p)
	ctx := sql.NewEmptyContext()
	scan := plan.NewTableScan(1, "orders", "o_id")
	require.Equal(sql.NewEstimate(1000), c.EstimateOutputRowCount(ctx, scan))

	require.NoError(p.PutAll(map[string]TableStats{"orders": {RowCount: 10}}))
	require.Equal(sql.NewEstimate(10), c.EstimateOutputRowCount(ctx, scan))
	require.True(c.EstimateOutputSizeBytes(ctx, scan).IsUnknown())
}
