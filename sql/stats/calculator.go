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
	"math"
	"strconv"
	"sync/atomic"

	cache "github.com/patrickmn/go-cache"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

const (
	defaultFilterSelectivity = .75
	optimisticJoinSel        = .10
	// literalSizeBytes is the size of a single value of a Values row.
	literalSizeBytes = 8
	// semiJoinMarkerBytes is the size of the boolean a semi join adds.
	semiJoinMarkerBytes = 1
)

// Calculator is a sql.CostCalculator estimating from table statistics.
// Estimates are memoized by plan fingerprint, so a Calculator can be shared
// between concurrent compilations. Estimates depending on a failed statistics
// read are never memoized. If the provider is Versioned, the memo is dropped
// whenever its version changes; otherwise Reset must be called after the
// statistics change.
type Calculator struct {
	provider Provider
	memo     *cache.Cache
	version  atomic.Uint64
}

var _ sql.CostCalculator = (*Calculator)(nil)

// NewCalculator creates a calculator over the given statistics.
func NewCalculator(provider Provider) *Calculator {
	return &Calculator{
		provider: provider,
		memo:     cache.New(cache.NoExpiration, 0),
	}
}

// EstimateOutputSizeBytes implements the sql.CostCalculator interface.
func (c *Calculator) EstimateOutputSizeBytes(ctx *sql.Context, n sql.Node) sql.Estimate {
	c.checkVersion()
	e, _ := c.estimate(ctx, n)
	return e.size()
}

// EstimateOutputRowCount implements the sql.CostCalculator interface.
func (c *Calculator) EstimateOutputRowCount(ctx *sql.Context, n sql.Node) sql.Estimate {
	c.checkVersion()
	e, _ := c.estimate(ctx, n)
	return e.rows
}

// Reset drops all memoized estimates.
func (c *Calculator) Reset() {
	c.memo.Flush()
}

func (c *Calculator) checkVersion() {
	v, ok := c.provider.(Versioned)
	if !ok {
		return
	}
	current := v.Version()
	if c.version.Swap(current) != current {
		c.Reset()
	}
}

// nodeEstimate is the estimated row count and average row size of a node.
type nodeEstimate struct {
	rows    sql.Estimate
	rowSize sql.Estimate
}

func (e nodeEstimate) size() sql.Estimate {
	if e.rows.IsUnknown() || e.rowSize.IsUnknown() {
		return sql.UnknownEstimate()
	}
	return sql.NewEstimate(e.rows.Value() * e.rowSize.Value())
}

var unknown = nodeEstimate{rows: sql.UnknownEstimate(), rowSize: sql.UnknownEstimate()}

// estimate returns the estimate of a node and whether it can be memoized.
func (c *Calculator) estimate(ctx *sql.Context, n sql.Node) (nodeEstimate, bool) {
	key, err := plan.Fingerprint(n)
	if err != nil {
		return c.compute(ctx, n)
	}

	k := strconv.FormatUint(key, 16)
	if cached, ok := c.memo.Get(k); ok {
		return cached.(nodeEstimate), true
	}

	e, ok := c.compute(ctx, n)
	if ok {
		c.memo.Set(k, e, cache.NoExpiration)
	}
	return e, ok
}

// compute estimates a node from its children. The returned flag is false
// when statistics of the node or any of its descendants could not be read.
func (c *Calculator) compute(ctx *sql.Context, n sql.Node) (nodeEstimate, bool) {
	switch n := n.(type) {
	case *plan.TableScan:
		return c.tableScan(ctx, n)
	case *plan.Values:
		return nodeEstimate{
			rows:    sql.NewEstimate(float64(len(n.Rows))),
			rowSize: sql.NewEstimate(float64(literalSizeBytes * len(n.Outputs()))),
		}, true
	case *plan.Filter:
		child, ok := c.estimate(ctx, n.Child)
		return nodeEstimate{
			rows:    child.rows.Map(scale(defaultFilterSelectivity)),
			rowSize: child.rowSize,
		}, ok
	case *plan.Project:
		child, ok := c.estimate(ctx, n.Child)
		return nodeEstimate{
			rows:    child.rows,
			rowSize: narrow(child.rowSize, len(n.Child.Outputs()), len(n.Outputs())),
		}, ok
	case *plan.EnforceSingleRow:
		child, ok := c.estimate(ctx, n.Child)
		return nodeEstimate{rows: sql.NewEstimate(1), rowSize: child.rowSize}, ok
	case *plan.GroupBy:
		child, ok := c.estimate(ctx, n.Child)
		rows := child.rows
		if len(n.GroupingKeys) == 0 {
			rows = sql.NewEstimate(1)
		}
		return nodeEstimate{
			rows:    rows,
			rowSize: narrow(child.rowSize, len(n.Child.Outputs()), len(n.Outputs())),
		}, ok
	case *plan.Join:
		return c.join(ctx, n)
	case *plan.SemiJoin:
		source, ok := c.estimate(ctx, n.Source())
		return nodeEstimate{
			rows:    source.rows,
			rowSize: source.rowSize.Map(func(v float64) float64 { return v + semiJoinMarkerBytes }),
		}, ok
	case *plan.Apply:
		input, inputOk := c.estimate(ctx, n.Input())
		subquery, subqueryOk := c.estimate(ctx, n.Subquery())
		rows := input.rows
		if !plan.IsScalar(n.Subquery()) {
			rows = product(input.rows, subquery.rows)
		}
		return nodeEstimate{rows: rows, rowSize: sum(input.rowSize, subquery.rowSize)}, inputOk && subqueryOk
	default:
		return unknown, true
	}
}

func (c *Calculator) tableScan(ctx *sql.Context, n *plan.TableScan) (nodeEstimate, bool) {
	s, ok, err := c.provider.TableStats(ctx, n.Table)
	if err != nil {
		ctx.Logger().WithField("table", n.Table).Warnf("unable to read table statistics: %s", err)
		return unknown, false
	}
	if !ok {
		return unknown, true
	}

	e := nodeEstimate{rows: sql.NewEstimate(float64(s.RowCount)), rowSize: sql.UnknownEstimate()}
	if s.AvgRowSize > 0 {
		e.rowSize = sql.NewEstimate(s.AvgRowSize)
	}
	return e, true
}

func (c *Calculator) join(ctx *sql.Context, n *plan.Join) (nodeEstimate, bool) {
	left, leftOk := c.estimate(ctx, n.Left())
	right, rightOk := c.estimate(ctx, n.Right())

	rows := product(left.rows, right.rows)
	if len(n.Criteria) > 0 {
		rows = rows.Map(scale(optimisticJoinSel))
	}
	if n.Filter.IsPresent() {
		rows = rows.Map(scale(defaultFilterSelectivity))
	}

	switch n.Type {
	case plan.JoinTypeLeft:
		rows = atLeast(rows, left.rows)
	case plan.JoinTypeRight:
		rows = atLeast(rows, right.rows)
	case plan.JoinTypeFull:
		rows = atLeast(rows, sum(left.rows, right.rows))
	}

	return nodeEstimate{rows: rows, rowSize: sum(left.rowSize, right.rowSize)}, leftOk && rightOk
}

func scale(f float64) func(float64) float64 {
	return func(v float64) float64 { return v * f }
}

// narrow scales a row size to a subset of the columns.
func narrow(rowSize sql.Estimate, from, to int) sql.Estimate {
	if from == 0 {
		return sql.UnknownEstimate()
	}
	return rowSize.Map(scale(float64(to) / float64(from)))
}

func product(a, b sql.Estimate) sql.Estimate {
	if a.IsUnknown() || b.IsUnknown() {
		return sql.UnknownEstimate()
	}
	return sql.NewEstimate(a.Value() * b.Value())
}

func sum(a, b sql.Estimate) sql.Estimate {
	if a.IsUnknown() || b.IsUnknown() {
		return sql.UnknownEstimate()
	}
	return sql.NewEstimate(a.Value() + b.Value())
}

func atLeast(rows, floor sql.Estimate) sql.Estimate {
	if rows.IsUnknown() || floor.IsUnknown() {
		return rows
	}
	return sql.NewEstimate(math.Max(rows.Value(), floor.Value()))
}
