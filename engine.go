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

package sqle

import (
	"context"
	"time"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/analyzer"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// Engine optimizes logical plans.
type Engine struct {
	Config   sql.FeaturesConfig
	Costs    sql.CostCalculator
	Analyzer *analyzer.Builder
}

// New creates a new Engine with the given config and cost calculator. A nil
// calculator knows nothing about the plans.
func New(cfg sql.FeaturesConfig, costs sql.CostCalculator) *Engine {
	if costs == nil {
		costs = sql.UnknownCostCalculator{}
	}

	b := analyzer.NewBuilder().
		WithCostCalculator(costs).
		WithGlobalProperties(cfg)

	return &Engine{Config: cfg, Costs: costs, Analyzer: b}
}

// NewDefault creates a new Engine with the default config.
func NewDefault() *Engine {
	return New(sql.DefaultFeaturesConfig(), nil)
}

// NewSession returns a session whose variables start from the engine config.
func (e *Engine) NewSession() *sql.BaseSession {
	return sql.NewSession(e.Config)
}

// NewContext returns a context for optimizing plans with the given session.
func (e *Engine) NewContext(ctx context.Context, session sql.Session) *sql.Context {
	return sql.NewContext(ctx, sql.WithSession(session))
}

// Optimize analyzes the given plan. New nodes get ids after the largest id
// of the plan.
func (e *Engine) Optimize(ctx *sql.Context, node sql.Node) (sql.Node, error) {
	if last := plan.MaxNodeID(node); last > ctx.NodeIDAllocator().Last() {
		ctx = ctx.WithNodeIDsAfter(last)
	}

	start := time.Now()
	result, err := e.Analyzer.Build().Analyze(ctx, node)
	if err != nil {
		ctx.Logger().Warnf("plan optimization failed: %s", err)
		return nil, err
	}

	ctx.Logger().Debugf("plan optimized in %s", time.Since(start))
	return result, nil
}

// OptimizeAll analyzes independent plans concurrently. Each plan is
// analyzed by its own analyzer with its own id allocator. The first error
// aborts the whole batch.
func (e *Engine) OptimizeAll(ctx *sql.Context, nodes []sql.Node) ([]sql.Node, error) {
	results := make([]sql.Node, len(nodes))
	eg, egCtx := ctx.NewErrgroup()

	for i, n := range nodes {
		i, n := i, n
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			result, err := e.Optimize(egCtx.WithNodeIDsAfter(0), n)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
