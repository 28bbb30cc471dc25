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

package analyzer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

func TestAnalyze(t *testing.T) {
	require := require.New(t)

	a := scan(1, "a", "a1")
	b := scan(2, "b", "b1")
	c := scan(3, "c", "c1")
	total := plan.NewEnforceSingleRow(5, plan.NewGroupBy(4, nil, plan.Assignments{
		{Symbol: "total", Expression: ref("c1")},
	}, scan(6, "c", "c1")))
	projection := plan.Assignments{{Symbol: "x", Expression: ref("a1")}}

	node := plan.NewFilter(10, gt(ref("x"), ref("total")),
		plan.NewApply(9,
			plan.NewProject(11, projection,
				plan.NewInnerJoin(8, plan.NewCrossJoin(7, a, b), c, on("a1", "c1"), on("b1", "c1")),
			),
			total,
		),
	)

	analyzer := newDistributionAnalyzer(fakeCosts{sizes: map[sql.NodeID]float64{
		2: 50 * mb,
		3: 1 * mb,
	}})
	result, err := analyzer.Analyze(newContext(newSession(true, sql.JoinDistributionAutomatic)), node)
	require.NoError(err)

	// The scalar subquery is joined without a condition, so its cross join
	// stays. The cross join below the projection is removed.
	expected := plan.NewFilter(0, gt(ref("x"), ref("total")),
		plan.NewCrossJoin(0,
			plan.NewProject(0, projection,
				plan.NewInnerJoin(0,
					plan.NewInnerJoin(0, a, c, on("a1", "c1")).WithDistribution(plan.DistributionReplicated),
					b,
					on("c1", "b1"),
				).WithDistribution(plan.DistributionPartitioned),
			),
			total,
		).WithDistribution(plan.DistributionReplicated),
	)
	assertNodesEqualWithDiff(t, expected, result)
}

func TestAnalyzeReorderingDisabled(t *testing.T) {
	require := require.New(t)

	a := scan(1, "a", "a1")
	b := scan(2, "b", "b1")
	c := scan(3, "c", "c1")
	node := plan.NewInnerJoin(8, plan.NewCrossJoin(7, a, b), c, on("a1", "c1"), on("b1", "c1"))

	result, err := NewDefault().Analyze(newContext(newSession(false, sql.JoinDistributionPartitioned)), node)
	require.NoError(err)

	expected := plan.NewInnerJoin(8,
		plan.NewCrossJoin(7, a, b).WithDistribution(plan.DistributionReplicated),
		c,
		on("a1", "c1"), on("b1", "c1"),
	).WithDistribution(plan.DistributionPartitioned)
	assertNodesEqualWithDiff(t, expected, result)
}

func TestAnalyzeAbortsOnInvalidPlan(t *testing.T) {
	a := scan(1, "a", "a1")
	b := scan(2, "b", "b1")

	_, err := NewDefault().Analyze(
		newContext(newSession(false, sql.JoinDistributionAutomatic)),
		plan.NewFilter(4, gt(ref("x1"), lit(1)), plan.NewInnerJoin(3, a, b, on("a1", "b1"))),
	)
	require.Error(t, err)
	require.True(t, plan.ErrSymbolNotFound.Is(err))
}

func TestBuilderCustomRules(t *testing.T) {
	require := require.New(t)

	var calls []string
	record := func(name string) RuleFunc {
		return func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
			calls = append(calls, name)
			return n, nil
		}
	}

	a := NewBuilder().
		WithDebug().
		AddPreAnalyzeRule("pre_analyze", record("pre_analyze")).
		AddPostAnalyzeRule("post_analyze", record("post_analyze")).
		AddPreValidationRule("pre_validation", record("pre_validation")).
		AddPostValidationRule("post_validation", record("post_validation")).
		Build()
	require.True(a.Debug)

	_, err := a.Analyze(newContext(newSession(false, sql.JoinDistributionAutomatic)), scan(1, "a", "a1"))
	require.NoError(err)
	require.Equal([]string{"pre_analyze", "post_analyze", "pre_validation", "post_validation"}, calls)
}

func TestBatchMaxIterations(t *testing.T) {
	require := require.New(t)

	var id sql.NodeID
	b := &Batch{
		Desc:       "growing",
		Iterations: 3,
		Rules: []Rule{{"rename", func(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
			id++
			return scan(id, "t"+id.String(), "x"), nil
		}}},
	}

	_, err := b.Eval(newContext(newSession(false, sql.JoinDistributionAutomatic)), NewDefault(), scan(0, "t", "x"))
	require.Error(err)
	require.True(ErrMaxAnalysisIters.Is(err))
}
