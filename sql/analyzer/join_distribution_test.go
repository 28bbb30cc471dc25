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

const mb = 1000 * 1000

// fakeCosts returns fixed estimates per node id. Nodes without an estimate
// are unknown.
type fakeCosts struct {
	sizes map[sql.NodeID]float64
	rows  map[sql.NodeID]float64
}

func (f fakeCosts) EstimateOutputSizeBytes(_ *sql.Context, n sql.Node) sql.Estimate {
	if v, ok := f.sizes[n.ID()]; ok {
		return sql.NewEstimate(v)
	}
	return sql.UnknownEstimate()
}

func (f fakeCosts) EstimateOutputRowCount(_ *sql.Context, n sql.Node) sql.Estimate {
	if v, ok := f.rows[n.ID()]; ok {
		return sql.NewEstimate(v)
	}
	return sql.UnknownEstimate()
}

func newDistributionAnalyzer(costs sql.CostCalculator) *Analyzer {
	cfg := sql.DefaultFeaturesConfig()
	cfg.MaxMemoryPerNode = 100 * mb
	return NewBuilder().
		WithCostCalculator(costs).
		WithGlobalProperties(cfg).
		Build()
}

func TestJoinDistribution(t *testing.T) {
	probe := scan(1, "probe", "p1")
	build := scan(2, "build", "b1")
	single := plan.NewEnforceSingleRow(3, build)

	innerJoin := plan.NewInnerJoin(10, probe, build, on("p1", "b1"))
	crossJoin := plan.NewCrossJoin(10, probe, build)
	scalarJoin := plan.NewInnerJoin(10, probe, single, on("p1", "b1"))
	join := func(typ plan.JoinType) *plan.Join {
		return plan.NewJoin(10, typ, probe, build, []plan.EquiJoinClause{on("p1", "b1")}, sql.None[sql.Expression]())
	}

	sized := func(size float64) fakeCosts {
		return fakeCosts{sizes: map[sql.NodeID]float64{2: size}}
	}
	counted := func(rows float64) fakeCosts {
		return fakeCosts{rows: map[sql.NodeID]float64{2: rows}}
	}

	testCases := []struct {
		name         string
		node         *plan.Join
		distribution sql.JoinDistributionType
		costs        fakeCosts
		expected     plan.DistributionType
	}{
		{"small build side", innerJoin, sql.JoinDistributionAutomatic, sized(5 * mb), plan.DistributionReplicated},
		{"large build side", innerJoin, sql.JoinDistributionAutomatic, sized(20 * mb), plan.DistributionPartitioned},
		{"size right at the limit", innerJoin, sql.JoinDistributionAutomatic, sized(10 * mb), plan.DistributionPartitioned},
		{"small row count", innerJoin, sql.JoinDistributionAutomatic, counted(100000), plan.DistributionReplicated},
		{"large row count", innerJoin, sql.JoinDistributionAutomatic, counted(1000000), plan.DistributionPartitioned},
		{
			"known zero size wins over row count",
			innerJoin,
			sql.JoinDistributionAutomatic,
			fakeCosts{sizes: map[sql.NodeID]float64{2: 0}, rows: map[sql.NodeID]float64{2: 1e9}},
			plan.DistributionReplicated,
		},
		{"no estimates", innerJoin, sql.JoinDistributionAutomatic, fakeCosts{}, plan.DistributionPartitioned},
		{"session replicated beats cost", innerJoin, sql.JoinDistributionReplicated, sized(500 * mb), plan.DistributionReplicated},
		{"session partitioned beats cost", innerJoin, sql.JoinDistributionPartitioned, sized(1), plan.DistributionPartitioned},
		{"full join with session replicated", join(plan.JoinTypeFull), sql.JoinDistributionReplicated, sized(1), plan.DistributionPartitioned},
		{"right join with small build side", join(plan.JoinTypeRight), sql.JoinDistributionAutomatic, sized(1), plan.DistributionPartitioned},
		{"left join with small build side", join(plan.JoinTypeLeft), sql.JoinDistributionAutomatic, sized(1), plan.DistributionReplicated},
		{"cross join with large build side", crossJoin, sql.JoinDistributionPartitioned, sized(500 * mb), plan.DistributionReplicated},
		{"scalar build side", scalarJoin, sql.JoinDistributionPartitioned, fakeCosts{}, plan.DistributionReplicated},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			a := newDistributionAnalyzer(tt.costs)
			ctx := newContext(newSession(false, tt.distribution))

			result, err := determineJoinDistribution(ctx, a, tt.node)
			require.NoError(err)

			j, ok := result.(*plan.Join)
			require.True(ok)
			require.Equal(tt.expected, j.Distribution)
			require.Equal(tt.node.ID(), j.ID())
			require.Equal(plan.DistributionUndecided, tt.node.Distribution)
		})
	}
}

func TestSemiJoinDistribution(t *testing.T) {
	source := scan(1, "source", "s1", "rowid")
	filtering := scan(2, "filtering", "f1")
	semiJoin := plan.NewSemiJoin(10, source, filtering, "s1", "f1", "match")
	small := fakeCosts{sizes: map[sql.NodeID]float64{2: 1 * mb}}
	large := fakeCosts{sizes: map[sql.NodeID]float64{2: 50 * mb}}

	testCases := []struct {
		name         string
		node         sql.Node
		distribution sql.JoinDistributionType
		costs        fakeCosts
		expected     plan.DistributionType
	}{
		{"small filtering source", semiJoin, sql.JoinDistributionAutomatic, small, plan.DistributionReplicated},
		{"large filtering source", semiJoin, sql.JoinDistributionAutomatic, large, plan.DistributionPartitioned},
		{"session partitioned", semiJoin, sql.JoinDistributionPartitioned, small, plan.DistributionPartitioned},
		{"session replicated", semiJoin, sql.JoinDistributionReplicated, large, plan.DistributionReplicated},
		{
			"under delete",
			plan.NewDelete(12, plan.NewFilter(11, ref("match"), semiJoin), "source", "rowid"),
			sql.JoinDistributionPartitioned,
			large,
			plan.DistributionReplicated,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			a := newDistributionAnalyzer(tt.costs)
			ctx := newContext(newSession(false, tt.distribution))

			result, err := determineJoinDistribution(ctx, a, tt.node)
			require.NoError(err)

			var found bool
			plan.Inspect(result, func(n sql.Node) bool {
				if sj, ok := n.(*plan.SemiJoin); ok {
					found = true
					require.Equal(tt.expected, sj.Distribution)
				}
				return true
			})
			require.True(found)
		})
	}
}

func TestJoinDistributionRewritesWholePlan(t *testing.T) {
	a := scan(1, "a", "a1")
	b := scan(2, "b", "b1")
	c := scan(3, "c", "c1")

	node := plan.NewProject(13, plan.IdentityAssignments("a1"),
		plan.NewFilter(12, gt(ref("a1"), lit(1)),
			plan.NewJoin(11, plan.JoinTypeFull,
				plan.NewInnerJoin(10, a, b, on("a1", "b1")),
				c,
				[]plan.EquiJoinClause{on("b1", "c1")},
				sql.None[sql.Expression](),
			),
		),
	)

	expected := plan.NewProject(13, plan.IdentityAssignments("a1"),
		plan.NewFilter(12, gt(ref("a1"), lit(1)),
			plan.NewJoin(11, plan.JoinTypeFull,
				plan.NewInnerJoin(10, a, b, on("a1", "b1")).WithDistribution(plan.DistributionReplicated),
				c,
				[]plan.EquiJoinClause{on("b1", "c1")},
				sql.None[sql.Expression](),
			).WithDistribution(plan.DistributionPartitioned),
		),
	)

	analyzer := newDistributionAnalyzer(fakeCosts{sizes: map[sql.NodeID]float64{2: 1 * mb, 3: 1 * mb}})
	runTestCases(t, analyzer, []analyzerFnTestCase{
		{
			name:     "nested joins",
			node:     node,
			expected: expected,
		},
	}, getRule("determine_join_distribution"))
}

func TestDeleteFlagFlipsForward(t *testing.T) {
	require := require.New(t)

	source := scan(1, "source", "s1", "rowid")
	filtering := scan(2, "filtering", "f1")
	other := scan(3, "other", "o1")
	otherFiltering := scan(4, "other_filtering", "g1")

	// The semi join on the left is visited before the Delete, the one on
	// the right after it.
	node := plan.NewCrossJoin(20,
		plan.NewSemiJoin(10, other, otherFiltering, "o1", "g1", "m1"),
		plan.NewDelete(12,
			plan.NewSemiJoin(11, source, filtering, "s1", "f1", "m2"),
			"source", "rowid",
		),
	)

	a := newDistributionAnalyzer(fakeCosts{})
	result, err := determineJoinDistribution(newContext(newSession(false, sql.JoinDistributionPartitioned)), a, node)
	require.NoError(err)

	distributions := make(map[sql.NodeID]plan.DistributionType)
	plan.Inspect(result, func(n sql.Node) bool {
		if sj, ok := n.(*plan.SemiJoin); ok {
			distributions[sj.ID()] = sj.Distribution
		}
		return true
	})
	require.Equal(map[sql.NodeID]plan.DistributionType{
		10: plan.DistributionPartitioned,
		11: plan.DistributionReplicated,
	}, distributions)
}
