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

package plan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
)

func TestJoinOutputs(t *testing.T) {
	require := require.New(t)

	a := NewTableScan(1, "a", "a1", "a2")
	b := NewTableScan(2, "b", "b1")
	j := NewInnerJoin(3, a, b, EquiJoinClause{"a1", "b1"})

	require.Equal([]sql.Symbol{"a1", "a2", "b1"}, j.Outputs())
	require.Equal(sql.NodeID(3), j.ID())
	require.False(j.IsCrossJoin())
	require.True(NewCrossJoin(4, a, b).IsCrossJoin())
	require.False(NewJoin(5, JoinTypeLeft, a, b, nil, sql.None[sql.Expression]()).IsCrossJoin())
}

func TestJoinWithChildren(t *testing.T) {
	require := require.New(t)

	a := NewTableScan(1, "a", "a1")
	b := NewTableScan(2, "b", "b1")
	c := NewTableScan(3, "c", "c1")
	j := NewInnerJoin(4, a, b, EquiJoinClause{"a1", "b1"}).WithDistribution(DistributionReplicated)

	n, err := j.WithChildren(a, c)
	require.NoError(err)
	nj := n.(*Join)
	require.Equal(j.ID(), nj.ID())
	require.Equal(DistributionReplicated, nj.Distribution)
	require.Equal(c, nj.Right())
	require.Equal(b, j.Right())

	_, err = j.WithChildren(a)
	require.Error(err)
	require.True(sql.ErrInvalidChildrenNumber.Is(err))
}

func TestJoinString(t *testing.T) {
	require := require.New(t)

	a := NewTableScan(1, "a", "a1")
	b := NewTableScan(2, "b", "b1")
	j := NewJoin(3, JoinTypeFull, a, b,
		[]EquiJoinClause{{"a1", "b1"}},
		sql.Some[sql.Expression](expression.NewGreaterThan(
			expression.NewSymbolReference("a1"),
			expression.NewLiteral(5),
		)),
	).WithDistribution(DistributionPartitioned)

	expected := "FullJoin[a1 = b1] filter: (a1 > 5) distribution: PARTITIONED\n" +
		" ├─ TableScan(a)[a1]\n" +
		" └─ TableScan(b)[b1]\n"
	require.Equal(expected, j.String())
}

func TestSemiJoin(t *testing.T) {
	require := require.New(t)

	a := NewTableScan(1, "a", "a1", "a2")
	b := NewTableScan(2, "b", "b1")
	s := NewSemiJoin(3, a, b, "a1", "b1", "m")

	require.Equal([]sql.Symbol{"a1", "a2", "m"}, s.Outputs())
	require.Equal(a, s.Source())
	require.Equal(b, s.FilteringSource())

	h := s.WithHashSymbols(sql.Some[sql.Symbol]("ha"), sql.None[sql.Symbol]()).
		WithDistribution(DistributionReplicated)
	require.Equal(DistributionUndecided, s.Distribution)

	expected := "SemiJoin[a1 = b1] output: m sourceHash: ha distribution: REPLICATED\n" +
		" ├─ TableScan(a)[a1, a2]\n" +
		" └─ TableScan(b)[b1]\n"
	require.Equal(expected, h.String())
}

func TestProjectIsIdentity(t *testing.T) {
	require := require.New(t)

	child := NewTableScan(1, "a", "a1", "a2")
	p := NewProject(2, IdentityAssignments("a2", "a1"), child)
	require.True(p.IsIdentity())
	require.Equal([]sql.Symbol{"a2", "a1"}, p.Outputs())

	p = NewProject(3, Assignments{
		{Symbol: "x", Expression: expression.NewSymbolReference("a1")},
	}, child)
	require.False(p.IsIdentity())
	require.Equal([]sql.Symbol{"x"}, p.Outputs())
}

func TestGroupByOutputs(t *testing.T) {
	require := require.New(t)

	child := NewTableScan(1, "a", "a1", "a2")
	g := NewGroupBy(2, []sql.Symbol{"a1"}, Assignments{
		{Symbol: "cnt", Expression: expression.NewSymbolReference("a2")},
	}, child)
	require.Equal([]sql.Symbol{"a1", "cnt"}, g.Outputs())
}

func TestApplyOutputs(t *testing.T) {
	require := require.New(t)

	input := NewTableScan(1, "a", "a1")
	sub := NewEnforceSingleRow(3, NewTableScan(2, "b", "b1"))
	apply := NewApply(4, input, sub)
	require.False(apply.IsCorrelated())
	require.Equal([]sql.Symbol{"a1", "b1"}, apply.Outputs())
	require.True(NewApply(5, input, sub, "a1").IsCorrelated())
}
