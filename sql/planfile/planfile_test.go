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

package planfile

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
	"github.com/dolthub/go-join-planner/sql/plan"
)

const starQuery = `
plans:
  - name: star
    root:
      kind: project
      assignments:
        a1: a1
        x: {literal: foo}
      source:
        kind: filter
        predicate: {and: [{gt: [a1, 5]}, {neq: [b1, null]}]}
        source:
          kind: join
          id: 20
          criteria: ["a1 = c1", "b1=c1"]
          left:
            kind: join
            left: {kind: scan, table: a, outputs: [a1]}
            right: {kind: scan, table: b, outputs: [b1]}
          right: {kind: scan, id: 3, table: c, outputs: [c1]}
  - name: delete
    root:
      kind: delete
      target: a
      row-id: a_row
      outputs: [a_row]
      source:
        kind: semi-join
        source-symbol: a1
        filtering-symbol: b1
        output: m
        distribution: replicated
        left: {kind: scan, table: a, outputs: [a_row, a1]}
        right:
          kind: apply
          left: {kind: values, outputs: [b1], rows: [[1], [2.5]]}
          right:
            kind: enforce-single-row
            source:
              kind: group-by
              aggregates:
                total: c1
              source: {kind: scan, table: c, outputs: [c1]}
`

func ref(s sql.Symbol) sql.Expression {
	return expression.NewSymbolReference(s)
}

func TestParse(t *testing.T) {
	require := require.New(t)

	plans, err := Parse([]byte(starQuery))
	require.NoError(err)
	require.Len(plans, 2)
	require.Equal("star", plans[0].Name)
	require.Equal("delete", plans[1].Name)

	expected := plan.NewProject(0,
		plan.Assignments{
			{Symbol: "a1", Expression: ref("a1")},
			{Symbol: "x", Expression: expression.NewLiteral("foo")},
		},
		plan.NewFilter(0,
			expression.NewAnd(
				expression.NewGreaterThan(ref("a1"), expression.NewLiteral(int64(5))),
				expression.NewNotEquals(ref("b1"), expression.NewLiteral(nil)),
			),
			plan.NewInnerJoin(0,
				plan.NewCrossJoin(0, plan.NewTableScan(0, "a", "a1"), plan.NewTableScan(0, "b", "b1")),
				plan.NewTableScan(0, "c", "c1"),
				plan.EquiJoinClause{Left: "a1", Right: "c1"},
				plan.EquiJoinClause{Left: "b1", Right: "c1"},
			),
		),
	)
	require.Equal(plan.MustFingerprint(expected), plan.MustFingerprint(plans[0].Root))
	require.NoError(plan.ValidateDependencies(plans[0].Root))

	// Explicit ids are kept, the others are allocated after the largest.
	var ids []sql.NodeID
	plan.Inspect(plans[0].Root, func(n sql.Node) bool {
		if n != nil {
			ids = append(ids, n.ID())
		}
		return true
	})
	require.Equal([]sql.NodeID{25, 24, 20, 23, 21, 22, 3}, ids)

	del, ok := plans[1].Root.(*plan.Delete)
	require.True(ok)
	sj, ok := del.Child.(*plan.SemiJoin)
	require.True(ok)
	require.Equal(plan.DistributionReplicated, sj.Distribution)
	require.Equal([]sql.Symbol{"a_row", "a1", "m"}, sj.Outputs())

	apply, ok := sj.FilteringSource().(*plan.Apply)
	require.True(ok)
	require.False(apply.IsCorrelated())
	require.True(plan.IsScalar(apply.Subquery()))

	values, ok := apply.Input().(*plan.Values)
	require.True(ok)
	require.Equal([][]sql.Expression{
		{expression.NewLiteral(int64(1))},
		{expression.NewLiteral(2.5)},
	}, values.Rows)
}

func TestParseComputedAssignments(t *testing.T) {
	require := require.New(t)

	plans, err := Parse([]byte(`
plans:
  - name: computed
    root:
      kind: group-by
      grouping-keys: [big]
      aggregates:
        any_match: {or: [{eq: [a1, 1]}, {and: [{gt: [a1, 5]}, {lt: [a1, 10]}]}]}
      source:
        kind: project
        assignments:
          a1: a1
          big: {gt: [a1, 100]}
        source: {kind: scan, table: a, outputs: [a1]}
`))
	require.NoError(err)

	lit := func(v int64) sql.Expression { return expression.NewLiteral(v) }
	expected := plan.NewGroupBy(0, []sql.Symbol{"big"},
		plan.Assignments{{
			Symbol: "any_match",
			Expression: expression.NewOr(
				expression.NewEquals(ref("a1"), lit(1)),
				expression.NewAnd(
					expression.NewGreaterThan(ref("a1"), lit(5)),
					expression.NewLessThan(ref("a1"), lit(10)),
				),
			),
		}},
		plan.NewProject(0, plan.Assignments{
			{Symbol: "a1", Expression: ref("a1")},
			{Symbol: "big", Expression: expression.NewGreaterThan(ref("a1"), lit(100))},
		}, plan.NewTableScan(0, "a", "a1")),
	)
	require.Equal(plan.MustFingerprint(expected), plan.MustFingerprint(plans[0].Root))
	require.NoError(plan.ValidateDependencies(plans[0].Root))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name string
		yaml string
	}{
		{"not yaml", "plans: [1"},
		{"unknown key", "plans: []\nqueries: []"},
		{"no plans", "plans: []"},
		{"no name", "plans: [{root: {kind: scan, table: a}}]"},
		{"duplicate name", "plans: [{name: q, root: {kind: scan, table: a}}, {name: q, root: {kind: scan, table: b}}]"},
		{"no root", "plans: [{name: q}]"},
		{"no kind", "plans: [{name: q, root: {table: a}}]"},
		{"unknown kind", "plans: [{name: q, root: {kind: sort}}]"},
		{"scan without table", "plans: [{name: q, root: {kind: scan}}]"},
		{"missing child", "plans: [{name: q, root: {kind: filter, predicate: a1}}]"},
		{"duplicate id", "plans: [{name: q, root: {kind: join, id: 1, left: {kind: scan, id: 1, table: a}, right: {kind: scan, table: b}}}]"},
		{"bad criteria", `plans: [{name: q, root: {kind: join, criteria: ["a1"], left: {kind: scan, table: a}, right: {kind: scan, table: b}}}]`},
		{"bad join type", "plans: [{name: q, root: {kind: join, type: semi, left: {kind: scan, table: a}, right: {kind: scan, table: b}}}]"},
		{"bad distribution", "plans: [{name: q, root: {kind: join, distribution: broadcast, left: {kind: scan, table: a}, right: {kind: scan, table: b}}}]"},
		{"semi join symbols", "plans: [{name: q, root: {kind: semi-join, left: {kind: scan, table: a}, right: {kind: scan, table: b}}}]"},
		{"values width", "plans: [{name: q, root: {kind: values, outputs: [a1], rows: [[1, 2]]}}]"},
		{"unknown operator", "plans: [{name: q, root: {kind: filter, predicate: {like: [a1, b1]}, source: {kind: scan, table: a}}}]"},
		{"operator arity", "plans: [{name: q, root: {kind: filter, predicate: {eq: [a1]}, source: {kind: scan, table: a}}}]"},
		{"two operators", "plans: [{name: q, root: {kind: filter, predicate: {eq: [a1, b1], gt: [a1, b1]}, source: {kind: scan, table: a}}}]"},
		{"unknown operator in assignment", "plans: [{name: q, root: {kind: project, assignments: {x: {like: [a1, b1]}}, source: {kind: scan, table: a}}}]"},
		{"list expression", "plans: [{name: q, root: {kind: filter, predicate: [a1], source: {kind: scan, table: a}}}]"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			require.True(t, ErrInvalidPlanFile.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	dir, err := ioutil.TempDir("", "planfile")
	require.NoError(err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "plans.yaml")
	require.NoError(ioutil.WriteFile(path, []byte(starQuery), 0644))

	plans, err := Load(path)
	require.NoError(err)
	require.Len(plans, 2)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.True(ErrInvalidPlanFile.Is(err))
}
