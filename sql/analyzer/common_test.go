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
	"context"
	"fmt"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
	"github.com/dolthub/go-join-planner/sql/plan"
)

func ref(s sql.Symbol) sql.Expression {
	return expression.NewSymbolReference(s)
}

func eq(left, right sql.Expression) sql.Expression {
	return expression.NewEquals(left, right)
}

func gt(left, right sql.Expression) sql.Expression {
	return expression.NewGreaterThan(left, right)
}

func lit(v int64) sql.Expression {
	return expression.NewLiteral(v)
}

func on(left, right sql.Symbol) plan.EquiJoinClause {
	return plan.EquiJoinClause{Left: left, Right: right}
}

func scan(id sql.NodeID, table string, outputs ...sql.Symbol) *plan.TableScan {
	return plan.NewTableScan(id, table, outputs...)
}

// newSession returns a session with the given settings.
func newSession(reordering bool, distribution sql.JoinDistributionType) sql.Session {
	cfg := sql.DefaultFeaturesConfig()
	cfg.JoinReorderingEnabled = reordering
	cfg.JoinDistributionType = distribution
	return sql.NewSession(cfg)
}

// newContext returns a context whose new node ids start after the ids used
// by test plans.
func newContext(session sql.Session) *sql.Context {
	return sql.NewContext(context.Background(),
		sql.WithSession(session),
		sql.WithNodeIDAllocator(sql.NewNodeIDAllocatorFrom(1000)),
	)
}

// Common test struct for analyzer transformation tests. Name and node are required, other fields are optional.
// The expected node is optional: if omitted, the tests asserts that input == output. The optional err field is the
// kind of error expected, if any. The session defaults to one with join reordering enabled and automatic
// distribution.
type analyzerFnTestCase struct {
	name     string
	node     sql.Node
	expected sql.Node
	session  sql.Session
	err      *errors.Kind
}

func runTestCases(t *testing.T, a *Analyzer, testCases []analyzerFnTestCase, f Rule) {
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			session := tt.session
			if session == nil {
				session = newSession(true, sql.JoinDistributionAutomatic)
			}

			result, err := f.Apply(newContext(session), a, tt.node)
			if tt.err != nil {
				require.Error(t, err)
				require.True(t, tt.err.Is(err), "unexpected error: %s", err)
				return
			}
			require.NoError(t, err)

			expected := tt.expected
			if expected == nil {
				expected = tt.node
			}
			assertNodesEqualWithDiff(t, expected, result)
		})
	}
}

// assertNodesEqualWithDiff asserts the two nodes given to be structurally equal and prints any diff according to
// their DebugString methods. Node ids are not compared.
func assertNodesEqualWithDiff(t *testing.T, expected, actual sql.Node) {
	t.Helper()
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(sql.DebugString(expected)),
		B:        difflib.SplitLines(sql.DebugString(actual)),
		FromFile: "expected",
		FromDate: "",
		ToFile:   "actual",
		ToDate:   "",
		Context:  1,
	})
	require.NoError(t, err)

	if len(diff) > 0 {
		fmt.Println(diff)
	}

	require.Equal(t, plan.MustFingerprint(expected), plan.MustFingerprint(actual))
}

func getRule(name string) Rule {
	for _, rules := range [][]Rule{OnceBeforeDefault, DefaultRules, OnceAfterDefault, DefaultValidationRules} {
		for _, rule := range rules {
			if rule.Name == name {
				return rule
			}
		}
	}

	panic("missing rule")
}
