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

func TestFingerprintIgnoresIDs(t *testing.T) {
	require := require.New(t)

	build := func(base sql.NodeID) sql.Node {
		a := NewTableScan(base+1, "a", "a1")
		b := NewTableScan(base+2, "b", "b1")
		return NewFilter(base+4, expression.NewLiteral(true),
			NewInnerJoin(base+3, a, b, EquiJoinClause{"a1", "b1"}))
	}

	h1, err := Fingerprint(build(0))
	require.NoError(err)
	h2, err := Fingerprint(build(100))
	require.NoError(err)
	require.Equal(h1, h2)
}

func TestFingerprintDistinguishesShape(t *testing.T) {
	require := require.New(t)

	a := NewTableScan(1, "a", "a1")
	b := NewTableScan(2, "b", "b1")
	j := NewInnerJoin(3, a, b, EquiJoinClause{"a1", "b1"})

	testCases := []struct {
		name string
		node sql.Node
	}{
		{"swapped children", NewInnerJoin(3, b, a, EquiJoinClause{"a1", "b1"})},
		{"flipped clause", NewInnerJoin(3, a, b, EquiJoinClause{"b1", "a1"})},
		{"cross join", NewCrossJoin(3, a, b)},
		{"distribution", j.WithDistribution(DistributionReplicated)},
		{"join type", NewJoin(3, JoinTypeLeft, a, b, j.Criteria, sql.None[sql.Expression]())},
		{"hash symbol", j.WithHashSymbols(sql.Some[sql.Symbol]("h"), sql.None[sql.Symbol]())},
	}

	base := MustFingerprint(j)
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.NotEqual(base, MustFingerprint(tt.node))
		})
	}
}
