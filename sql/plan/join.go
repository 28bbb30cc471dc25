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
	"fmt"
	"strings"

	"github.com/dolthub/go-join-planner/sql"
)

// JoinType is the logical kind of a join.
type JoinType byte

const (
	// JoinTypeInner is an inner join. An inner join without criteria is a
	// cross join.
	JoinTypeInner JoinType = iota
	// JoinTypeLeft is a left outer join.
	JoinTypeLeft
	// JoinTypeRight is a right outer join.
	JoinTypeRight
	// JoinTypeFull is a full outer join.
	JoinTypeFull
)

func (t JoinType) String() string {
	switch t {
	case JoinTypeInner:
		return "InnerJoin"
	case JoinTypeLeft:
		return "LeftJoin"
	case JoinTypeRight:
		return "RightJoin"
	case JoinTypeFull:
		return "FullJoin"
	default:
		return fmt.Sprintf("JoinType(%d)", byte(t))
	}
}

// DistributionType is how the two sides of a join are spread across
// workers.
type DistributionType byte

const (
	// DistributionUndecided means no distribution was chosen yet.
	DistributionUndecided DistributionType = iota
	// DistributionReplicated broadcasts the build side to every worker.
	DistributionReplicated
	// DistributionPartitioned hash partitions both sides on the join keys.
	DistributionPartitioned
)

func (d DistributionType) String() string {
	switch d {
	case DistributionUndecided:
		return "UNDECIDED"
	case DistributionReplicated:
		return "REPLICATED"
	case DistributionPartitioned:
		return "PARTITIONED"
	default:
		return fmt.Sprintf("DistributionType(%d)", byte(d))
	}
}

// EquiJoinClause is a join condition asserting equality between a symbol of
// the left side and a symbol of the right side.
type EquiJoinClause struct {
	Left  sql.Symbol
	Right sql.Symbol
}

func (c EquiJoinClause) String() string {
	return fmt.Sprintf("%s = %s", c.Left, c.Right)
}

// Join joins the rows of two nodes.
type Join struct {
	BinaryNode
	id              sql.NodeID
	Type            JoinType
	Criteria        []EquiJoinClause
	Filter          sql.Optional[sql.Expression]
	LeftHashSymbol  sql.Optional[sql.Symbol]
	RightHashSymbol sql.Optional[sql.Symbol]
	Distribution    DistributionType
}

var _ sql.Node = (*Join)(nil)
var _ sql.Expressioner = (*Join)(nil)

// NewJoin creates a new join node with an undecided distribution.
func NewJoin(
	id sql.NodeID,
	typ JoinType,
	left, right sql.Node,
	criteria []EquiJoinClause,
	filter sql.Optional[sql.Expression],
) *Join {
	return &Join{
		BinaryNode: BinaryNode{left: left, right: right},
		id:         id,
		Type:       typ,
		Criteria:   append([]EquiJoinClause(nil), criteria...),
		Filter:     filter,
	}
}

// NewInnerJoin creates an inner join without residual filter.
func NewInnerJoin(id sql.NodeID, left, right sql.Node, criteria ...EquiJoinClause) *Join {
	return NewJoin(id, JoinTypeInner, left, right, criteria, sql.None[sql.Expression]())
}

// NewCrossJoin creates an inner join without criteria.
func NewCrossJoin(id sql.NodeID, left, right sql.Node) *Join {
	return NewInnerJoin(id, left, right)
}

// ID implements the Node interface.
func (j *Join) ID() sql.NodeID { return j.id }

// IsCrossJoin returns whether this is an inner join without criteria.
func (j *Join) IsCrossJoin() bool {
	return j.Type == JoinTypeInner && len(j.Criteria) == 0
}

// WithChildren implements the Node interface.
func (j *Join) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(j, len(children), 2)
	}
	nj := *j
	nj.BinaryNode = BinaryNode{left: children[0], right: children[1]}
	return &nj, nil
}

// WithDistribution returns a copy of the join with the given distribution.
func (j *Join) WithDistribution(d DistributionType) *Join {
	nj := *j
	nj.Distribution = d
	return &nj
}

// WithHashSymbols returns a copy of the join with the given precomputed
// hash symbols.
func (j *Join) WithHashSymbols(left, right sql.Optional[sql.Symbol]) *Join {
	nj := *j
	nj.LeftHashSymbol = left
	nj.RightHashSymbol = right
	return &nj
}

// Expressions implements the Expressioner interface.
func (j *Join) Expressions() []sql.Expression {
	if f, ok := j.Filter.Get(); ok {
		return []sql.Expression{f}
	}
	return nil
}

func (j *Join) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("%s", j.describe())
	_ = pr.WriteChildren(j.left.String(), j.right.String())
	return pr.String()
}

func (j *Join) describe() string {
	var sb strings.Builder
	sb.WriteString(j.Type.String())
	clauses := make([]string, len(j.Criteria))
	for i, c := range j.Criteria {
		clauses[i] = c.String()
	}
	fmt.Fprintf(&sb, "[%s]", strings.Join(clauses, ", "))
	if f, ok := j.Filter.Get(); ok {
		fmt.Fprintf(&sb, " filter: %s", f)
	}
	if l, ok := j.LeftHashSymbol.Get(); ok {
		fmt.Fprintf(&sb, " leftHash: %s", l)
	}
	if r, ok := j.RightHashSymbol.Get(); ok {
		fmt.Fprintf(&sb, " rightHash: %s", r)
	}
	if j.Distribution != DistributionUndecided {
		fmt.Fprintf(&sb, " distribution: %s", j.Distribution)
	}
	return sb.String()
}
