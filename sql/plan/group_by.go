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

import "github.com/dolthub/go-join-planner/sql"

// GroupBy groups the rows of its child by the grouping keys and computes
// aggregates per group. Without grouping keys it produces a single row.
type GroupBy struct {
	UnaryNode
	id           sql.NodeID
	GroupingKeys []sql.Symbol
	Aggregates   Assignments
}

var _ sql.Node = (*GroupBy)(nil)
var _ sql.Expressioner = (*GroupBy)(nil)

// NewGroupBy creates a new GroupBy node.
func NewGroupBy(id sql.NodeID, groupingKeys []sql.Symbol, aggregates Assignments, child sql.Node) *GroupBy {
	return &GroupBy{
		UnaryNode:    UnaryNode{Child: child},
		id:           id,
		GroupingKeys: copySymbols(groupingKeys),
		Aggregates:   append(Assignments(nil), aggregates...),
	}
}

// ID implements the Node interface.
func (g *GroupBy) ID() sql.NodeID { return g.id }

// Outputs implements the Node interface.
func (g *GroupBy) Outputs() []sql.Symbol {
	out := make([]sql.Symbol, 0, len(g.GroupingKeys)+len(g.Aggregates))
	out = append(out, g.GroupingKeys...)
	return append(out, g.Aggregates.Symbols()...)
}

// WithChildren implements the Node interface.
func (g *GroupBy) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(g, len(children), 1)
	}
	return NewGroupBy(g.id, g.GroupingKeys, g.Aggregates, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (g *GroupBy) Expressions() []sql.Expression {
	return g.Aggregates.Expressions()
}

func (g *GroupBy) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("GroupBy[%s](%s)", symbolList(g.GroupingKeys), g.Aggregates)
	_ = pr.WriteChildren(g.Child.String())
	return pr.String()
}
