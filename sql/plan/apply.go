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

// Apply evaluates its subquery once per input row. The correlation symbols
// are the input symbols the subquery depends on; an apply without
// correlation is an uncorrelated subquery.
type Apply struct {
	BinaryNode
	id          sql.NodeID
	Correlation []sql.Symbol
}

var _ sql.Node = (*Apply)(nil)

// NewApply creates a new Apply node.
func NewApply(id sql.NodeID, input, subquery sql.Node, correlation ...sql.Symbol) *Apply {
	return &Apply{
		BinaryNode:  BinaryNode{left: input, right: subquery},
		id:          id,
		Correlation: copySymbols(correlation),
	}
}

// ID implements the Node interface.
func (a *Apply) ID() sql.NodeID { return a.id }

// Input returns the outer node.
func (a *Apply) Input() sql.Node { return a.left }

// Subquery returns the node evaluated per input row.
func (a *Apply) Subquery() sql.Node { return a.right }

// IsCorrelated returns whether the subquery depends on the input.
func (a *Apply) IsCorrelated() bool { return len(a.Correlation) > 0 }

// WithChildren implements the Node interface.
func (a *Apply) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(a, len(children), 2)
	}
	return NewApply(a.id, children[0], children[1], a.Correlation...), nil
}

func (a *Apply) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Apply[%s]", symbolList(a.Correlation))
	_ = pr.WriteChildren(a.left.String(), a.right.String())
	return pr.String()
}
