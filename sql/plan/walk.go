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
	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
)

// Visitor visits nodes in the plan.
type Visitor interface {
	// Visit method is invoked for each node encountered by Walk.
	// If the result Visitor is not nil, Walk visits each of the children
	// of the node with that visitor, followed by a call of Visit(nil)
	// to the returned visitor.
	Visit(node sql.Node) Visitor
}

// Walk traverses the plan tree in depth-first order. It starts by calling
// v.Visit(node); node must not be nil. If the visitor returned by
// v.Visit(node) is not nil, Walk is invoked recursively with the returned
// visitor for each children of the node, followed by a call of v.Visit(nil)
// to the returned visitor.
func Walk(v Visitor, node sql.Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	for _, child := range node.Children() {
		Walk(v, child)
	}

	v.Visit(nil)
}

type inspector func(sql.Node) bool

func (f inspector) Visit(node sql.Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses the plan in depth-first order: It starts by calling
// f(node); node must not be nil. If f returns true, Inspect invokes f
// recursively for each of the children of node, followed by a call of
// f(nil).
func Inspect(node sql.Node, f func(sql.Node) bool) {
	Walk(inspector(f), node)
}

// MaxNodeID returns the largest node id in the plan.
func MaxNodeID(node sql.Node) sql.NodeID {
	var max sql.NodeID
	Inspect(node, func(n sql.Node) bool {
		if n != nil && n.ID() > max {
			max = n.ID()
		}
		return true
	})
	return max
}

// NodeExpressions returns every expression a node holds, including the
// implicit symbol references of join criteria.
func NodeExpressions(node sql.Node) []sql.Expression {
	switch n := node.(type) {
	case *Join:
		exprs := make([]sql.Expression, 0, 2*len(n.Criteria)+1)
		for _, c := range n.Criteria {
			exprs = append(exprs, expression.NewSymbolReference(c.Left), expression.NewSymbolReference(c.Right))
		}
		return append(exprs, n.Expressions()...)
	case *SemiJoin:
		return []sql.Expression{
			expression.NewSymbolReference(n.SourceJoinSymbol),
			expression.NewSymbolReference(n.FilteringSourceJoinSymbol),
		}
	case *Delete:
		return []sql.Expression{expression.NewSymbolReference(n.RowID)}
	case *GroupBy:
		exprs := make([]sql.Expression, 0, len(n.GroupingKeys)+len(n.Aggregates))
		for _, k := range n.GroupingKeys {
			exprs = append(exprs, expression.NewSymbolReference(k))
		}
		return append(exprs, n.Expressions()...)
	case sql.Expressioner:
		return n.Expressions()
	default:
		return nil
	}
}
