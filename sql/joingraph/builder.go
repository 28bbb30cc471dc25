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

package joingraph

import (
	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// BuildFrom returns the join graphs found in the given plan, innermost
// first. Only graphs with at least two nodes are returned.
//
// A chain of inner joins, filters and identity projections is flattened
// into one graph. Any other node closes the chain: it becomes an opaque node
// of the enclosing graph and its children are searched for graphs of their
// own.
//
// Building only fails on a broken plan: an equi join clause whose symbol no
// node of the graph produces returns sql.ErrMalformedJoinGraph.
func BuildFrom(node sql.Node) ([]*JoinGraph, error) {
	b := new(builder)
	g, err := b.visit(node)
	if err != nil {
		return nil, err
	}
	if g.Size() > 1 {
		b.graphs = append(b.graphs, g)
	}
	return b.graphs, nil
}

type builder struct {
	graphs []*JoinGraph
}

func (b *builder) visit(node sql.Node) (*JoinGraph, error) {
	switch n := node.(type) {
	case *plan.Join:
		if n.Type == plan.JoinTypeInner {
			return b.visitJoin(n)
		}
	case *plan.Filter:
		return b.visitFilter(n)
	case *plan.Project:
		if n.IsIdentity() {
			return b.visitProject(n)
		}
	}
	return b.visitStop(node)
}

func (b *builder) visitStop(node sql.Node) (*JoinGraph, error) {
	for _, child := range node.Children() {
		g, err := b.visit(child)
		if err != nil {
			return nil, err
		}
		if g.Size() < 2 {
			continue
		}
		b.graphs = append(b.graphs, g.withRootID(child.ID()))
	}
	return newSingleNodeGraph(node), nil
}

func (b *builder) visitJoin(j *plan.Join) (*JoinGraph, error) {
	left, err := b.visitChain(j.Left())
	if err != nil {
		return nil, err
	}
	right, err := b.visitChain(j.Right())
	if err != nil {
		return nil, err
	}

	g, err := left.joinWith(right, j.Criteria, j.ID())
	if err != nil {
		return nil, err
	}
	if f, ok := j.Filter.Get(); ok {
		g = g.withFilter(f)
	}
	return g, nil
}

func (b *builder) visitFilter(f *plan.Filter) (*JoinGraph, error) {
	g, err := b.visitChain(f.Child)
	if err != nil {
		return nil, err
	}
	return g.withFilter(f.Predicate).withRootID(f.ID()), nil
}

func (b *builder) visitProject(p *plan.Project) (*JoinGraph, error) {
	g, err := b.visitChain(p.Child)
	if err != nil {
		return nil, err
	}
	return g.withAssignments(p.Assignments).withRootID(p.ID()), nil
}

// visitChain builds the graph of a node that continues the current chain.
// A graph that already ends in a projection cannot be extended without
// losing it, so it is closed off and its node becomes opaque.
func (b *builder) visitChain(node sql.Node) (*JoinGraph, error) {
	g, err := b.visit(node)
	if err != nil {
		return nil, err
	}
	if !g.assignments.IsPresent() {
		return g, nil
	}
	if g.Size() > 1 {
		b.graphs = append(b.graphs, g.withRootID(node.ID()))
	}
	return newSingleNodeGraph(node), nil
}
