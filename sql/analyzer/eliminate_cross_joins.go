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
	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/joingraph"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// eliminateCrossJoins reorders chains of inner joins that contain a cross
// join, so that every join of the chain has an equi join condition where
// the chain allows it. Chains whose join graph is disconnected are kept.
func eliminateCrossJoins(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("eliminate_cross_joins")
	defer span.Finish()

	if !ctx.JoinReorderingEnabled() {
		a.Log("join reordering disabled, skipping")
		return n, nil
	}

	graphs, err := joingraph.BuildFrom(n)
	if err != nil {
		return nil, err
	}

	for i := 0; i < len(graphs); i++ {
		g := graphs[i]
		if !g.ContainsCrossJoin() {
			continue
		}

		order, ok := joingraph.JoinOrder(g).Get()
		if !ok {
			a.Log("join graph rooted at node %s is disconnected, keeping its cross joins", g.RootID())
			continue
		}

		a.Log("reordering join graph rooted at node %s with order %v", g.RootID(), order)
		n, err = replaceJoinGraph(ctx, n, g, order)
		if err != nil {
			return nil, err
		}

		graphs, err = joingraph.BuildFrom(n)
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}

// replaceJoinGraph replaces the subtree covered by the graph with a left
// deep join tree built in the given order.
func replaceJoinGraph(ctx *sql.Context, n sql.Node, g *joingraph.JoinGraph, order []int) (sql.Node, error) {
	replacement, err := buildJoinTree(ctx, g, order)
	if err != nil {
		return nil, err
	}

	var replaced bool
	result, err := plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		if n.ID() != g.RootID() {
			return n, nil
		}
		replaced = true
		return replacement, nil
	})
	if err != nil {
		return nil, err
	}

	if !replaced {
		return nil, sql.ErrMalformedJoinGraph.New("root node " + g.RootID().String() + " is not part of the plan")
	}

	return result, nil
}

// buildJoinTree joins the graph nodes in the given order. Every step joins
// on the edges between the new node and the nodes joined before it. The
// residual filters and the final projection are put on top.
func buildJoinTree(ctx *sql.Context, g *joingraph.JoinGraph, order []int) (sql.Node, error) {
	if len(order) < 2 || len(order) != g.Size() {
		return nil, sql.ErrMalformedJoinOrder.New(order, g.Size())
	}

	seen := make([]bool, g.Size())
	for _, i := range order {
		if i < 0 || i >= g.Size() || seen[i] {
			return nil, sql.ErrMalformedJoinOrder.New(order, g.Size())
		}
		seen[i] = true
	}

	joined := make([]bool, g.Size())
	result := g.Node(order[0])
	joined[order[0]] = true

	for _, i := range order[1:] {
		joined[i] = true

		var criteria []plan.EquiJoinClause
		for _, edge := range g.Edges(i) {
			if joined[edge.Target] {
				criteria = append(criteria, plan.EquiJoinClause{
					Left:  edge.TargetSymbol,
					Right: edge.SourceSymbol,
				})
			}
		}

		result = plan.NewInnerJoin(ctx.NextNodeID(), result, g.Node(i), criteria...)
	}

	for _, filter := range g.Filters() {
		result = plan.NewFilter(ctx.NextNodeID(), filter, result)
	}

	if assignments, ok := g.Assignments().Get(); ok {
		result = plan.NewProject(ctx.NextNodeID(), assignments, result)
	}

	return result, nil
}
