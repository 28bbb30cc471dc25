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

// Package joingraph flattens chains of inner joins into join graphs and
// computes join orders over them.
package joingraph

import (
	"fmt"
	"strings"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// Edge is an equi join condition seen from one of its endpoints. Target is
// the index of the other endpoint in the graph.
type Edge struct {
	Target       int
	SourceSymbol sql.Symbol
	TargetSymbol sql.Symbol
}

func (e Edge) String() string {
	return fmt.Sprintf("%s = %s(#%d)", e.SourceSymbol, e.TargetSymbol, e.Target)
}

// JoinGraph is a flattened chain of inner joins. Nodes are the inputs of the
// chain in their original left to right order, and a node is identified by
// its index in that order. JoinGraph is immutable once built.
type JoinGraph struct {
	nodes             []sql.Node
	edges             [][]Edge
	filters           []sql.Expression
	assignments       sql.Optional[plan.Assignments]
	rootID            sql.NodeID
	containsCrossJoin bool
}

func newSingleNodeGraph(node sql.Node) *JoinGraph {
	return &JoinGraph{
		nodes:  []sql.Node{node},
		edges:  make([][]Edge, 1),
		rootID: node.ID(),
	}
}

// Nodes returns the graph nodes in their original order.
func (g *JoinGraph) Nodes() []sql.Node { return g.nodes }

// Size returns the number of nodes.
func (g *JoinGraph) Size() int { return len(g.nodes) }

// Node returns the node with the given index.
func (g *JoinGraph) Node(i int) sql.Node { return g.nodes[i] }

// Edges returns the edges leaving the node with the given index.
func (g *JoinGraph) Edges(i int) []Edge { return g.edges[i] }

// Filters returns the residual filters of the chain.
func (g *JoinGraph) Filters() []sql.Expression { return g.filters }

// Assignments returns the final projection of the chain, if any.
func (g *JoinGraph) Assignments() sql.Optional[plan.Assignments] { return g.assignments }

// RootID returns the id of the topmost plan node covered by the graph.
func (g *JoinGraph) RootID() sql.NodeID { return g.rootID }

// ContainsCrossJoin returns whether the chain had an inner join without
// criteria when the graph was built.
func (g *JoinGraph) ContainsCrossJoin() bool { return g.containsCrossJoin }

func (g *JoinGraph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "JoinGraph(root: %s, crossJoin: %t)\n", g.rootID, g.containsCrossJoin)
	for i, n := range g.nodes {
		fmt.Fprintf(&sb, "  #%d %s", i, strings.SplitN(n.String(), "\n", 2)[0])
		if len(g.edges[i]) > 0 {
			edges := make([]string, len(g.edges[i]))
			for j, e := range g.edges[i] {
				edges[j] = e.String()
			}
			fmt.Fprintf(&sb, " edges: [%s]", strings.Join(edges, ", "))
		}
		sb.WriteRune('\n')
	}
	for _, f := range g.filters {
		fmt.Fprintf(&sb, "  filter: %s\n", f)
	}
	if a, ok := g.assignments.Get(); ok {
		fmt.Fprintf(&sb, "  assignments: %s\n", a)
	}
	return sb.String()
}

func (g *JoinGraph) clone() *JoinGraph {
	ng := *g
	ng.filters = append([]sql.Expression(nil), g.filters...)
	return &ng
}

func (g *JoinGraph) withFilter(filter sql.Expression) *JoinGraph {
	ng := g.clone()
	ng.filters = append(ng.filters, filter)
	return ng
}

func (g *JoinGraph) withAssignments(assignments plan.Assignments) *JoinGraph {
	ng := g.clone()
	ng.assignments = sql.Some(assignments)
	return ng
}

func (g *JoinGraph) withRootID(id sql.NodeID) *JoinGraph {
	ng := g.clone()
	ng.rootID = id
	return ng
}

// joinWith merges the other graph to the right of this one, adding an edge
// in each direction for every clause.
func (g *JoinGraph) joinWith(other *JoinGraph, criteria []plan.EquiJoinClause, rootID sql.NodeID) (*JoinGraph, error) {
	offset := len(g.nodes)
	nodes := make([]sql.Node, 0, offset+len(other.nodes))
	nodes = append(nodes, g.nodes...)
	nodes = append(nodes, other.nodes...)

	edges := make([][]Edge, len(nodes))
	for i, es := range g.edges {
		edges[i] = append([]Edge(nil), es...)
	}
	for i, es := range other.edges {
		shifted := make([]Edge, len(es))
		for j, e := range es {
			e.Target += offset
			shifted[j] = e
		}
		edges[offset+i] = shifted
	}

	producers := make(map[sql.Symbol]int)
	for i, n := range nodes {
		for _, s := range n.Outputs() {
			producers[s] = i
		}
	}

	for _, c := range criteria {
		left, ok := producers[c.Left]
		if !ok {
			return nil, sql.ErrMalformedJoinGraph.New(fmt.Sprintf("no node produces symbol %s of clause %s", c.Left, c))
		}
		right, ok := producers[c.Right]
		if !ok {
			return nil, sql.ErrMalformedJoinGraph.New(fmt.Sprintf("no node produces symbol %s of clause %s", c.Right, c))
		}
		edges[left] = append(edges[left], Edge{Target: right, SourceSymbol: c.Left, TargetSymbol: c.Right})
		edges[right] = append(edges[right], Edge{Target: left, SourceSymbol: c.Right, TargetSymbol: c.Left})
	}

	filters := make([]sql.Expression, 0, len(g.filters)+len(other.filters))
	filters = append(filters, g.filters...)
	filters = append(filters, other.filters...)

	return &JoinGraph{
		nodes:             nodes,
		edges:             edges,
		filters:           filters,
		rootID:            rootID,
		containsCrossJoin: len(criteria) == 0 || g.containsCrossJoin || other.containsCrossJoin,
	}, nil
}
