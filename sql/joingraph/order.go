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
	"container/heap"

	"github.com/dolthub/go-join-planner/sql"
)

// JoinOrder returns an order in which the graph nodes can be joined so that
// every node after the first is connected to some node before it. The order
// starts at node 0 and stays as close as possible to the original order of
// the nodes. If the graph is disconnected no order is returned.
func JoinOrder(g *JoinGraph) sql.Optional[[]int] {
	if g.Size() == 0 {
		return sql.None[[]int]()
	}

	visited := make([]bool, g.Size())
	order := make([]int, 0, g.Size())
	frontier := &indexHeap{0}

	for frontier.Len() > 0 {
		i := heap.Pop(frontier).(int)
		if visited[i] {
			continue
		}
		visited[i] = true
		order = append(order, i)
		for _, e := range g.Edges(i) {
			heap.Push(frontier, e.Target)
		}
	}

	if len(order) != g.Size() {
		return sql.None[[]int]()
	}
	return sql.Some(order)
}

// indexHeap is a min-heap of node indices. The priority of a node is its
// index.
type indexHeap []int

func (h indexHeap) Len() int           { return len(h) }
func (h indexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h indexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *indexHeap) Push(x interface{}) {
	*h = append(*h, x.(int))
}

func (h *indexHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
