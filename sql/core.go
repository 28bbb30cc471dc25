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

package sql

import "fmt"

// Symbol is the name of a column produced by a plan node. Symbols are unique
// within a plan, so a symbol identifies the node that produces it.
type Symbol string

// String implements the fmt.Stringer interface.
func (s Symbol) String() string { return string(s) }

// Symbols is an ordered list of symbols.
type Symbols []Symbol

// Contains returns whether the given symbol is in the list.
func (s Symbols) Contains(sym Symbol) bool {
	for _, o := range s {
		if o == sym {
			return true
		}
	}
	return false
}

// Expression is a scalar expression evaluated over the output symbols of a
// plan node.
type Expression interface {
	fmt.Stringer
	// Children returns the children expressions of this expression.
	Children() []Expression
	// WithChildren returns a copy of the expression with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Expression) (Expression, error)
}

// Node is a node in the logical plan tree. Nodes are immutable: every
// rewrite builds a new node.
type Node interface {
	fmt.Stringer
	// ID returns the identity of the node. Rewrites that only replace the
	// children of a node keep its id.
	ID() NodeID
	// Outputs returns the ordered list of symbols the node produces.
	Outputs() []Symbol
	// Children returns the children nodes of this node, if any.
	Children() []Node
	// WithChildren returns a copy of the node with children replaced.
	// It will return an error if the number of children is different than
	// the current number of children. They must be given in the same order
	// as they are returned by Children.
	WithChildren(children ...Node) (Node, error)
}

// Expressioner is a node that contains expressions.
type Expressioner interface {
	// Expressions returns the list of expressions contained by the node.
	Expressions() []Expression
}

// Nameable is something that has a name.
type Nameable interface {
	// Name returns the name.
	Name() string
}

// TransformNodeFunc is a function that given a node will return that node
// as is or transformed along with an error, if any.
type TransformNodeFunc func(Node) (Node, error)

// TransformExprFunc is a function that given an expression will return that
// expression as is or transformed along with an error, if any.
type TransformExprFunc func(Expression) (Expression, error)

// DebugString returns the tree representation of the node.
func DebugString(n fmt.Stringer) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
