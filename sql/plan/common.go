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
	"strings"

	"github.com/dolthub/go-join-planner/sql"
)

// IsUnary returns whether the node is unary or not.
func IsUnary(node sql.Node) bool {
	return len(node.Children()) == 1
}

// IsBinary returns whether the node is binary or not.
func IsBinary(node sql.Node) bool {
	return len(node.Children()) == 2
}

// UnaryNode is a node that has only one child.
type UnaryNode struct {
	Child sql.Node
}

// Outputs implements the Node interface.
func (n UnaryNode) Outputs() []sql.Symbol {
	return n.Child.Outputs()
}

// Children implements the Node interface.
func (n UnaryNode) Children() []sql.Node {
	return []sql.Node{n.Child}
}

// BinaryNode is a node with two children.
type BinaryNode struct {
	left  sql.Node
	right sql.Node
}

// Left returns the left child.
func (n BinaryNode) Left() sql.Node {
	return n.left
}

// Right returns the right child.
func (n BinaryNode) Right() sql.Node {
	return n.right
}

// Children implements the Node interface.
func (n BinaryNode) Children() []sql.Node {
	return []sql.Node{n.left, n.right}
}

// Outputs implements the Node interface. It is the concatenation of the left
// and right outputs.
func (n BinaryNode) Outputs() []sql.Symbol {
	left := n.left.Outputs()
	right := n.right.Outputs()
	out := make([]sql.Symbol, 0, len(left)+len(right))
	out = append(out, left...)
	return append(out, right...)
}

func symbolList(symbols []sql.Symbol) string {
	parts := make([]string, len(symbols))
	for i, s := range symbols {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func copySymbols(symbols []sql.Symbol) []sql.Symbol {
	if symbols == nil {
		return nil
	}
	return append([]sql.Symbol(nil), symbols...)
}
