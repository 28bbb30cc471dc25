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

	errors "gopkg.in/src-d/go-errors.v1"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
)

// ErrSymbolNotFound is returned when a node references a symbol its children
// do not produce.
var ErrSymbolNotFound = errors.NewKind("symbol %s referenced by %s is not produced by its children")

// ErrJoinSymbolWrongSide is returned when a join symbol is produced by the
// other side of the join than the one it is declared on.
var ErrJoinSymbolWrongSide = errors.NewKind("symbol %s of %s is not produced by its %s side")

// ValidateDependencies checks that every symbol a node references is
// produced by one of its children. The subquery of an Apply may also
// reference the symbols of its input.
func ValidateDependencies(node sql.Node) error {
	return validateDependencies(node, nil)
}

func validateDependencies(node sql.Node, outer sql.Symbols) error {
	if apply, ok := node.(*Apply); ok {
		if err := validateDependencies(apply.Input(), outer); err != nil {
			return err
		}
		inputs := sql.Symbols(apply.Input().Outputs())
		for _, s := range apply.Correlation {
			if !inputs.Contains(s) {
				return ErrSymbolNotFound.New(s, describeNode(apply))
			}
		}
		scope := append(append(sql.Symbols(nil), outer...), inputs...)
		return validateDependencies(apply.Subquery(), scope)
	}

	for _, child := range node.Children() {
		if err := validateDependencies(child, outer); err != nil {
			return err
		}
	}

	available := append(sql.Symbols(nil), outer...)
	for _, child := range node.Children() {
		available = append(available, child.Outputs()...)
	}
	for _, s := range expression.ReferencedSymbols(NodeExpressions(node)...) {
		if !available.Contains(s) {
			return ErrSymbolNotFound.New(s, describeNode(node))
		}
	}
	return validateJoinSides(node)
}

// validateJoinSides checks that the left symbol of every equi clause comes
// from the left child and the right symbol from the right child.
func validateJoinSides(node sql.Node) error {
	var pairs [][2]sql.Symbol
	var left, right sql.Symbols
	switch n := node.(type) {
	case *Join:
		left, right = n.Left().Outputs(), n.Right().Outputs()
		for _, c := range n.Criteria {
			pairs = append(pairs, [2]sql.Symbol{c.Left, c.Right})
		}
	case *SemiJoin:
		left, right = n.Source().Outputs(), n.FilteringSource().Outputs()
		pairs = append(pairs, [2]sql.Symbol{n.SourceJoinSymbol, n.FilteringSourceJoinSymbol})
	default:
		return nil
	}

	for _, p := range pairs {
		if !left.Contains(p[0]) {
			return ErrJoinSymbolWrongSide.New(p[0], describeNode(node), "left")
		}
		if !right.Contains(p[1]) {
			return ErrJoinSymbolWrongSide.New(p[1], describeNode(node), "right")
		}
	}
	return nil
}

func describeNode(node sql.Node) string {
	if n, ok := node.(sql.Nameable); ok {
		return n.Name()
	}
	return strings.SplitN(node.String(), "\n", 2)[0]
}
