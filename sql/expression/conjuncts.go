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

package expression

import "github.com/dolthub/go-join-planner/sql"

// SplitConjunction breaks AND expressions into their left and right parts,
// recursively.
func SplitConjunction(expr sql.Expression) []sql.Expression {
	if expr == nil {
		return nil
	}
	and, ok := expr.(*And)
	if !ok {
		return []sql.Expression{expr}
	}

	return append(
		SplitConjunction(and.Left),
		SplitConjunction(and.Right)...,
	)
}

// JoinAnd joins several expressions with And. Nil expressions are skipped,
// and nil is returned when no expressions remain.
func JoinAnd(exprs ...sql.Expression) sql.Expression {
	var result sql.Expression
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if result == nil {
			result = e
			continue
		}
		result = NewAnd(result, e)
	}
	return result
}

// ReferencedSymbols returns the distinct symbols referenced by the given
// expressions, in order of first appearance.
func ReferencedSymbols(exprs ...sql.Expression) []sql.Symbol {
	var result []sql.Symbol
	seen := make(map[sql.Symbol]struct{})
	for _, e := range exprs {
		if e == nil {
			continue
		}
		Inspect(e, func(e sql.Expression) bool {
			if ref, ok := e.(*SymbolReference); ok {
				if _, ok := seen[ref.Symbol]; !ok {
					seen[ref.Symbol] = struct{}{}
					result = append(result, ref.Symbol)
				}
			}
			return true
		})
	}
	return result
}
