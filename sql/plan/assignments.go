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
	"fmt"
	"strings"

	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/expression"
)

// Assignment binds an output symbol to the expression that computes it.
type Assignment struct {
	Symbol     sql.Symbol
	Expression sql.Expression
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s := %s", a.Symbol, a.Expression)
}

// Assignments is an ordered list of assignments. The order defines the
// output order of the node holding them.
type Assignments []Assignment

// IdentityAssignments returns assignments that pass the given symbols
// through unchanged.
func IdentityAssignments(symbols ...sql.Symbol) Assignments {
	result := make(Assignments, len(symbols))
	for i, s := range symbols {
		result[i] = Assignment{Symbol: s, Expression: expression.NewSymbolReference(s)}
	}
	return result
}

// Symbols returns the assigned symbols in order.
func (a Assignments) Symbols() []sql.Symbol {
	result := make([]sql.Symbol, len(a))
	for i, as := range a {
		result[i] = as.Symbol
	}
	return result
}

// Expressions returns the assigned expressions in order.
func (a Assignments) Expressions() []sql.Expression {
	result := make([]sql.Expression, len(a))
	for i, as := range a {
		result[i] = as.Expression
	}
	return result
}

// Get returns the expression assigned to the given symbol.
func (a Assignments) Get(s sql.Symbol) (sql.Expression, bool) {
	for _, as := range a {
		if as.Symbol == s {
			return as.Expression, true
		}
	}
	return nil, false
}

// IsIdentity returns whether every assignment is a plain reference to the
// symbol it assigns.
func (a Assignments) IsIdentity() bool {
	for _, as := range a {
		if !expression.IsSymbolReferenceTo(as.Expression, as.Symbol) {
			return false
		}
	}
	return true
}

func (a Assignments) String() string {
	parts := make([]string, len(a))
	for i, as := range a {
		parts[i] = as.String()
	}
	return strings.Join(parts, ", ")
}
