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

// SymbolReference is a reference to a symbol produced by a child node.
type SymbolReference struct {
	Symbol sql.Symbol
}

var _ sql.Expression = (*SymbolReference)(nil)

// NewSymbolReference creates a new reference to the given symbol.
func NewSymbolReference(s sql.Symbol) *SymbolReference {
	return &SymbolReference{Symbol: s}
}

// Children implements the Expression interface.
func (*SymbolReference) Children() []sql.Expression { return nil }

// WithChildren implements the Expression interface.
func (r *SymbolReference) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(r, len(children), 0)
	}
	return r, nil
}

func (r *SymbolReference) String() string {
	return string(r.Symbol)
}

// IsSymbolReferenceTo returns whether e is a reference to the given symbol.
func IsSymbolReferenceTo(e sql.Expression, s sql.Symbol) bool {
	ref, ok := e.(*SymbolReference)
	return ok && ref.Symbol == s
}
