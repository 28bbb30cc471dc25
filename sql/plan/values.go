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
)

// Values is a leaf producing a fixed list of rows.
type Values struct {
	id      sql.NodeID
	outputs []sql.Symbol
	Rows    [][]sql.Expression
}

var _ sql.Node = (*Values)(nil)

// NewValues creates a Values node. Every row must have one expression per
// output symbol.
func NewValues(id sql.NodeID, outputs []sql.Symbol, rows ...[]sql.Expression) *Values {
	return &Values{id: id, outputs: copySymbols(outputs), Rows: rows}
}

// ID implements the Node interface.
func (v *Values) ID() sql.NodeID { return v.id }

// Outputs implements the Node interface.
func (v *Values) Outputs() []sql.Symbol { return v.outputs }

// Children implements the Node interface.
func (*Values) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (v *Values) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(v, len(children), 0)
	}
	return v, nil
}

func (v *Values) String() string {
	rows := make([]string, len(v.Rows))
	for i, row := range v.Rows {
		vals := make([]string, len(row))
		for j, e := range row {
			vals[j] = e.String()
		}
		rows[i] = "(" + strings.Join(vals, ", ") + ")"
	}
	return fmt.Sprintf("Values[%s](%s)", symbolList(v.outputs), strings.Join(rows, ", "))
}
