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

import "github.com/dolthub/go-join-planner/sql"

// TableHandle identifies the table a write node targets.
type TableHandle string

// Delete deletes the rows identified by the row id symbol of its child from
// the target table.
type Delete struct {
	UnaryNode
	id      sql.NodeID
	Target  TableHandle
	RowID   sql.Symbol
	outputs []sql.Symbol
}

var _ sql.Node = (*Delete)(nil)

// NewDelete creates a Delete node.
func NewDelete(id sql.NodeID, child sql.Node, target TableHandle, rowID sql.Symbol, outputs ...sql.Symbol) *Delete {
	return &Delete{
		UnaryNode: UnaryNode{Child: child},
		id:        id,
		Target:    target,
		RowID:     rowID,
		outputs:   copySymbols(outputs),
	}
}

// ID implements the Node interface.
func (d *Delete) ID() sql.NodeID { return d.id }

// Outputs implements the Node interface.
func (d *Delete) Outputs() []sql.Symbol {
	return d.outputs
}

// WithChildren implements the Node interface.
func (d *Delete) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(d, len(children), 1)
	}
	return NewDelete(d.id, children[0], d.Target, d.RowID, d.outputs...), nil
}

func (d *Delete) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Delete(%s, rowId: %s)", d.Target, d.RowID)
	_ = pr.WriteChildren(d.Child.String())
	return pr.String()
}
