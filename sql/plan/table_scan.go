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

	"github.com/dolthub/go-join-planner/sql"
)

// TableScan reads the rows of a table. The optimizer treats it as an opaque
// leaf.
type TableScan struct {
	id      sql.NodeID
	Table   string
	outputs []sql.Symbol
}

var _ sql.Node = (*TableScan)(nil)
var _ sql.Nameable = (*TableScan)(nil)

// NewTableScan creates a scan of the given table producing the given symbols.
func NewTableScan(id sql.NodeID, table string, outputs ...sql.Symbol) *TableScan {
	return &TableScan{id: id, Table: table, outputs: copySymbols(outputs)}
}

// ID implements the Node interface.
func (t *TableScan) ID() sql.NodeID { return t.id }

// Name implements the Nameable interface.
func (t *TableScan) Name() string { return t.Table }

// Outputs implements the Node interface.
func (t *TableScan) Outputs() []sql.Symbol { return t.outputs }

// Children implements the Node interface.
func (*TableScan) Children() []sql.Node { return nil }

// WithChildren implements the Node interface.
func (t *TableScan) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 0 {
		return nil, sql.ErrInvalidChildrenNumber.New(t, len(children), 0)
	}
	return t, nil
}

func (t *TableScan) String() string {
	return fmt.Sprintf("TableScan(%s)[%s]", t.Table, symbolList(t.outputs))
}
