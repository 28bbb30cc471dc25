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

// EnforceSingleRow fails the query if its child produces more than one row.
type EnforceSingleRow struct {
	UnaryNode
	id sql.NodeID
}

var _ sql.Node = (*EnforceSingleRow)(nil)

// NewEnforceSingleRow creates a new EnforceSingleRow node.
func NewEnforceSingleRow(id sql.NodeID, child sql.Node) *EnforceSingleRow {
	return &EnforceSingleRow{UnaryNode: UnaryNode{Child: child}, id: id}
}

// ID implements the Node interface.
func (e *EnforceSingleRow) ID() sql.NodeID { return e.id }

// WithChildren implements the Node interface.
func (e *EnforceSingleRow) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 1)
	}
	return NewEnforceSingleRow(e.id, children[0]), nil
}

func (e *EnforceSingleRow) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("EnforceSingleRow")
	_ = pr.WriteChildren(e.Child.String())
	return pr.String()
}
