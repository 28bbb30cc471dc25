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

// Project is a projection of certain expressions from the child node.
type Project struct {
	UnaryNode
	id          sql.NodeID
	Assignments Assignments
}

var _ sql.Node = (*Project)(nil)
var _ sql.Expressioner = (*Project)(nil)

// NewProject creates a new projection.
func NewProject(id sql.NodeID, assignments Assignments, child sql.Node) *Project {
	return &Project{
		UnaryNode:   UnaryNode{Child: child},
		id:          id,
		Assignments: append(Assignments(nil), assignments...),
	}
}

// ID implements the Node interface.
func (p *Project) ID() sql.NodeID { return p.id }

// Outputs implements the Node interface.
func (p *Project) Outputs() []sql.Symbol {
	return p.Assignments.Symbols()
}

// IsIdentity returns whether the projection only passes symbols through.
func (p *Project) IsIdentity() bool {
	return p.Assignments.IsIdentity()
}

// WithChildren implements the Node interface.
func (p *Project) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 1 {
		return nil, sql.ErrInvalidChildrenNumber.New(p, len(children), 1)
	}
	return NewProject(p.id, p.Assignments, children[0]), nil
}

// Expressions implements the Expressioner interface.
func (p *Project) Expressions() []sql.Expression {
	return p.Assignments.Expressions()
}

func (p *Project) String() string {
	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("Project(%s)", p.Assignments)
	_ = pr.WriteChildren(p.Child.String())
	return pr.String()
}
