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

import (
	"fmt"

	"github.com/dolthub/go-join-planner/sql"
)

// Comparer implements a comparison expression.
type Comparer interface {
	sql.Expression
	Left() sql.Expression
	Right() sql.Expression
	Operator() string
}

// comparison is the base of all comparison expressions.
type comparison struct {
	BinaryExpression
	op string
}

func newComparison(op string, left, right sql.Expression) comparison {
	return comparison{BinaryExpression{left, right}, op}
}

// Left implements the Comparer interface.
func (c *comparison) Left() sql.Expression { return c.BinaryExpression.Left }

// Right implements the Comparer interface.
func (c *comparison) Right() sql.Expression { return c.BinaryExpression.Right }

// Operator implements the Comparer interface.
func (c *comparison) Operator() string { return c.op }

func (c *comparison) String() string {
	return fmt.Sprintf("(%s %s %s)", c.BinaryExpression.Left, c.op, c.BinaryExpression.Right)
}

// Equals is a comparison that checks an expression is equal to another.
type Equals struct {
	comparison
}

// NewEquals returns a new Equals expression.
func NewEquals(left sql.Expression, right sql.Expression) *Equals {
	return &Equals{newComparison("=", left, right)}
}

// WithChildren implements the Expression interface.
func (e *Equals) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(e, len(children), 2)
	}
	return NewEquals(children[0], children[1]), nil
}

// GreaterThan is a comparison that checks an expression is greater than another.
type GreaterThan struct {
	comparison
}

// NewGreaterThan creates a new GreaterThan expression.
func NewGreaterThan(left sql.Expression, right sql.Expression) *GreaterThan {
	return &GreaterThan{newComparison(">", left, right)}
}

// WithChildren implements the Expression interface.
func (gt *GreaterThan) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(gt, len(children), 2)
	}
	return NewGreaterThan(children[0], children[1]), nil
}

// LessThan is a comparison that checks an expression is less than another.
type LessThan struct {
	comparison
}

// NewLessThan creates a new LessThan expression.
func NewLessThan(left sql.Expression, right sql.Expression) *LessThan {
	return &LessThan{newComparison("<", left, right)}
}

// WithChildren implements the Expression interface.
func (lt *LessThan) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(lt, len(children), 2)
	}
	return NewLessThan(children[0], children[1]), nil
}

// NotEquals is a comparison that checks an expression is not equal to another.
type NotEquals struct {
	comparison
}

// NewNotEquals creates a new NotEquals expression.
func NewNotEquals(left sql.Expression, right sql.Expression) *NotEquals {
	return &NotEquals{newComparison("<>", left, right)}
}

// WithChildren implements the Expression interface.
func (ne *NotEquals) WithChildren(children ...sql.Expression) (sql.Expression, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(ne, len(children), 2)
	}
	return NewNotEquals(children[0], children[1]), nil
}
