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

package analyzer

import (
	"github.com/dolthub/go-join-planner/sql"
	"github.com/dolthub/go-join-planner/sql/plan"
)

// transformUncorrelatedScalarToJoin replaces applies of uncorrelated scalar
// subqueries with a cross join against the subquery.
func transformUncorrelatedScalarToJoin(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("transform_uncorrelated_scalar_to_join")
	defer span.Finish()

	return plan.TransformUp(n, func(n sql.Node) (sql.Node, error) {
		apply, ok := n.(*plan.Apply)
		if !ok || apply.IsCorrelated() {
			return n, nil
		}

		subquery, ok := apply.Subquery().(*plan.EnforceSingleRow)
		if !ok {
			return n, nil
		}

		a.Log("replacing uncorrelated scalar apply %s with a join", apply.ID())
		return plan.NewCrossJoin(ctx.NextNodeID(), apply.Input(), subquery), nil
	})
}
