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

const (
	// rowSizeEstimateBytes is the size assumed for a row when the size of a
	// node output is unknown but its row count is not.
	rowSizeEstimateBytes = 50
	// smallSizeFraction is the share of the per node memory budget under
	// which a join side is broadcast.
	smallSizeFraction = 0.1
)

// determineJoinDistribution chooses between broadcasting the build side
// and hash partitioning both sides for every join and semi join.
func determineJoinDistribution(ctx *sql.Context, a *Analyzer, n sql.Node) (sql.Node, error) {
	span, ctx := ctx.Span("determine_join_distribution")
	defer span.Finish()

	s := &distributionSelector{
		ctx:        ctx,
		a:          a,
		session:    ctx.Session,
		properties: a.Properties,
		costs:      a.CostCalculator,
	}
	return s.rewrite(n)
}

// distributionSelector holds the state of one distribution pass. Once a
// Delete is visited every later semi join is replicated, so that the table
// being deleted from stays collocated with the Delete.
type distributionSelector struct {
	ctx           *sql.Context
	a             *Analyzer
	session       sql.Session
	properties    sql.GlobalProperties
	costs         sql.CostCalculator
	isDeleteQuery bool
}

func (s *distributionSelector) rewrite(n sql.Node) (sql.Node, error) {
	switch n := n.(type) {
	case *plan.Delete:
		s.isDeleteQuery = true
		return s.rewriteChildren(n)
	case *plan.Join:
		node, err := s.rewriteChildren(n)
		if err != nil {
			return nil, err
		}
		j := node.(*plan.Join)
		d := s.joinDistribution(j)
		s.a.Log("join %s: %s distribution", j.ID(), d)
		return j.WithDistribution(d), nil
	case *plan.SemiJoin:
		node, err := s.rewriteChildren(n)
		if err != nil {
			return nil, err
		}
		sj := node.(*plan.SemiJoin)
		d := s.semiJoinDistribution(sj)
		s.a.Log("semi join %s: %s distribution", sj.ID(), d)
		return sj.WithDistribution(d), nil
	default:
		return s.rewriteChildren(n)
	}
}

func (s *distributionSelector) rewriteChildren(n sql.Node) (sql.Node, error) {
	children := n.Children()
	if len(children) == 0 {
		return n, nil
	}

	newChildren := make([]sql.Node, len(children))
	changed := false
	for i, child := range children {
		nc, err := s.rewrite(child)
		if err != nil {
			return nil, err
		}
		if nc != child {
			changed = true
		}
		newChildren[i] = nc
	}

	if !changed {
		return n, nil
	}
	return n.WithChildren(newChildren...)
}

func (s *distributionSelector) joinDistribution(j *plan.Join) plan.DistributionType {
	// Unmatched build rows of outer joins can only be found on partitioned
	// data.
	if j.Type == plan.JoinTypeRight || j.Type == plan.JoinTypeFull {
		return plan.DistributionPartitioned
	}
	if plan.IsScalar(j.Right()) || j.IsCrossJoin() {
		return plan.DistributionReplicated
	}

	if d, ok := s.sessionDistribution(); ok {
		return d
	}

	if s.isSmall(j.Right()) {
		return plan.DistributionReplicated
	}
	return plan.DistributionPartitioned
}

func (s *distributionSelector) semiJoinDistribution(sj *plan.SemiJoin) plan.DistributionType {
	if s.isDeleteQuery {
		return plan.DistributionReplicated
	}

	if d, ok := s.sessionDistribution(); ok {
		return d
	}

	if s.isSmall(sj.FilteringSource()) {
		return plan.DistributionReplicated
	}
	return plan.DistributionPartitioned
}

func (s *distributionSelector) sessionDistribution() (plan.DistributionType, bool) {
	switch s.session.JoinDistributionType() {
	case sql.JoinDistributionPartitioned:
		return plan.DistributionPartitioned, true
	case sql.JoinDistributionReplicated:
		return plan.DistributionReplicated, true
	default:
		return plan.DistributionUndecided, false
	}
}

// isSmall returns whether the output of the node fits in a tenth of the
// memory of a worker. The row count is only used when the size is unknown.
func (s *distributionSelector) isSmall(n sql.Node) bool {
	limit := smallSizeFraction * float64(s.properties.MaxMemoryPerNodeBytes())

	size := s.costs.EstimateOutputSizeBytes(s.ctx, n)
	if !size.IsUnknown() {
		return size.Value() < limit
	}

	rows := s.costs.EstimateOutputRowCount(s.ctx, n)
	return !rows.IsUnknown() && rows.Value()*rowSizeEstimateBytes < limit
}
