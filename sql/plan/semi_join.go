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

// SemiJoin marks every row of the source with whether its join symbol
// matches some row of the filtering source. The mark is written to the
// output symbol.
type SemiJoin struct {
	BinaryNode
	id                        sql.NodeID
	SourceJoinSymbol          sql.Symbol
	FilteringSourceJoinSymbol sql.Symbol
	Output                    sql.Symbol
	SourceHashSymbol          sql.Optional[sql.Symbol]
	FilteringSourceHashSymbol sql.Optional[sql.Symbol]
	Distribution              DistributionType
}

var _ sql.Node = (*SemiJoin)(nil)

// NewSemiJoin creates a new semi join with an undecided distribution.
func NewSemiJoin(
	id sql.NodeID,
	source, filteringSource sql.Node,
	sourceJoinSymbol, filteringSourceJoinSymbol, output sql.Symbol,
) *SemiJoin {
	return &SemiJoin{
		BinaryNode:                BinaryNode{left: source, right: filteringSource},
		id:                        id,
		SourceJoinSymbol:          sourceJoinSymbol,
		FilteringSourceJoinSymbol: filteringSourceJoinSymbol,
		Output:                    output,
	}
}

// ID implements the Node interface.
func (s *SemiJoin) ID() sql.NodeID { return s.id }

// Source returns the node whose rows are marked.
func (s *SemiJoin) Source() sql.Node { return s.left }

// FilteringSource returns the node rows are matched against.
func (s *SemiJoin) FilteringSource() sql.Node { return s.right }

// Outputs implements the Node interface.
func (s *SemiJoin) Outputs() []sql.Symbol {
	source := s.left.Outputs()
	out := make([]sql.Symbol, 0, len(source)+1)
	out = append(out, source...)
	return append(out, s.Output)
}

// WithChildren implements the Node interface.
func (s *SemiJoin) WithChildren(children ...sql.Node) (sql.Node, error) {
	if len(children) != 2 {
		return nil, sql.ErrInvalidChildrenNumber.New(s, len(children), 2)
	}
	ns := *s
	ns.BinaryNode = BinaryNode{left: children[0], right: children[1]}
	return &ns, nil
}

// WithDistribution returns a copy of the semi join with the given
// distribution.
func (s *SemiJoin) WithDistribution(d DistributionType) *SemiJoin {
	ns := *s
	ns.Distribution = d
	return &ns
}

// WithHashSymbols returns a copy of the semi join with the given
// precomputed hash symbols.
func (s *SemiJoin) WithHashSymbols(source, filteringSource sql.Optional[sql.Symbol]) *SemiJoin {
	ns := *s
	ns.SourceHashSymbol = source
	ns.FilteringSourceHashSymbol = filteringSource
	return &ns
}

func (s *SemiJoin) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "SemiJoin[%s = %s] output: %s", s.SourceJoinSymbol, s.FilteringSourceJoinSymbol, s.Output)
	if h, ok := s.SourceHashSymbol.Get(); ok {
		fmt.Fprintf(&sb, " sourceHash: %s", h)
	}
	if h, ok := s.FilteringSourceHashSymbol.Get(); ok {
		fmt.Fprintf(&sb, " filteringSourceHash: %s", h)
	}
	if s.Distribution != DistributionUndecided {
		fmt.Fprintf(&sb, " distribution: %s", s.Distribution)
	}

	pr := sql.NewTreePrinter()
	_ = pr.WriteNode("%s", sb.String())
	_ = pr.WriteChildren(s.left.String(), s.right.String())
	return pr.String()
}
