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

	"github.com/mitchellh/hashstructure"

	"github.com/dolthub/go-join-planner/sql"
)

type nodeShape struct {
	Kind       string
	Attributes []string
	Outputs    []string
	Children   []nodeShape
}

// Fingerprint returns a structural hash of the plan. Node ids are not part
// of it, so two plans that only differ in ids have the same fingerprint.
func Fingerprint(node sql.Node) (uint64, error) {
	return hashstructure.Hash(shapeOf(node), nil)
}

// MustFingerprint is like Fingerprint but panics on error.
func MustFingerprint(node sql.Node) uint64 {
	h, err := Fingerprint(node)
	if err != nil {
		panic(err)
	}
	return h
}

func shapeOf(node sql.Node) nodeShape {
	shape := nodeShape{
		Kind:       fmt.Sprintf("%T", node),
		Attributes: attributesOf(node),
	}
	for _, s := range node.Outputs() {
		shape.Outputs = append(shape.Outputs, string(s))
	}
	for _, c := range node.Children() {
		shape.Children = append(shape.Children, shapeOf(c))
	}
	return shape
}

func attributesOf(node sql.Node) []string {
	switch n := node.(type) {
	case *Join:
		attrs := []string{n.Type.String(), n.Distribution.String()}
		for _, c := range n.Criteria {
			attrs = append(attrs, c.String())
		}
		return append(attrs,
			"filter:"+n.Filter.String(),
			"leftHash:"+n.LeftHashSymbol.String(),
			"rightHash:"+n.RightHashSymbol.String(),
		)
	case *SemiJoin:
		return []string{
			n.Distribution.String(),
			string(n.SourceJoinSymbol),
			string(n.FilteringSourceJoinSymbol),
			string(n.Output),
			"sourceHash:" + n.SourceHashSymbol.String(),
			"filteringSourceHash:" + n.FilteringSourceHashSymbol.String(),
		}
	case *Filter:
		return []string{n.Predicate.String()}
	case *Project:
		return []string{n.Assignments.String()}
	case *Delete:
		return []string{string(n.Target), string(n.RowID)}
	case *TableScan:
		return []string{n.Table}
	case *Values:
		return []string{n.String()}
	case *GroupBy:
		return []string{symbolList(n.GroupingKeys), n.Aggregates.String()}
	case *Apply:
		return []string{symbolList(n.Correlation)}
	default:
		return []string{n.String()}
	}
}
