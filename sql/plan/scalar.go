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

// IsScalar returns whether the node produces at most one row by
// construction.
func IsScalar(node sql.Node) bool {
	switch n := node.(type) {
	case *EnforceSingleRow:
		return true
	case *GroupBy:
		return len(n.GroupingKeys) == 0
	case *Values:
		return len(n.Rows) == 1
	case *Project:
		return IsScalar(n.Child)
	case *Filter:
		return IsScalar(n.Child)
	default:
		return false
	}
}
