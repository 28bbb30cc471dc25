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

// OnceBeforeDefault contains the rules to be applied just once before the
// DefaultRules.
var OnceBeforeDefault = []Rule{
	{"transform_uncorrelated_scalar_to_join", transformUncorrelatedScalarToJoin},
}

// DefaultRules to apply when analyzing nodes.
var DefaultRules = []Rule{
	{"eliminate_cross_joins", eliminateCrossJoins},
}

// OnceAfterDefault contains the rules to be applied just once after the
// DefaultRules. Join distributions are chosen once the join tree has its
// final shape.
var OnceAfterDefault = []Rule{
	{"determine_join_distribution", determineJoinDistribution},
}

// DefaultValidationRules to apply while analyzing nodes.
var DefaultValidationRules = []Rule{
	{"validate_symbol_dependencies", validateSymbolDependencies},
}
