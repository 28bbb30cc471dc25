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

package sql

import "gopkg.in/src-d/go-errors.v1"

var (
	// ErrInvalidChildrenNumber is returned when the WithChildren method of a
	// node or expression is called with an invalid number of arguments.
	ErrInvalidChildrenNumber = errors.NewKind("%T: invalid children number, got %d, expected %d")

	// ErrInvalidJoinDistributionType is returned when a join distribution
	// type is not one of automatic, replicated or partitioned.
	ErrInvalidJoinDistributionType = errors.NewKind("value %q is not valid for join-distribution-type, expected one of %v")

	// ErrUnknownSessionVariable is returned when a session variable does not
	// exist.
	ErrUnknownSessionVariable = errors.NewKind("unknown session variable %q")

	// ErrInvalidSessionVariableValue is returned when a session variable
	// cannot be set to the value given.
	ErrInvalidSessionVariableValue = errors.NewKind("invalid value for session variable %q: %v")

	// ErrInvalidConfig is returned when a features config cannot be loaded.
	ErrInvalidConfig = errors.NewKind("invalid features config: %s")

	// ErrMalformedJoinGraph is returned when a join graph breaks one of its
	// construction invariants. This is an optimizer bug.
	ErrMalformedJoinGraph = errors.NewKind("malformed join graph: %s")

	// ErrMalformedJoinOrder is returned when a join order cannot be used to
	// rebuild a join tree. This is an optimizer bug.
	ErrMalformedJoinOrder = errors.NewKind("malformed join order %v for join graph of %d nodes")
)
