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

import (
	"math"
	"strconv"
)

// Estimate is a statistics estimate. An unknown estimate is distinct from a
// known estimate of zero.
type Estimate struct {
	value float64
	known bool
}

// UnknownEstimate returns an estimate with no value.
func UnknownEstimate() Estimate {
	return Estimate{}
}

// NewEstimate returns a known estimate. Negative and NaN values are unknown.
func NewEstimate(v float64) Estimate {
	if math.IsNaN(v) || v < 0 {
		return UnknownEstimate()
	}
	return Estimate{value: v, known: true}
}

// IsUnknown returns whether the estimate has no value.
func (e Estimate) IsUnknown() bool { return !e.known }

// Value returns the estimated value. It is zero for unknown estimates, so
// callers must check IsUnknown first.
func (e Estimate) Value() float64 { return e.value }

// Map applies f to a known estimate. Unknown estimates stay unknown.
func (e Estimate) Map(f func(float64) float64) Estimate {
	if !e.known {
		return e
	}
	return NewEstimate(f(e.value))
}

func (e Estimate) String() string {
	if !e.known {
		return "?"
	}
	return strconv.FormatFloat(e.value, 'f', -1, 64)
}

// CostCalculator estimates the output of plan nodes. Implementations must be
// safe to call repeatedly for the same node and must not modify the plan.
// They may block, for example while fetching table statistics.
type CostCalculator interface {
	// EstimateOutputSizeBytes returns the estimated size of the node output.
	EstimateOutputSizeBytes(ctx *Context, n Node) Estimate
	// EstimateOutputRowCount returns the estimated number of rows the node
	// produces.
	EstimateOutputRowCount(ctx *Context, n Node) Estimate
}

// GlobalProperties are cluster wide settings consumed by the optimizer.
type GlobalProperties interface {
	// MaxMemoryPerNodeBytes is the memory budget of a single worker.
	MaxMemoryPerNodeBytes() int64
}

// UnknownCostCalculator is a CostCalculator that knows nothing.
type UnknownCostCalculator struct{}

var _ CostCalculator = UnknownCostCalculator{}

// EstimateOutputSizeBytes implements the CostCalculator interface.
func (UnknownCostCalculator) EstimateOutputSizeBytes(*Context, Node) Estimate {
	return UnknownEstimate()
}

// EstimateOutputRowCount implements the CostCalculator interface.
func (UnknownCostCalculator) EstimateOutputRowCount(*Context, Node) Estimate {
	return UnknownEstimate()
}
