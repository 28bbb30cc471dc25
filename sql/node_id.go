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
	"strconv"
	"sync/atomic"
)

// NodeID identifies a plan node for the lifetime of a query compilation.
type NodeID uint64

func (id NodeID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// NodeIDAllocator hands out fresh node ids. Ids are never reused.
type NodeIDAllocator struct {
	next uint64
}

// NewNodeIDAllocator returns an allocator whose first id is 1.
func NewNodeIDAllocator() *NodeIDAllocator {
	return &NodeIDAllocator{}
}

// NewNodeIDAllocatorFrom returns an allocator that continues after the given
// id. Used when a plan was built by someone else's allocator.
func NewNodeIDAllocatorFrom(last NodeID) *NodeIDAllocator {
	return &NodeIDAllocator{next: uint64(last)}
}

// NextID returns a fresh id.
func (a *NodeIDAllocator) NextID() NodeID {
	return NodeID(atomic.AddUint64(&a.next, 1))
}

// Last returns the last id handed out, or zero if none was.
func (a *NodeIDAllocator) Last() NodeID {
	return NodeID(atomic.LoadUint64(&a.next))
}
