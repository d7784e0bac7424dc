// Copyright 2026 fusegraph Authors
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

package fusion

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/fusegraph/ir"
)

// Oracle assigns and maintains a monotone topological position per node, so
// "occurs-after" queries used by the fusability predicate are O(1). It lives
// in a side-table keyed by node handle; it is not part of the ir package.
type Oracle struct {
	index map[ir.NodeID]int
}

// NewOracle initializes the oracle from g's current topological order:
// graph inputs (KindParameter nodes) share index 0; every other node gets
// 1, 2, … in order. g has no explicit return node in this IR, so there is no
// separate "last" slot to assign; the last regular node already holds the
// maximum index.
func NewOracle(g *ir.Graph) *Oracle {
	o := &Oracle{index: make(map[ir.NodeID]int)}
	pos := 1
	for _, n := range g.Nodes() {
		if n.Kind() == ir.KindParameter {
			o.index[n.ID()] = 0
			continue
		}
		o.index[n.ID()] = pos
		pos++
	}
	return o
}

// Index returns n's current position, panicking if n was never indexed.
func (o *Oracle) Index(n ir.Node) int {
	idx, ok := o.index[n.ID()]
	if !ok {
		exceptions.Panicf("fusion: node #%d lacks a topological index", n.ID())
	}
	return idx
}

// OccursAfter reports whether a occurs strictly after b in the current
// linearisation.
func (o *Oracle) OccursAfter(a, b ir.Node) bool {
	return o.Index(a) > o.Index(b)
}

// InsertAfter assigns n the same index as ref. It does not imply n is
// spliced after ref in the order — that is a separate
// ir.Graph.InsertBefore/After call the caller makes alongside this one.
func (o *Oracle) InsertAfter(n, ref ir.Node) {
	o.index[n.ID()] = o.Index(ref)
}

// Forget drops n's index, for nodes the pass destroys.
func (o *Oracle) Forget(n ir.Node) {
	delete(o.index, n.ID())
}
