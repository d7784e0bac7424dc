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
	"testing"

	"github.com/gomlx/fusegraph/ir"
	"github.com/stretchr/testify/require"
)

// §7: merging a node that is itself a fusion group through the single-node
// path is an implementation bug — mergeFusionGroups exists for that case.
func TestMergeNodeIntoGroupPanicsOnFusionGroupInput(t *testing.T) {
	g := ir.NewGraph("t")
	group := g.CreateFusionGroup()
	other := g.CreateFusionGroup()

	require.Panics(t, func() { mergeNodeIntoGroup(group, other) })
}

// §7: a group whose outer input count has drifted from its subgraph's
// parameter count is an implementation bug — every AddInput on a group is
// supposed to be paired with a subgraph AddParameter.
func TestMergeNodeIntoGroupPanicsOnInputCountDesync(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(0, 4))
	group := g.CreateFusionGroup()
	group.AddInput(x) // no matching sub.AddParameter: desync.

	n := g.Create(ir.KindNeg, 1)
	n.AddInput(x)
	n.Output(0).SetType(f32(0, 4))

	require.Panics(t, func() { mergeNodeIntoGroup(group, n) })
}

// §7: Oracle.Index on a node it never assigned a position to is an
// implementation bug — every live node is indexed by NewOracle or kept
// current by InsertAfter.
func TestOracleIndexPanicsOnUnindexedNode(t *testing.T) {
	g := ir.NewGraph("t")
	o := NewOracle(g)
	n := g.Create(ir.KindNeg, 1)

	require.Panics(t, func() { o.Index(n) })
}

// §7: a chunk-rewrite target whose upstream producer has more than one
// output is an implementation bug, not a legal skip — isFusable admits a
// KindFusionGroup regardless of its output count, so a multi-output group
// feeding a split reaches TryToMoveChunk's rewrite with a shape it cannot
// handle.
func TestTryToMoveChunkPanicsOnMultiOutputProducer(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(0, 4))
	y := g.AddParameter(f32(0, 4))

	group := g.CreateFusionGroup()
	group.AddInput(x)
	group.AddInput(y)
	out0 := group.AddOutput(f32(0, 4))
	group.AddOutput(f32(0, 4)) // second output makes the group multi-output.

	splitNode := g.Create(ir.KindSplit, 2)
	splitNode.AddInput(out0)
	splitNode.SetAttr("dim", 0)
	splitNode.SetAttr("count", 2)
	a := splitNode.Output(0)
	a.SetType(f32(0, 2))
	b := splitNode.Output(1)
	b.SetType(f32(0, 2))

	consumer := g.Create(ir.KindAdd, 1)
	consumer.AddInput(a)
	consumer.AddInput(b)
	consumer.Output(0).SetType(f32(0, 2))

	oracle := NewOracle(g)
	require.Panics(t, func() { TryToMoveChunk(consumer, a, oracle) })
}
