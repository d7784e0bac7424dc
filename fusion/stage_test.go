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

package fusion_test

import (
	"testing"

	"github.com/gomlx/fusegraph/fusion"
	"github.com/gomlx/fusegraph/fusiontest"
	"github.com/gomlx/fusegraph/ir"
	"github.com/stretchr/testify/require"
)

// §8 invariant 6: fusion never crosses a stage boundary, even when the
// producer would otherwise be eligible.
func TestFusionNeverCrossesStageBoundary(t *testing.T) {
	b := fusiontest.Float32OnDevice("stagecross", 0)
	x, y := b.Param(4), b.Param(4)

	b.WithStage(ir.StageForward)
	fwd := b.Add(x, y)

	b.WithStage(ir.StageBackward)
	bwd := b.Neg(fwd)
	b.Return(bwd)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))
	require.Equal(t, 0, countKind(b.G, ir.KindFusionGroup), "producer and consumer sit in different stages")
}

// Nodes that TryToMoveChunk creates while rewriting a chunk pattern must
// inherit the rewrite's own stage, not the graph's default StageForward —
// otherwise the very next scan sees a stage mismatch and the fusion the
// rewrite exists to enable (§4.5) never happens.
func TestChunkDistributionPreservesStage(t *testing.T) {
	b := fusiontest.Float32OnDevice("stagechunk", 0)
	b.WithStage(ir.StageBackward)
	x, y := b.Param(4), b.Param(4)
	t1 := b.Add(x, y)
	parts := b.Split(t1, 0, 2)
	out := b.Mul(parts[0], parts[1])
	b.Return(out)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))
	require.GreaterOrEqual(t, countKind(b.G, ir.KindFusionGroup), 1, "mul should have been absorbed into a group despite the backward stage")
	for _, n := range b.G.Nodes() {
		if n.Kind() == ir.KindParameter {
			continue
		}
		require.Equal(t, ir.StageBackward, n.Stage(), "node #%d (%v) kept the graph's default stage instead of the rewrite's", n.ID(), n.Kind())
	}
}
