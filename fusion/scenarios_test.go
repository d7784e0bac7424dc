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

	"github.com/google/go-cmp/cmp"

	"github.com/gomlx/fusegraph/fusion"
	"github.com/gomlx/fusegraph/fusiontest"
	"github.com/gomlx/fusegraph/ir"
	"github.com/stretchr/testify/require"
)

func countKind(g *ir.Graph, kind ir.NodeKind) int {
	n := 0
	for _, node := range g.Nodes() {
		if node.Kind() == kind {
			n++
		}
	}
	return n
}

func nonParamNodes(g *ir.Graph) []ir.Node {
	var out []ir.Node
	for _, n := range g.Nodes() {
		if n.Kind() != ir.KindParameter {
			out = append(out, n)
		}
	}
	return out
}

// S1 — linear chain: a=add(x,y); b=mul(a,z); return b. Expected: a single
// fusion group absorbing both ops.
func TestS1LinearChain(t *testing.T) {
	b := fusiontest.Float32OnDevice("s1", 0)
	x, y, z := b.Param(4), b.Param(4), b.Param(4)
	a := b.Add(x, y)
	out := b.Mul(a, z)
	b.Return(out)
	wantType := out.Type()

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))

	nodes := nonParamNodes(b.G)
	require.Len(t, nodes, 1)
	group := nodes[0]
	require.Equal(t, ir.KindFusionGroup, group.Kind())
	require.Equal(t, 3, group.NumInputs())
	require.Equal(t, 1, group.NumOutputs())

	// The group's single output must carry exactly b's original type;
	// a plain require.Equal on a struct of slices gives an unreadable diff
	// on failure, so compare with cmp instead.
	if diff := cmp.Diff(wantType, group.Output(0).Type()); diff != "" {
		t.Fatalf("group output type mismatch (-want +got):\n%s", diff)
	}

	sub := group.Subgraph()
	require.Len(t, sub.Nodes(), 3+2) // 3 parameters + add + mul
	require.Equal(t, 1, countKind(sub, ir.KindAdd))
	require.Equal(t, 1, countKind(sub, ir.KindMul))
}

// S2 — multi-use that occurs-after: %1=add(x,y); %2=mul(%1,z);
// %3=sub(%1,w); return (%2,%3). All users of %1 are inside the eventual
// group, so %1 is never exposed as an extra output.
func TestS2MultiUseInsideGroup(t *testing.T) {
	b := fusiontest.Float32OnDevice("s2", 0)
	x, y, z, w := b.Param(4), b.Param(4), b.Param(4), b.Param(4)
	v1 := b.Add(x, y)
	v2 := b.Mul(v1, z)
	v3 := b.Sub(v1, w)
	b.Return(v2, v3)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))

	nodes := nonParamNodes(b.G)
	require.Len(t, nodes, 1, "both consumers of %%1 should end up in the same group")
	group := nodes[0]
	require.Equal(t, 2, group.NumOutputs())
	require.Equal(t, 1, countKind(group.Subgraph(), ir.KindAdd))
}

// S3 — blocking earlier use: %1=add(x,y); %2=neg(%1); %3=mul(%1,z);
// return (%2,%3), with %2 scheduled before %3. The first sweep can only
// fuse {%2,%1}; a second sweep then merges the %3 group with it.
func TestS3BlockingEarlierUseResolvesAfterSecondSweep(t *testing.T) {
	b := fusiontest.Float32OnDevice("s3", 0)
	x, y, z := b.Param(4), b.Param(4), b.Param(4)
	v1 := b.Add(x, y)
	v2 := b.Neg(v1)
	v3 := b.Mul(v1, z)
	b.Return(v2, v3)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))

	nodes := nonParamNodes(b.G)
	require.Len(t, nodes, 1, "the two-sweep fixpoint should merge both groups into one")
	require.Equal(t, ir.KindFusionGroup, nodes[0].Kind())
}

// S4 — reduction excluded: m=min(x) (unary). No fusion.
func TestS4ReductionExcluded(t *testing.T) {
	b := fusiontest.Float32OnDevice("s4", 0)
	x := b.Param(4)
	m := b.MinReduce(x)
	b.Return(m)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))
	require.Equal(t, 0, countKind(b.G, ir.KindFusionGroup))
}

// S5 — concat exit: a=add(x,y); b=sub(x,y); c=concat(a,b), a and b same
// size. concat seeds the group; add and sub fuse into it.
func TestS5ConcatExit(t *testing.T) {
	b := fusiontest.Float32OnDevice("s5", 0)
	x, y := b.Param(4), b.Param(4)
	a := b.Add(x, y)
	s := b.Sub(x, y)
	c := b.Concat(0, a, s)
	b.Return(c)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))

	nodes := nonParamNodes(b.G)
	require.Len(t, nodes, 1)
	group := nodes[0]
	sub := group.Subgraph()
	require.Equal(t, 1, countKind(sub, ir.KindConcat))
	require.Equal(t, 1, countKind(sub, ir.KindAdd))
	require.Equal(t, 1, countKind(sub, ir.KindSub))
}

// S5b — mismatched concat operand sizes: concat never becomes an exit node,
// so no group forms at all.
func TestS5MismatchedSizesNoGroup(t *testing.T) {
	b := fusiontest.Float32OnDevice("s5b", 0)
	x, y := b.Param(4), b.Param(6)
	c := b.Concat(0, x, y)
	b.Return(c)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))
	require.Equal(t, 0, countKind(b.G, ir.KindFusionGroup))
}

// S6 — chunk distribution: t=add(x,y); a,b=split(t,dim=0); out=mul(a,b).
// tryToMoveChunk rewrites the split past add, enabling further fusion.
func TestS6ChunkDistribution(t *testing.T) {
	b := fusiontest.Float32OnDevice("s6", 0)
	x, y := b.Param(4), b.Param(4)
	t1 := b.Add(x, y)
	parts := b.Split(t1, 0, 2)
	out := b.Mul(parts[0], parts[1])
	b.Return(out)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))
	require.GreaterOrEqual(t, countKind(b.G, ir.KindFusionGroup), 1, "mul should have been absorbed into a group")
	require.Equal(t, 2, countKind(b.G, ir.KindSplit), "the single original split is replaced by one split per operand")
}

// S7 — nullary simple-map absorption: c=ones(4); out=mul(c,x). ones has no
// inputs, exercising mergeNodeIntoGroup's n.Inputs()-is-empty path (OQ2):
// the group ends up with one fewer outer input than subgraph member.
func TestS7NullaryNodeAbsorbedIntoGroup(t *testing.T) {
	b := fusiontest.Float32OnDevice("s7", 0)
	x := b.Param(4)
	c := b.Ones(4)
	out := b.Mul(c, x)
	b.Return(out)

	fusion.FuseGraph(b.G)
	require.NoError(t, fusion.Verify(b.G))

	nodes := nonParamNodes(b.G)
	require.Len(t, nodes, 1)
	group := nodes[0]
	require.Equal(t, ir.KindFusionGroup, group.Kind())
	require.Equal(t, 1, group.NumInputs(), "only x crosses the group boundary; ones needs no outer input")

	sub := group.Subgraph()
	require.Equal(t, 1, countKind(sub, ir.KindOnes))
	for _, n := range sub.Nodes() {
		if n.Kind() == ir.KindOnes {
			require.Equal(t, 0, n.NumInputs(), "ones stays a zero-input member of the subgraph")
		}
	}
}
