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

package ir_test

import (
	"testing"

	"github.com/gomlx/fusegraph/ir"
	"github.com/gomlx/gopjrt/dtypes"
	"github.com/stretchr/testify/require"
)

func f32(sizes ...int) ir.TensorType {
	return ir.NewTensorType(dtypes.Float32, 0, sizes...)
}

func TestAddParameterHasProducer(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(2, 3))
	require.True(t, x.IsValid())
	require.Equal(t, ir.KindParameter, x.Node().Kind())
	require.Len(t, g.Inputs(), 1)
}

func TestCreateAndAddInputTracksUses(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(4))
	n := g.Create(ir.KindNeg, 1)
	n.AddInput(x)
	n.Output(0).SetType(f32(4))

	uses := x.Uses()
	require.Len(t, uses, 1)
	require.Equal(t, n.ID(), uses[0].User)
	require.Equal(t, 0, uses[0].InputIndex)
}

func TestReplaceAllUsesWith(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(4))
	y := g.AddParameter(f32(4))
	n := g.Create(ir.KindNeg, 1)
	n.AddInput(x)
	n.Output(0).SetType(f32(4))

	x.ReplaceAllUsesWith(y)
	require.Empty(t, x.Uses())
	require.Len(t, y.Uses(), 1)
	require.Equal(t, y.ID(), n.Input(0).ID())
}

func TestDestroyRequiresNoRemainingUses(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(4))
	n := g.Create(ir.KindNeg, 1)
	n.AddInput(x)
	n.Output(0).SetType(f32(4))

	m := g.Create(ir.KindAbs, 1)
	m.AddInput(n.Output(0))
	m.Output(0).SetType(f32(4))

	require.Panics(t, func() { g.Destroy(n) })
}

func TestDestroyDropsInputUseEdges(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(4))
	n := g.Create(ir.KindNeg, 1)
	n.AddInput(x)
	n.Output(0).SetType(f32(4))

	require.Len(t, x.Uses(), 1)
	g.Destroy(n)
	require.Empty(t, x.Uses())
}

func TestInsertBeforeAfterOrder(t *testing.T) {
	g := ir.NewGraph("t")
	x := g.AddParameter(f32(4))
	a := g.Create(ir.KindNeg, 1)
	a.AddInput(x)
	b := g.Create(ir.KindAbs, 1)
	b.AddInput(x)

	g.InsertBefore(b, a)
	order := g.Nodes()
	require.Equal(t, b.ID(), order[1].ID())
	require.Equal(t, a.ID(), order[2].ID())

	g.InsertAfter(b, a)
	order = g.Nodes()
	require.Equal(t, a.ID(), order[1].ID())
	require.Equal(t, b.ID(), order[2].ID())
}

func TestTensorTypeContiguity(t *testing.T) {
	t1 := f32(2, 3)
	require.True(t, t1.Contiguous())
	t2 := t1.WithSizesStrides([]int{2, 3}, []int{1, 1})
	require.False(t, t2.Contiguous())
	require.True(t, t2.MadeContiguous().Contiguous())
}
