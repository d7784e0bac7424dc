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

// Package fusiontest provides fluent helpers for building small fixture
// graphs in table-driven tests, grounded on graph/graphtest's
// helper-package pattern: a thin wrapper that lets individual test cases
// stay a handful of lines instead of hand-rolling arena plumbing.
package fusiontest

import (
	"github.com/gomlx/fusegraph/ir"
	"github.com/gomlx/gopjrt/dtypes"
)

// Builder constructs a fixture ir.Graph for tests. All values it creates
// share the scalar type and device the Builder was created with.
type Builder struct {
	G      *ir.Graph
	device int
	dtype  dtypes.DType
	stage  ir.Stage
}

// Float32OnDevice creates a Builder producing float32 tensors on the given
// accelerator device (use ir.HostDevice for host tensors).
func Float32OnDevice(name string, device int) *Builder {
	return &Builder{G: ir.NewGraph(name), device: device, dtype: dtypes.Float32}
}

// WithStage sets the Stage subsequently created nodes are tagged with.
func (b *Builder) WithStage(stage ir.Stage) *Builder {
	b.stage = stage
	return b
}

func (b *Builder) typ(sizes ...int) ir.TensorType {
	return ir.NewTensorType(b.dtype, b.device, sizes...)
}

// Param adds a graph input of the given shape.
func (b *Builder) Param(sizes ...int) ir.Value {
	return b.G.AddParameter(b.typ(sizes...))
}

func (b *Builder) create(kind ir.NodeKind, outType ir.TensorType, inputs ...ir.Value) ir.Value {
	restore := b.G.SetStageTemporary(b.stage)
	defer restore()
	n := b.G.Create(kind, 1)
	for _, in := range inputs {
		n.AddInput(in)
	}
	n.Output(0).SetType(outType)
	return n.Output(0)
}

func (b *Builder) Add(x, y ir.Value) ir.Value  { return b.create(ir.KindAdd, x.Type(), x, y) }
func (b *Builder) Sub(x, y ir.Value) ir.Value  { return b.create(ir.KindSub, x.Type(), x, y) }
func (b *Builder) Mul(x, y ir.Value) ir.Value  { return b.create(ir.KindMul, x.Type(), x, y) }
func (b *Builder) Div(x, y ir.Value) ir.Value  { return b.create(ir.KindDiv, x.Type(), x, y) }
func (b *Builder) Neg(x ir.Value) ir.Value     { return b.create(ir.KindNeg, x.Type(), x) }
func (b *Builder) Abs(x ir.Value) ir.Value     { return b.create(ir.KindAbs, x.Type(), x) }
func (b *Builder) Sigmoid(x ir.Value) ir.Value { return b.create(ir.KindSigmoid, x.Type(), x) }
func (b *Builder) Tanh(x ir.Value) ir.Value    { return b.create(ir.KindTanh, x.Type(), x) }
func (b *Builder) Sqrt(x ir.Value) ir.Value    { return b.create(ir.KindSqrt, x.Type(), x) }

// MinReduce/MaxReduce create a unary (reduction-form) min/max node, the
// shape isSimpleMap excludes from fusion (§4.1, scenario S4).
func (b *Builder) MinReduce(x ir.Value) ir.Value {
	return b.create(ir.KindMin, b.typ(), x)
}
func (b *Builder) MaxReduce(x ir.Value) ir.Value {
	return b.create(ir.KindMax, b.typ(), x)
}

// Ones/Zeros create a nullary simple-map node of the given shape — a
// zero-input constant generator (OQ2), exercising mergeNodeIntoGroup's
// n.Inputs()-is-empty path when absorbed into a group.
func (b *Builder) Ones(sizes ...int) ir.Value  { return b.create(ir.KindOnes, b.typ(sizes...)) }
func (b *Builder) Zeros(sizes ...int) ir.Value { return b.create(ir.KindZeros, b.typ(sizes...)) }

// Min/Max create the binary simple-map form.
func (b *Builder) Min(x, y ir.Value) ir.Value { return b.create(ir.KindMin, x.Type(), x, y) }
func (b *Builder) Max(x, y ir.Value) ir.Value { return b.create(ir.KindMax, x.Type(), x, y) }

// Concat concatenates xs along dim, producing a fusable-exit-eligible node
// when onAccelerator and all operand sizes match (§4.1).
func (b *Builder) Concat(dim int, xs ...ir.Value) ir.Value {
	sizes := append([]int(nil), xs[0].Type().Sizes...)
	total := 0
	for _, x := range xs {
		total += x.Type().Sizes[dim]
	}
	sizes[dim] = total
	restore := b.G.SetStageTemporary(b.stage)
	defer restore()
	n := b.G.Create(ir.KindConcat, 1)
	for _, x := range xs {
		n.AddInput(x)
	}
	n.SetAttr("dim", dim)
	n.Output(0).SetType(b.typ(sizes...))
	return n.Output(0)
}

// Split partitions x into k equal-shape tensors along dim.
func (b *Builder) Split(x ir.Value, dim, k int) []ir.Value {
	xt := x.Type()
	if xt.Sizes[dim]%k != 0 {
		panic("fusiontest: Split: dim not evenly divisible")
	}
	sizes := append([]int(nil), xt.Sizes...)
	sizes[dim] /= k
	restore := b.G.SetStageTemporary(b.stage)
	defer restore()
	n := b.G.Create(ir.KindSplit, k)
	n.AddInput(x)
	n.SetAttr("dim", dim)
	n.SetAttr("count", k)
	outs := make([]ir.Value, k)
	for i := 0; i < k; i++ {
		n.Output(i).SetType(ir.NewTensorType(xt.ScalarType, xt.Device, sizes...))
		outs[i] = n.Output(i)
	}
	return outs
}

// Return registers vs as the graph's outputs.
func (b *Builder) Return(vs ...ir.Value) {
	for _, v := range vs {
		b.G.RegisterOutput(v)
	}
}
