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

package ir

import (
	"slices"

	"github.com/gomlx/exceptions"
)

func (g *Graph) newValue(producer NodeID, offset int, typ TensorType, hasType bool) ValueID {
	g.values = append(g.values, &valueRecord{node: producer, offset: offset, typ: typ, hasType: hasType})
	return ValueID(len(g.values) - 1)
}

// AddParameter creates a new graph input of the given type and appends it to
// Inputs(). Internally it is the sole output of a fresh KindParameter node,
// so it has a producer like any other Value.
func (g *Graph) AddParameter(typ TensorType) Value {
	n := g.Create(KindParameter, 0)
	v := n.AddOutput(typ)
	g.inputs = append(g.inputs, v.id)
	return v
}

// Inputs returns the graph's parameter Values, in positional order.
func (g *Graph) Inputs() []Value {
	vs := make([]Value, len(g.inputs))
	for i, id := range g.inputs {
		vs[i] = Value{g, id}
	}
	return vs
}

// Outputs returns the graph's registered output Values, in positional order.
// A top-level Graph's Outputs are the values returned by the computation; a
// subgraph's Outputs are in positional correspondence with its owning node's
// outputs.
func (g *Graph) Outputs() []Value {
	vs := make([]Value, len(g.outputs))
	for i, id := range g.outputs {
		vs[i] = Value{g, id}
	}
	return vs
}

// RegisterOutput appends v to the graph's output list.
func (g *Graph) RegisterOutput(v Value) {
	g.outputs = append(g.outputs, v.id)
}

// EraseInput removes parameter i from the graph's input list, used when
// collapsing a self-referential subgraph parameter during
// mergeNodeIntoGroup's absorption step. It does not destroy the underlying
// KindParameter node or reroute its uses; callers must do that first.
func (g *Graph) EraseInput(i int) {
	g.inputs = append(g.inputs[:i], g.inputs[i+1:]...)
}

// Create allocates a new node of the given kind with nOutputs freshly typed
// (but not yet assigned a TensorType) output Values, appends it to the end
// of the current topological order, and returns it. Inputs are attached
// afterward via Node.AddInput.
func (g *Graph) Create(kind NodeKind, nOutputs int) Node {
	r := &nodeRecord{kind: kind}
	if g.stageOverride != nil {
		r.stage = *g.stageOverride
	}
	g.nodes = append(g.nodes, r)
	id := NodeID(len(g.nodes) - 1)
	for i := 0; i < nOutputs; i++ {
		r.outputs = append(r.outputs, g.newValue(id, i, TensorType{}, false))
	}
	g.order = append(g.order, id)
	return Node{g, id}
}

// CreateFusionGroup creates a KindFusionGroup node with zero inputs, zero
// outputs, and a fresh empty Subgraph; callers grow it via AddInput/AddOutput
// as nodes are absorbed.
func (g *Graph) CreateFusionGroup() Node {
	n := g.Create(KindFusionGroup, 0)
	n.rec().subgraph = NewGraph(g.Name + "/fusion_group")
	return n
}

// SetStageTemporary overrides the Stage assigned to subsequently Created
// nodes until the returned restore function runs. Used while cloning nodes
// into an outer graph mid-rewrite, so temporaries inherit the stage of the
// node they stand in for rather than the graph's default. Mirrors the
// save/restore scope-guard shape of other state overrides in the reference
// pack rather than introducing a context object.
func (g *Graph) SetStageTemporary(stage Stage) (restore func()) {
	prev := g.stageOverride
	s := stage
	g.stageOverride = &s
	return func() { g.stageOverride = prev }
}

// CreateClone creates a new node in g that is a structural copy of src
// (same kind, attributes, and output types), with its inputs computed by
// remap applied to each of src's inputs. The clone has no position in
// g.order yet; callers insert it with InsertBefore/InsertAfter.
func (g *Graph) CreateClone(src Node, remap func(Value) Value) Node {
	clone := g.Create(src.Kind(), 0)
	clone.rec().opName = src.OpName()
	clone.rec().stage = src.Stage()
	if g.stageOverride != nil {
		clone.rec().stage = *g.stageOverride
	}
	clone.CopyAttributes(src)
	for _, in := range src.Inputs() {
		clone.AddInput(remap(in))
	}
	r := clone.rec()
	for _, out := range src.Outputs() {
		offset := len(r.outputs)
		vid := g.newValue(clone.id, offset, out.Type(), out.HasType())
		r.outputs = append(r.outputs, vid)
	}
	// Create appended clone to g.order; remove it since InsertBefore/After
	// will place it precisely.
	g.removeFromOrder(clone.id)
	return clone
}

func (g *Graph) removeFromOrder(id NodeID) {
	idx := slices.Index(g.order, id)
	if idx >= 0 {
		g.order = append(g.order[:idx], g.order[idx+1:]...)
	}
}

// InsertBefore splices node n into the topological order immediately before
// ref.
func (g *Graph) InsertBefore(n, ref Node) {
	g.removeFromOrder(n.id)
	idx := slices.Index(g.order, ref.id)
	if idx < 0 {
		exceptions.Panicf("ir: InsertBefore: reference node #%d is not in graph %q's order", ref.id, g.Name)
	}
	g.order = slices.Insert(g.order, idx, n.id)
}

// InsertAfter splices node n into the topological order immediately after
// ref.
func (g *Graph) InsertAfter(n, ref Node) {
	g.removeFromOrder(n.id)
	idx := slices.Index(g.order, ref.id)
	if idx < 0 {
		exceptions.Panicf("ir: InsertAfter: reference node #%d is not in graph %q's order", ref.id, g.Name)
	}
	g.order = slices.Insert(g.order, idx+1, n.id)
}

// PrependNode inserts n at the very front of g's topological order, used to
// place a freshly cloned node at the start of a fusion group's subgraph
// body.
func (g *Graph) PrependNode(n Node) {
	g.removeFromOrder(n.id)
	g.order = slices.Insert(g.order, 0, n.id)
}

// Destroy removes n from the graph's order and marks its arena slot dead. n
// must have no remaining uses of any of its outputs; this is asserted, not
// merely documented.
func (g *Graph) Destroy(n Node) {
	r := n.rec()
	for _, out := range r.outputs {
		if len(g.values[out].uses) > 0 {
			exceptions.Panicf("ir: Destroy: node #%d's output %%%d still has %d use(s)", n.id, out, len(g.values[out].uses))
		}
		if slices.Contains(g.outputs, out) {
			exceptions.Panicf("ir: Destroy: node #%d's output %%%d is still a registered graph output", n.id, out)
		}
	}
	// A destroyed node no longer reads its inputs either: drop the Use
	// records it held on them, so a stale reference to n never lingers in
	// another Value's use-list.
	for i, in := range r.inputs {
		Value{g, in}.removeUse(Use{User: n.id, InputIndex: i})
	}
	g.removeFromOrder(n.id)
	r.destroyed = true
	g.nodes[n.id] = nil
}

// Nodes returns the graph's nodes in current topological order.
func (g *Graph) Nodes() []Node {
	ns := make([]Node, len(g.order))
	for i, id := range g.order {
		ns[i] = Node{g, id}
	}
	return ns
}

// ReverseNodes returns the graph's nodes in reverse topological order, the
// direction the scanner drives in.
func (g *Graph) ReverseNodes() []Node {
	ns := g.Nodes()
	slices.Reverse(ns)
	return ns
}

// NodeBefore returns the node immediately preceding n in the current
// topological order, or InvalidNode if n is first (or not present).
func (g *Graph) NodeBefore(n Node) Node {
	idx := slices.Index(g.order, n.id)
	if idx <= 0 {
		return InvalidNode
	}
	return Node{g, g.order[idx-1]}
}

// NodeAt wraps id as a Node handle into g.
func (g *Graph) NodeAt(id NodeID) Node { return Node{g, id} }

// ValueAt wraps id as a Value handle into g.
func (g *Graph) ValueAt(id ValueID) Value { return Value{g, id} }
