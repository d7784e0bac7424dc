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
	"github.com/gomlx/exceptions"
)

// NodeID addresses a Node inside a Graph's arena. Ids start at 0; use
// InvalidNodeID for "no node".
type NodeID int32

// ValueID addresses a Value inside a Graph's arena.
type ValueID int32

const (
	InvalidNodeID  NodeID  = -1
	InvalidValueID ValueID = -1
)

// Use records one consumer of a Value: the node reading it, and which of
// that node's input slots holds it.
type Use struct {
	User       NodeID
	InputIndex int
}

// nodeRecord is the arena slot for one Node. Graph owns these; Node is a
// lightweight (graph, id) handle into them, the way gomlx/graph.Node wraps a
// NodeId into its owning Graph.
type nodeRecord struct {
	kind      NodeKind
	opName    string // only meaningful for KindOpaque
	inputs    []ValueID
	outputs   []ValueID
	stage     Stage
	subgraph  *Graph // only set for KindFusionGroup
	attrs     map[string]any
	destroyed bool
}

// valueRecord is the arena slot for one Value.
type valueRecord struct {
	node    NodeID
	offset  int
	typ     TensorType
	hasType bool
	uses    []Use
}

// Graph is an arena of Nodes and Values, addressed by integer handles. A
// fusion group's Subgraph is itself a Graph, nested as an attribute on the
// owning node.
type Graph struct {
	Name string

	nodes  []*nodeRecord
	values []*valueRecord

	order         []NodeID // current topological order of live, non-destroyed nodes
	inputs        []ValueID
	outputs       []ValueID
	stageOverride *Stage
}

// NewGraph creates an empty graph with the given diagnostic name.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// --- Node handle -----------------------------------------------------------

// Node is a handle to one node owned by a Graph.
type Node struct {
	g  *Graph
	id NodeID
}

// InvalidNode points at no graph; its id is InvalidNodeID.
var InvalidNode = Node{id: InvalidNodeID}

func (n Node) IsValid() bool {
	return n.g != nil && n.id >= 0 && int(n.id) < len(n.g.nodes) && n.g.nodes[n.id] != nil
}

func (n Node) Graph() *Graph { return n.g }
func (n Node) ID() NodeID    { return n.id }

func (n Node) rec() *nodeRecord {
	r := n.g.nodes[n.id]
	if r == nil {
		exceptions.Panicf("ir: Node #%d in graph %q has been destroyed", n.id, n.g.Name)
	}
	return r
}

func (n Node) Kind() NodeKind { return n.rec().kind }
func (n Node) OpName() string { return n.rec().opName }
func (n Node) Stage() Stage   { return n.rec().stage }

// Subgraph returns the nested graph for a KindFusionGroup node, or nil for
// any other kind.
func (n Node) Subgraph() *Graph { return n.rec().subgraph }

func (n Node) NumInputs() int  { return len(n.rec().inputs) }
func (n Node) NumOutputs() int { return len(n.rec().outputs) }

func (n Node) InputIDs() []ValueID {
	return append([]ValueID(nil), n.rec().inputs...)
}

func (n Node) OutputIDs() []ValueID {
	return append([]ValueID(nil), n.rec().outputs...)
}

func (n Node) Input(i int) Value {
	return Value{n.g, n.rec().inputs[i]}
}

func (n Node) Output(i int) Value {
	return Value{n.g, n.rec().outputs[i]}
}

func (n Node) Inputs() []Value {
	ids := n.rec().inputs
	vs := make([]Value, len(ids))
	for i, id := range ids {
		vs[i] = Value{n.g, id}
	}
	return vs
}

func (n Node) Outputs() []Value {
	ids := n.rec().outputs
	vs := make([]Value, len(ids))
	for i, id := range ids {
		vs[i] = Value{n.g, id}
	}
	return vs
}

// Attr reads a per-kind attribute (e.g. the split axis) set by the IR
// producer; ok is false if unset.
func (n Node) Attr(key string) (value any, ok bool) {
	r := n.rec()
	if r.attrs == nil {
		return nil, false
	}
	value, ok = r.attrs[key]
	return
}

// SetAttr sets a per-kind attribute.
func (n Node) SetAttr(key string, value any) {
	r := n.rec()
	if r.attrs == nil {
		r.attrs = map[string]any{}
	}
	r.attrs[key] = value
}

// CopyAttributes copies src's per-kind attribute map onto n, used when
// cloning a node during a group merge or chunk rewrite.
func (n Node) CopyAttributes(src Node) {
	srcAttrs := src.rec().attrs
	if len(srcAttrs) == 0 {
		return
	}
	r := n.rec()
	r.attrs = make(map[string]any, len(srcAttrs))
	for k, v := range srcAttrs {
		r.attrs[k] = v
	}
}

// AddInput appends a new input Value to n, used when a group absorbs a node
// that needs a new subgraph parameter mirrored as an outer input.
func (n Node) AddInput(v Value) {
	r := n.rec()
	idx := len(r.inputs)
	r.inputs = append(r.inputs, v.id)
	v.addUse(Use{User: n.id, InputIndex: idx})
}

// RemoveInput removes input i, shifting later inputs down and fixing up
// their Use.InputIndex bookkeeping.
func (n Node) RemoveInput(i int) {
	r := n.rec()
	removed := r.inputs[i]
	Value{n.g, removed}.removeUse(Use{User: n.id, InputIndex: i})
	r.inputs = append(r.inputs[:i], r.inputs[i+1:]...)
	for j := i; j < len(r.inputs); j++ {
		Value{n.g, r.inputs[j]}.reindexUse(n.id, j+1, j)
	}
}

// AddOutput appends a new output Value of the given type to n, returning it.
func (n Node) AddOutput(typ TensorType) Value {
	r := n.rec()
	offset := len(r.outputs)
	vid := n.g.newValue(n.id, offset, typ, true)
	r.outputs = append(r.outputs, vid)
	return Value{n.g, vid}
}

// --- Value handle -----------------------------------------------------------

// Value is a handle to one value owned by a Graph.
type Value struct {
	g  *Graph
	id ValueID
}

var InvalidValue = Value{id: InvalidValueID}

func (v Value) IsValid() bool {
	return v.g != nil && v.id >= 0 && int(v.id) < len(v.g.values) && v.g.values[v.id] != nil
}

func (v Value) ID() ValueID  { return v.id }
func (v Value) Graph() *Graph { return v.g }

func (v Value) rec() *valueRecord {
	return v.g.values[v.id]
}

// Node returns v's producer Node. Every Value has exactly one.
func (v Value) Node() Node { return Node{v.g, v.rec().node} }

// Offset is v's output index within its producer.
func (v Value) Offset() int { return v.rec().offset }

func (v Value) Type() TensorType { return v.rec().typ }

func (v Value) HasType() bool { return v.rec().hasType }

func (v Value) SetType(t TensorType) {
	r := v.rec()
	r.typ = t
	r.hasType = true
}

// Uses returns every current use of v.
func (v Value) Uses() []Use {
	return append([]Use(nil), v.rec().uses...)
}

func (v Value) addUse(u Use) {
	r := v.rec()
	r.uses = append(r.uses, u)
}

func (v Value) removeUse(u Use) {
	r := v.rec()
	for i, existing := range r.uses {
		if existing == u {
			r.uses = append(r.uses[:i], r.uses[i+1:]...)
			return
		}
	}
}

// reindexUse updates the InputIndex of a recorded use of v by user, moving it
// from "from" to "to" (used by Node.RemoveInput's shift).
func (v Value) reindexUse(user NodeID, from, to int) {
	r := v.rec()
	for i, existing := range r.uses {
		if existing.User == user && existing.InputIndex == from {
			r.uses[i].InputIndex = to
			return
		}
	}
}

// ReplaceAllUsesWith re-routes every current use of v to repl, including v's
// membership in its owning graph's registered outputs, if any.
func (v Value) ReplaceAllUsesWith(repl Value) {
	uses := v.rec().uses
	v.rec().uses = nil
	for _, u := range uses {
		user := Node{v.g, u.User}
		user.rec().inputs[u.InputIndex] = repl.id
		repl.addUse(u)
	}
	for i, out := range v.g.outputs {
		if out == v.id {
			v.g.outputs[i] = repl.id
		}
	}
}

// CopyMetadata copies src's type onto v.
func (v Value) CopyMetadata(src Value) {
	v.SetType(src.Type())
}
