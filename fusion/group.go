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
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/fusegraph/ir"
	"github.com/samber/lo"
)

// CreateSingletonFusionGroup wraps n in a fresh KindFusionGroup node,
// semantically equivalent to n alone, and returns the group.
func CreateSingletonFusionGroup(n ir.Node, oracle *Oracle) ir.Node {
	g := n.Graph()
	group := g.CreateFusionGroup()
	g.InsertBefore(group, n)
	oracle.InsertAfter(group, n)

	merged := mergeNodeIntoGroup(group, n)
	for i, out := range n.Outputs() {
		subOut := merged.Output(i)
		group.Subgraph().RegisterOutput(subOut)
		outerOut := group.AddOutput(out.Type())
		outerOut.CopyMetadata(out)
		out.ReplaceAllUsesWith(outerOut)
	}
	g.Destroy(n)
	oracle.Forget(n)
	return group
}

// mergeNodeIntoGroup absorbs a single plain node n into running group g's
// subgraph, returning the clone created inside the subgraph. It does
// not touch n's own uses or destroy n: that is the caller's job, since
// different callers (CreateSingletonFusionGroup, Fuse, mergeFusionGroups)
// dispose of the absorbed node differently.
func mergeNodeIntoGroup(g ir.Node, n ir.Node) ir.Node {
	if n.Kind() == ir.KindFusionGroup {
		exceptions.Panicf("fusion: mergeNodeIntoGroup: node #%d is itself a fusion group; use mergeFusionGroups", n.ID())
	}
	sub := g.Subgraph()
	if g.NumInputs() != len(sub.Inputs()) {
		exceptions.Panicf("fusion: mergeNodeIntoGroup: group #%d has %d outer inputs but %d subgraph inputs",
			g.ID(), g.NumInputs(), len(sub.Inputs()))
	}

	originalOuterInputs := g.InputIDs()
	subParams := sub.Inputs()

	remap := make(map[ir.ValueID]ir.Value, len(originalOuterInputs)+n.NumInputs())
	for i, outerIn := range originalOuterInputs {
		remap[outerIn] = subParams[i]
	}

	for _, in := range n.Inputs() {
		if _, ok := remap[in.ID()]; ok {
			continue
		}
		param := sub.AddParameter(in.Type())
		g.AddInput(in)
		remap[in.ID()] = param
	}

	clone := sub.CreateClone(n, func(v ir.Value) ir.Value {
		mapped, ok := remap[v.ID()]
		if !ok {
			exceptions.Panicf("fusion: mergeNodeIntoGroup: input %%%d of node #%d has no subgraph mapping", v.ID(), n.ID())
		}
		return mapped
	})

	// Step 4: collapse a self-referential edge, when n's own output was
	// already one of g's (pre-extension) inputs — i.e. n produces a value
	// that a previous merge already routed into this group from outside.
	type selfRef struct{ k, p int }
	var selfRefs []selfRef
	for k, out := range n.Outputs() {
		if p := slices.Index(originalOuterInputs, out.ID()); p >= 0 {
			selfRefs = append(selfRefs, selfRef{k, p})
		}
	}
	// Process higher positions first so an earlier RemoveInput's index
	// shift never invalidates a later one's p.
	slices.SortFunc(selfRefs, func(a, b selfRef) int { return b.p - a.p })
	for _, sr := range selfRefs {
		g.RemoveInput(sr.p)
		subParam := subParams[sr.p]
		subParam.ReplaceAllUsesWith(clone.Output(sr.k))
		sub.EraseInput(sr.p)
		sub.Destroy(subParam.Node())
	}

	sub.PrependNode(clone)
	return clone
}

// mergeFusionGroups merges producerGroup into consumerGroup: it unfuses the
// producer into temporary outer nodes, then absorbs them one by one.
func mergeFusionGroups(consumerGroup, producerGroup ir.Node, oracle *Oracle) ir.Node {
	outer := consumerGroup.Graph()
	producerSub := producerGroup.Subgraph()

	remap := make(map[ir.ValueID]ir.Value)
	for i, subParam := range producerSub.Inputs() {
		remap[subParam.ID()] = producerGroup.Input(i)
	}

	temps := make([]ir.Node, 0, len(producerSub.Nodes()))
	for _, inner := range producerSub.Nodes() {
		if inner.Kind() == ir.KindParameter {
			continue
		}
		clone := outer.CreateClone(inner, func(v ir.Value) ir.Value {
			mapped, ok := remap[v.ID()]
			if !ok {
				exceptions.Panicf("fusion: mergeFusionGroups: inner value %%%d has no outer mapping", v.ID())
			}
			return mapped
		})
		outer.InsertBefore(clone, producerGroup)
		oracle.InsertAfter(clone, producerGroup)
		for i, innerOut := range inner.Outputs() {
			remap[innerOut.ID()] = clone.Output(i)
		}
		temps = append(temps, clone)
	}

	for i, outerOut := range producerGroup.Outputs() {
		subOut := producerSub.Outputs()[i]
		replacement, ok := remap[subOut.ID()]
		if !ok {
			exceptions.Panicf("fusion: mergeFusionGroups: subgraph output %%%d of group #%d has no outer mapping",
				subOut.ID(), producerGroup.ID())
		}
		outerOut.ReplaceAllUsesWith(replacement)
	}
	outer.Destroy(producerGroup)
	oracle.Forget(producerGroup)

	for _, t := range lo.Reverse(temps) {
		merged := mergeNodeIntoGroup(consumerGroup, t)
		for i, out := range t.Outputs() {
			if len(out.Uses()) == 0 && !slices.ContainsFunc(outer.Outputs(), func(o ir.Value) bool { return o.ID() == out.ID() }) {
				continue
			}
			subOut := merged.Output(i)
			consumerGroup.Subgraph().RegisterOutput(subOut)
			outerOut := consumerGroup.AddOutput(out.Type())
			outerOut.CopyMetadata(out)
			out.ReplaceAllUsesWith(outerOut)
		}
		outer.Destroy(t)
		oracle.Forget(t)
	}

	return consumerGroup
}

// Fuse is the canonical entry point: it ensures consumer is a fusion group
// and absorbs producerValue's producer into it, returning the (possibly
// new) group.
func Fuse(consumer ir.Node, producerValue ir.Value, oracle *Oracle) ir.Node {
	group := consumer
	if group.Kind() != ir.KindFusionGroup {
		group = CreateSingletonFusionGroup(consumer, oracle)
	}

	producerNode := producerValue.Node()
	if producerNode.Kind() == ir.KindFusionGroup {
		return mergeFusionGroups(group, producerNode, oracle)
	}

	outer := group.Graph()
	merged := mergeNodeIntoGroup(group, producerNode)
	for i, out := range producerNode.Outputs() {
		if len(out.Uses()) == 0 && !slices.ContainsFunc(outer.Outputs(), func(o ir.Value) bool { return o.ID() == out.ID() }) {
			continue
		}
		subOut := merged.Output(i)
		group.Subgraph().RegisterOutput(subOut)
		outerOut := group.AddOutput(out.Type())
		outerOut.CopyMetadata(out)
		out.ReplaceAllUsesWith(outerOut)
	}
	outer.Destroy(producerNode)
	oracle.Forget(producerNode)
	return group
}
