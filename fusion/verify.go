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
	"github.com/gomlx/fusegraph/ir"
	"github.com/pkg/errors"
)

// Verify checks invariants 1, 2, 3, 5 and 6 of §8 against g and returns a
// wrapped error describing the first violation found, or nil. Invariant 4
// (group boundary) and invariant 7 (semantic equivalence) are not checked,
// and invariant 5 accepts a concat at any position in a subgraph. It is a
// testing/debugging aid, not part of the pass's runtime contract (§5: the
// pass itself reports no recoverable errors); tests call it after every
// FuseGraph.
func Verify(g *ir.Graph) error {
	outputSet := make(map[ir.ValueID]bool)
	for _, v := range g.Outputs() {
		outputSet[v.ID()] = true
	}

	for _, n := range g.Nodes() {
		if err := verifyNode(g, n, outputSet); err != nil {
			return errors.Wrapf(err, "graph %q", g.Name)
		}
	}
	return verifyTopoOrder(g)
}

func verifyNode(g *ir.Graph, n ir.Node, graphOutputs map[ir.ValueID]bool) error {
	for _, out := range n.Outputs() {
		if len(out.Uses()) == 0 && !graphOutputs[out.ID()] {
			return errors.Errorf("value %%%d (output of node #%d, %s) has no uses and is not a graph output", out.ID(), n.ID(), n.Kind())
		}
	}

	if n.Kind() != ir.KindFusionGroup {
		return nil
	}

	sub := n.Subgraph()
	if n.NumInputs() != len(sub.Inputs()) {
		return errors.Errorf("fusion group #%d: %d outer inputs vs %d subgraph inputs", n.ID(), n.NumInputs(), len(sub.Inputs()))
	}
	if n.NumOutputs() != len(sub.Outputs()) {
		return errors.Errorf("fusion group #%d: %d outer outputs vs %d subgraph outputs", n.ID(), n.NumOutputs(), len(sub.Outputs()))
	}

	subOutputSet := make(map[ir.ValueID]bool)
	for _, v := range sub.Outputs() {
		subOutputSet[v.ID()] = true
	}
	for _, inner := range sub.Nodes() {
		if inner.Kind() != ir.KindParameter &&
			inner.Kind() != ir.KindFusionGroup &&
			inner.Kind() != ir.KindConcat &&
			!isSimpleMap(inner) {
			return errors.Errorf("fusion group #%d: absorbed node #%d has non-fusable kind %s", n.ID(), inner.ID(), inner.Kind())
		}
		if inner.Kind() != ir.KindParameter && inner.Stage() != n.Stage() {
			return errors.Errorf("fusion group #%d (stage %d): absorbed node #%d has stage %d", n.ID(), n.Stage(), inner.ID(), inner.Stage())
		}
		if err := verifyNode(sub, inner, subOutputSet); err != nil {
			return errors.Wrapf(err, "fusion group #%d subgraph", n.ID())
		}
	}
	return nil
}

// verifyTopoOrder checks that every node's inputs are produced by a node
// that occurs no later than it in g's current order (§8 invariant 3).
func verifyTopoOrder(g *ir.Graph) error {
	position := make(map[ir.NodeID]int)
	for i, n := range g.Nodes() {
		position[n.ID()] = i
	}
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			producer := in.Node()
			pp, ok := position[producer.ID()]
			if !ok {
				return errors.Errorf("node #%d reads %%%d whose producer #%d is not in the graph's order", n.ID(), in.ID(), producer.ID())
			}
			if pp > position[n.ID()] {
				return errors.Errorf("node #%d occurs before its producer #%d for value %%%d", n.ID(), producer.ID(), in.ID())
			}
		}
	}
	return nil
}
