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
	"k8s.io/klog/v2"
)

// maxSweepsBeforeWarning is a soft diagnostic threshold: a healthy run
// reaches fixpoint in a handful of sweeps. The pass is guaranteed to
// terminate in at most the node count's worth of sweeps, not a constant,
// but pathologically large graphs aside, this many full sweeps usually
// signals something worth a second look rather than a bug.
const maxSweepsBeforeWarning = 64

// Scanner drives the fusion pass to fixpoint over one graph.
type Scanner struct {
	Graph  *ir.Graph
	Oracle *Oracle
	RunID  string
}

// NewScanner creates a scanner over g, tagging its trace lines with runID.
func NewScanner(g *ir.Graph, runID string) *Scanner {
	return &Scanner{Graph: g, Oracle: NewOracle(g), RunID: runID}
}

// Run walks the graph to fixpoint: repeated full reverse-topological sweeps,
// each calling scanNode and following its returned iterator, until a sweep
// makes no change. Termination: each change strictly decreases the count of
// non-group simple-map nodes plus eligible chunk patterns, both bounded
// below by zero.
func (s *Scanner) Run() {
	for sweep := 1; ; sweep++ {
		changed := false
		nodes := s.Graph.Nodes()
		if len(nodes) == 0 {
			return
		}
		cur := nodes[len(nodes)-1]
		for cur.IsValid() {
			next, didChange := scanNode(cur, s.Oracle)
			if didChange {
				changed = true
			}
			cur = next
		}
		if !changed {
			return
		}
		if sweep == maxSweepsBeforeWarning {
			klog.Warningf("fusion[%s]: graph %q has not reached fixpoint after %d sweeps", s.RunID, s.Graph.Name, sweep)
		}
	}
}

// scanNode performs one step of the reverse-topological sweep at consumer,
// returning the next node to visit and whether a rewrite happened.
func scanNode(consumer ir.Node, oracle *Oracle) (next ir.Node, changed bool) {
	g := consumer.Graph()
	if !isFusableAsExitNode(consumer) {
		return g.NodeBefore(consumer), false
	}

	// Any node TryToMoveChunk creates while rewriting around consumer must
	// land in consumer's stage, not the graph's default.
	restore := g.SetStageTemporary(consumer.Stage())
	defer restore()

	inputs := sortInputsByIndexDescending(consumer.Inputs(), oracle)
	for _, p := range inputs {
		if p.Node().Stage() != consumer.Stage() {
			continue
		}
		if TryToMoveChunk(consumer, p, oracle) {
			klog.V(2).Infof("fusion: moved chunk past producer of %%%d for consumer #%d", p.ID(), consumer.ID())
			return consumer, true
		}
		if shouldFuse(consumer, p, oracle) {
			group := Fuse(consumer, p, oracle)
			klog.V(2).Infof("fusion: fused producer of %%%d into group #%d", p.ID(), group.ID())
			return group, true
		}
	}
	return g.NodeBefore(consumer), false
}

// sortInputsByIndexDescending orders consumer's input Values by the
// topological index of their producing node, descending, so later producers
// are considered first — if a Value appears multiple times among the
// inputs, its latest occurrence in this order is the one evaluated first.
func sortInputsByIndexDescending(inputs []ir.Value, oracle *Oracle) []ir.Value {
	sorted := append([]ir.Value(nil), inputs...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && oracle.Index(sorted[j-1].Node()) < oracle.Index(sorted[j].Node()); j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	return sorted
}
