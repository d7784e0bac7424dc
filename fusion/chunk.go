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
	"github.com/gomlx/exceptions"
	"github.com/gomlx/fusegraph/ir"
)

// TryToMoveChunk looks for the chunk-distribution pattern rooted at
// producer value p — a₁,…,aₖ = split(op(x₁,…,xₘ)) where op is fusable, split
// is op's only consumer, and every aᵢ is used solely by consumer — and, if
// found, rewrites it to op∘split per operand so fusion can proceed past the
// split. It reports whether the rewrite happened.
func TryToMoveChunk(consumer ir.Node, p ir.Value, oracle *Oracle) bool {
	splitNode := p.Node()
	if !isChunk(splitNode) || splitNode.NumInputs() != 1 {
		return false
	}
	opOutput := splitNode.Input(0)
	opNode := opOutput.Node()
	if !isFusable(opNode) || !isSplitsOnlyConsumer(splitNode, opOutput) {
		return false
	}
	splitOutputs := splitNode.Outputs()
	if len(splitOutputs) == 0 {
		return false
	}
	for _, a := range splitOutputs {
		uses := a.Uses()
		if len(uses) != 1 || uses[0].User != consumer.ID() {
			return false
		}
	}
	if opNode.NumOutputs() != 1 {
		// §7: a chunk-rewrite target whose upstream producer has more than one
		// output is an implementation-bug signal, not a legal skip. isFusable
		// does not check output counts, so a multi-output fusion group can
		// reach this point.
		exceptions.Panicf("fusion: TryToMoveChunk: producer #%d feeding split #%d has %d outputs, want 1",
			opNode.ID(), splitNode.ID(), opNode.NumOutputs())
	}

	outer := consumer.Graph()
	operands := opNode.Inputs()
	k := len(splitOutputs)

	insertAfter := splitNode
	newSplits := make([]ir.Node, len(operands))
	for j, xj := range operands {
		ns := outer.Create(splitNode.Kind(), k)
		ns.CopyAttributes(splitNode)
		ns.AddInput(xj)
		outer.InsertAfter(ns, insertAfter)
		oracle.InsertAfter(ns, insertAfter)
		for i := 0; i < k; i++ {
			a := splitOutputs[i].Type()
			ns.Output(i).SetType(xj.Type().WithSizesStrides(a.Sizes, a.Strides))
		}
		insertAfter = ns
		newSplits[j] = ns
	}

	newOps := make([]ir.Node, k)
	for i := 0; i < k; i++ {
		no := outer.Create(opNode.Kind(), 1)
		no.CopyAttributes(opNode)
		for j := range operands {
			no.AddInput(newSplits[j].Output(i))
		}
		outer.InsertAfter(no, insertAfter)
		oracle.InsertAfter(no, insertAfter)
		insertAfter = no
		// Simple-map ops always produce contiguous output (§4.5).
		no.Output(0).SetType(splitOutputs[i].Type().MadeContiguous())
		newOps[i] = no
	}

	for i := 0; i < k; i++ {
		splitOutputs[i].ReplaceAllUsesWith(newOps[i].Output(0))
	}
	outer.Destroy(splitNode)
	oracle.Forget(splitNode)
	outer.Destroy(opNode)
	oracle.Forget(opNode)
	return true
}

func isSplitsOnlyConsumer(splitNode ir.Node, opOutput ir.Value) bool {
	uses := opOutput.Uses()
	return len(uses) == 1 && uses[0].User == splitNode.ID()
}
