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

// Package fusion implements the graph fusion pass: it groups runs of
// elementwise ("simple map") operations into fusion-group nodes whose body
// is a nested subgraph, so a downstream code generator can compile each
// group into a single kernel.
package fusion

import (
	"github.com/gomlx/fusegraph/ir"
)

// isSimpleMap reports whether n is in the closed elementwise set,
// excepting min/max in their unary (reduction) form, which this pass never
// fuses.
func isSimpleMap(n ir.Node) bool {
	if !ir.IsSimpleMapKind(n.Kind()) {
		return false
	}
	if n.Kind() == ir.KindMax || n.Kind() == ir.KindMin {
		return n.NumInputs() != 1
	}
	return true
}

// isChunk reports whether n splits a tensor along an axis.
func isChunk(n ir.Node) bool {
	return n.Kind() == ir.KindSplit
}

// onAccelerator reports whether n's first output lives on an accelerator
// device.
func onAccelerator(n ir.Node) bool {
	if n.NumOutputs() == 0 {
		return false
	}
	return n.Output(0).Type().OnAccelerator()
}

// allFloatIO reports whether every input and output Value of n has a float
// element kind.
func allFloatIO(n ir.Node) bool {
	for _, in := range n.Inputs() {
		if !in.Type().IsFloat() {
			return false
		}
	}
	for _, out := range n.Outputs() {
		if !out.Type().IsFloat() {
			return false
		}
	}
	return true
}

// isFusable reports whether n may appear as an absorbed (non-exit) member
// of a fusion group.
func isFusable(n ir.Node) bool {
	if n.Kind() == ir.KindFusionGroup {
		return true
	}
	return isSimpleMap(n) && allFloatIO(n) && onAccelerator(n)
}

// isFusableAsExitNode reports whether n may seed or terminate a fusion
// group: any fusable node, or a concat on an accelerator whose operands all
// share the same sizes.
func isFusableAsExitNode(n ir.Node) bool {
	if isFusable(n) {
		return true
	}
	if n.Kind() != ir.KindConcat {
		return false
	}
	if !onAccelerator(n) {
		return false
	}
	inputs := n.Inputs()
	if len(inputs) == 0 {
		return false
	}
	first := inputs[0].Type()
	for _, in := range inputs[1:] {
		if !in.Type().SameSizes(first) {
			return false
		}
	}
	return true
}
