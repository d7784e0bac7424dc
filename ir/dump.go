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
	"fmt"
	"strings"
)

// Dump renders g as terse text, one line per node in topological order, in
// the register of gomlx/graph.Node.String(): "%id:type = op(%in0, %in1)".
// Fusion groups recurse, indenting their subgraph body.
func (g *Graph) Dump() string {
	var b strings.Builder
	g.dumpInto(&b, 0)
	return b.String()
}

func (g *Graph) dumpInto(b *strings.Builder, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, v := range g.Inputs() {
		fmt.Fprintf(b, "%sparam %%%d : %s\n", pad, v.ID(), typeString(v))
	}
	for _, n := range g.Nodes() {
		dumpNode(b, pad, n)
		if n.Kind() == KindFusionGroup {
			n.Subgraph().dumpInto(b, indent+1)
		}
	}
	if len(g.outputs) > 0 {
		parts := make([]string, len(g.outputs))
		for i, id := range g.outputs {
			parts[i] = fmt.Sprintf("%%%d", id)
		}
		fmt.Fprintf(b, "%sreturn %s\n", pad, strings.Join(parts, ", "))
	}
}

func dumpNode(b *strings.Builder, pad string, n Node) {
	args := make([]string, n.NumInputs())
	for i, in := range n.Inputs() {
		args[i] = fmt.Sprintf("%%%d", in.ID())
	}
	outs := make([]string, n.NumOutputs())
	for i, out := range n.Outputs() {
		outs[i] = fmt.Sprintf("%%%d:%s", out.ID(), typeString(out))
	}
	fmt.Fprintf(b, "%s%s = %s(%s)\n", pad, strings.Join(outs, ", "), n.Kind(), strings.Join(args, ", "))
}

func typeString(v Value) string {
	if !v.HasType() {
		return "?"
	}
	return v.Type().String()
}
