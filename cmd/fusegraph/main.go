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

// Command fusegraph is a demonstration harness for the fusion pass: it
// loads a small textual graph description, runs fusion.FuseGraph over it,
// and prints a before/after summary. It is not part of the pass's public
// API — the library has no CLI of its own (§6) — it exists so the library
// can be exercised end to end, the way cmd/gomlx_checkpoints exercises the
// context/checkpoints packages in the reference pack.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/gomlx/fusegraph/fusion"
	"github.com/gomlx/fusegraph/ir"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 2, 0, 2)

	headerRowStyle = lipgloss.NewStyle().Reverse(true).Padding(0, 1, 0, 1)
	oddRowStyle    = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	evenRowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(1).PaddingRight(1)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerRowStyle
			}
			if row%2 == 0 {
				return evenRowStyle
			}
			return oddRowStyle
		})
}

func main() {
	klog.InitFlags(nil)
	root := &cobra.Command{
		Use:   "fusegraph [graph-file]",
		Short: "Run the fusion pass over a textual graph description and print a before/after summary",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}
	root.SilenceUsage = true
	if err := root.Execute(); err != nil {
		klog.Fatalf("fusegraph: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := parseGraph(path, f)
	if err != nil {
		return err
	}

	before := summarize(g)

	fmt.Println(titleStyle.Render("Before"))
	fmt.Println(g.Dump())

	fusion.FuseGraph(g)

	if err := fusion.Verify(g); err != nil {
		klog.Warningf("fusegraph: post-fusion invariant check failed: %v", err)
	}

	after := summarize(g)

	fmt.Println(titleStyle.Render("After"))
	fmt.Println(g.Dump())

	fmt.Println(titleStyle.Render("Summary"))
	table := newPlainTable()
	table.Headers("", "before", "after")
	table.Row("nodes", fmt.Sprint(before.total), fmt.Sprint(after.total))
	table.Row("fusion groups", fmt.Sprint(before.groups), fmt.Sprint(after.groups))
	fmt.Println(table.Render())
	return nil
}

type graphSummary struct {
	total  int
	groups int
}

func summarize(g *ir.Graph) graphSummary {
	var s graphSummary
	for _, n := range g.Nodes() {
		s.total++
		if n.Kind() == ir.KindFusionGroup {
			s.groups++
		}
	}
	return s
}
