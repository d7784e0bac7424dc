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
	"github.com/google/uuid"
	"k8s.io/klog/v2"
)

// FuseGraph is the pass's single entry point: it mutates g in place,
// grouping runs of simple-map operations into fusion-group nodes, and
// returns nothing. Each invocation is tagged with a fresh correlation id so
// its log lines can be told apart from a concurrently running compilation's
// in a shared log stream (the pass itself still only ever touches the one
// graph it was given).
func FuseGraph(g *ir.Graph) {
	runID := uuid.NewString()
	klog.V(2).Infof("fusion[%s]: starting pass over graph %q", runID, g.Name)
	NewScanner(g, runID).Run()
	klog.V(2).Infof("fusion[%s]: pass over graph %q complete", runID, g.Name)
}
