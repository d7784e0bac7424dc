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

// Package ir implements the minimal tensor-graph intermediate representation
// that the fusion package operates on: an arena of Nodes and Values addressed
// by integer handles, owned by a Graph.
//
// The arena shape mirrors gomlx/graph.Graph's handle-based design
// (NodeId/ParameterHandle/GraphId as plain ints into backing slices) rather
// than a pointer graph, so that destroying and rewriting nodes during a pass
// never has to reason about cycles or reference counts.
package ir
