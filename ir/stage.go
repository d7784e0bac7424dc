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

// Stage is a coarse partition tag on nodes. Fusion never crosses a stage
// boundary. The pass treats Stage as an opaque comparable value; these two
// constants are the common case but callers may use any int-convertible tag
// of their own.
type Stage int32

const (
	StageForward Stage = iota
	StageBackward
)
