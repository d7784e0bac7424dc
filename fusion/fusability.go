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
	"github.com/samber/lo"
)

// allUsersAreThisConsumer reports whether every use of p is consumer.
func allUsersAreThisConsumer(consumer ir.Node, p ir.Value) bool {
	return lo.EveryBy(p.Uses(), func(u ir.Use) bool {
		return u.User == consumer.ID()
	})
}

// allUsersAreThisConsumerOrOccurAfterIt reports whether every use of p is
// either consumer itself, or a node that occurs after consumer in the
// current linearisation. Rejection is narrow: only some other user sitting
// strictly before consumer blocks the fusion.
func allUsersAreThisConsumerOrOccurAfterIt(consumer ir.Node, p ir.Value, oracle *Oracle) bool {
	g := p.Graph()
	return lo.EveryBy(p.Uses(), func(u ir.Use) bool {
		if u.User == consumer.ID() {
			return true
		}
		return !oracle.OccursAfter(consumer, g.NodeAt(u.User))
	})
}

// shouldFuse decides whether producer Value p may be pulled into consumer.
func shouldFuse(consumer ir.Node, p ir.Value, oracle *Oracle) bool {
	return isFusable(p.Node()) && allUsersAreThisConsumerOrOccurAfterIt(consumer, p, oracle)
}
