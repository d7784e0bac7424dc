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

// NodeKind is a closed tag identifying what a Node computes. It follows the
// same shape as gomlx/xla.NodeType: an iota block grouped by op family, with a
// hand-written String() rather than a go:generate stringer directive (this
// repo never invokes go generate).
type NodeKind int32

const (
	KindInvalid NodeKind = iota

	// KindParameter marks a graph input: a zero-input, single-output node
	// that exists purely so every Value (including graph inputs) has a
	// producer Node.
	KindParameter

	// Bitwise.
	KindAnd
	KindOr
	KindXor
	KindLshift
	KindRshift

	// Unary arithmetic.
	KindAbs
	KindNeg
	KindReciprocal

	// Trigonometric / hyperbolic.
	KindAcos
	KindAsin
	KindAtan
	KindAtan2
	KindCos
	KindCosh
	KindSin
	KindSinh
	KindTan
	KindTanh

	// Rounding.
	KindCeil
	KindFloor
	KindRound
	KindTrunc
	KindFrac

	// Binary arithmetic.
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindFmod
	KindRemainder
	KindPow

	// Ternary / blend.
	KindClamp
	KindLerp

	// Comparisons.
	KindEq
	KindNe
	KindGe
	KindGt
	KindLe
	KindLt

	// Transcendental.
	KindExp
	KindLog
	KindLog1p
	KindLgamma

	// Min/max: simple-map only in their binary form; unary (reduction)
	// form is excluded by isSimpleMap.
	KindMax
	KindMin

	// Activation-adjacent.
	KindSigmoid
	KindRsqrt
	KindSqrt

	// Nullary constant generators: fusable despite taking no inputs.
	KindOnes
	KindZeros

	// Backward helpers for the two activations above.
	KindSigmoidBackward
	KindTanhBackward

	// Distinguished non-simple-map kinds the pass knows about by name.
	KindFusionGroup
	KindConcat
	KindSplit

	// KindOpaque is the catch-all for every other kind; the pass never
	// inspects it beyond gating it out of fusability. The specific
	// opaque operation name, if any, lives in Node.OpName.
	KindOpaque
)

var kindNames = map[NodeKind]string{
	KindInvalid:         "invalid",
	KindParameter:       "parameter",
	KindAnd:             "and",
	KindOr:              "or",
	KindXor:             "xor",
	KindLshift:          "lshift",
	KindRshift:          "rshift",
	KindAbs:             "abs",
	KindNeg:             "neg",
	KindReciprocal:      "reciprocal",
	KindAcos:            "acos",
	KindAsin:            "asin",
	KindAtan:            "atan",
	KindAtan2:           "atan2",
	KindCos:             "cos",
	KindCosh:            "cosh",
	KindSin:             "sin",
	KindSinh:            "sinh",
	KindTan:             "tan",
	KindTanh:            "tanh",
	KindCeil:            "ceil",
	KindFloor:           "floor",
	KindRound:           "round",
	KindTrunc:           "trunc",
	KindFrac:            "frac",
	KindAdd:             "add",
	KindSub:             "sub",
	KindMul:             "mul",
	KindDiv:             "div",
	KindFmod:            "fmod",
	KindRemainder:       "remainder",
	KindPow:             "pow",
	KindClamp:           "clamp",
	KindLerp:            "lerp",
	KindEq:              "eq",
	KindNe:              "ne",
	KindGe:              "ge",
	KindGt:              "gt",
	KindLe:              "le",
	KindLt:              "lt",
	KindExp:             "exp",
	KindLog:             "log",
	KindLog1p:           "log1p",
	KindLgamma:          "lgamma",
	KindMax:             "max",
	KindMin:             "min",
	KindSigmoid:         "sigmoid",
	KindRsqrt:           "rsqrt",
	KindSqrt:            "sqrt",
	KindOnes:            "ones",
	KindZeros:           "zeros",
	KindSigmoidBackward: "_sigmoid_backward",
	KindTanhBackward:    "_tanh_backward",
	KindFusionGroup:     "fusion_group",
	KindConcat:          "concat",
	KindSplit:           "split",
	KindOpaque:          "opaque",
}

// String implements fmt.Stringer, in the same hand-written register as
// ir.OpKind.String() in the teacher's source-to-source pass: a plain lookup
// in a name table rather than generated code.
func (k NodeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// simpleMapKinds is the closed set of elementwise kinds, keyed the same way
// rev_autodiff.go keys its VJPRegistration table: a map from the enum to an
// empty struct, used purely for set membership.
var simpleMapKinds = map[NodeKind]struct{}{
	KindAnd: {}, KindOr: {}, KindXor: {}, KindLshift: {}, KindRshift: {},
	KindAbs: {}, KindNeg: {}, KindReciprocal: {},
	KindAcos: {}, KindAsin: {}, KindAtan: {}, KindAtan2: {}, KindCos: {}, KindCosh: {},
	KindSin: {}, KindSinh: {}, KindTan: {}, KindTanh: {},
	KindCeil: {}, KindFloor: {}, KindRound: {}, KindTrunc: {}, KindFrac: {},
	KindAdd: {}, KindSub: {}, KindMul: {}, KindDiv: {}, KindFmod: {}, KindRemainder: {}, KindPow: {},
	KindClamp: {}, KindLerp: {},
	KindEq: {}, KindNe: {}, KindGe: {}, KindGt: {}, KindLe: {}, KindLt: {},
	KindExp: {}, KindLog: {}, KindLog1p: {}, KindLgamma: {},
	KindMax: {}, KindMin: {},
	KindSigmoid: {}, KindRsqrt: {}, KindSqrt: {},
	KindOnes: {}, KindZeros: {},
	KindSigmoidBackward: {}, KindTanhBackward: {},
}

// IsSimpleMapKind reports whether kind is in the closed elementwise set,
// without the arity check isSimpleMap also applies to min/max; callers
// needing the full predicate should use fusion's isSimpleMap instead.
func IsSimpleMapKind(kind NodeKind) bool {
	_, ok := simpleMapKinds[kind]
	return ok
}

// IsNullaryKind reports whether kind is a simple-map kind that takes zero
// inputs, such as a constant generator.
func IsNullaryKind(kind NodeKind) bool {
	return kind == KindOnes || kind == KindZeros
}

var kindsByName map[string]NodeKind

func init() {
	kindsByName = make(map[string]NodeKind, len(kindNames))
	for k, name := range kindNames {
		kindsByName[name] = k
	}
}

// ParseKindName looks up a NodeKind by its String() form, for textual IR
// readers such as cmd/fusegraph's parser.
func ParseKindName(name string) (NodeKind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}
