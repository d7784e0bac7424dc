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

	"github.com/gomlx/gopjrt/dtypes"
)

// HostDevice is the reserved device id for host (non-accelerator) tensors;
// accelerator devices are numbered 0 and up.
const HostDevice = -1

// TensorType is the type a Value carries. It is a plain value type, copied
// by assignment; WithSizesStrides returns a modified copy rather than
// mutating in place, matching shapes.Shape's value semantics.
type TensorType struct {
	ScalarType dtypes.DType
	Device     int
	Sizes      []int
	Strides    []int
}

// NewTensorType builds a contiguous row-major TensorType for the given sizes.
func NewTensorType(scalarType dtypes.DType, device int, sizes ...int) TensorType {
	t := TensorType{ScalarType: scalarType, Device: device, Sizes: sizes}
	t.Strides = contiguousStrides(sizes)
	return t
}

// OnAccelerator reports whether this type's device is an accelerator device,
// lifted to the type level since every caller first reaches a device through
// a TensorType.
func (t TensorType) OnAccelerator() bool {
	return t.Device != HostDevice
}

// IsFloat reports whether the scalar type is a float kind, exactly
// dtypes.DType.IsFloat().
func (t TensorType) IsFloat() bool {
	return t.ScalarType.IsFloat()
}

// Contiguous reports whether Strides matches the row-major strides implied
// by Sizes.
func (t TensorType) Contiguous() bool {
	want := contiguousStrides(t.Sizes)
	if len(want) != len(t.Strides) {
		return false
	}
	for i, s := range want {
		if t.Strides[i] != s {
			return false
		}
	}
	return true
}

// WithSizesStrides returns a copy of t with new sizes and strides, keeping
// ScalarType and Device. Used by the chunk-distribution rewriter to derive a
// split result's type from its operand's type.
func (t TensorType) WithSizesStrides(sizes, strides []int) TensorType {
	t.Sizes = sizes
	t.Strides = strides
	return t
}

// MadeContiguous returns a copy of t with Strides replaced by the row-major
// strides implied by Sizes. Simple-map ops always produce contiguous output,
// so the chunk rewrite derives its new op outputs this way.
func (t TensorType) MadeContiguous() TensorType {
	t.Strides = contiguousStrides(t.Sizes)
	return t
}

// SameSizes reports whether t and other have identical Sizes, the equality
// isFusableAsExitNode needs for concat's operands.
func (t TensorType) SameSizes(other TensorType) bool {
	if len(t.Sizes) != len(other.Sizes) {
		return false
	}
	for i, s := range t.Sizes {
		if other.Sizes[i] != s {
			return false
		}
	}
	return true
}

func (t TensorType) String() string {
	dims := make([]string, len(t.Sizes))
	for i, d := range t.Sizes {
		dims[i] = fmt.Sprintf("%d", d)
	}
	device := "host"
	if t.OnAccelerator() {
		device = fmt.Sprintf("dev%d", t.Device)
	}
	return fmt.Sprintf("%s[%s]@%s", t.ScalarType, strings.Join(dims, ","), device)
}

func contiguousStrides(sizes []int) []int {
	if len(sizes) == 0 {
		return nil
	}
	strides := make([]int, len(sizes))
	acc := 1
	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= sizes[i]
	}
	return strides
}
