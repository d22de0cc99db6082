package onehot

import (
	"fmt"
	"slices"

	"github.com/gomlx/gomlx/pkg/core/tensors"
)

// Tensor is a dense row-major float32 buffer with shape metadata. The last
// axis is always the one-hot category axis.
//
// Tensor is a small value type sharing its Data slice: copies alias the same
// storage. Use Clone to keep a snapshot.
type Tensor struct {
	Data []float32
	Dims []int
}

// NewTensor allocates a zero tensor with the given dimensions.
func NewTensor(dims ...int) Tensor {
	size := 1
	for _, d := range dims {
		size *= d
	}
	return Tensor{Data: make([]float32, size), Dims: slices.Clone(dims)}
}

// Width returns the size of the last (category) axis.
func (t Tensor) Width() int {
	if len(t.Dims) == 0 {
		return 0
	}
	return t.Dims[len(t.Dims)-1]
}

// Vectors returns the number of category vectors held in the tensor.
func (t Tensor) Vectors() int {
	w := t.Width()
	if w == 0 {
		return 0
	}
	return len(t.Data) / w
}

// Vector returns the k-th category vector. The slice aliases Data.
func (t Tensor) Vector(k int) []float32 {
	w := t.Width()
	return t.Data[k*w : (k+1)*w]
}

// Row returns the i-th slice along the first axis. The slice aliases Data.
func (t Tensor) Row(i int) []float32 {
	stride := 1
	for _, d := range t.Dims[1:] {
		stride *= d
	}
	return t.Data[i*stride : (i+1)*stride]
}

// Zero clears the tensor in place.
func (t Tensor) Zero() {
	clear(t.Data)
}

// VectorSums returns the sum of every category vector.
func (t Tensor) VectorSums() []float32 {
	sums := make([]float32, t.Vectors())
	for k := range sums {
		for _, v := range t.Vector(k) {
			sums[k] += v
		}
	}
	return sums
}

// Clone returns a deep copy.
func (t Tensor) Clone() Tensor {
	return Tensor{Data: slices.Clone(t.Data), Dims: slices.Clone(t.Dims)}
}

// Reshape returns a view over the same data with new dimensions.
func (t Tensor) Reshape(dims ...int) (Tensor, error) {
	size := 1
	for _, d := range dims {
		size *= d
	}
	if size != len(t.Data) {
		return Tensor{}, fmt.Errorf("%w: cannot reshape %v (%d values) to %v", ErrShape, t.Dims, len(t.Data), dims)
	}
	return Tensor{Data: t.Data, Dims: slices.Clone(dims)}, nil
}

// ToGomlx converts the tensor into a gomlx tensor. The data is copied, so the
// result stays valid after the source buffer is overwritten.
func (t Tensor) ToGomlx() *tensors.Tensor {
	if len(t.Data) == 0 {
		return tensors.FromAnyValue(make([][]float32, 0))
	}
	return tensors.FromFlatDataAndDimensions(slices.Clone(t.Data), t.Dims...)
}
