package serialization

import (
	"fmt"
	"sort"
)

// Validation limits for resource protection. Size fields come straight
// from the file, so they are bounded before any allocation happens.
const (
	MaxHeaderSize    = 16 * 1024 * 1024 // maximum JSON header size
	MaxTensorCount   = 10_000           // maximum number of tensors in a file
	MaxTensorNameLen = 1024             // maximum tensor name length
)

// ValidateTensorCount bounds the tensor table size.
func ValidateTensorCount(n int) error {
	if n > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", n, MaxTensorCount),
		}
	}
	return nil
}

// ValidateTensorOffsets verifies that tensor extents are non-negative,
// lie within the payload section, and do not overlap each other.
//
// Validation happens before any tensor data is interpreted, so a
// malformed header can never cause an out-of-bounds read.
func ValidateTensorOffsets(tensors []TensorMeta, payloadSize int64) error {
	for _, t := range tensors {
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{
				Type:    "negative_extent",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d size=%d", t.Offset, t.Size),
			}
		}
		if t.Offset+t.Size > payloadSize {
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("extent [%d, %d) exceeds payload size %d", t.Offset, t.Offset+t.Size, payloadSize),
			}
		}
	}

	// Sort a copy by offset and check adjacent pairs for overlap.
	sorted := make([]TensorMeta, len(tensors))
	copy(sorted, tensors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Offset+prev.Size > cur.Offset {
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  prev.Name,
				Tensor2: cur.Name,
				Details: fmt.Sprintf("[%d, %d) overlaps [%d, %d)", prev.Offset, prev.Offset+prev.Size, cur.Offset, cur.Offset+cur.Size),
			}
		}
	}

	return nil
}

// ValidateTensorMeta checks that a tensor's declared shape is consistent
// with its declared byte size and that the dtype is supported.
func ValidateTensorMeta(t TensorMeta) error {
	if len(t.Name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Details: fmt.Sprintf("length %d > max %d", len(t.Name), MaxTensorNameLen),
		}
	}
	if t.DType != DTypeFloat64 {
		return &ValidationError{
			Type:    "unsupported_dtype",
			Tensor:  t.Name,
			Details: t.DType,
		}
	}
	for _, d := range t.Shape {
		if d <= 0 {
			return &ValidationError{
				Type:    "invalid_shape",
				Tensor:  t.Name,
				Details: fmt.Sprintf("shape %v has non-positive dimension", t.Shape),
			}
		}
	}
	if want := int64(t.NumElements() * 8); want != t.Size {
		return &ValidationError{
			Type:    "size_mismatch",
			Tensor:  t.Name,
			Details: fmt.Sprintf("shape %v implies %d bytes, header says %d", t.Shape, want, t.Size),
		}
	}
	return nil
}
