// Package data provides datasets and mini-batch loading for the course
// exercises: in-memory feature matrices, MNIST in IDX format, and a
// small text-vectorization demonstration.
//
// Iteration is single-threaded and sequential; a Loader walks a Dataset
// in (optionally shuffled) order and materializes gonum matrices one
// batch at a time.
package data

import (
	"fmt"
)

// Dataset is a finite collection of (features, label) samples.
type Dataset interface {
	// Len returns the number of samples.
	Len() int

	// At returns the i-th sample. The returned slice must not be
	// modified by the caller.
	At(i int) (features []float64, label int)
}

// TensorDataset is an in-memory Dataset: one feature vector and one
// integer class label per sample.
type TensorDataset struct {
	features [][]float64
	labels   []int
	dim      int
}

// NewTensorDataset creates a dataset from parallel feature and label
// slices. All feature vectors must have the same length.
func NewTensorDataset(features [][]float64, labels []int) (*TensorDataset, error) {
	if len(features) != len(labels) {
		return nil, fmt.Errorf("features (%d) and labels (%d) length mismatch", len(features), len(labels))
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	dim := len(features[0])
	for i, f := range features {
		if len(f) != dim {
			return nil, fmt.Errorf("sample %d has %d features, want %d", i, len(f), dim)
		}
	}

	return &TensorDataset{features: features, labels: labels, dim: dim}, nil
}

// Len returns the number of samples.
func (d *TensorDataset) Len() int {
	return len(d.features)
}

// At returns the i-th sample.
func (d *TensorDataset) At(i int) ([]float64, int) {
	return d.features[i], d.labels[i]
}

// Dim returns the feature dimension.
func (d *TensorDataset) Dim() int {
	return d.dim
}

// Split divides the dataset into two parts; the first holds ratio of
// the samples (e.g. 0.8 for an 80/20 train/validation split). The
// split is positional; shuffle upstream if the data is ordered.
func (d *TensorDataset) Split(ratio float64) (*TensorDataset, *TensorDataset) {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	idx := int(float64(len(d.features)) * ratio)

	first := &TensorDataset{features: d.features[:idx], labels: d.labels[:idx], dim: d.dim}
	second := &TensorDataset{features: d.features[idx:], labels: d.labels[idx:], dim: d.dim}
	return first, second
}
