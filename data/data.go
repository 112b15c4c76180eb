// Copyright 2026 The Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package data provides the public API for datasets and mini-batch
// loading in Primer.
package data

import (
	"github.com/primer-ml/primer/internal/data"
)

// Dataset is a finite collection of (features, label) samples.
type Dataset = data.Dataset

// TensorDataset is an in-memory dataset of feature vectors and labels.
type TensorDataset = data.TensorDataset

// NewTensorDataset creates a dataset from parallel feature and label slices.
func NewTensorDataset(features [][]float64, labels []int) (*TensorDataset, error) {
	return data.NewTensorDataset(features, labels)
}

// Batch is one mini-batch of samples.
type Batch = data.Batch

// LoaderConfig configures mini-batch iteration.
type LoaderConfig = data.LoaderConfig

// Loader iterates a dataset in mini-batches.
type Loader = data.Loader

// NewLoader creates a loader over a dataset.
//
//	loader := data.NewLoader(ds, data.LoaderConfig{BatchSize: 64, Shuffle: true})
func NewLoader(dataset Dataset, cfg LoaderConfig) *Loader {
	return data.NewLoader(dataset, cfg)
}

// MNIST

// MNIST geometry constants.
const (
	MNISTRows    = data.MNISTRows
	MNISTCols    = data.MNISTCols
	MNISTPixels  = data.MNISTPixels
	MNISTClasses = data.MNISTClasses
)

// LoadMNIST loads the official MNIST train and test sets from a
// directory of gzipped IDX files.
func LoadMNIST(dir string) (train, test *TensorDataset, err error) {
	return data.LoadMNIST(dir)
}

// LoadMNISTFiles loads a single IDX image/label file pair.
func LoadMNISTFiles(imageFile, labelFile string) (*TensorDataset, error) {
	return data.LoadMNISTFiles(imageFile, labelFile)
}

// SyntheticMNIST builds a small fake MNIST-shaped dataset for demos and
// tests that must run without the real files.
func SyntheticMNIST(n int) *TensorDataset {
	return data.SyntheticMNIST(n)
}

// Text

// Encoder turns text into token IDs.
type Encoder = data.Encoder

// TikTokenEncoder wraps a tiktoken BPE encoding.
type TikTokenEncoder = data.TikTokenEncoder

// NewTikTokenEncoder creates an encoder for the named BPE encoding
// (e.g. "cl100k_base").
func NewTikTokenEncoder(encodingName string) (*TikTokenEncoder, error) {
	return data.NewTikTokenEncoder(encodingName)
}

// Vectorize turns labeled text lines into token-count feature vectors.
func Vectorize(lines []string, labels []int, enc Encoder, dim int) (*TensorDataset, error) {
	return data.Vectorize(lines, labels, enc, dim)
}
