// Copyright 2026 The Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// Module is the base interface for all neural network components.
type Module = nn.Module

// StateDicter is implemented by modules with serializable parameters.
type StateDicter = nn.StateDicter

// Parameter represents a trainable parameter in a neural network.
type Parameter = nn.Parameter

// NewParameter creates a new parameter with the given name and value.
func NewParameter(name string, value *mat.Dense) *Parameter {
	return nn.NewParameter(name, value)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear = nn.Linear

// NewLinear creates a new linear layer with Xavier initialization.
//
//	layer := nn.NewLinear(784, 128)
func NewLinear(inFeatures, outFeatures int) *Linear {
	return nn.NewLinear(inFeatures, outFeatures)
}

// Dropout randomly zeroes activations during training.
type Dropout = nn.Dropout

// NewDropout creates a dropout layer with drop probability p.
func NewDropout(p float64) *Dropout {
	return nn.NewDropout(p)
}

// Activations

// ReLU represents the rectified linear unit activation.
type ReLU = nn.ReLU

// NewReLU creates a new ReLU activation layer.
func NewReLU() *ReLU {
	return nn.NewReLU()
}

// Sigmoid represents the sigmoid activation.
type Sigmoid = nn.Sigmoid

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid() *Sigmoid {
	return nn.NewSigmoid()
}

// Tanh represents the hyperbolic tangent activation.
type Tanh = nn.Tanh

// NewTanh creates a new Tanh activation layer.
func NewTanh() *Tanh {
	return nn.NewTanh()
}

// LogSoftmax computes row-wise log-probabilities.
type LogSoftmax = nn.LogSoftmax

// NewLogSoftmax creates a new LogSoftmax output layer.
func NewLogSoftmax() *LogSoftmax {
	return nn.NewLogSoftmax()
}

// Softmax converts scores into a probability distribution.
func Softmax(scores []float64) []float64 {
	return nn.Softmax(scores)
}

// Containers

// Sequential chains modules into a pipeline.
type Sequential = nn.Sequential

// NewSequential creates a new Sequential container.
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10),
//	    nn.NewLogSoftmax(),
//	)
func NewSequential(modules ...Module) *Sequential {
	return nn.NewSequential(modules...)
}

// Network is the course's feed-forward classifier.
type Network = nn.Network

// Config describes a Network's architecture.
type Config = nn.Config

// NewNetwork creates a Network from a Config.
func NewNetwork(cfg Config) (*Network, error) {
	return nn.NewNetwork(cfg)
}

// Losses

// Criterion is a classification loss.
type Criterion = nn.Criterion

// NLLLoss is the negative log likelihood loss (pairs with LogSoftmax).
type NLLLoss = nn.NLLLoss

// NewNLLLoss creates a new negative log likelihood loss.
func NewNLLLoss() *NLLLoss {
	return nn.NewNLLLoss()
}

// CrossEntropyLoss is cross-entropy on raw logits.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a new cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss()
}

// MSELoss is mean squared error.
type MSELoss = nn.MSELoss

// NewMSELoss creates a new mean squared error loss.
func NewMSELoss() *MSELoss {
	return nn.NewMSELoss()
}

// Initialization

// Xavier creates a matrix with Xavier/Glorot uniform initialization.
func Xavier(rows, cols, fanIn, fanOut int) *mat.Dense {
	return nn.Xavier(rows, cols, fanIn, fanOut)
}

// Randn creates a matrix with values drawn from N(0, 1).
func Randn(rows, cols int) *mat.Dense {
	return nn.Randn(rows, cols)
}

// Checkpoints

// Checkpoint is a snapshot of training state.
type Checkpoint = nn.Checkpoint

// OptimizerState is implemented by optimizers that serialize their state.
type OptimizerState = nn.OptimizerState

// SaveCheckpoint saves a model, its optimizer state, and the epoch.
func SaveCheckpoint(path string, model *Network, optimizer OptimizerState, epoch int) error {
	return nn.SaveCheckpoint(path, model, optimizer, epoch)
}

// LoadCheckpoint restores a checkpoint into a pre-built model and optimizer.
func LoadCheckpoint(path string, model *Network, optimizer OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, model, optimizer)
}

// LoadNetwork rebuilds a Network from a checkpoint's architecture
// metadata and restores its parameters.
func LoadNetwork(path string) (*Network, error) {
	return nn.LoadNetwork(path)
}
