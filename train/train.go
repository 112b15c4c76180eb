// Copyright 2026 The Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the public API for Primer's generic training
// loop.
package train

import (
	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
	"github.com/primer-ml/primer/internal/train"
)

// Config controls a training run.
type Config = train.Config

// EpochStats records one epoch of training.
type EpochStats = train.EpochStats

// History is the record of a full training run.
type History = train.History

// Trainer drives a network through the train/validate cycle.
type Trainer = train.Trainer

// NewTrainer creates a Trainer.
//
//	trainer := train.NewTrainer(model, optimizer, nn.NewNLLLoss(), train.Config{Epochs: 5})
//	history, err := trainer.Fit(trainLoader, validLoader)
func NewTrainer(model *nn.Network, optimizer optim.Optimizer, criterion nn.Criterion, cfg Config) *Trainer {
	return train.NewTrainer(model, optimizer, criterion, cfg)
}

// Accuracy returns the fraction of rows whose argmax matches the label.
func Accuracy(scores *mat.Dense, labels []int) float64 {
	return train.Accuracy(scores, labels)
}

// Argmax returns the index of the largest value in each row.
func Argmax(m *mat.Dense) []int {
	return train.Argmax(m)
}
