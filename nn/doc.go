// Copyright 2026 The Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for network definition in Primer.
//
// # Overview
//
// The package exposes the building blocks the course uses to define
// small feed-forward classifiers:
//   - Parameter: a named trainable matrix with an accumulated gradient
//   - Module: the Forward/Backward/Parameters interface
//   - Layers: Linear, ReLU, Sigmoid, Tanh, Dropout, LogSoftmax
//   - Sequential: a container that chains modules
//   - Network: the convenience classifier built from a Config
//   - Losses: NLLLoss, CrossEntropyLoss, MSELoss
//   - Checkpoints: Save/Load of parameters plus architecture metadata
//
// # Basic Usage
//
//	model, err := nn.NewNetwork(nn.Config{
//	    InputSize:   784,
//	    HiddenSizes: []int{128, 64},
//	    OutputSize:  10,
//	    Dropout:     0.2,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	criterion := nn.NewNLLLoss()
//	logProbs := model.Forward(batch)
//	loss := criterion.Forward(logProbs, labels)
//	model.Backward(criterion.Backward())
package nn
