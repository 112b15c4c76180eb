// Copyright 2026 The Primer Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the public API for optimizers in Primer.
//
// Two algorithms are available, matching the course material:
//   - SGD with optional momentum
//   - Adam with bias correction
//
// Both update parameters in place from the gradients accumulated by the
// backward pass, and both can serialize their buffers into checkpoints.
package optim
