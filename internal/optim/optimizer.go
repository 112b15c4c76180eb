// Package optim implements optimization algorithms for training.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: stochastic gradient descent with optional momentum
//   - Adam: adaptive moment estimation
//
// Optimizers read gradients accumulated on nn.Parameter values by the
// backward pass and update the parameter matrices in place:
//
//	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.01, Momentum: 0.9})
//
//	for batch := range batches {
//	    optimizer.ZeroGrad()
//	    out := model.Forward(batch.X)
//	    loss := criterion.Forward(out, batch.Labels)
//	    model.Backward(criterion.Backward())
//	    optimizer.Step()
//	}
package optim

import (
	"github.com/primer-ml/primer/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// Step applies one update to every parameter that has a gradient.
	// Parameters whose gradient is nil are skipped.
	Step()

	// ZeroGrad clears all parameter gradients. Call before each
	// backward pass to prevent accumulation across batches.
	ZeroGrad()

	// LR returns the current learning rate.
	LR() float64
}

// zeroGrads clears gradients on a parameter list; shared by all
// optimizers.
func zeroGrads(params []*nn.Parameter) {
	for _, p := range params {
		p.ZeroGrad()
	}
}
