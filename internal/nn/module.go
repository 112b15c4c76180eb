// Package nn implements the building blocks for small feed-forward
// classifiers: parameters, layers, activations, loss functions, and the
// course's convenience Network type.
//
// Gradients are computed by explicit per-layer backward passes, the way
// the course derives them by hand: each Module caches what it needs
// during Forward and propagates the loss gradient back through Backward.
// There is no general-purpose autodiff tape; the arithmetic itself is
// gonum's.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Module is the base interface for all neural network components.
//
// Forward and Backward are stateful: Backward uses values cached by the
// most recent Forward call, so calls must be paired. Backward both
// accumulates gradients into the module's parameters and returns the
// gradient with respect to the module's input, ready to feed the
// previous module in the stack.
//
// Modules compose into networks:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10),
//	    nn.NewLogSoftmax(),
//	)
type Module interface {
	// Forward computes the output of the module for a batch of inputs.
	// Input shape is [batch, features]; the output shape depends on the
	// module type.
	Forward(input *mat.Dense) *mat.Dense

	// Backward propagates the gradient of the loss with respect to the
	// module's output back to its input, accumulating parameter
	// gradients along the way.
	Backward(grad *mat.Dense) *mat.Dense

	// Parameters returns all trainable parameters of this module.
	// Modules without trainable parameters (activations, dropout)
	// return nil.
	Parameters() []*Parameter
}

// StateDicter is implemented by modules that carry serializable state.
// Sequential uses it to collect and restore per-layer parameters.
type StateDicter interface {
	// StateDict returns a map of parameter names to matrices.
	StateDict() map[string]*mat.Dense

	// LoadStateDict loads parameters from a state dictionary,
	// validating shapes before touching any value.
	LoadStateDict(stateDict map[string]*mat.Dense) error
}

// trainable is implemented by modules whose behavior differs between
// training and evaluation (currently only Dropout).
type trainable interface {
	setTraining(training bool)
}
