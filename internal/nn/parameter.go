package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable parameter in a neural network.
//
// Parameters are matrices that receive gradients during the backward
// pass. They typically represent weights and biases of layers; biases
// are stored as 1-row matrices so every parameter is a *mat.Dense.
type Parameter struct {
	name  string
	value *mat.Dense
	grad  *mat.Dense // nil until the first backward pass
}

// NewParameter creates a new trainable parameter.
//
// The value matrix should already be initialized. The gradient is
// allocated lazily on the first backward pass.
func NewParameter(name string, value *mat.Dense) *Parameter {
	return &Parameter{name: name, value: value}
}

// Name returns the parameter name (e.g. "weight", "bias").
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter matrix.
func (p *Parameter) Value() *mat.Dense {
	return p.value
}

// Grad returns the accumulated gradient, or nil if no backward pass has
// run since the last ZeroGrad.
func (p *Parameter) Grad() *mat.Dense {
	return p.grad
}

// AddGrad accumulates g into the parameter's gradient.
//
// Accumulation (rather than assignment) gives the PyTorch semantics the
// course relies on: gradients from multiple backward passes sum until
// ZeroGrad is called.
func (p *Parameter) AddGrad(g *mat.Dense) {
	if p.grad == nil {
		r, c := g.Dims()
		p.grad = mat.NewDense(r, c, nil)
	}
	p.grad.Add(p.grad, g)
}

// ZeroGrad clears the gradient.
//
// Call before each training iteration to avoid mixing gradients from
// previous batches.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
