package nn

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ReLU is a Rectified Linear Unit activation module.
//
// Applies the element-wise function f(x) = max(0, x). The backward pass
// passes gradients through only where the input was positive.
type ReLU struct {
	input *mat.Dense
}

// NewReLU creates a new ReLU activation module.
func NewReLU() *ReLU {
	return &ReLU{}
}

// Forward applies f(x) = max(0, x).
func (a *ReLU) Forward(input *mat.Dense) *mat.Dense {
	a.input = input

	r, c := input.Dims()
	output := mat.NewDense(r, c, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, input)

	return output
}

// Backward zeroes the gradient wherever the forward input was non-positive.
func (a *ReLU) Backward(grad *mat.Dense) *mat.Dense {
	if a.input == nil {
		panic("ReLU.Backward: called before Forward")
	}

	r, c := grad.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, g float64) float64 {
		if a.input.At(i, j) > 0 {
			return g
		}
		return 0
	}, grad)

	return out
}

// Parameters returns nil (ReLU has no trainable parameters).
func (a *ReLU) Parameters() []*Parameter {
	return nil
}

// Sigmoid is a sigmoid activation module.
//
// Applies σ(x) = 1 / (1 + exp(-x)), squashing values into (0, 1).
type Sigmoid struct {
	output *mat.Dense
}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid() *Sigmoid {
	return &Sigmoid{}
}

// Forward applies σ(x) = 1 / (1 + exp(-x)).
func (a *Sigmoid) Forward(input *mat.Dense) *mat.Dense {
	r, c := input.Dims()
	output := mat.NewDense(r, c, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return 1.0 / (1.0 + math.Exp(-v))
	}, input)

	a.output = output
	return output
}

// Backward uses σ'(x) = σ(x)(1-σ(x)) on the cached forward output.
func (a *Sigmoid) Backward(grad *mat.Dense) *mat.Dense {
	if a.output == nil {
		panic("Sigmoid.Backward: called before Forward")
	}

	r, c := grad.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, g float64) float64 {
		s := a.output.At(i, j)
		return g * s * (1 - s)
	}, grad)

	return out
}

// Parameters returns nil (Sigmoid has no trainable parameters).
func (a *Sigmoid) Parameters() []*Parameter {
	return nil
}

// Tanh is a hyperbolic tangent activation module.
//
// Squashes values into (-1, 1); zero-centered, which can help training.
type Tanh struct {
	output *mat.Dense
}

// NewTanh creates a new Tanh activation module.
func NewTanh() *Tanh {
	return &Tanh{}
}

// Forward applies tanh element-wise.
func (a *Tanh) Forward(input *mat.Dense) *mat.Dense {
	r, c := input.Dims()
	output := mat.NewDense(r, c, nil)
	output.Apply(func(_, _ int, v float64) float64 {
		return math.Tanh(v)
	}, input)

	a.output = output
	return output
}

// Backward uses tanh'(x) = 1 - tanh(x)² on the cached forward output.
func (a *Tanh) Backward(grad *mat.Dense) *mat.Dense {
	if a.output == nil {
		panic("Tanh.Backward: called before Forward")
	}

	r, c := grad.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, g float64) float64 {
		th := a.output.At(i, j)
		return g * (1 - th*th)
	}, grad)

	return out
}

// Parameters returns nil (Tanh has no trainable parameters).
func (a *Tanh) Parameters() []*Parameter {
	return nil
}
