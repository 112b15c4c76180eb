package nn

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Dropout randomly zeroes activations during training.
//
// This is inverted dropout: kept activations are scaled by 1/(1-p) so
// the expected activation is unchanged and evaluation needs no
// rescaling. In eval mode the module is the identity.
type Dropout struct {
	p        float64
	training bool
	mask     *mat.Dense // scale factors applied in the last Forward
}

// NewDropout creates a Dropout module that drops activations with
// probability p. Panics if p is outside [0, 1).
func NewDropout(p float64) *Dropout {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("NewDropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout{p: p, training: true}
}

// Forward applies the dropout mask in training mode and is the identity
// in eval mode.
func (d *Dropout) Forward(input *mat.Dense) *mat.Dense {
	if !d.training || d.p == 0 {
		d.mask = nil
		return input
	}

	r, c := input.Dims()
	scale := 1.0 / (1.0 - d.p)

	mask := mat.NewDense(r, c, nil)
	mask.Apply(func(_, _ int, _ float64) float64 {
		if rand.Float64() < d.p {
			return 0
		}
		return scale
	}, mask)

	output := mat.NewDense(r, c, nil)
	output.MulElem(input, mask)

	d.mask = mask
	return output
}

// Backward applies the same mask used in the last Forward.
func (d *Dropout) Backward(grad *mat.Dense) *mat.Dense {
	if d.mask == nil {
		return grad
	}

	r, c := grad.Dims()
	out := mat.NewDense(r, c, nil)
	out.MulElem(grad, d.mask)

	return out
}

// Parameters returns nil (Dropout has no trainable parameters).
func (d *Dropout) Parameters() []*Parameter {
	return nil
}

// P returns the drop probability.
func (d *Dropout) P() float64 {
	return d.p
}

func (d *Dropout) setTraining(training bool) {
	d.training = training
}
