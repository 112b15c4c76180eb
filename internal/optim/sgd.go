package optim

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// With momentum:
//
//	velocity = momentum * velocity + gradient
//	param    = param - lr * velocity
//
// Momentum accelerates descent along consistent directions and dampens
// oscillations.
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter]*mat.Dense
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // learning rate (default 0.01)
	Momentum float64 // momentum factor (default 0, range [0, 1))
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*mat.Dense),
	}
}

// Step applies one gradient descent update to every parameter with a
// gradient.
func (s *SGD) Step() {
	for _, param := range s.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		value := param.Value().RawMatrix().Data
		g := grad.RawMatrix().Data

		if s.momentum == 0 {
			// param -= lr * grad
			floats.AddScaled(value, -s.lr, g)
			continue
		}

		velocity, ok := s.velocities[param]
		if !ok {
			r, c := grad.Dims()
			velocity = mat.NewDense(r, c, nil)
			s.velocities[param] = velocity
		}

		v := velocity.RawMatrix().Data
		floats.Scale(s.momentum, v)
		floats.Add(v, g)
		floats.AddScaled(value, -s.lr, v)
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate. Useful for schedules.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Name identifies the algorithm for checkpoint metadata.
func (s *SGD) Name() string {
	return "SGD"
}

// StateDict exports velocity buffers keyed "velocity.{param_index}".
// Without momentum there is no state and the map is empty.
func (s *SGD) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)
	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params {
		velocity, ok := s.velocities[param]
		if !ok {
			continue // no step taken for this parameter yet
		}
		stateDict[fmt.Sprintf("velocity.%d", i)] = velocity
	}

	return stateDict
}

// LoadStateDict restores velocity buffers saved by StateDict.
//
// Missing velocities are fine (they initialize on the next step);
// shape mismatches are errors.
func (s *SGD) LoadStateDict(stateDict map[string]*mat.Dense) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[*nn.Parameter]*mat.Dense)

	for i, param := range s.params {
		velocity, ok := stateDict[fmt.Sprintf("velocity.%d", i)]
		if !ok {
			continue
		}

		vr, vc := velocity.Dims()
		pr, pc := param.Value().Dims()
		if vr != pr || vc != pc {
			return fmt.Errorf("velocity shape mismatch for parameter %d: expected [%d %d], got [%d %d]",
				i, pr, pc, vr, vc)
		}

		s.velocities[param] = velocity
	}

	return nil
}
