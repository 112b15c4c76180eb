package optim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam keeps exponential moving averages of gradients (first moment)
// and squared gradients (second moment), with bias correction for the
// zero initialization:
//
//	m_t = beta1 * m_{t-1} + (1-beta1) * g
//	v_t = beta2 * v_{t-1} + (1-beta2) * g²
//	m̂   = m_t / (1 - beta1^t)
//	v̂   = v_t / (1 - beta2^t)
//	param = param - lr * m̂ / (sqrt(v̂) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization"
// (Kingma & Ba, 2014).
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int // timestep for bias correction
	m      map[*nn.Parameter]*mat.Dense
	v      map[*nn.Parameter]*mat.Dense
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64    // learning rate (default 0.001)
	Betas [2]float64 // moment decay rates (default [0.9, 0.999])
	Eps   float64    // numerical stability term (default 1e-8)
}

// NewAdam creates a new Adam optimizer over the given parameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}

	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*nn.Parameter]*mat.Dense),
		v:      make(map[*nn.Parameter]*mat.Dense),
	}
}

// Step applies one Adam update to every parameter with a gradient.
func (a *Adam) Step() {
	a.t++

	biasCorrection1 := 1.0 - math.Pow(a.beta1, float64(a.t))
	biasCorrection2 := 1.0 - math.Pow(a.beta2, float64(a.t))

	for _, param := range a.params {
		grad := param.Grad()
		if grad == nil {
			continue
		}

		m, ok := a.m[param]
		if !ok {
			r, c := grad.Dims()
			m = mat.NewDense(r, c, nil)
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			r, c := grad.Dims()
			v = mat.NewDense(r, c, nil)
			a.v[param] = v
		}

		g := grad.RawMatrix().Data
		mData := m.RawMatrix().Data
		vData := v.RawMatrix().Data
		value := param.Value().RawMatrix().Data

		for i := range value {
			mData[i] = a.beta1*mData[i] + (1.0-a.beta1)*g[i]
			vData[i] = a.beta2*vData[i] + (1.0-a.beta2)*g[i]*g[i]

			mHat := mData[i] / biasCorrection1
			vHat := vData[i] / biasCorrection2

			value[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// ZeroGrad clears gradients for all parameters.
func (a *Adam) ZeroGrad() {
	zeroGrads(a.params)
}

// LR returns the current learning rate.
func (a *Adam) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate. Useful for schedules.
func (a *Adam) SetLR(lr float64) {
	a.lr = lr
}

// Name identifies the algorithm for checkpoint metadata.
func (a *Adam) Name() string {
	return "Adam"
}

// Timestep returns the number of steps taken. Useful for monitoring.
func (a *Adam) Timestep() int {
	return a.t
}

// StateDict exports the moment buffers ("m.{i}", "v.{i}") and the
// timestep (a 1×1 matrix under "t") so a resumed run keeps its bias
// correction schedule.
func (a *Adam) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)
	stateDict["t"] = mat.NewDense(1, 1, []float64{float64(a.t)})

	for i, param := range a.params {
		if m, ok := a.m[param]; ok {
			stateDict[fmt.Sprintf("m.%d", i)] = m
		}
		if v, ok := a.v[param]; ok {
			stateDict[fmt.Sprintf("v.%d", i)] = v
		}
	}

	return stateDict
}

// LoadStateDict restores moment buffers and the timestep.
func (a *Adam) LoadStateDict(stateDict map[string]*mat.Dense) error {
	if t, ok := stateDict["t"]; ok {
		a.t = int(t.At(0, 0))
	}

	a.m = make(map[*nn.Parameter]*mat.Dense)
	a.v = make(map[*nn.Parameter]*mat.Dense)

	for i, param := range a.params {
		pr, pc := param.Value().Dims()

		if m, ok := stateDict[fmt.Sprintf("m.%d", i)]; ok {
			if mr, mc := m.Dims(); mr != pr || mc != pc {
				return fmt.Errorf("first moment shape mismatch for parameter %d: expected [%d %d], got [%d %d]",
					i, pr, pc, mr, mc)
			}
			a.m[param] = m
		}
		if v, ok := stateDict[fmt.Sprintf("v.%d", i)]; ok {
			if vr, vc := v.Dims(); vr != pr || vc != pc {
				return fmt.Errorf("second moment shape mismatch for parameter %d: expected [%d %d], got [%d %d]",
					i, pr, pc, vr, vc)
			}
			a.v[param] = v
		}
	}

	return nil
}
