package nn_test

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// TestReLU_Forward tests f(x) = max(0, x).
func TestReLU_Forward(t *testing.T) {
	relu := nn.NewReLU()

	input := mat.NewDense(1, 4, []float64{-2, -0.5, 0, 3})
	output := relu.Forward(input)

	want := mat.NewDense(1, 4, []float64{0, 0, 0, 3})
	matEqual(t, output, want, 0)

	if relu.Parameters() != nil {
		t.Error("ReLU should have no parameters")
	}
}

// TestReLU_Backward verifies gradients pass only where input > 0.
func TestReLU_Backward(t *testing.T) {
	relu := nn.NewReLU()
	relu.Forward(mat.NewDense(1, 4, []float64{-2, -0.5, 0, 3}))

	grad := relu.Backward(mat.NewDense(1, 4, []float64{1, 1, 1, 1}))

	want := mat.NewDense(1, 4, []float64{0, 0, 0, 1})
	matEqual(t, grad, want, 0)
}

// TestSigmoid tests forward values and the σ(x)(1-σ(x)) gradient.
func TestSigmoid(t *testing.T) {
	sigmoid := nn.NewSigmoid()

	output := sigmoid.Forward(mat.NewDense(1, 3, []float64{0, 100, -100}))

	if !floatEqual(output.At(0, 0), 0.5, 1e-12) {
		t.Errorf("sigmoid(0) = %v, want 0.5", output.At(0, 0))
	}
	if !floatEqual(output.At(0, 1), 1.0, 1e-9) {
		t.Errorf("sigmoid(100) = %v, want ~1", output.At(0, 1))
	}
	if !floatEqual(output.At(0, 2), 0.0, 1e-9) {
		t.Errorf("sigmoid(-100) = %v, want ~0", output.At(0, 2))
	}

	// At x=0 the derivative is 0.5 * 0.5 = 0.25.
	grad := sigmoid.Backward(mat.NewDense(1, 3, []float64{2, 1, 1}))
	if !floatEqual(grad.At(0, 0), 0.5, 1e-12) {
		t.Errorf("grad at x=0 = %v, want 0.5", grad.At(0, 0))
	}
}

// TestTanh tests forward values and the 1-tanh(x)² gradient.
func TestTanh(t *testing.T) {
	tanh := nn.NewTanh()

	output := tanh.Forward(mat.NewDense(1, 3, []float64{0, 1, -1}))

	if !floatEqual(output.At(0, 0), 0, 1e-12) {
		t.Errorf("tanh(0) = %v, want 0", output.At(0, 0))
	}
	if !floatEqual(output.At(0, 1), 0.7615941559557649, 1e-12) {
		t.Errorf("tanh(1) = %v", output.At(0, 1))
	}
	if !floatEqual(output.At(0, 2), -output.At(0, 1), 1e-12) {
		t.Error("tanh should be odd")
	}

	// At x=0 the derivative is 1.
	grad := tanh.Backward(mat.NewDense(1, 3, []float64{3, 1, 1}))
	if !floatEqual(grad.At(0, 0), 3, 1e-12) {
		t.Errorf("grad at x=0 = %v, want 3", grad.At(0, 0))
	}
}

// TestActivation_BackwardBeforeForward verifies the misuse panics.
func TestActivation_BackwardBeforeForward(t *testing.T) {
	tests := []struct {
		name   string
		module nn.Module
	}{
		{"relu", nn.NewReLU()},
		{"sigmoid", nn.NewSigmoid()},
		{"tanh", nn.NewTanh()},
		{"logsoftmax", nn.NewLogSoftmax()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Backward before Forward should panic")
				}
			}()
			tt.module.Backward(mat.NewDense(1, 2, nil))
		})
	}
}
