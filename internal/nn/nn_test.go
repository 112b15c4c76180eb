package nn_test

import (
	"math"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// Helper to check if values are approximately equal.
func floatEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// matEqual compares every element of two matrices.
func matEqual(t *testing.T, got, want *mat.Dense, epsilon float64) {
	t.Helper()

	gr, gc := got.Dims()
	wr, wc := want.Dims()
	if gr != wr || gc != wc {
		t.Fatalf("shape mismatch: got [%d %d], want [%d %d]", gr, gc, wr, wc)
	}
	for r := 0; r < gr; r++ {
		for c := 0; c < gc; c++ {
			if !floatEqual(got.At(r, c), want.At(r, c), epsilon) {
				t.Errorf("at (%d,%d): got %v, want %v", r, c, got.At(r, c), want.At(r, c))
			}
		}
	}
}

// TestParameter tests Parameter creation and gradient accumulation.
func TestParameter(t *testing.T) {
	value := mat.NewDense(1, 3, []float64{1, 2, 3})
	param := nn.NewParameter("test_param", value)

	if param.Name() != "test_param" {
		t.Errorf("Name() = %s, want test_param", param.Name())
	}
	if param.Value() != value {
		t.Error("Value() should return the original matrix")
	}
	if param.Grad() != nil {
		t.Error("Grad() should initially be nil")
	}

	// First AddGrad allocates the gradient.
	param.AddGrad(mat.NewDense(1, 3, []float64{0.1, 0.2, 0.3}))
	if param.Grad() == nil {
		t.Fatal("AddGrad() should allocate the gradient")
	}
	if !floatEqual(param.Grad().At(0, 1), 0.2, 1e-12) {
		t.Errorf("grad[1] = %v, want 0.2", param.Grad().At(0, 1))
	}

	// Second AddGrad accumulates rather than overwrites.
	param.AddGrad(mat.NewDense(1, 3, []float64{1, 1, 1}))
	if !floatEqual(param.Grad().At(0, 1), 1.2, 1e-12) {
		t.Errorf("grad[1] after second AddGrad = %v, want 1.2", param.Grad().At(0, 1))
	}

	param.ZeroGrad()
	if param.Grad() != nil {
		t.Error("ZeroGrad() should clear the gradient")
	}
}

// TestLinear_Creation tests Linear layer initialization.
func TestLinear_Creation(t *testing.T) {
	layer := nn.NewLinear(10, 5)

	if layer.InFeatures() != 10 {
		t.Errorf("InFeatures() = %d, want 10", layer.InFeatures())
	}
	if layer.OutFeatures() != 5 {
		t.Errorf("OutFeatures() = %d, want 5", layer.OutFeatures())
	}

	// Weight shape is [out_features, in_features].
	if r, c := layer.Weight().Value().Dims(); r != 5 || c != 10 {
		t.Errorf("weight shape = [%d %d], want [5 10]", r, c)
	}

	// Bias is a zero row vector.
	bias := layer.Bias().Value()
	if r, c := bias.Dims(); r != 1 || c != 5 {
		t.Errorf("bias shape = [%d %d], want [1 5]", r, c)
	}
	for c := 0; c < 5; c++ {
		if bias.At(0, c) != 0 {
			t.Errorf("bias[%d] = %v, want 0", c, bias.At(0, c))
		}
	}

	if len(layer.Parameters()) != 2 {
		t.Errorf("Parameters() returned %d params, want 2", len(layer.Parameters()))
	}
}

// TestLinear_Forward checks y = x @ W.T + b against hand-computed values.
func TestLinear_Forward(t *testing.T) {
	layer := nn.NewLinear(2, 2)
	err := layer.LoadStateDict(map[string]*mat.Dense{
		"weight": mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		"bias":   mat.NewDense(1, 2, []float64{0.5, -0.5}),
	})
	if err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	input := mat.NewDense(2, 2, []float64{1, 1, 2, 0})
	output := layer.Forward(input)

	// Row 0: [1*1+1*2, 1*3+1*4] + b = [3.5, 6.5]
	// Row 1: [2*1+0*2, 2*3+0*4] + b = [2.5, 5.5]
	want := mat.NewDense(2, 2, []float64{3.5, 6.5, 2.5, 5.5})
	matEqual(t, output, want, 1e-12)
}

// TestLinear_Backward checks the weight, bias, and input gradients
// against hand-computed values.
func TestLinear_Backward(t *testing.T) {
	layer := nn.NewLinear(2, 2)
	if err := layer.LoadStateDict(map[string]*mat.Dense{
		"weight": mat.NewDense(2, 2, []float64{1, 2, 3, 4}),
		"bias":   mat.NewDense(1, 2, []float64{0, 0}),
	}); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	input := mat.NewDense(2, 2, []float64{1, 1, 2, 0})
	layer.Forward(input)

	grad := mat.NewDense(2, 2, []float64{1, 0, 0, 1})
	gradInput := layer.Backward(grad)

	// dL/dW = grad.T @ x
	matEqual(t, layer.Weight().Grad(), mat.NewDense(2, 2, []float64{1, 1, 2, 0}), 1e-12)

	// dL/db = column sums of grad
	matEqual(t, layer.Bias().Grad(), mat.NewDense(1, 2, []float64{1, 1}), 1e-12)

	// dL/dx = grad @ W
	matEqual(t, gradInput, mat.NewDense(2, 2, []float64{1, 2, 3, 4}), 1e-12)
}

// TestLinear_BackwardBeforeForward verifies the misuse panic.
func TestLinear_BackwardBeforeForward(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Backward before Forward should panic")
		}
	}()

	nn.NewLinear(2, 2).Backward(mat.NewDense(1, 2, nil))
}

// TestLinear_LoadStateDict_ShapeMismatch verifies that loading weights
// from a differently sized layer fails without modifying the layer.
func TestLinear_LoadStateDict_ShapeMismatch(t *testing.T) {
	layer := nn.NewLinear(4, 3)
	before := mat.DenseCopyOf(layer.Weight().Value())

	err := layer.LoadStateDict(map[string]*mat.Dense{
		"weight": mat.NewDense(3, 5, nil), // wrong in_features
		"bias":   mat.NewDense(1, 3, nil),
	})
	if err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if !strings.Contains(err.Error(), "shape mismatch") {
		t.Errorf("error %q should mention shape mismatch", err)
	}

	matEqual(t, layer.Weight().Value(), before, 0)
}

// TestSequential_ForwardBackward verifies the chain runs in order and
// reverse order.
func TestSequential_ForwardBackward(t *testing.T) {
	model := nn.NewSequential(
		nn.NewLinear(4, 3),
		nn.NewReLU(),
		nn.NewLinear(3, 2),
	)

	if model.Len() != 3 {
		t.Errorf("Len() = %d, want 3", model.Len())
	}
	if len(model.Parameters()) != 4 {
		t.Errorf("Parameters() returned %d params, want 4", len(model.Parameters()))
	}

	input := mat.NewDense(5, 4, nil)
	output := model.Forward(input)
	if r, c := output.Dims(); r != 5 || c != 2 {
		t.Fatalf("output shape = [%d %d], want [5 2]", r, c)
	}

	gradInput := model.Backward(mat.NewDense(5, 2, nil))
	if r, c := gradInput.Dims(); r != 5 || c != 4 {
		t.Errorf("gradInput shape = [%d %d], want [5 4]", r, c)
	}
}

// TestSequential_StateDict verifies module-index key prefixes and the
// load round trip.
func TestSequential_StateDict(t *testing.T) {
	model := nn.NewSequential(
		nn.NewLinear(4, 3),
		nn.NewReLU(),
		nn.NewLinear(3, 2),
	)

	stateDict := model.StateDict()
	for _, key := range []string{"0.weight", "0.bias", "2.weight", "2.bias"} {
		if _, ok := stateDict[key]; !ok {
			t.Errorf("StateDict() missing key %q", key)
		}
	}
	if len(stateDict) != 4 {
		t.Errorf("StateDict() has %d entries, want 4", len(stateDict))
	}

	// Load the state into a fresh model with the same architecture and
	// check both produce identical outputs.
	clone := nn.NewSequential(
		nn.NewLinear(4, 3),
		nn.NewReLU(),
		nn.NewLinear(3, 2),
	)
	if err := clone.LoadStateDict(stateDict); err != nil {
		t.Fatalf("LoadStateDict: %v", err)
	}

	input := mat.NewDense(2, 4, []float64{1, -2, 3, 0.5, 0, 1, -1, 2})
	matEqual(t, clone.Forward(input), model.Forward(input), 1e-12)
}

// TestSequential_LoadStateDict_PartialMismatchLeavesModelUntouched
// verifies all shapes are validated before any value is copied: a
// state dict whose early layers match but whose last layer does not
// must fail without mutating the matching layers.
func TestSequential_LoadStateDict_PartialMismatchLeavesModelUntouched(t *testing.T) {
	model := nn.NewSequential(
		nn.NewLinear(4, 3),
		nn.NewReLU(),
		nn.NewLinear(3, 2),
	)
	before := mat.DenseCopyOf(model.Module(0).(*nn.Linear).Weight().Value())

	// Same first layer shape, different last layer shape.
	source := nn.NewSequential(
		nn.NewLinear(4, 3),
		nn.NewReLU(),
		nn.NewLinear(3, 5),
	)

	err := model.LoadStateDict(source.StateDict())
	if err == nil {
		t.Fatal("expected shape mismatch error")
	}
	if !strings.Contains(err.Error(), "shape mismatch") {
		t.Errorf("error %q should mention shape mismatch", err)
	}

	matEqual(t, model.Module(0).(*nn.Linear).Weight().Value(), before, 0)
}

// TestXavier verifies the initialization bound sqrt(6/(fanIn+fanOut)).
func TestXavier(t *testing.T) {
	m := nn.Xavier(50, 40, 40, 50)
	limit := math.Sqrt(6.0 / float64(40+50))

	r, c := m.Dims()
	if r != 50 || c != 40 {
		t.Fatalf("shape = [%d %d], want [50 40]", r, c)
	}

	var nonZero bool
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.Abs(v) > limit {
				t.Fatalf("value %v outside Xavier bound %v", v, limit)
			}
			if v != 0 {
				nonZero = true
			}
		}
	}
	if !nonZero {
		t.Error("Xavier initialization produced an all-zero matrix")
	}
}
