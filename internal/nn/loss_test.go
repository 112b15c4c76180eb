package nn_test

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/nn"
)

// TestNLLLoss verifies the mean negative log likelihood and its
// gradient against hand-computed values.
func TestNLLLoss(t *testing.T) {
	criterion := nn.NewNLLLoss()

	logProbs := mat.NewDense(2, 2, []float64{-0.1, -2.3, -1.2, -0.4})
	targets := []int{0, 1}

	loss := criterion.Forward(logProbs, targets)
	if !floatEqual(loss, 0.25, 1e-12) { // (0.1 + 0.4) / 2
		t.Errorf("loss = %v, want 0.25", loss)
	}

	grad := criterion.Backward()
	want := mat.NewDense(2, 2, []float64{-0.5, 0, 0, -0.5})
	matEqual(t, grad, want, 1e-12)
}

// TestNLLLoss_PerfectPrediction verifies near-zero loss for confident
// correct predictions.
func TestNLLLoss_PerfectPrediction(t *testing.T) {
	criterion := nn.NewNLLLoss()

	// log(~1) for the target class, log(~0) elsewhere.
	logProbs := mat.NewDense(1, 2, []float64{-1e-9, -20})
	loss := criterion.Forward(logProbs, []int{0})

	if loss > 1e-8 {
		t.Errorf("loss = %v, want ~0", loss)
	}
}

// TestNLLLoss_TargetOutOfRange verifies the misuse panic.
func TestNLLLoss_TargetOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out-of-range target should panic")
		}
	}()

	nn.NewNLLLoss().Forward(mat.NewDense(1, 2, []float64{-1, -1}), []int{5})
}

// TestCrossEntropy_MatchesLogSoftmaxNLL verifies the fused loss is
// equivalent to LogSoftmax followed by NLLLoss, in both the loss value
// and the gradient with respect to the logits.
func TestCrossEntropy_MatchesLogSoftmaxNLL(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	logits := mat.NewDense(4, 5, nil)
	targets := make([]int, 4)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			logits.Set(r, c, rng.NormFloat64()*3)
		}
		targets[r] = rng.Intn(5)
	}

	ce := nn.NewCrossEntropyLoss()
	ceLoss := ce.Forward(logits, targets)
	ceGrad := ce.Backward()

	ls := nn.NewLogSoftmax()
	nll := nn.NewNLLLoss()
	nllLoss := nll.Forward(ls.Forward(logits), targets)
	nllGrad := ls.Backward(nll.Backward())

	if !floatEqual(ceLoss, nllLoss, 1e-10) {
		t.Errorf("cross-entropy = %v, logsoftmax+nll = %v", ceLoss, nllLoss)
	}
	matEqual(t, ceGrad, nllGrad, 1e-10)
}

// TestCrossEntropy_LargeLogits verifies the log-sum-exp trick keeps the
// loss finite for logits whose exponentials overflow.
func TestCrossEntropy_LargeLogits(t *testing.T) {
	criterion := nn.NewCrossEntropyLoss()

	logits := mat.NewDense(1, 3, []float64{1000, 1001, 1002})
	loss := criterion.Forward(logits, []int{2})

	// Same as cross-entropy on [0, 1, 2] by shift invariance.
	shifted := nn.NewCrossEntropyLoss().Forward(mat.NewDense(1, 3, []float64{0, 1, 2}), []int{2})
	if !floatEqual(loss, shifted, 1e-9) {
		t.Errorf("loss = %v, shifted = %v", loss, shifted)
	}
}

// TestMSELoss verifies mean((pred-target)²) and its gradient.
func TestMSELoss(t *testing.T) {
	criterion := nn.NewMSELoss()

	pred := mat.NewDense(1, 2, []float64{1, 3})
	targets := mat.NewDense(1, 2, []float64{0, 1})

	loss := criterion.Forward(pred, targets)
	if !floatEqual(loss, 2.5, 1e-12) { // (1 + 4) / 2
		t.Errorf("loss = %v, want 2.5", loss)
	}

	grad := criterion.Backward()
	want := mat.NewDense(1, 2, []float64{1, 2}) // 2(pred-target)/n
	matEqual(t, grad, want, 1e-12)
}

// TestMSELoss_ShapeMismatch verifies the misuse panic.
func TestMSELoss_ShapeMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("shape mismatch should panic")
		}
	}()

	nn.NewMSELoss().Forward(mat.NewDense(1, 2, nil), mat.NewDense(2, 2, nil))
}
