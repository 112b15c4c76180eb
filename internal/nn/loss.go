package nn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Criterion is a classification loss: it scores a batch of predictions
// against integer class labels and produces the gradient with respect
// to the predictions for the backward pass.
type Criterion interface {
	// Forward computes the mean loss over the batch.
	Forward(pred *mat.Dense, targets []int) float64

	// Backward returns dLoss/dPred for the most recent Forward call.
	Backward() *mat.Dense
}

// NLLLoss computes the negative log likelihood loss.
//
// Expects log-probabilities as input (the output of LogSoftmax):
//
//	loss = -mean(logProbs[i, target_i])
//
// The LogSoftmax + NLLLoss pair is how the course builds classifiers;
// it is equivalent to CrossEntropyLoss on raw logits.
type NLLLoss struct {
	logProbs *mat.Dense
	targets  []int
}

// NewNLLLoss creates a new negative log likelihood loss.
func NewNLLLoss() *NLLLoss {
	return &NLLLoss{}
}

// Forward computes the mean negative log likelihood.
//
// logProbs has shape [batch, classes]; targets holds one class index
// per row.
func (l *NLLLoss) Forward(logProbs *mat.Dense, targets []int) float64 {
	rows, cols := logProbs.Dims()
	if len(targets) != rows {
		panic(fmt.Sprintf("NLLLoss: %d rows but %d targets", rows, len(targets)))
	}

	var sum float64
	for i, t := range targets {
		if t < 0 || t >= cols {
			panic(fmt.Sprintf("NLLLoss: target %d out of range [0, %d)", t, cols))
		}
		sum -= logProbs.At(i, t)
	}

	l.logProbs = logProbs
	l.targets = targets

	return sum / float64(rows)
}

// Backward returns dLoss/dLogProbs: -1/batch at each target index.
func (l *NLLLoss) Backward() *mat.Dense {
	if l.logProbs == nil {
		panic("NLLLoss.Backward: called before Forward")
	}

	rows, cols := l.logProbs.Dims()
	grad := mat.NewDense(rows, cols, nil)
	inv := 1.0 / float64(rows)
	for i, t := range l.targets {
		grad.Set(i, t, -inv)
	}

	return grad
}

// CrossEntropyLoss computes cross-entropy loss on raw logits.
//
// Uses the log-sum-exp trick for numerical stability:
//
//	loss_i = log(Σ exp(logit_ij - max_i)) + max_i - logit_i,target
//
// The gradient is the classic softmax-minus-one-hot, averaged over the
// batch. Prefer this over a separate Softmax layer followed by a log:
// the fused form cannot overflow for large logits.
type CrossEntropyLoss struct {
	logits  *mat.Dense
	targets []int
}

// NewCrossEntropyLoss creates a new cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Forward computes the mean cross-entropy over the batch.
//
// logits has shape [batch, classes]; targets holds one class index per
// row.
func (l *CrossEntropyLoss) Forward(logits *mat.Dense, targets []int) float64 {
	rows, cols := logits.Dims()
	if len(targets) != rows {
		panic(fmt.Sprintf("CrossEntropyLoss: %d rows but %d targets", rows, len(targets)))
	}

	var sum float64
	for i, t := range targets {
		if t < 0 || t >= cols {
			panic(fmt.Sprintf("CrossEntropyLoss: target %d out of range [0, %d)", t, cols))
		}

		row := logits.RawRowView(i)
		max := floats.Max(row)
		var expSum float64
		for _, v := range row {
			expSum += math.Exp(v - max)
		}
		sum += math.Log(expSum) + max - row[t]
	}

	l.logits = logits
	l.targets = targets

	return sum / float64(rows)
}

// Backward returns dLoss/dLogits = (softmax(logits) - onehot) / batch.
func (l *CrossEntropyLoss) Backward() *mat.Dense {
	if l.logits == nil {
		panic("CrossEntropyLoss.Backward: called before Forward")
	}

	rows, cols := l.logits.Dims()
	grad := mat.NewDense(rows, cols, nil)
	inv := 1.0 / float64(rows)

	for i := 0; i < rows; i++ {
		probs := Softmax(l.logits.RawRowView(i))
		out := grad.RawRowView(i)
		for c := 0; c < cols; c++ {
			out[c] = probs[c] * inv
		}
		out[l.targets[i]] -= inv
	}

	return grad
}

// MSELoss computes mean squared error: mean((pred - target)²).
//
// Used in the regression exercises; classification lessons use NLLLoss
// or CrossEntropyLoss.
type MSELoss struct {
	pred    *mat.Dense
	targets *mat.Dense
}

// NewMSELoss creates a new mean squared error loss.
func NewMSELoss() *MSELoss {
	return &MSELoss{}
}

// Forward computes the mean squared error over all elements.
func (l *MSELoss) Forward(pred, targets *mat.Dense) float64 {
	pr, pc := pred.Dims()
	tr, tc := targets.Dims()
	if pr != tr || pc != tc {
		panic(fmt.Sprintf("MSELoss: shape mismatch [%d %d] vs [%d %d]", pr, pc, tr, tc))
	}

	var sum float64
	for r := 0; r < pr; r++ {
		p := pred.RawRowView(r)
		t := targets.RawRowView(r)
		for c := range p {
			d := p[c] - t[c]
			sum += d * d
		}
	}

	l.pred = pred
	l.targets = targets

	return sum / float64(pr*pc)
}

// Backward returns dLoss/dPred = 2(pred - target) / n.
func (l *MSELoss) Backward() *mat.Dense {
	if l.pred == nil {
		panic("MSELoss.Backward: called before Forward")
	}

	rows, cols := l.pred.Dims()
	grad := mat.NewDense(rows, cols, nil)
	grad.Sub(l.pred, l.targets)
	grad.Scale(2.0/float64(rows*cols), grad)

	return grad
}
