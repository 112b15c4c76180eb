package nn

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Softmax converts a slice of scores into a probability distribution:
// each value becomes exp(v) divided by the sum of exps.
//
// The computation subtracts the maximum score first (log-sum-exp trick)
// so large-magnitude scores do not overflow float64.
func Softmax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	max := floats.Max(scores)
	var sum float64
	for i, v := range scores {
		out[i] = math.Exp(v - max)
		sum += out[i]
	}
	floats.Scale(1/sum, out)

	return out
}

// LogSoftmax is an output module computing row-wise log-probabilities.
//
// For each row: logsoftmax(x)_i = x_i - max(x) - log(Σ exp(x_j - max(x))).
// Pairs with NLLLoss for classification; the pair is equivalent to
// CrossEntropyLoss on raw logits.
type LogSoftmax struct {
	output *mat.Dense // cached log-probabilities
}

// NewLogSoftmax creates a new LogSoftmax module.
func NewLogSoftmax() *LogSoftmax {
	return &LogSoftmax{}
}

// Forward computes log-probabilities for each row of input.
func (s *LogSoftmax) Forward(input *mat.Dense) *mat.Dense {
	rows, cols := input.Dims()
	output := mat.NewDense(rows, cols, nil)

	for r := 0; r < rows; r++ {
		row := input.RawRowView(r)
		out := output.RawRowView(r)

		max := floats.Max(row)
		var sum float64
		for _, v := range row {
			sum += math.Exp(v - max)
		}
		logSum := max + math.Log(sum)

		for c, v := range row {
			out[c] = v - logSum
		}
	}

	s.output = output
	return output
}

// Backward propagates grad through the log-softmax.
//
// Row-wise: dL/dx = g - softmax(x) * Σ g, using the cached
// log-probabilities (softmax = exp(logsoftmax)).
func (s *LogSoftmax) Backward(grad *mat.Dense) *mat.Dense {
	if s.output == nil {
		panic("LogSoftmax.Backward: called before Forward")
	}

	rows, cols := grad.Dims()
	out := mat.NewDense(rows, cols, nil)

	for r := 0; r < rows; r++ {
		gRow := grad.RawRowView(r)
		lpRow := s.output.RawRowView(r)
		oRow := out.RawRowView(r)

		gSum := floats.Sum(gRow)
		for c := 0; c < cols; c++ {
			oRow[c] = gRow[c] - math.Exp(lpRow[c])*gSum
		}
	}

	return out
}

// Parameters returns nil (LogSoftmax has no trainable parameters).
func (s *LogSoftmax) Parameters() []*Parameter {
	return nil
}
