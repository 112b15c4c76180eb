package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input with shape [batch, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias row vector with shape [1, out_features]
//   - y is the output with shape [batch, out_features]
//
// Weights use Xavier/Glorot initialization; biases start at zero.
type Linear struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter // [out_features, in_features]
	bias        *Parameter // [1, out_features]

	input *mat.Dense // cached by Forward for the backward pass
}

// NewLinear creates a new Linear layer.
func NewLinear(inFeatures, outFeatures int) *Linear {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("NewLinear: sizes must be positive, got %d, %d", inFeatures, outFeatures))
	}

	return &Linear{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", Xavier(outFeatures, inFeatures, inFeatures, outFeatures)),
		bias:        NewParameter("bias", Zeros(1, outFeatures)),
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch, in_features]. Output shape: [batch, out_features].
func (l *Linear) Forward(input *mat.Dense) *mat.Dense {
	_, cols := input.Dims()
	if cols != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, cols))
	}

	l.input = input

	rows, _ := input.Dims()
	output := mat.NewDense(rows, l.outFeatures, nil)
	output.Mul(input, l.weight.Value().T())

	// Broadcast the bias row across the batch.
	bias := l.bias.Value().RawRowView(0)
	for r := 0; r < rows; r++ {
		row := output.RawRowView(r)
		for c := range row {
			row[c] += bias[c]
		}
	}

	return output
}

// Backward propagates grad through the layer.
//
// Given dL/dy with shape [batch, out_features], it accumulates
//
//	dL/dW = grad.T @ x       [out_features, in_features]
//	dL/db = column sums of grad
//
// and returns dL/dx = grad @ W with shape [batch, in_features].
func (l *Linear) Backward(grad *mat.Dense) *mat.Dense {
	if l.input == nil {
		panic("Linear.Backward: called before Forward")
	}

	batch, cols := grad.Dims()
	if cols != l.outFeatures {
		panic(fmt.Sprintf("Linear.Backward: expected gradient with %d features, got %d", l.outFeatures, cols))
	}

	gradW := mat.NewDense(l.outFeatures, l.inFeatures, nil)
	gradW.Mul(grad.T(), l.input)
	l.weight.AddGrad(gradW)

	gradB := mat.NewDense(1, l.outFeatures, nil)
	bRow := gradB.RawRowView(0)
	for r := 0; r < batch; r++ {
		row := grad.RawRowView(r)
		for c := range row {
			bRow[c] += row[c]
		}
	}
	l.bias.AddGrad(gradB)

	gradInput := mat.NewDense(batch, l.inFeatures, nil)
	gradInput.Mul(grad, l.weight.Value())

	return gradInput
}

// Parameters returns [weight, bias].
func (l *Linear) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Linear) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear) Bias() *Parameter {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear) OutFeatures() int {
	return l.outFeatures
}

// StateDict returns the layer's parameters keyed by name.
func (l *Linear) StateDict() map[string]*mat.Dense {
	return map[string]*mat.Dense{
		"weight": l.weight.Value(),
		"bias":   l.bias.Value(),
	}
}

// LoadStateDict loads weight and bias from a state dictionary.
//
// Shapes are validated before any value is copied: loading a checkpoint
// saved from a differently sized layer fails with a shape-mismatch
// error instead of silently corrupting the layer.
func (l *Linear) LoadStateDict(stateDict map[string]*mat.Dense) error {
	weight, ok := stateDict["weight"]
	if !ok {
		return fmt.Errorf("missing weight in state dict")
	}
	if r, c := weight.Dims(); r != l.outFeatures || c != l.inFeatures {
		return fmt.Errorf("weight shape mismatch: expected [%d %d], got [%d %d]",
			l.outFeatures, l.inFeatures, r, c)
	}

	bias, ok := stateDict["bias"]
	if !ok {
		return fmt.Errorf("missing bias in state dict")
	}
	if r, c := bias.Dims(); r != 1 || c != l.outFeatures {
		return fmt.Errorf("bias shape mismatch: expected [1 %d], got [%d %d]",
			l.outFeatures, r, c)
	}

	l.weight.Value().Copy(weight)
	l.bias.Value().Copy(bias)

	return nil
}
