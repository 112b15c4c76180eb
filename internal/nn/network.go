package nn

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Config describes a Network's architecture.
//
// The same struct is stored in checkpoint headers, so a saved network
// can be rebuilt identically before its parameters are restored.
type Config struct {
	InputSize   int     // number of input features (e.g. 784 for MNIST)
	HiddenSizes []int   // one entry per hidden layer
	OutputSize  int     // number of classes
	Dropout     float64 // drop probability between hidden layers (0 disables)
}

func (c Config) validate() error {
	if c.InputSize <= 0 {
		return fmt.Errorf("input size must be positive, got %d", c.InputSize)
	}
	if c.OutputSize <= 0 {
		return fmt.Errorf("output size must be positive, got %d", c.OutputSize)
	}
	for i, h := range c.HiddenSizes {
		if h <= 0 {
			return fmt.Errorf("hidden layer %d size must be positive, got %d", i, h)
		}
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

// Network is the course's feed-forward classifier.
//
// Architecture: for each hidden size H, a Linear layer followed by ReLU
// and (optionally) Dropout; then a final Linear to the output size and
// LogSoftmax. Outputs are log-probabilities, so the natural loss is
// NLLLoss.
//
//	model, err := nn.NewNetwork(nn.Config{
//	    InputSize:   784,
//	    HiddenSizes: []int{128, 64},
//	    OutputSize:  10,
//	    Dropout:     0.2,
//	})
type Network struct {
	cfg Config
	seq *Sequential
}

// NewNetwork creates a Network from a Config.
//
// Weights use Xavier initialization, biases start at zero.
func NewNetwork(cfg Config) (*Network, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid network config: %w", err)
	}

	seq := NewSequential()
	in := cfg.InputSize
	for _, h := range cfg.HiddenSizes {
		seq.Add(NewLinear(in, h))
		seq.Add(NewReLU())
		if cfg.Dropout > 0 {
			seq.Add(NewDropout(cfg.Dropout))
		}
		in = h
	}
	seq.Add(NewLinear(in, cfg.OutputSize))
	seq.Add(NewLogSoftmax())

	return &Network{cfg: cfg, seq: seq}, nil
}

// Forward returns log-probabilities with shape [batch, OutputSize].
func (n *Network) Forward(input *mat.Dense) *mat.Dense {
	return n.seq.Forward(input)
}

// Backward propagates the loss gradient through the network.
func (n *Network) Backward(grad *mat.Dense) *mat.Dense {
	return n.seq.Backward(grad)
}

// Parameters returns all trainable parameters.
func (n *Network) Parameters() []*Parameter {
	return n.seq.Parameters()
}

// Config returns the architecture description.
func (n *Network) Config() Config {
	return n.cfg
}

// Train puts the network in training mode (dropout active).
func (n *Network) Train() {
	n.seq.SetTraining(true)
}

// Eval puts the network in evaluation mode (dropout off).
func (n *Network) Eval() {
	n.seq.SetTraining(false)
}

// Predict returns the most likely class index for each input row.
func (n *Network) Predict(input *mat.Dense) []int {
	logProbs := n.Forward(input)

	rows, cols := logProbs.Dims()
	preds := make([]int, rows)
	for r := 0; r < rows; r++ {
		row := logProbs.RawRowView(r)
		best := 0
		for c := 1; c < cols; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		preds[r] = best
	}

	return preds
}

// StateDict returns all parameters keyed by layer index and name.
func (n *Network) StateDict() map[string]*mat.Dense {
	return n.seq.StateDict()
}

// LoadStateDict restores parameters, validating shapes first.
func (n *Network) LoadStateDict(stateDict map[string]*mat.Dense) error {
	return n.seq.LoadStateDict(stateDict)
}
