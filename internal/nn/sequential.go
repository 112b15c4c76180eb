package nn

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Sequential is a container module that chains modules together.
//
// Each module's output becomes the next module's input. Backward walks
// the chain in reverse.
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128),
//	    nn.NewReLU(),
//	    nn.NewLinear(128, 10),
//	    nn.NewLogSoftmax(),
//	)
type Sequential struct {
	modules []Module
}

// NewSequential creates a new Sequential container.
func NewSequential(modules ...Module) *Sequential {
	return &Sequential{modules: modules}
}

// Forward applies all modules in order.
func (s *Sequential) Forward(input *mat.Dense) *mat.Dense {
	output := input
	for _, m := range s.modules {
		output = m.Forward(output)
	}
	return output
}

// Backward propagates grad through all modules in reverse order.
func (s *Sequential) Backward(grad *mat.Dense) *mat.Dense {
	for i := len(s.modules) - 1; i >= 0; i-- {
		grad = s.modules[i].Backward(grad)
	}
	return grad
}

// Parameters returns all trainable parameters from all modules.
func (s *Sequential) Parameters() []*Parameter {
	var params []*Parameter
	for _, m := range s.modules {
		params = append(params, m.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential) Add(module Module) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential) Len() int {
	return len(s.modules)
}

// Module returns the module at the given index.
//
// Panics if index is out of bounds.
func (s *Sequential) Module(index int) Module {
	if index < 0 || index >= len(s.modules) {
		panic("Sequential.Module: index out of bounds")
	}
	return s.modules[index]
}

// SetTraining switches every mode-aware module (Dropout) between
// training and evaluation behavior.
func (s *Sequential) SetTraining(training bool) {
	for _, m := range s.modules {
		if t, ok := m.(trainable); ok {
			t.setTraining(training)
		}
	}
}

// StateDict returns parameters from all modules, keyed by module index
// (e.g. "0.weight", "0.bias", "2.weight") to avoid collisions.
func (s *Sequential) StateDict() map[string]*mat.Dense {
	stateDict := make(map[string]*mat.Dense)

	for i, m := range s.modules {
		sd, ok := m.(StateDicter)
		if !ok {
			continue
		}
		for name, value := range sd.StateDict() {
			stateDict[fmt.Sprintf("%d.%s", i, name)] = value
		}
	}

	return stateDict
}

// LoadStateDict loads parameters into the sequence's modules.
//
// Keys must carry the module-index prefix produced by StateDict. All
// shapes are validated against every module before the first value is
// copied, so a mismatched state dict leaves the whole sequence
// untouched rather than half-loaded.
func (s *Sequential) LoadStateDict(stateDict map[string]*mat.Dense) error {
	perModule := make(map[int]map[string]*mat.Dense)
	for i, m := range s.modules {
		sd, ok := m.(StateDicter)
		if !ok {
			continue
		}

		prefix := fmt.Sprintf("%d.", i)
		moduleStateDict := make(map[string]*mat.Dense)
		for key, value := range stateDict {
			if strings.HasPrefix(key, prefix) {
				moduleStateDict[strings.TrimPrefix(key, prefix)] = value
			}
		}
		if len(moduleStateDict) == 0 {
			continue
		}
		perModule[i] = moduleStateDict

		// Check presence and shape against the module's current
		// parameters before anything is mutated.
		for name, current := range sd.StateDict() {
			incoming, ok := moduleStateDict[name]
			if !ok {
				return fmt.Errorf("module %d: missing %s in state dict", i, name)
			}
			wr, wc := current.Dims()
			gr, gc := incoming.Dims()
			if wr != gr || wc != gc {
				return fmt.Errorf("module %d: %s shape mismatch: expected [%d %d], got [%d %d]",
					i, name, wr, wc, gr, gc)
			}
		}
	}

	for i, m := range s.modules {
		moduleStateDict, ok := perModule[i]
		if !ok {
			continue
		}
		if err := m.(StateDicter).LoadStateDict(moduleStateDict); err != nil {
			return fmt.Errorf("failed to load module %d: %w", i, err)
		}
	}

	return nil
}
