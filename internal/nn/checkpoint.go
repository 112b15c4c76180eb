package nn

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/internal/serialization"
)

const optimizerPrefix = "optimizer."

// OptimizerState is implemented by optimizers that can save and restore
// their internal buffers (momentum velocities, Adam moments). It is
// declared here rather than in the optim package to avoid an import
// cycle, the same way the checkpoint layer decouples from concrete
// optimizers.
type OptimizerState interface {
	// StateDict returns the optimizer's buffers for serialization.
	StateDict() map[string]*mat.Dense

	// LoadStateDict restores the optimizer's buffers.
	LoadStateDict(stateDict map[string]*mat.Dense) error

	// Name identifies the algorithm ("SGD", "Adam").
	Name() string

	// LR returns the current learning rate.
	LR() float64
}

// Checkpoint is a snapshot of training state: the model's parameters,
// the optimizer's buffers, and where training was (epoch, step, loss).
//
// The saved file also records the network architecture, so LoadNetwork
// can rebuild an identical model without the caller reconstructing it.
//
//	ckpt := &nn.Checkpoint{Model: model, Optimizer: opt, Epoch: 4, Loss: 0.31}
//	if err := ckpt.Save("model.primer"); err != nil { ... }
type Checkpoint struct {
	Model     *Network
	Optimizer OptimizerState // optional; nil saves the model alone
	Epoch     int
	Step      int64
	Loss      float64
	Metadata  map[string]string
	CreatedAt time.Time
}

// Save writes the checkpoint to a .primer file.
func (c *Checkpoint) Save(path string) (err error) {
	if c.Model == nil {
		return fmt.Errorf("checkpoint has no model")
	}

	stateDict := c.Model.StateDict()

	ckptMeta := &serialization.CheckpointMeta{
		Epoch: c.Epoch,
		Step:  c.Step,
		Loss:  c.Loss,
	}

	if c.Optimizer != nil {
		for name, value := range c.Optimizer.StateDict() {
			stateDict[optimizerPrefix+name] = value
		}
		ckptMeta.OptimizerType = c.Optimizer.Name()
		ckptMeta.OptimizerConfig = map[string]float64{"lr": c.Optimizer.LR()}
	}

	cfg := c.Model.Config()
	header := serialization.Header{
		ModelType: "Network",
		CreatedAt: c.CreatedAt,
		Arch: &serialization.ArchMeta{
			InputSize:   cfg.InputSize,
			HiddenSizes: cfg.HiddenSizes,
			OutputSize:  cfg.OutputSize,
			Dropout:     cfg.Dropout,
		},
		Metadata:   c.Metadata,
		Checkpoint: ckptMeta,
	}

	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if err := writer.WriteStateDict(stateDict, header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}

	return nil
}

// LoadCheckpoint restores a checkpoint into a pre-built model and
// (optionally) optimizer.
//
// The model must have the same architecture as the one that was saved;
// a mismatch surfaces as a shape-mismatch error from LoadStateDict. If
// optimizer is nil, any saved optimizer state is ignored.
func LoadCheckpoint(path string, model *Network, optimizer OptimizerState) (ckpt *Checkpoint, err error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	header := reader.Header()
	if header.Checkpoint == nil {
		return nil, fmt.Errorf("file is not a checkpoint")
	}

	stateDict, err := reader.ReadStateDict()
	if err != nil {
		return nil, fmt.Errorf("failed to read state dict: %w", err)
	}

	modelState := make(map[string]*mat.Dense)
	optimizerState := make(map[string]*mat.Dense)
	for name, value := range stateDict {
		if strings.HasPrefix(name, optimizerPrefix) {
			optimizerState[strings.TrimPrefix(name, optimizerPrefix)] = value
		} else {
			modelState[name] = value
		}
	}

	if err := model.LoadStateDict(modelState); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}

	if optimizer != nil {
		if err := optimizer.LoadStateDict(optimizerState); err != nil {
			return nil, fmt.Errorf("failed to load optimizer state: %w", err)
		}
	}

	return &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     header.Checkpoint.Epoch,
		Step:      header.Checkpoint.Step,
		Loss:      header.Checkpoint.Loss,
		Metadata:  header.Metadata,
		CreatedAt: header.CreatedAt,
	}, nil
}

// LoadNetwork rebuilds a Network from the architecture metadata stored
// in a .primer file and restores its parameters.
//
// This is the course's load_checkpoint helper: no pre-built model is
// needed because layer sizes travel with the weights.
func LoadNetwork(path string) (network *Network, err error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	header := reader.Header()
	if header.Arch == nil {
		return nil, fmt.Errorf("file carries no architecture metadata")
	}

	model, err := NewNetwork(Config{
		InputSize:   header.Arch.InputSize,
		HiddenSizes: header.Arch.HiddenSizes,
		OutputSize:  header.Arch.OutputSize,
		Dropout:     header.Arch.Dropout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild network: %w", err)
	}

	stateDict, err := reader.ReadStateDict()
	if err != nil {
		return nil, fmt.Errorf("failed to read state dict: %w", err)
	}

	modelState := make(map[string]*mat.Dense)
	for name, value := range stateDict {
		if !strings.HasPrefix(name, optimizerPrefix) {
			modelState[name] = value
		}
	}

	if err := model.LoadStateDict(modelState); err != nil {
		return nil, fmt.Errorf("failed to load model state: %w", err)
	}

	return model, nil
}

// SaveCheckpoint is a convenience wrapper for the common case.
//
//	err := nn.SaveCheckpoint("ckpt.primer", model, optimizer, epoch)
func SaveCheckpoint(path string, model *Network, optimizer OptimizerState, epoch int) error {
	ckpt := &Checkpoint{
		Model:     model,
		Optimizer: optimizer,
		Epoch:     epoch,
		CreatedAt: time.Now().UTC(),
	}
	return ckpt.Save(path)
}
