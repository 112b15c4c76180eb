// Package train implements the course's generic training loop: iterate
// batches, forward, loss, backward, optimizer step, then validate,
// with optional per-epoch checkpointing.
package train

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/primer-ml/primer/internal/data"
	"github.com/primer-ml/primer/internal/nn"
	"github.com/primer-ml/primer/internal/optim"
)

// Config controls a training run.
type Config struct {
	Epochs        int       // number of passes over the training data (default 1)
	LogEvery      int       // print running loss every N batches; 0 logs per epoch only
	Out           io.Writer // progress destination (default os.Stdout)
	CheckpointDir string    // save a checkpoint after each epoch; "" disables
}

// EpochStats records one epoch of training.
type EpochStats struct {
	Epoch         int
	TrainLoss     float64 // mean training loss over the epoch
	ValidLoss     float64 // mean validation loss (0 without a validation loader)
	ValidAccuracy float64
}

// History is the record of a full training run.
type History struct {
	Epochs []EpochStats
}

// Trainer drives a Network through the train/validate cycle.
//
//	trainer := train.NewTrainer(model, optimizer, nn.NewNLLLoss(), train.Config{Epochs: 5})
//	history, err := trainer.Fit(trainLoader, validLoader)
type Trainer struct {
	model     *nn.Network
	optimizer optim.Optimizer
	criterion nn.Criterion
	cfg       Config
	step      int64
}

// NewTrainer creates a Trainer. The criterion must match the model's
// output (Network emits log-probabilities, so NLLLoss is the usual
// choice).
func NewTrainer(model *nn.Network, optimizer optim.Optimizer, criterion nn.Criterion, cfg Config) *Trainer {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 1
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	return &Trainer{
		model:     model,
		optimizer: optimizer,
		criterion: criterion,
		cfg:       cfg,
	}
}

// Fit trains for the configured number of epochs.
//
// Each epoch walks the training loader once (in training mode), then
// runs a validation pass in eval mode if valid is non-nil. With a
// checkpoint directory configured, a checkpoint is written after every
// epoch.
func (t *Trainer) Fit(train, valid *data.Loader) (*History, error) {
	history := &History{}

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		trainLoss, err := t.trainEpoch(epoch, train)
		if err != nil {
			return history, err
		}

		stats := EpochStats{Epoch: epoch, TrainLoss: trainLoss}

		if valid != nil {
			stats.ValidLoss, stats.ValidAccuracy = t.Evaluate(valid)
			fmt.Fprintf(t.cfg.Out, "epoch %d/%d: train loss %.4f, valid loss %.4f, valid accuracy %.2f%%\n",
				epoch, t.cfg.Epochs, stats.TrainLoss, stats.ValidLoss, stats.ValidAccuracy*100)
		} else {
			fmt.Fprintf(t.cfg.Out, "epoch %d/%d: train loss %.4f\n", epoch, t.cfg.Epochs, stats.TrainLoss)
		}

		history.Epochs = append(history.Epochs, stats)

		if t.cfg.CheckpointDir != "" {
			path := filepath.Join(t.cfg.CheckpointDir, fmt.Sprintf("epoch_%03d.primer", epoch))
			ckpt := &nn.Checkpoint{
				Model:     t.model,
				Optimizer: t.optimizerState(),
				Epoch:     epoch,
				Step:      t.step,
				Loss:      stats.TrainLoss,
			}
			if err := ckpt.Save(path); err != nil {
				return history, fmt.Errorf("failed to save checkpoint for epoch %d: %w", epoch, err)
			}
		}
	}

	return history, nil
}

func (t *Trainer) trainEpoch(epoch int, loader *data.Loader) (float64, error) {
	t.model.Train()
	loader.Reset()

	var runningLoss float64
	var batches int

	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}

		t.optimizer.ZeroGrad()

		output := t.model.Forward(batch.X)
		loss := t.criterion.Forward(output, batch.Labels)
		t.model.Backward(t.criterion.Backward())
		t.optimizer.Step()

		t.step++
		batches++
		runningLoss += loss

		if t.cfg.LogEvery > 0 && batches%t.cfg.LogEvery == 0 {
			fmt.Fprintf(t.cfg.Out, "epoch %d batch %d: loss %.4f\n", epoch, batches, runningLoss/float64(batches))
		}
	}

	if batches == 0 {
		return 0, fmt.Errorf("training loader produced no batches")
	}

	return runningLoss / float64(batches), nil
}

// Evaluate runs the model over a loader in eval mode and returns the
// mean loss and accuracy. The model is left in eval mode; Fit switches
// it back at the start of the next epoch.
func (t *Trainer) Evaluate(loader *data.Loader) (loss, accuracy float64) {
	t.model.Eval()
	loader.Reset()

	var totalLoss, totalAcc float64
	var samples int

	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}

		output := t.model.Forward(batch.X)
		totalLoss += t.criterion.Forward(output, batch.Labels) * float64(batch.Size)
		totalAcc += Accuracy(output, batch.Labels) * float64(batch.Size)
		samples += batch.Size
	}

	if samples == 0 {
		return 0, 0
	}

	return totalLoss / float64(samples), totalAcc / float64(samples)
}

// Step returns the number of optimizer steps taken so far.
func (t *Trainer) Step() int64 {
	return t.step
}

// optimizerState exposes the optimizer for checkpointing when it can
// serialize itself.
func (t *Trainer) optimizerState() nn.OptimizerState {
	if s, ok := t.optimizer.(nn.OptimizerState); ok {
		return s
	}
	return nil
}
