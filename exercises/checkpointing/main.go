// Lesson 4: saving and loading checkpoints.
//
// Trains a small network briefly, saves it, then reloads it two ways:
// into a pre-built model of the same architecture, and from scratch via
// the architecture metadata stored in the file. The reloaded models
// must produce identical predictions, and loading into a model of the
// wrong shape must fail loudly.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/primer-ml/primer/data"
	"github.com/primer-ml/primer/nn"
	"github.com/primer-ml/primer/optim"
	"github.com/primer-ml/primer/train"
)

func main() {
	logger := log.New(log.Writer(), "checkpointing: ", 0)

	dir, err := os.MkdirTemp("", "primer-checkpoint")
	if err != nil {
		logger.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "model.primer")

	// A quick training run on synthetic data.
	trainSet, validSet := data.SyntheticMNIST(500).Split(0.8)

	cfg := nn.Config{
		InputSize:   data.MNISTPixels,
		HiddenSizes: []int{64},
		OutputSize:  data.MNISTClasses,
	}
	model, err := nn.NewNetwork(cfg)
	if err != nil {
		logger.Fatal(err)
	}

	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.05, Momentum: 0.9})
	trainer := train.NewTrainer(model, optimizer, nn.NewNLLLoss(), train.Config{Epochs: 2})

	loader := data.NewLoader(trainSet, data.LoaderConfig{BatchSize: 32, Shuffle: true})
	validLoader := data.NewLoader(validSet, data.LoaderConfig{BatchSize: 32})
	if _, err := trainer.Fit(loader, validLoader); err != nil {
		logger.Fatal(err)
	}

	// Save: parameters, optimizer state, and the architecture travel
	// together.
	if err := nn.SaveCheckpoint(path, model, optimizer, 2); err != nil {
		logger.Fatal(err)
	}
	logger.Printf("saved %s", path)

	// Load path 1: into a pre-built model with the same architecture.
	rebuilt, err := nn.NewNetwork(cfg)
	if err != nil {
		logger.Fatal(err)
	}
	ckpt, err := nn.LoadCheckpoint(path, rebuilt, nil)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Printf("restored epoch %d (loss %.4f)", ckpt.Epoch, ckpt.Loss)

	// Load path 2: rebuild from the stored layer sizes alone.
	restored, err := nn.LoadNetwork(path)
	if err != nil {
		logger.Fatal(err)
	}

	// Both loaded models must agree with the original on every sample.
	model.Eval()
	rebuilt.Eval()
	restored.Eval()

	batch, _ := data.NewLoader(validSet, data.LoaderConfig{BatchSize: validSet.Len()}).Next()
	want := model.Predict(batch.X)
	for name, m := range map[string]*nn.Network{"prebuilt": rebuilt, "from-metadata": restored} {
		got := m.Predict(batch.X)
		for i := range want {
			if got[i] != want[i] {
				logger.Fatalf("%s model disagrees with original at sample %d", name, i)
			}
		}
	}
	logger.Println("reloaded models agree with the original")

	// Loading into the wrong architecture fails with a shape error
	// instead of corrupting the model.
	wrong, err := nn.NewNetwork(nn.Config{
		InputSize:   data.MNISTPixels,
		HiddenSizes: []int{32}, // saved model used 64
		OutputSize:  data.MNISTClasses,
	})
	if err != nil {
		logger.Fatal(err)
	}
	if _, err := nn.LoadCheckpoint(path, wrong, nil); err != nil {
		logger.Printf("mismatched load rejected as expected: %v", err)
	} else {
		logger.Fatal("mismatched load unexpectedly succeeded")
	}
}
