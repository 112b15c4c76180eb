// Lesson 3: training a classifier on MNIST.
//
// Defines the course's feed-forward Network (784 → 128 → 64 → 10 with
// dropout), trains it with Adam and a validation split, and saves a
// checkpoint. Point -data at a directory containing the gzipped IDX
// files; without one, a synthetic stand-in dataset keeps the exercise
// runnable offline.
package main

import (
	"flag"
	"log"

	"github.com/primer-ml/primer/data"
	"github.com/primer-ml/primer/nn"
	"github.com/primer-ml/primer/optim"
	"github.com/primer-ml/primer/train"
)

func main() {
	dataDir := flag.String("data", "", "directory with MNIST IDX files (empty: synthetic data)")
	epochs := flag.Int("epochs", 3, "training epochs")
	batchSize := flag.Int("batch-size", 64, "mini-batch size")
	lr := flag.Float64("lr", 0.001, "learning rate")
	checkpoint := flag.String("checkpoint", "mnist.primer", "path for the final checkpoint")
	flag.Parse()

	logger := log.New(log.Writer(), "mnist: ", 0)

	var trainSet, validSet *data.TensorDataset
	if *dataDir != "" {
		full, test, err := data.LoadMNIST(*dataDir)
		if err != nil {
			logger.Fatalf("loading MNIST: %v", err)
		}
		trainSet, validSet = full, test
	} else {
		logger.Println("no -data directory given, using synthetic samples")
		trainSet, validSet = data.SyntheticMNIST(2000).Split(0.8)
	}
	logger.Printf("train samples: %d, validation samples: %d", trainSet.Len(), validSet.Len())

	model, err := nn.NewNetwork(nn.Config{
		InputSize:   data.MNISTPixels,
		HiddenSizes: []int{128, 64},
		OutputSize:  data.MNISTClasses,
		Dropout:     0.2,
	})
	if err != nil {
		logger.Fatalf("building network: %v", err)
	}

	optimizer := optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: *lr})

	trainLoader := data.NewLoader(trainSet, data.LoaderConfig{BatchSize: *batchSize, Shuffle: true})
	validLoader := data.NewLoader(validSet, data.LoaderConfig{BatchSize: *batchSize})

	trainer := train.NewTrainer(model, optimizer, nn.NewNLLLoss(), train.Config{
		Epochs:   *epochs,
		LogEvery: 100,
	})

	history, err := trainer.Fit(trainLoader, validLoader)
	if err != nil {
		logger.Fatalf("training: %v", err)
	}

	last := history.Epochs[len(history.Epochs)-1]
	logger.Printf("final validation accuracy: %.2f%%", last.ValidAccuracy*100)

	if err := nn.SaveCheckpoint(*checkpoint, model, optimizer, last.Epoch); err != nil {
		logger.Fatalf("saving checkpoint: %v", err)
	}
	logger.Printf("checkpoint saved to %s", *checkpoint)
}
