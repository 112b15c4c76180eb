// Package main provides the Primer CLI.
//
// Subcommands:
//
//	primer train -data DIR [-hidden 128,64] [-epochs N] [-optimizer sgd|adam] -checkpoint PATH
//	primer eval  -data DIR -checkpoint PATH
//	primer version
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/primer-ml/primer/data"
	"github.com/primer-ml/primer/nn"
	"github.com/primer-ml/primer/optim"
	"github.com/primer-ml/primer/train"
)

const version = "v0.3.1"

func main() {
	log.SetFlags(0)
	log.SetPrefix("primer: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("primer %s\n", version)
	case "train":
		if err := runTrain(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
	case "eval":
		if err := runEval(os.Args[2:]); err != nil {
			log.Fatal(err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Primer - introductory deep learning in Go")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  train      Train a feed-forward classifier on MNIST")
	fmt.Fprintln(os.Stderr, "  eval       Evaluate a checkpoint on the MNIST test set")
	fmt.Fprintln(os.Stderr, "  version    Show version")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	dataDir := fs.String("data", "", "directory with MNIST IDX files (empty: synthetic data)")
	hidden := fs.String("hidden", "128,64", "comma-separated hidden layer sizes")
	dropout := fs.Float64("dropout", 0.2, "dropout probability between hidden layers")
	epochs := fs.Int("epochs", 3, "training epochs")
	batchSize := fs.Int("batch-size", 64, "mini-batch size")
	lr := fs.Float64("lr", 0, "learning rate (0: optimizer default)")
	optimizerName := fs.String("optimizer", "adam", "optimizer: sgd or adam")
	momentum := fs.Float64("momentum", 0.9, "SGD momentum")
	checkpoint := fs.String("checkpoint", "model.primer", "path for the final checkpoint")
	if err := fs.Parse(args); err != nil {
		return err
	}

	hiddenSizes, err := parseSizes(*hidden)
	if err != nil {
		return fmt.Errorf("invalid -hidden: %w", err)
	}

	trainSet, validSet, err := loadSets(*dataDir)
	if err != nil {
		return err
	}

	model, err := nn.NewNetwork(nn.Config{
		InputSize:   data.MNISTPixels,
		HiddenSizes: hiddenSizes,
		OutputSize:  data.MNISTClasses,
		Dropout:     *dropout,
	})
	if err != nil {
		return err
	}

	var optimizer optim.Optimizer
	switch *optimizerName {
	case "sgd":
		optimizer = optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: *lr, Momentum: *momentum})
	case "adam":
		optimizer = optim.NewAdam(model.Parameters(), optim.AdamConfig{LR: *lr})
	default:
		return fmt.Errorf("unknown optimizer %q (want sgd or adam)", *optimizerName)
	}

	trainer := train.NewTrainer(model, optimizer, nn.NewNLLLoss(), train.Config{
		Epochs:   *epochs,
		LogEvery: 100,
	})

	trainLoader := data.NewLoader(trainSet, data.LoaderConfig{BatchSize: *batchSize, Shuffle: true})
	validLoader := data.NewLoader(validSet, data.LoaderConfig{BatchSize: *batchSize})

	history, err := trainer.Fit(trainLoader, validLoader)
	if err != nil {
		return err
	}

	last := history.Epochs[len(history.Epochs)-1]
	state, _ := optimizer.(nn.OptimizerState)
	if err := nn.SaveCheckpoint(*checkpoint, model, state, last.Epoch); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	log.Printf("checkpoint saved to %s (valid accuracy %.2f%%)", *checkpoint, last.ValidAccuracy*100)

	return nil
}

func runEval(args []string) error {
	fs := flag.NewFlagSet("eval", flag.ExitOnError)
	dataDir := fs.String("data", "", "directory with MNIST IDX files (empty: synthetic data)")
	batchSize := fs.Int("batch-size", 256, "mini-batch size")
	checkpoint := fs.String("checkpoint", "model.primer", "checkpoint to evaluate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	model, err := nn.LoadNetwork(*checkpoint)
	if err != nil {
		return err
	}

	_, testSet, err := loadSets(*dataDir)
	if err != nil {
		return err
	}

	model.Eval()
	loader := data.NewLoader(testSet, data.LoaderConfig{BatchSize: *batchSize})
	criterion := nn.NewNLLLoss()

	var totalLoss, totalAcc float64
	var samples int
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		out := model.Forward(batch.X)
		totalLoss += criterion.Forward(out, batch.Labels) * float64(batch.Size)
		totalAcc += train.Accuracy(out, batch.Labels) * float64(batch.Size)
		samples += batch.Size
	}

	log.Printf("test loss %.4f, test accuracy %.2f%% (%d samples)",
		totalLoss/float64(samples), totalAcc/float64(samples)*100, samples)

	return nil
}

func loadSets(dataDir string) (trainSet, testSet *data.TensorDataset, err error) {
	if dataDir == "" {
		log.Println("no -data directory given, using synthetic samples")
		trainSet, testSet = data.SyntheticMNIST(2000).Split(0.8)
		return trainSet, testSet, nil
	}
	return data.LoadMNIST(dataDir)
}

func parseSizes(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	sizes := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes given")
	}
	return sizes, nil
}
