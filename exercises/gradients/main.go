// Lesson 2: softmax and gradient descent.
//
// First the softmax function from the intro lesson: scores in,
// probabilities out. Then gradient descent "by hand" on a tiny
// two-class blob dataset, using a single linear layer and watching the
// loss fall batch by batch. This is the same loop the full Trainer
// automates later in the course.
package main

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/nn"
	"github.com/primer-ml/primer/optim"
)

func main() {
	// Part 1: softmax turns arbitrary scores into a distribution.
	scores := []float64{2.0, 1.0, 0.1}
	probs := nn.Softmax(scores)
	fmt.Printf("scores: %v\n", scores)
	fmt.Printf("softmax: %.4f (sums to 1)\n\n", probs)

	// Part 2: two Gaussian blobs, one linear layer, plain SGD.
	x, labels := blobs(200)

	model := nn.NewSequential(
		nn.NewLinear(2, 2),
		nn.NewLogSoftmax(),
	)
	criterion := nn.NewNLLLoss()
	optimizer := optim.NewSGD(model.Parameters(), optim.SGDConfig{LR: 0.1})

	for step := 1; step <= 100; step++ {
		optimizer.ZeroGrad()

		logProbs := model.Forward(x)
		loss := criterion.Forward(logProbs, labels)
		model.Backward(criterion.Backward())
		optimizer.Step()

		if step%10 == 0 {
			fmt.Printf("step %3d: loss %.4f\n", step, loss)
		}
	}

	// Accuracy on the training blobs; linearly separable, so this
	// should be at or near 100%.
	logProbs := model.Forward(x)
	correct := 0
	for i, label := range labels {
		if logProbs.At(i, 0) < logProbs.At(i, 1) == (label == 1) {
			correct++
		}
	}
	fmt.Printf("\ntraining accuracy: %d/%d\n", correct, len(labels))
}

// blobs generates n points split between two well-separated Gaussian
// clusters.
func blobs(n int) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(7))

	x := mat.NewDense(n, 2, nil)
	labels := make([]int, n)

	for i := 0; i < n; i++ {
		label := i % 2
		cx, cy := -2.0, -2.0
		if label == 1 {
			cx, cy = 2.0, 2.0
		}
		x.Set(i, 0, cx+rng.NormFloat64())
		x.Set(i, 1, cy+rng.NormFloat64())
		labels[i] = label
	}

	return x, labels
}
