package nn

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Xavier creates a rows×cols matrix initialized with the Xavier/Glorot
// uniform distribution: U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
//
// This initialization keeps the variance of activations roughly constant
// across layers, which is what makes the course's deeper exercises train
// at all.
func Xavier(rows, cols, fanIn, fanOut int) *mat.Dense {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = (rand.Float64()*2.0 - 1.0) * bound
	}

	return mat.NewDense(rows, cols, data)
}

// Zeros creates a rows×cols matrix of zeros. Commonly used for biases.
func Zeros(rows, cols int) *mat.Dense {
	return mat.NewDense(rows, cols, nil)
}

// Randn creates a rows×cols matrix with values drawn from N(0, 1).
func Randn(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rand.NormFloat64()
	}
	return mat.NewDense(rows, cols, data)
}
