// Lesson 1: matrices.
//
// A walkthrough of the matrix operations the rest of the course builds
// on: creation, element-wise arithmetic, matrix multiplication, and
// reductions. Everything is a gonum *mat.Dense; run it and compare the
// printed results to the ones derived in the lesson notes.
package main

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/primer-ml/primer/nn"
)

func main() {
	// Creation: explicit values, zeros, and random normal.
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})
	zeros := mat.NewDense(2, 3, nil)
	randn := nn.Randn(2, 3)

	fmt.Println("a:")
	fmt.Println(mat.Formatted(a))
	fmt.Println("zeros:")
	fmt.Println(mat.Formatted(zeros))
	fmt.Println("randn:")
	fmt.Println(mat.Formatted(randn))

	// Element-wise arithmetic. Shapes must match.
	var sum mat.Dense
	sum.Add(a, a)
	fmt.Println("a + a:")
	fmt.Println(mat.Formatted(&sum))

	var prod mat.Dense
	prod.MulElem(a, a)
	fmt.Println("a * a (element-wise):")
	fmt.Println(mat.Formatted(&prod))

	// Matrix multiplication: [2,3] @ [3,2] = [2,2]. This is the
	// operation inside every Linear layer.
	b := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	var mm mat.Dense
	mm.Mul(a, b)
	fmt.Println("a @ b:")
	fmt.Println(mat.Formatted(&mm))

	// Transpose reuses the same data with swapped indices.
	fmt.Println("a.T:")
	fmt.Println(mat.Formatted(a.T()))

	// Reductions over raw data.
	row := a.RawRowView(0)
	fmt.Printf("first row: %v  sum=%.1f  max=%.1f\n", row, floats.Sum(row), floats.Max(row))

	// A batch of two flattened "images" through a layer: this is all a
	// forward pass is.
	layer := nn.NewLinear(3, 2)
	out := layer.Forward(a)
	fmt.Println("linear layer output:")
	fmt.Println(mat.Formatted(out))
}
