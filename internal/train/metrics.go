package train

import (
	"gonum.org/v1/gonum/mat"
)

// Argmax returns the index of the largest value in each row.
func Argmax(m *mat.Dense) []int {
	rows, cols := m.Dims()
	out := make([]int, rows)
	for r := 0; r < rows; r++ {
		row := m.RawRowView(r)
		best := 0
		for c := 1; c < cols; c++ {
			if row[c] > row[best] {
				best = c
			}
		}
		out[r] = best
	}
	return out
}

// Accuracy returns the fraction of rows whose argmax matches the label.
// Works on log-probabilities and raw logits alike, since argmax is
// monotone under softmax.
func Accuracy(scores *mat.Dense, labels []int) float64 {
	preds := Argmax(scores)
	if len(preds) == 0 {
		return 0
	}

	correct := 0
	for i, p := range preds {
		if p == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(preds))
}
