package data

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Batch is one mini-batch of samples.
type Batch struct {
	X      *mat.Dense // [Size, features]
	Labels []int      // [Size]
	Size   int
}

// LoaderConfig configures mini-batch iteration.
type LoaderConfig struct {
	BatchSize int   // samples per batch (default 32)
	Shuffle   bool  // reshuffle sample order on every Reset
	Seed      int64 // shuffle seed; 0 means a fixed default, so runs are reproducible
	DropLast  bool  // drop the final short batch instead of yielding it
}

// Loader iterates a Dataset in mini-batches.
//
// A Loader is not safe for concurrent use; iteration is sequential by
// design.
//
//	loader := data.NewLoader(ds, data.LoaderConfig{BatchSize: 64, Shuffle: true})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    loader.Reset()
//	    for {
//	        batch, ok := loader.Next()
//	        if !ok {
//	            break
//	        }
//	        // train on batch
//	    }
//	}
type Loader struct {
	dataset Dataset
	cfg     LoaderConfig
	rng     *rand.Rand
	indices []int
	pos     int
}

// NewLoader creates a Loader over a dataset. The loader starts ready
// for iteration; Reset rewinds it (and reshuffles, if configured).
func NewLoader(dataset Dataset, cfg LoaderConfig) *Loader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 32
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	l := &Loader{
		dataset: dataset,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
		indices: make([]int, dataset.Len()),
	}
	for i := range l.indices {
		l.indices[i] = i
	}
	l.Reset()

	return l
}

// Reset rewinds the loader to the first batch. With Shuffle enabled the
// sample order is reshuffled (Fisher–Yates).
func (l *Loader) Reset() {
	l.pos = 0
	if l.cfg.Shuffle {
		l.rng.Shuffle(len(l.indices), func(i, j int) {
			l.indices[i], l.indices[j] = l.indices[j], l.indices[i]
		})
	}
}

// Next returns the next batch, or ok=false when the epoch is exhausted.
func (l *Loader) Next() (*Batch, bool) {
	n := len(l.indices)
	if l.pos >= n {
		return nil, false
	}

	end := l.pos + l.cfg.BatchSize
	if end > n {
		if l.cfg.DropLast {
			l.pos = n
			return nil, false
		}
		end = n
	}

	size := end - l.pos
	first, _ := l.dataset.At(l.indices[l.pos])
	dim := len(first)

	x := mat.NewDense(size, dim, nil)
	labels := make([]int, size)

	for i := 0; i < size; i++ {
		features, label := l.dataset.At(l.indices[l.pos+i])
		if len(features) != dim {
			panic(fmt.Sprintf("Loader: sample %d has %d features, want %d", l.indices[l.pos+i], len(features), dim))
		}
		copy(x.RawRowView(i), features)
		labels[i] = label
	}

	l.pos = end

	return &Batch{X: x, Labels: labels, Size: size}, true
}

// NumBatches returns the number of batches one epoch yields.
func (l *Loader) NumBatches() int {
	n := len(l.indices)
	if l.cfg.DropLast {
		return n / l.cfg.BatchSize
	}
	return (n + l.cfg.BatchSize - 1) / l.cfg.BatchSize
}

// BatchSize returns the configured batch size.
func (l *Loader) BatchSize() int {
	return l.cfg.BatchSize
}
