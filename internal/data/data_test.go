package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rangeDataset(t *testing.T, n int) *TensorDataset {
	t.Helper()

	features := make([][]float64, n)
	labels := make([]int, n)
	for i := range features {
		features[i] = []float64{float64(i)}
		labels[i] = i
	}

	ds, err := NewTensorDataset(features, labels)
	require.NoError(t, err)
	return ds
}

// TestNewTensorDataset_Validation rejects malformed inputs.
func TestNewTensorDataset_Validation(t *testing.T) {
	tests := []struct {
		name     string
		features [][]float64
		labels   []int
		wantErr  bool
	}{
		{
			name:     "valid",
			features: [][]float64{{1, 2}, {3, 4}},
			labels:   []int{0, 1},
		},
		{
			name:     "length mismatch",
			features: [][]float64{{1, 2}},
			labels:   []int{0, 1},
			wantErr:  true,
		},
		{
			name:     "empty",
			features: nil,
			labels:   nil,
			wantErr:  true,
		},
		{
			name:     "ragged features",
			features: [][]float64{{1, 2}, {3}},
			labels:   []int{0, 1},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTensorDataset(tt.features, tt.labels)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestTensorDataset_Split verifies the positional 80/20 split.
func TestTensorDataset_Split(t *testing.T) {
	ds := rangeDataset(t, 10)

	trainSet, validSet := ds.Split(0.8)
	assert.Equal(t, 8, trainSet.Len())
	assert.Equal(t, 2, validSet.Len())

	// Positional: the validation set holds the tail.
	_, label := validSet.At(0)
	assert.Equal(t, 8, label)
}

// TestLoader_Batching verifies batch sizes and that every sample
// appears exactly once per epoch.
func TestLoader_Batching(t *testing.T) {
	loader := NewLoader(rangeDataset(t, 10), LoaderConfig{BatchSize: 4})

	assert.Equal(t, 3, loader.NumBatches())

	var sizes []int
	var order []int
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		sizes = append(sizes, batch.Size)

		r, c := batch.X.Dims()
		assert.Equal(t, batch.Size, r)
		assert.Equal(t, 1, c)

		order = append(order, batch.Labels...)
	}

	assert.Equal(t, []int{4, 4, 2}, sizes)

	// Without Shuffle the loader walks the dataset in order.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

// TestLoader_DropLast verifies the final short batch is dropped.
func TestLoader_DropLast(t *testing.T) {
	loader := NewLoader(rangeDataset(t, 10), LoaderConfig{BatchSize: 4, DropLast: true})

	assert.Equal(t, 2, loader.NumBatches())

	var count int
	for {
		batch, ok := loader.Next()
		if !ok {
			break
		}
		assert.Equal(t, 4, batch.Size)
		count++
	}
	assert.Equal(t, 2, count)
}

// TestLoader_ShuffleSeed verifies reproducibility: loaders with the
// same seed yield the same order, and shuffling actually permutes.
func TestLoader_ShuffleSeed(t *testing.T) {
	order := func(seed int64) []int {
		loader := NewLoader(rangeDataset(t, 50), LoaderConfig{BatchSize: 50, Shuffle: true, Seed: seed})
		batch, ok := loader.Next()
		require.True(t, ok)
		return batch.Labels
	}

	assert.Equal(t, order(42), order(42), "same seed should give the same order")
	assert.NotEqual(t, order(42), order(43), "different seeds should give different orders")

	// Shuffled order differs from the identity.
	identity := make([]int, 50)
	for i := range identity {
		identity[i] = i
	}
	assert.NotEqual(t, identity, order(42))
}

// TestLoader_ResetReshuffles verifies each epoch gets a fresh order but
// the same sample set.
func TestLoader_ResetReshuffles(t *testing.T) {
	loader := NewLoader(rangeDataset(t, 50), LoaderConfig{BatchSize: 50, Shuffle: true})

	first, ok := loader.Next()
	require.True(t, ok)
	epoch1 := append([]int(nil), first.Labels...)

	loader.Reset()
	second, ok := loader.Next()
	require.True(t, ok)

	assert.NotEqual(t, epoch1, second.Labels)
	assert.ElementsMatch(t, epoch1, second.Labels)
}

// TestLoader_NextAfterExhaustion verifies ok=false until Reset.
func TestLoader_NextAfterExhaustion(t *testing.T) {
	loader := NewLoader(rangeDataset(t, 3), LoaderConfig{BatchSize: 3})

	_, ok := loader.Next()
	require.True(t, ok)
	_, ok = loader.Next()
	assert.False(t, ok)

	loader.Reset()
	_, ok = loader.Next()
	assert.True(t, ok)
}

// TestSyntheticMNIST verifies shapes, labels, and the [0,1] value range.
func TestSyntheticMNIST(t *testing.T) {
	ds := SyntheticMNIST(25)

	require.Equal(t, 25, ds.Len())
	assert.Equal(t, MNISTPixels, ds.Dim())

	for i := 0; i < ds.Len(); i++ {
		features, label := ds.At(i)
		assert.Equal(t, i%MNISTClasses, label)
		for _, v := range features {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}

	// Different classes get different patterns.
	a, _ := ds.At(0)
	b, _ := ds.At(1)
	assert.NotEqual(t, a, b)
}

// TestLoadMNIST_MissingDir verifies the error path.
func TestLoadMNIST_MissingDir(t *testing.T) {
	_, _, err := LoadMNIST(t.TempDir())
	assert.Error(t, err)
}
