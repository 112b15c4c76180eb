package data

import (
	"fmt"

	mnist "github.com/petar/GoMNIST"
)

// MNIST image geometry.
const (
	MNISTRows    = 28
	MNISTCols    = 28
	MNISTPixels  = MNISTRows * MNISTCols
	MNISTClasses = 10
)

// LoadMNIST loads the official MNIST train and test sets from a
// directory of gzipped IDX files:
//
//	train-images-idx3-ubyte.gz  train-labels-idx1-ubyte.gz
//	t10k-images-idx3-ubyte.gz   t10k-labels-idx1-ubyte.gz
//
// Pixels are normalized from [0, 255] to [0, 1] and each 28×28 image is
// flattened to a 784-element feature vector. Downloading the files is
// left to the user (the course ships them with the lesson material).
func LoadMNIST(dir string) (train, test *TensorDataset, err error) {
	trainSet, testSet, err := mnist.Load(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load MNIST from %s: %w", dir, err)
	}

	train, err = setToDataset(trainSet)
	if err != nil {
		return nil, nil, fmt.Errorf("train set: %w", err)
	}
	test, err = setToDataset(testSet)
	if err != nil {
		return nil, nil, fmt.Errorf("test set: %w", err)
	}

	return train, test, nil
}

// LoadMNISTFiles loads a single image/label file pair in IDX format.
// Useful for datasets that reuse the MNIST container (Fashion-MNIST,
// KMNIST) under different file names.
func LoadMNISTFiles(imageFile, labelFile string) (*TensorDataset, error) {
	rows, cols, images, err := mnist.ReadImageFile(imageFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read images from %s: %w", imageFile, err)
	}
	labels, err := mnist.ReadLabelFile(labelFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels from %s: %w", labelFile, err)
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(images), len(labels))
	}

	return rawToDataset(rows*cols, images, labels)
}

func setToDataset(set *mnist.Set) (*TensorDataset, error) {
	if len(set.Images) != len(set.Labels) {
		return nil, fmt.Errorf("image count (%d) != label count (%d)", len(set.Images), len(set.Labels))
	}
	return rawToDataset(set.NRow*set.NCol, set.Images, set.Labels)
}

func rawToDataset(pixels int, images []mnist.RawImage, labels []mnist.Label) (*TensorDataset, error) {
	features := make([][]float64, len(images))
	intLabels := make([]int, len(labels))

	for i, img := range images {
		if len(img) != pixels {
			return nil, fmt.Errorf("image %d has %d pixels, want %d", i, len(img), pixels)
		}
		row := make([]float64, pixels)
		for j, p := range img {
			row[j] = float64(p) / 255.0
		}
		features[i] = row
		intLabels[i] = int(labels[i])
	}

	return NewTensorDataset(features, intLabels)
}

// SyntheticMNIST builds a small fake MNIST-shaped dataset: one crude
// bright-band pattern per digit class, repeated n times. It exists so
// the exercises and tests can run without the real files.
func SyntheticMNIST(n int) *TensorDataset {
	features := make([][]float64, 0, n)
	labels := make([]int, 0, n)

	for i := 0; i < n; i++ {
		digit := i % MNISTClasses
		img := make([]float64, MNISTPixels)

		// A horizontal band whose position encodes the class.
		startRow := digit * 2
		for row := startRow; row < startRow+6 && row < MNISTRows; row++ {
			for col := 4; col < MNISTCols-4; col++ {
				img[row*MNISTCols+col] = 0.8
			}
		}

		features = append(features, img)
		labels = append(labels, digit)
	}

	ds, err := NewTensorDataset(features, labels)
	if err != nil {
		panic(err) // n >= 1 guarantees a valid dataset
	}
	return ds
}
