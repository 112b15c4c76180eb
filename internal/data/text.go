package data

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoder turns text into token IDs. The course's text lesson uses a
// BPE encoder; tests substitute a stub.
type Encoder interface {
	Encode(text string) ([]int, error)
}

// TikTokenEncoder wraps the pkoukk/tiktoken-go library.
//
// Supported encodings include "cl100k_base" and "p50k_base". The
// library fetches encoding tables on first use unless they are cached
// locally.
type TikTokenEncoder struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// NewTikTokenEncoder creates an encoder for the named BPE encoding.
func NewTikTokenEncoder(encodingName string) (*TikTokenEncoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}

	return &TikTokenEncoder{encoding: encoding, name: encodingName}, nil
}

// Encode converts text to token IDs.
func (e *TikTokenEncoder) Encode(text string) ([]int, error) {
	return e.encoding.Encode(text, nil, nil), nil
}

// Name returns the encoding name.
func (e *TikTokenEncoder) Name() string {
	return e.name
}

// Vectorize turns labeled text lines into a TensorDataset of token
// count vectors: each line is encoded to token IDs and each ID is
// hashed into one of dim buckets (feature hashing), counting
// occurrences.
//
// This is the data-loading demonstration for the text lesson; it is a
// bag-of-tokens representation, not a sequence model input.
func Vectorize(lines []string, labels []int, enc Encoder, dim int) (*TensorDataset, error) {
	if len(lines) != len(labels) {
		return nil, fmt.Errorf("lines (%d) and labels (%d) length mismatch", len(lines), len(labels))
	}
	if dim <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dim)
	}

	features := make([][]float64, len(lines))
	for i, line := range lines {
		ids, err := enc.Encode(line)
		if err != nil {
			return nil, fmt.Errorf("failed to encode line %d: %w", i, err)
		}

		vec := make([]float64, dim)
		for _, id := range ids {
			vec[id%dim]++
		}
		features[i] = vec
	}

	return NewTensorDataset(features, labels)
}
