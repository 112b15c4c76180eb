package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Reader reads checkpoints in the .primer format.
//
// NewReader validates the container (magic, version, tensor extents,
// payload checksum) before any tensor data is returned, so a corrupted
// file is rejected up front rather than surfacing as garbage weights.
type Reader struct {
	file    *os.File
	header  Header
	payload []byte
	closed  bool
}

// NewReader opens and validates a .primer file.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.readAndValidate(); err != nil {
		file.Close()
		return nil, err
	}

	return r, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// Header returns the parsed JSON header.
func (r *Reader) Header() Header {
	return r.header
}

func (r *Reader) readAndValidate() error {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("%w: reading fixed header: %v", ErrTruncated, err)
	}

	if string(fixed[0:4]) != MagicBytes {
		return fmt.Errorf("%w: got %q", ErrInvalidMagic, string(fixed[0:4]))
	}

	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixed[16:24])
	payloadSize := binary.LittleEndian.Uint64(fixed[24:32])

	// Size fields are attacker-controlled; bound them before any
	// allocation.
	if headerSize > MaxHeaderSize {
		return &ValidationError{
			Type:    "header_too_large",
			Details: fmt.Sprintf("header size %d > max %d", headerSize, MaxHeaderSize),
		}
	}

	info, err := r.file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	padding := (HeaderAlignment - ((FixedHeaderSize + int64(headerSize)) % HeaderAlignment)) % HeaderAlignment
	if need := FixedHeaderSize + int64(headerSize) + padding + int64(payloadSize); payloadSize > uint64(info.Size()) || need > info.Size() {
		return fmt.Errorf("%w: header claims %d bytes, file has %d", ErrTruncated, need, info.Size())
	}

	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r.file, headerJSON); err != nil {
		return fmt.Errorf("%w: reading header: %v", ErrTruncated, err)
	}

	if err := json.Unmarshal(headerJSON, &r.header); err != nil {
		return fmt.Errorf("failed to parse header: %w", err)
	}

	if err := ValidateTensorCount(len(r.header.Tensors)); err != nil {
		return err
	}
	for _, t := range r.header.Tensors {
		if err := ValidateTensorMeta(t); err != nil {
			return err
		}
	}
	if err := ValidateTensorOffsets(r.header.Tensors, int64(payloadSize)); err != nil {
		return err
	}

	// Skip alignment padding between the header and the payload.
	pos := int64(FixedHeaderSize) + int64(headerSize)
	if padding := (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment; padding > 0 {
		if _, err := io.CopyN(io.Discard, r.file, padding); err != nil {
			return fmt.Errorf("%w: skipping padding: %v", ErrTruncated, err)
		}
	}

	r.payload = make([]byte, payloadSize)
	if _, err := io.ReadFull(r.file, r.payload); err != nil {
		return fmt.Errorf("%w: reading payload: %v", ErrTruncated, err)
	}

	if err := ValidateChecksum(ComputeChecksum(r.payload), stored); err != nil {
		return err
	}

	return nil
}

// ReadStateDict decodes every tensor in the file into a state dictionary.
func (r *Reader) ReadStateDict() (map[string]*mat.Dense, error) {
	stateDict := make(map[string]*mat.Dense, len(r.header.Tensors))

	for _, meta := range r.header.Tensors {
		m, err := r.readTensor(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to read tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = m
	}

	return stateDict, nil
}

func (r *Reader) readTensor(meta TensorMeta) (*mat.Dense, error) {
	if len(meta.Shape) != 2 {
		return nil, fmt.Errorf("tensor %s: expected 2D shape, got %v", meta.Name, meta.Shape)
	}

	rows, cols := meta.Shape[0], meta.Shape[1]
	data := make([]float64, rows*cols)
	buf := r.payload[meta.Offset : meta.Offset+meta.Size]
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[i*8:]))
	}

	return mat.NewDense(rows, cols, data), nil
}
