package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

const primerVersion = "0.3.1" // current library version

// Writer writes checkpoints in the .primer format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .primer file writer.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return &Writer{file: file}, nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// WriteStateDict writes a state dictionary with the given header.
//
// The state dictionary maps parameter names (e.g. "0.weight") to
// matrices. Tensors are written in sorted name order so the payload
// layout is deterministic. Header.Tensors is filled in by the writer;
// any caller-provided value is discarded.
func (w *Writer) WriteStateDict(stateDict map[string]*mat.Dense, header Header) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	header.FormatVersion = FormatVersion
	header.LibraryVersion = primerVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	// Build tensor metadata and the payload buffer.
	header.Tensors = make([]TensorMeta, 0, len(names))
	var payload []byte
	var offset int64

	for _, name := range names {
		m := stateDict[name]
		rows, cols := m.Dims()
		size := int64(rows * cols * 8)

		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  []int{rows, cols},
			Offset: offset,
			Size:   size,
		})
		offset += size

		buf := make([]byte, size)
		i := 0
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				binary.LittleEndian.PutUint64(buf[i:], math.Float64bits(m.At(r, c)))
				i += 8
			}
		}
		payload = append(payload, buf...)
	}

	checksum := ComputeChecksum(payload)

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}

	// Fixed 64-byte header:
	//   0x00-0x03 magic "PRMR"
	//   0x04-0x07 format version
	//   0x08-0x0B flags
	//   0x0C-0x0F reserved
	//   0x10-0x17 JSON header size
	//   0x18-0x1F payload size
	//   0x20-0x3F SHA-256 checksum of the payload
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))

	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Checkpoint != nil {
		flags |= FlagHasCheckpoint
	}
	binary.LittleEndian.PutUint32(fixed[8:12], flags)

	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixed[24:32], uint64(len(payload)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.file.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.file.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Pad so the payload starts on a HeaderAlignment boundary.
	pos := int64(FixedHeaderSize) + int64(len(headerJSON))
	if padding := (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment; padding > 0 {
		if _, err := w.file.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.file.Write(payload); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}

	return nil
}
