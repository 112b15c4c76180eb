package serialization

import (
	"time"
)

// Format constants for the .primer checkpoint container.
const (
	MagicBytes      = "PRMR"
	FormatVersion   = 1
	FixedHeaderSize = 64   // 0x40-byte fixed header at the start of the file
	HeaderAlignment = 64   // Tensor payload is aligned to 64 bytes
	ChecksumSize    = 32   // SHA-256 checksum size
	ChecksumOffset  = 0x20 // Checksum offset inside the fixed header
)

// Flags stored in the fixed header.
const (
	FlagHasCheckpoint uint32 = 1 << 0 // training state (epoch, optimizer) included
	FlagHasMetadata   uint32 = 1 << 1 // custom metadata included
)

// DTypeFloat64 is the only payload data type the format currently carries.
// Parameters are float64 because the library is built on gonum matrices.
const DTypeFloat64 = "float64"

// Header is the JSON header of a .primer file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"primer_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Arch           *ArchMeta         `json:"arch,omitempty"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata"`
	Checkpoint     *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// ArchMeta records the architecture needed to rebuild an identical
// network before its parameters are restored: layer sizes and the
// dropout probability used between hidden layers.
type ArchMeta struct {
	InputSize   int     `json:"input_size"`
	HiddenSizes []int   `json:"hidden_sizes"`
	OutputSize  int     `json:"output_size"`
	Dropout     float64 `json:"dropout"`
}

// CheckpointMeta contains training state information for checkpoints.
type CheckpointMeta struct {
	Epoch           int                `json:"epoch"`
	Step            int64              `json:"step"`
	Loss            float64            `json:"loss"`
	OptimizerType   string             `json:"optimizer_type,omitempty"`
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"`
}

// TensorMeta describes one tensor in the payload section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the payload
	Size   int64  `json:"size"`   // bytes
}

// NumElements returns the number of scalars described by the metadata.
func (m TensorMeta) NumElements() int {
	n := 1
	for _, d := range m.Shape {
		n *= d
	}
	return n
}
