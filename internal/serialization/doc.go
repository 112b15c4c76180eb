// Package serialization implements the .primer checkpoint container.
//
// A .primer file is a binary container with three sections:
//
//	[fixed header]  64 bytes: magic, version, flags, sizes, SHA-256 checksum
//	[JSON header]   model type, architecture metadata, tensor table, training state
//	[payload]       64-byte-aligned little-endian float64 tensor data
//
// The architecture metadata (layer sizes, dropout) is what allows a
// checkpoint to be loaded without a pre-built model: the network is
// reconstructed from the header first, then its parameters are restored
// from the payload.
//
// Readers validate the checksum and the tensor extent table before
// returning any data.
package serialization
