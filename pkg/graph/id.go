package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier derived from a node's path.
type NodeID [32]byte

// ZeroID is the zero-value NodeID, used to mean "no node".
var ZeroID NodeID

// NewNodeID hashes a path such as "node/box_main1" into a NodeID.
func NewNodeID(path string) NodeID {
	return NodeID(sha256.Sum256([]byte(path)))
}

// IsZero reports whether id is the zero value.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

// Short returns the first 6 bytes as hex, for logs and error messages.
func (id NodeID) Short() string {
	return hex.EncodeToString(id[:6])
}

func (id NodeID) String() string {
	return hex.EncodeToString(id[:])
}

// MarshalText encodes the ID as hex so it can key JSON objects.
func (id NodeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex NodeID.
func (id *NodeID) UnmarshalText(b []byte) error {
	raw, err := hex.DecodeString(string(b))
	if err != nil {
		return fmt.Errorf("graph: bad node id %q: %w", b, err)
	}
	if len(raw) != len(id) {
		return fmt.Errorf("graph: node id %q has %d bytes, want %d", b, len(raw), len(id))
	}
	copy(id[:], raw)
	return nil
}
