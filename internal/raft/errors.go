package raft

import "errors"

// Raft errors.
var (
	// ErrNotLeader is returned when a write operation is attempted on a
	// non-leader node.
	ErrNotLeader = errors.New("raft: not the leader")

	// ErrInvalidConfig is returned when NodeConfig fails Validate.
	ErrInvalidConfig = errors.New("raft: invalid configuration")

	// ErrLogIndexOutOfRange is returned when accessing an invalid log index.
	ErrLogIndexOutOfRange = errors.New("raft: log index out of range")

	// ErrSnapshotUnsupported is returned by Compact, since log compaction
	// is not implemented. The InstallSnapshot placeholder handler does not
	// return it; it replies Success=false instead.
	ErrSnapshotUnsupported = errors.New("raft: install_snapshot is not implemented")
)
