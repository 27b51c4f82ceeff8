package raft

// LogEntry is one entry in a node's replicated log. Entries are 1-indexed
// and, once committed, are never mutated.
type LogEntry struct {
	Index   uint64
	Term    uint64
	Command []byte
}

// RaftLog is the append-only sequence of LogEntry values for one node.
//
// snapshotIndex/snapshotTerm track the last entry that has been
// compacted away. Both are always zero today since log compaction isn't
// implemented, but every accessor is written in terms of them so that
// wiring a real InstallSnapshot handler later only means advancing these
// two fields and trimming entries, never touching call sites.
type RaftLog struct {
	entries       []LogEntry
	snapshotIndex uint64
	snapshotTerm  uint64
}

// NewRaftLog returns an empty log.
func NewRaftLog() *RaftLog {
	return &RaftLog{}
}

// LastIndex returns the index of the last entry in the log, or
// snapshotIndex if the log (beyond any snapshot) is empty.
func (l *RaftLog) LastIndex() uint64 {
	if len(l.entries) == 0 {
		return l.snapshotIndex
	}
	return l.entries[len(l.entries)-1].Index
}

// LastTerm returns the term of the last entry, or snapshotTerm if the log
// is empty.
func (l *RaftLog) LastTerm() uint64 {
	if len(l.entries) == 0 {
		return l.snapshotTerm
	}
	return l.entries[len(l.entries)-1].Term
}

// slot maps a 1-based log index to its position in entries, or -1 if the
// index has been compacted away or does not yet exist.
func (l *RaftLog) slot(index uint64) int {
	if index <= l.snapshotIndex {
		return -1
	}
	pos := int(index-l.snapshotIndex) - 1
	if pos < 0 || pos >= len(l.entries) {
		return -1
	}
	return pos
}

// TermAt returns the term of the entry at index, or 0 if index is 0 or
// does not exist in the retained log.
func (l *RaftLog) TermAt(index uint64) uint64 {
	if index == 0 {
		return 0
	}
	if index == l.snapshotIndex {
		return l.snapshotTerm
	}
	pos := l.slot(index)
	if pos < 0 {
		return 0
	}
	return l.entries[pos].Term
}

// Get returns the entry at index and whether it exists in the retained
// log.
func (l *RaftLog) Get(index uint64) (LogEntry, bool) {
	pos := l.slot(index)
	if pos < 0 {
		return LogEntry{}, false
	}
	return l.entries[pos], true
}

// EntryAt is Get's error-returning form, for callers (diagnostics,
// inspection tooling) that want a sentinel error instead of a bool on a
// miss rather than threading an ok value through.
func (l *RaftLog) EntryAt(index uint64) (LogEntry, error) {
	entry, ok := l.Get(index)
	if !ok {
		return LogEntry{}, ErrLogIndexOutOfRange
	}
	return entry, nil
}

// Has reports whether index names an entry currently retained in the log.
func (l *RaftLog) Has(index uint64) bool {
	return l.slot(index) >= 0
}

// Append adds entry to the end of the log. The caller is responsible for
// ensuring entry.Index == LastIndex()+1; Append never renumbers entries.
func (l *RaftLog) Append(entry LogEntry) {
	l.entries = append(l.entries, entry)
}

// TruncateFrom removes every entry at index and beyond, used when a
// follower discovers an entry at index that conflicts with the leader.
func (l *RaftLog) TruncateFrom(index uint64) {
	pos := l.slot(index)
	if pos < 0 {
		return
	}
	l.entries = l.entries[:pos]
}

// Slice returns a copy of every retained entry with Index >= from (from
// is typically nextIndex[peer]), used to build an AppendEntries payload.
func (l *RaftLog) Slice(from uint64) []LogEntry {
	pos := l.slot(from)
	if pos < 0 {
		if from > l.LastIndex() {
			return nil
		}
		pos = 0
	}
	out := make([]LogEntry, len(l.entries)-pos)
	copy(out, l.entries[pos:])
	return out
}

// ConflictIndex returns the first index carrying conflictTerm, used for
// the leader's fast next_index backoff after a rejected AppendEntries:
// "first index of the conflicting term". Returns 0 if conflictTerm does
// not appear in the retained log.
func (l *RaftLog) ConflictIndex(conflictTerm uint64) uint64 {
	for _, e := range l.entries {
		if e.Term == conflictTerm {
			return e.Index
		}
	}
	return 0
}
