package raft

// Message is the tagged union of RPCs a node can send or receive.
// Concrete kinds below are the only implementations; handlers type-switch
// on them rather than inspecting a string field.
type Message interface {
	isMessage()
}

// RequestVote is sent by a Candidate to every peer when starting an
// election.
type RequestVote struct {
	Term         uint64
	CandidateID  NodeID
	LastLogIndex uint64
	LastLogTerm  uint64
}

func (RequestVote) isMessage() {}

// RequestVoteReply answers a RequestVote.
type RequestVoteReply struct {
	Term        uint64
	VoteGranted bool
	// Voter identifies who sent the reply, filled in by the sender; needed
	// because the simulator dispatches replies asynchronously and the
	// candidate must know which peer's vote this is.
	Voter NodeID
}

func (RequestVoteReply) isMessage() {}

// AppendEntries is sent by the Leader, both as a heartbeat (Entries == nil)
// and to replicate log entries.
type AppendEntries struct {
	Term         uint64
	LeaderID     NodeID
	PrevLogIndex uint64
	PrevLogTerm  uint64
	Entries      []LogEntry
	LeaderCommit uint64
}

func (AppendEntries) isMessage() {}

// AppendEntriesReply answers an AppendEntries.
type AppendEntriesReply struct {
	Term    uint64
	Success bool
	// MatchIndex is the highest index the follower now guarantees matches
	// the leader's log, meaningful only when Success is true.
	MatchIndex uint64
	// ConflictIndex optionally names the first index of the conflicting
	// term, enabling the leader's fast next_index backoff. Zero means
	// "no hint, decrement by one."
	ConflictIndex uint64
	// Follower identifies who sent the reply, for the same reason as
	// RequestVoteReply.Voter.
	Follower NodeID
}

func (AppendEntriesReply) isMessage() {}

// InstallSnapshot is a placeholder RPC for the unimplemented log
// compaction path. Nodes reply with Success=false and do not alter any
// state.
type InstallSnapshot struct {
	Term              uint64
	LeaderID          NodeID
	LastIncludedIndex uint64
	LastIncludedTerm  uint64
}

func (InstallSnapshot) isMessage() {}

// InstallSnapshotReply answers an InstallSnapshot.
type InstallSnapshotReply struct {
	Term    uint64
	Success bool
}

func (InstallSnapshotReply) isMessage() {}
