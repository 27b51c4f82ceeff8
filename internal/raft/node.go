package raft

import (
	"fmt"
	"math/rand"
	"time"
)

// Node is a single Raft participant implemented as a pure state machine:
// every exported Handle*/Propose/Start/Recover method returns the Effects
// the caller (internal/sim.Simulator) must carry out — sending a message
// through the network, or scheduling a timer. Node itself never sleeps,
// blocks, or touches a clock.
type Node struct {
	id    NodeID
	peers []NodeID

	electionTimeoutMin time.Duration
	electionTimeoutMax time.Duration
	heartbeatInterval  time.Duration

	// rng is shared with the rest of the simulation (internal/sim wires
	// the same *rand.Rand into every Node and the Network) so that every
	// random decision taken anywhere in a run happens in one fixed
	// sequence determined purely by event dispatch order.
	rng *rand.Rand

	// Persistent state — survives a crash.
	currentTerm uint64
	votedFor    NodeID // 0 means "no vote cast this term"
	log         *RaftLog

	// Volatile state — reset on Recover.
	role        Role
	commitIndex uint64
	lastApplied uint64
	leaderID    NodeID
	alive       bool

	// Leader-only volatile state, reinitialized on every becomeLeader.
	nextIndex  map[NodeID]uint64
	matchIndex map[NodeID]uint64

	// Candidate-only volatile state.
	votesReceived map[NodeID]bool

	// Timer generations: a Handle{ElectionTimeout,HeartbeatTick} call
	// no-ops unless its Generation still matches, tombstoning stale
	// timers instead of requiring real cancellation.
	electionGen  uint64
	heartbeatGen uint64
}

// assertf panics with a formatted message if cond is false. Used to
// surface a violated invariant as a diagnostic *InvariantViolation at the
// simulator's run boundary (internal/sim.Simulator.Start) instead of
// silently producing a wrong answer.
func assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// NewNode constructs a Node in Follower state at term 0 with an empty log.
// rng must be the same *rand.Rand instance shared across the run.
func NewNode(cfg NodeConfig, rng *rand.Rand) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	peers := make([]NodeID, len(cfg.Peers))
	copy(peers, cfg.Peers)

	return &Node{
		id:                 cfg.ID,
		peers:              peers,
		electionTimeoutMin: cfg.ElectionTimeoutMin,
		electionTimeoutMax: cfg.ElectionTimeoutMax,
		heartbeatInterval:  cfg.HeartbeatInterval,
		rng:                rng,
		log:                NewRaftLog(),
		role:               RoleFollower,
		alive:              true,
		votesReceived:      make(map[NodeID]bool),
	}, nil
}

// clusterSize is this node plus its peers.
func (n *Node) clusterSize() int {
	return len(n.peers) + 1
}

// Start kicks off the node's initial election timer. The simulator calls
// this once per node right after construction.
func (n *Node) Start() []Effect {
	return n.resetElectionTimerEffects()
}

// --- accessors -------------------------------------------------------

func (n *Node) ID() NodeID          { return n.id }
func (n *Node) Role() Role          { return n.role }
func (n *Node) Term() uint64        { return n.currentTerm }
func (n *Node) IsLeader() bool      { return n.role == RoleLeader }
func (n *Node) IsAlive() bool       { return n.alive }
func (n *Node) LeaderID() NodeID    { return n.leaderID }
func (n *Node) CommitIndex() uint64 { return n.commitIndex }
func (n *Node) LastApplied() uint64 { return n.lastApplied }
func (n *Node) LogLen() uint64      { return n.log.LastIndex() }

// EntryAt returns the log entry at index, or ErrLogIndexOutOfRange if it
// has never existed or has been compacted away.
func (n *Node) EntryAt(index uint64) (LogEntry, error) {
	return n.log.EntryAt(index)
}

// NodeStatus is the read-only view exposed through Simulator.Status.
type NodeStatus struct {
	ID          NodeID
	Role        Role
	Term        uint64
	VotedFor    NodeID
	LogLen      uint64
	CommitIndex uint64
	LastApplied uint64
	Alive       bool
	LeaderID    NodeID
}

// Status snapshots the node's externally observable state.
func (n *Node) Status() NodeStatus {
	return NodeStatus{
		ID:          n.id,
		Role:        n.role,
		Term:        n.currentTerm,
		VotedFor:    n.votedFor,
		LogLen:      n.log.LastIndex(),
		CommitIndex: n.commitIndex,
		LastApplied: n.lastApplied,
		Alive:       n.alive,
		LeaderID:    n.leaderID,
	}
}

// --- liveness ----------------------------------------------------------

// Crash marks the node dead. A crashed node ignores every event directed
// at it until Recover.
func (n *Node) Crash() {
	n.alive = false
}

// Recover marks the node alive again. Persistent state (currentTerm,
// votedFor, log) survives, as it would on a real disk; volatile state
// (role, commitIndex, lastApplied, leader knowledge, leader bookkeeping)
// does not. The node re-enters as a Follower and starts a fresh election
// timer.
func (n *Node) Recover() []Effect {
	if n.alive {
		return nil
	}
	n.alive = true
	n.role = RoleFollower
	n.commitIndex = 0
	n.lastApplied = 0
	n.leaderID = 0
	n.votesReceived = make(map[NodeID]bool)
	n.nextIndex = nil
	n.matchIndex = nil
	return n.resetElectionTimerEffects()
}

// --- message dispatch ---------------------------------------------------

// HandleMessage applies the rules common to every RPC kind — bump to a
// newer term, reject anything stale — and then dispatches to the
// role-specific handler for msg's concrete type.
func (n *Node) HandleMessage(from NodeID, msg Message) []Effect {
	if !n.alive {
		return nil
	}

	var effects []Effect

	term := messageTerm(msg)
	if term > n.currentTerm {
		effects = append(effects, n.becomeFollower(term)...)
	}
	if term < n.currentTerm {
		return append(effects, n.rejectStale(from, msg)...)
	}

	switch m := msg.(type) {
	case RequestVote:
		effects = append(effects, n.handleRequestVote(from, m)...)
	case RequestVoteReply:
		effects = append(effects, n.handleRequestVoteReply(m)...)
	case AppendEntries:
		effects = append(effects, n.handleAppendEntries(from, m)...)
	case AppendEntriesReply:
		effects = append(effects, n.handleAppendEntriesReply(m)...)
	case InstallSnapshot:
		effects = append(effects, n.handleInstallSnapshot(from, m)...)
	case InstallSnapshotReply:
		// Unimplemented; nothing to do once the term check above passed.
	}
	return effects
}

func messageTerm(msg Message) uint64 {
	switch m := msg.(type) {
	case RequestVote:
		return m.Term
	case RequestVoteReply:
		return m.Term
	case AppendEntries:
		return m.Term
	case AppendEntriesReply:
		return m.Term
	case InstallSnapshot:
		return m.Term
	case InstallSnapshotReply:
		return m.Term
	default:
		return 0
	}
}

// rejectStale replies with the current term and a negative result for
// request-shaped RPCs; stale replies (to an RPC we ourselves sent) carry
// no further action.
func (n *Node) rejectStale(from NodeID, msg Message) []Effect {
	switch msg.(type) {
	case RequestVote:
		return []Effect{SendMessage{To: from, Msg: RequestVoteReply{Term: n.currentTerm, VoteGranted: false, Voter: n.id}}}
	case AppendEntries:
		return []Effect{SendMessage{To: from, Msg: AppendEntriesReply{Term: n.currentTerm, Success: false, Follower: n.id}}}
	case InstallSnapshot:
		return []Effect{SendMessage{To: from, Msg: InstallSnapshotReply{Term: n.currentTerm, Success: false}}}
	default:
		return nil
	}
}

// --- role transitions ----------------------------------------------------

// becomeFollower handles both the common term-bump rule and a Candidate
// recognizing a legitimate leader at its own term: it always forces
// Follower role, clears any vote tally, and resets the election timer,
// but only clears votedFor/bumps currentTerm when term is strictly newer
// (callers pass the already-current term to demote without either).
func (n *Node) becomeFollower(term uint64) []Effect {
	prevTerm := n.currentTerm
	if term > n.currentTerm {
		n.currentTerm = term
		n.votedFor = 0
	}
	n.role = RoleFollower
	n.votesReceived = make(map[NodeID]bool)
	n.leaderID = 0
	assertf(n.currentTerm >= prevTerm, "node %d: term regressed from %d to %d in becomeFollower", n.id, prevTerm, n.currentTerm)
	return n.resetElectionTimerEffects()
}

// becomeCandidate starts a new election: bump the term, vote for self,
// and broadcast RequestVote to every peer.
func (n *Node) becomeCandidate() []Effect {
	n.currentTerm++
	n.role = RoleCandidate
	n.votedFor = n.id
	n.votesReceived = map[NodeID]bool{n.id: true}
	n.leaderID = 0

	effects := n.resetElectionTimerEffects()

	lastIndex := n.log.LastIndex()
	lastTerm := n.log.LastTerm()
	for _, peer := range n.peers {
		effects = append(effects, SendMessage{
			To: peer,
			Msg: RequestVote{
				Term:         n.currentTerm,
				CandidateID:  n.id,
				LastLogIndex: lastIndex,
				LastLogTerm:  lastTerm,
			},
		})
	}
	return effects
}

// becomeLeader initializes leader-only state and starts replicating
// immediately.
func (n *Node) becomeLeader() []Effect {
	n.role = RoleLeader
	n.leaderID = n.id

	// A Leader never times out its own election; invalidate whatever
	// election timer is still in flight from the candidacy that won.
	n.electionGen++

	next := n.log.LastIndex() + 1
	n.nextIndex = make(map[NodeID]uint64, len(n.peers))
	n.matchIndex = make(map[NodeID]uint64, len(n.peers))
	for _, peer := range n.peers {
		n.nextIndex[peer] = next
		n.matchIndex[peer] = 0
	}

	effects := n.broadcastAppendEntries()
	return append(effects, n.resetHeartbeatTimerEffects()...)
}

// --- timers ---------------------------------------------------------------

// HandleElectionTimeout starts a new election, unless generation is stale
// or this node is already a Leader.
func (n *Node) HandleElectionTimeout(generation uint64) []Effect {
	if !n.alive || generation != n.electionGen || n.role == RoleLeader {
		return nil
	}
	return n.becomeCandidate()
}

// HandleHeartbeatTick re-broadcasts AppendEntries and reschedules itself,
// unless generation is stale or this node stepped down as Leader.
func (n *Node) HandleHeartbeatTick(generation uint64) []Effect {
	if !n.alive || generation != n.heartbeatGen || n.role != RoleLeader {
		return nil
	}
	effects := n.broadcastAppendEntries()
	return append(effects, n.resetHeartbeatTimerEffects()...)
}

func (n *Node) resetElectionTimerEffects() []Effect {
	n.electionGen++
	return []Effect{ResetElectionTimer{Delay: n.randomElectionTimeout(), Generation: n.electionGen}}
}

func (n *Node) resetHeartbeatTimerEffects() []Effect {
	n.heartbeatGen++
	return []Effect{ResetHeartbeatTimer{Delay: n.heartbeatInterval, Generation: n.heartbeatGen}}
}

// randomElectionTimeout draws a fresh timeout from [min, max) using the
// run's shared PRNG.
func (n *Node) randomElectionTimeout() time.Duration {
	lo, hi := n.electionTimeoutMin, n.electionTimeoutMax
	if hi <= lo {
		return lo
	}
	span := hi - lo
	return lo + time.Duration(n.rng.Float64()*float64(span))
}

// --- RequestVote -----------------------------------------------------------

func (n *Node) handleRequestVote(from NodeID, m RequestVote) []Effect {
	var effects []Effect

	granted := false
	if (n.votedFor == 0 || n.votedFor == m.CandidateID) && n.logUpToDate(m.LastLogIndex, m.LastLogTerm) {
		granted = true
		n.votedFor = m.CandidateID
		effects = append(effects, n.resetElectionTimerEffects()...)
	}

	reply := RequestVoteReply{Term: n.currentTerm, VoteGranted: granted, Voter: n.id}
	return append(effects, SendMessage{To: from, Msg: reply})
}

// logUpToDate reports whether a candidate's log is at least as
// up-to-date as ours: a strictly later last term wins outright; a tied
// last term falls back to comparing log length.
func (n *Node) logUpToDate(lastLogIndex, lastLogTerm uint64) bool {
	ourTerm := n.log.LastTerm()
	if lastLogTerm != ourTerm {
		return lastLogTerm > ourTerm
	}
	return lastLogIndex >= n.log.LastIndex()
}

func (n *Node) handleRequestVoteReply(m RequestVoteReply) []Effect {
	if n.role != RoleCandidate || !m.VoteGranted {
		return nil
	}
	n.votesReceived[m.Voter] = true
	if len(n.votesReceived) >= majority(n.clusterSize()) {
		return n.becomeLeader()
	}
	return nil
}

// --- AppendEntries -----------------------------------------------------------

func (n *Node) handleAppendEntries(from NodeID, m AppendEntries) []Effect {
	var effects []Effect

	if n.role == RoleCandidate {
		// Recognize a legitimate leader at our own term.
		effects = append(effects, n.becomeFollower(n.currentTerm)...)
	} else {
		effects = append(effects, n.resetElectionTimerEffects()...)
	}
	n.leaderID = m.LeaderID

	success, conflictIndex := n.checkLogConsistency(m.PrevLogIndex, m.PrevLogTerm)
	matchIndex := uint64(0)

	if success {
		if len(m.Entries) > 0 {
			n.appendNewEntries(m.Entries)
		}
		matchIndex = m.PrevLogIndex + uint64(len(m.Entries))

		if m.LeaderCommit > n.commitIndex {
			n.commitIndex = min(m.LeaderCommit, matchIndex)
			n.advanceApplied()
		}
	}

	reply := AppendEntriesReply{
		Term:          n.currentTerm,
		Success:       success,
		MatchIndex:    matchIndex,
		ConflictIndex: conflictIndex,
		Follower:      n.id,
	}
	return append(effects, SendMessage{To: from, Msg: reply})
}

// checkLogConsistency checks whether prevIndex/prevTerm match our log,
// the AppendEntries consistency check, and computes the conflict_index
// fast-backoff hint for the leader when it doesn't.
func (n *Node) checkLogConsistency(prevIndex, prevTerm uint64) (ok bool, conflictIndex uint64) {
	if prevIndex == 0 {
		return true, 0
	}
	if prevIndex > n.log.LastIndex() {
		return false, n.log.LastIndex() + 1
	}
	entryTerm := n.log.TermAt(prevIndex)
	if entryTerm == prevTerm {
		return true, 0
	}
	ci := n.log.ConflictIndex(entryTerm)
	if ci == 0 {
		ci = prevIndex
	}
	return false, ci
}

// appendNewEntries truncates the log from the first conflicting entry
// onward, then appends; an entry already present with a matching term is
// left alone (idempotent on a redelivered or duplicated AppendEntries).
func (n *Node) appendNewEntries(entries []LogEntry) {
	for _, e := range entries {
		if n.log.Has(e.Index) {
			if n.log.TermAt(e.Index) == e.Term {
				continue // identical entry already present: idempotent no-op
			}
			n.log.TruncateFrom(e.Index)
		}
		n.log.Append(e)
	}
}

// advanceApplied steps lastApplied forward to meet commitIndex. Called
// immediately after every commitIndex advance, so this is also where the
// last_applied <= commit_index <= log length invariant is checked.
func (n *Node) advanceApplied() {
	for n.lastApplied < n.commitIndex {
		n.lastApplied++
	}
	assertf(n.lastApplied <= n.commitIndex,
		"node %d: last_applied %d exceeds commit_index %d", n.id, n.lastApplied, n.commitIndex)
	assertf(n.commitIndex <= n.log.LastIndex(),
		"node %d: commit_index %d exceeds log length %d", n.id, n.commitIndex, n.log.LastIndex())
}

func (n *Node) handleAppendEntriesReply(m AppendEntriesReply) []Effect {
	if n.role != RoleLeader {
		return nil
	}

	peer := m.Follower
	if m.Success {
		if m.MatchIndex > n.matchIndex[peer] {
			n.matchIndex[peer] = m.MatchIndex
		}
		n.nextIndex[peer] = m.MatchIndex + 1
		n.updateCommitIndex()
		return nil
	}

	if m.ConflictIndex > 0 {
		n.nextIndex[peer] = m.ConflictIndex
	} else if n.nextIndex[peer] > 1 {
		n.nextIndex[peer]--
	}
	return nil
}

// updateCommitIndex advances commitIndex to the highest index replicated
// on a majority of logs, but only for an entry from the Leader's own
// current term: entries from prior terms commit only transitively, once a
// current-term entry above them commits.
func (n *Node) updateCommitIndex() {
	for N := n.log.LastIndex(); N > n.commitIndex; N-- {
		if n.log.TermAt(N) != n.currentTerm {
			continue
		}
		count := 1 // the leader itself
		for _, idx := range n.matchIndex {
			if idx >= N {
				count++
			}
		}
		if count >= majority(n.clusterSize()) {
			n.commitIndex = N
			n.advanceApplied()
			return
		}
	}
}

// broadcastAppendEntries sends each peer an AppendEntries built from its
// current nextIndex.
func (n *Node) broadcastAppendEntries() []Effect {
	effects := make([]Effect, 0, len(n.peers))
	for _, peer := range n.peers {
		next := n.nextIndex[peer]
		if next == 0 {
			next = 1
		}
		prevIndex := next - 1
		prevTerm := n.log.TermAt(prevIndex)
		effects = append(effects, SendMessage{
			To: peer,
			Msg: AppendEntries{
				Term:         n.currentTerm,
				LeaderID:     n.id,
				PrevLogIndex: prevIndex,
				PrevLogTerm:  prevTerm,
				Entries:      n.log.Slice(next),
				LeaderCommit: n.commitIndex,
			},
		})
	}
	return effects
}

// --- InstallSnapshot (placeholder) -----------------------------------------

// handleInstallSnapshot replies unimplemented without touching state;
// log compaction is not implemented.
func (n *Node) handleInstallSnapshot(from NodeID, _ InstallSnapshot) []Effect {
	return []Effect{SendMessage{To: from, Msg: InstallSnapshotReply{Term: n.currentTerm, Success: false}}}
}

// Compact would discard log entries up to index and install a snapshot in
// their place; unimplemented, so it always reports ErrSnapshotUnsupported.
func (n *Node) Compact(_ uint64) error {
	return ErrSnapshotUnsupported
}

// --- client commands ---------------------------------------------------

// Propose appends a new entry to the local log and triggers immediate
// replication. It fails if this node is not currently the Leader.
func (n *Node) Propose(command []byte) (index uint64, effects []Effect, err error) {
	if n.role != RoleLeader {
		return 0, nil, ErrNotLeader
	}
	index = n.log.LastIndex() + 1
	n.log.Append(LogEntry{Index: index, Term: n.currentTerm, Command: command})
	return index, n.broadcastAppendEntries(), nil
}
