package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Nourayam/Distributed-Systems-Engine/internal/config"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/fault"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/logging"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/network"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/raft"
	"github.com/Nourayam/Distributed-Systems-Engine/internal/scheduler"
)

// Simulator is the control surface of a single Raft run: it owns one
// Scheduler, one Network, one raft.Node per cluster member, and an
// optional fault.Injector, and drives them all from a single seeded PRNG.
type Simulator struct {
	cfg    config.Config
	logger logging.Logger
	runID  uuid.UUID

	rng       *rand.Rand
	scheduler *scheduler.Scheduler
	network   *network.Network
	injector  *fault.Injector
	nodes     map[raft.NodeID]*raft.Node
	nodeOrder []raft.NodeID

	started bool
	stopped bool

	trace []RecordedEvent
}

// New validates cfg and builds a Simulator ready to Start.
func New(cfg config.Config, logger logging.Logger) (*Simulator, error) {
	if errs := config.Validate(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	s := &Simulator{cfg: cfg, runID: uuid.New()}
	s.logger = logger.WithRunID(s.runID)
	s.build()
	return s, nil
}

// build (re)creates every stateful component from s.cfg and a fresh PRNG
// seeded from s.cfg.Seed. Shared by New and Reset.
func (s *Simulator) build() {
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
	s.scheduler = scheduler.New()
	s.network = network.New(network.Config{
		DropRate:      s.cfg.MessageDropRate,
		DuplicateRate: s.cfg.DuplicateRate,
		DelayMin:      s.cfg.MessageDelayMin,
		DelayMax:      s.cfg.MessageDelayMax,
		Jitter:        s.cfg.MessageJitter,
	}, s.rng)
	s.injector = fault.New(fault.DefaultConfig(), s.rng)

	s.nodeOrder = make([]raft.NodeID, s.cfg.Nodes)
	for i := 0; i < s.cfg.Nodes; i++ {
		s.nodeOrder[i] = raft.NodeID(i + 1)
	}
	sort.Slice(s.nodeOrder, func(i, j int) bool { return s.nodeOrder[i] < s.nodeOrder[j] })

	s.nodes = make(map[raft.NodeID]*raft.Node, s.cfg.Nodes)
	for _, id := range s.nodeOrder {
		var peers []raft.NodeID
		for _, other := range s.nodeOrder {
			if other != id {
				peers = append(peers, other)
			}
		}
		node, err := raft.NewNode(raft.NodeConfig{
			ID:                 id,
			Peers:              peers,
			ElectionTimeoutMin: s.cfg.ElectionTimeoutMin,
			ElectionTimeoutMax: s.cfg.ElectionTimeoutMax,
			HeartbeatInterval:  s.cfg.HeartbeatInterval,
		}, s.rng)
		if err != nil {
			// cfg was already validated; a NodeConfig built from it
			// failing to validate is a programmer error, not a runtime one.
			panic(fmt.Sprintf("sim: node %d config invalid: %v", id, err))
		}
		s.nodes[id] = node
	}

	s.started = false
	s.stopped = false
	s.trace = nil
}

// Reset discards all run state and rebuilds the Simulator from its
// original Config, ready for another Start.
func (s *Simulator) Reset() error {
	s.build()
	return nil
}

// Stop halts processing of further Effects; already-queued scheduler
// events still pop (cheaply, as no-ops) so RunUntil returns promptly
// rather than requiring true queue surgery.
func (s *Simulator) Stop() {
	s.stopped = true
}

// Start runs the simulation from t=0 to Config.MaxTime. A panic raised
// by any component during the run (a violated invariant) is recovered
// and reported as an *InvariantViolation instead of crashing the caller.
func (s *Simulator) Start() (err error) {
	if s.started {
		return ErrAlreadyStarted
	}
	defer func() {
		if r := recover(); r != nil {
			err = &InvariantViolation{Reason: fmt.Sprintf("%v", r)}
		}
	}()

	s.started = true
	for _, id := range s.nodeOrder {
		s.applyEffects(0, id, s.nodes[id].Start())
	}
	s.scheduleChaos()

	s.scheduler.RunUntil(scheduler.Time(s.cfg.MaxTime), s.dispatch)
	return nil
}

// drainRounds bounds how many heartbeat intervals Submit waits for a
// proposed entry's replication to settle, independent of how close the
// overall run already is to Config.MaxTime.
const drainRounds = 20

// Submit proposes command to whichever node currently believes itself
// Leader, returning the log index it was assigned. The replication this
// triggers is drained immediately: Submit runs the scheduler forward by
// drainRounds heartbeat intervals, past Config.MaxTime if need be. It
// does not check that the cluster has converged on this entry before it
// returns.
func (s *Simulator) Submit(command []byte) (uint64, error) {
	leader := s.currentLeaderID()
	if leader == 0 {
		return 0, ErrNoLeader
	}
	index, effects, err := s.nodes[leader].Propose(command)
	if err != nil {
		return 0, err
	}
	s.applyEffects(s.scheduler.Now(), leader, effects)

	horizon := s.scheduler.Now() + scheduler.Time(drainRounds)*durationToVirtual(s.cfg.HeartbeatInterval)
	s.scheduler.RunUntil(horizon, s.dispatch)
	return index, nil
}

// InjectFault schedules action and returns a handle identifying this
// injection. Intended to be called before Start, since a Simulator run is
// a single synchronous RunUntil call with no concurrent access.
func (s *Simulator) InjectFault(action fault.Action) (uuid.UUID, error) {
	handle := uuid.New()
	s.scheduler.Schedule(durationToVirtual(action.At), faultActionEvent{Action: action})
	return handle, nil
}

// Status snapshots every node, the network's fault counters, and the
// scheduler's processed/cancelled counts.
func (s *Simulator) Status() Status {
	nodes := make([]raft.NodeStatus, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Status())
	}
	return Status{
		RunID:          s.runID,
		Now:            s.scheduler.Now(),
		Nodes:          nodes,
		Network:        s.network.Stats(),
		SchedulerStats: s.scheduler.Stats(),
	}
}

// Trace returns the recorded EventTrace, non-nil only when
// Config.Recording was set.
func (s *Simulator) Trace() []RecordedEvent {
	return s.trace
}

func (s *Simulator) currentLeaderID() raft.NodeID {
	for _, id := range s.nodeOrder {
		if s.nodes[id].IsLeader() {
			return id
		}
	}
	return 0
}

// partitionIntoThirds splits nodes into up to three roughly equal groups
// (fewer if the cluster is smaller than 3), distributing any remainder
// across the earliest groups. A cluster of 3 yields three singleton
// groups, so every node ends up isolated from the rest.
func partitionIntoThirds(nodes []raft.NodeID) [][]network.NodeID {
	n := len(nodes)
	if n == 0 {
		return nil
	}
	groupCount := 3
	if n < groupCount {
		groupCount = n
	}
	base, remainder := n/groupCount, n%groupCount

	groups := make([][]network.NodeID, 0, groupCount)
	start := 0
	for i := 0; i < groupCount; i++ {
		size := base
		if i < remainder {
			size++
		}
		groups = append(groups, toNetNodeIDs(nodes[start:start+size]))
		start += size
	}
	return groups
}

// --- dispatch loop ----------------------------------------------------

func (s *Simulator) dispatch(now scheduler.Time, _ scheduler.EventID, evt scheduler.Event) {
	if s.stopped {
		return
	}
	switch e := evt.(type) {
	case deliverEvent:
		node, ok := s.nodes[e.To]
		if !ok {
			return
		}
		if s.cfg.Recording {
			s.trace = append(s.trace, RecordedEvent{Time: now, From: e.From, To: e.To, Kind: messageKind(e.Msg)})
		}
		s.applyEffects(now, e.To, node.HandleMessage(e.From, e.Msg))

	case electionTimeoutEvent:
		if node, ok := s.nodes[e.Node]; ok {
			s.applyEffects(now, e.Node, node.HandleElectionTimeout(e.Generation))
		}

	case heartbeatTickEvent:
		if node, ok := s.nodes[e.Node]; ok {
			s.applyEffects(now, e.Node, node.HandleHeartbeatTick(e.Generation))
		}

	case faultActionEvent:
		s.applyFaultAction(now, e.Action)

	case leaderFailureTriggerEvent:
		s.triggerLeaderFailure(e.RecoverAfter)

	case chaosTickEvent:
		s.handleChaosTick()
	}
}

// applyEffects executes every Effect a Node handler returned: SendMessage
// goes through the Network and comes back as zero or more scheduled
// deliverEvents; the two timer-reset Effects become scheduled timer
// events tagged with the generation the Node expects back.
func (s *Simulator) applyEffects(now scheduler.Time, from raft.NodeID, effects []raft.Effect) {
	for _, eff := range effects {
		switch e := eff.(type) {
		case raft.SendMessage:
			s.sendMessage(now, from, e.To, e.Msg)
		case raft.ResetElectionTimer:
			s.scheduler.Schedule(durationToVirtual(e.Delay), electionTimeoutEvent{Node: from, Generation: e.Generation})
		case raft.ResetHeartbeatTimer:
			s.scheduler.Schedule(durationToVirtual(e.Delay), heartbeatTickEvent{Node: from, Generation: e.Generation})
		}
	}
}

func (s *Simulator) sendMessage(_ scheduler.Time, from, to raft.NodeID, msg raft.Message) {
	srcAlive := s.nodes[from].IsAlive()
	dstAlive := s.nodes[to].IsAlive()
	deliveries := s.network.Send(toNetNodeID(from), toNetNodeID(to), srcAlive, dstAlive)
	for _, d := range deliveries {
		s.scheduler.Schedule(durationToVirtual(d.Delay), deliverEvent{From: from, To: to, Msg: msg})
	}
}

func (s *Simulator) applyFaultAction(now scheduler.Time, a fault.Action) {
	switch a.Kind {
	case fault.ActionCrash:
		if node, ok := s.nodes[toRaftNodeID(a.Node)]; ok {
			node.Crash()
			s.logger.Info("node crashed", "node", a.Node, "t", now)
		}
	case fault.ActionRecover:
		if node, ok := s.nodes[toRaftNodeID(a.Node)]; ok {
			s.applyEffects(now, toRaftNodeID(a.Node), node.Recover())
			s.logger.Info("node recovered", "node", a.Node, "t", now)
		}
	case fault.ActionPartition:
		s.network.Partition(a.Groups)
		s.logger.Info("network partitioned", "groups", a.Groups, "t", now)
	case fault.ActionHeal:
		s.network.Heal()
		s.logger.Info("network healed", "t", now)
	}
}

func (s *Simulator) triggerLeaderFailure(recoverAfter time.Duration) {
	leader := s.currentLeaderID()
	if leader == 0 {
		return // no leader elected yet; scenario simply does not fire
	}
	for _, a := range fault.LeaderFailure(toNetNodeID(leader), 0, recoverAfter) {
		s.scheduler.Schedule(durationToVirtual(a.At), faultActionEvent{Action: a})
	}
}

func (s *Simulator) handleChaosTick() {
	if !s.cfg.Chaos || s.cfg.ChaosScenario != config.ScenarioNone {
		return
	}
	for _, id := range s.nodeOrder {
		node := s.nodes[id]
		if node.IsAlive() && s.injector.ShouldCrashNode(toNetNodeID(id)) {
			node.Crash()
		}
	}
	if s.injector.ShouldPartitionNetwork() {
		mid := len(s.nodeOrder) / 2
		if mid > 0 {
			s.network.Partition([][]network.NodeID{
				toNetNodeIDs(s.nodeOrder[:mid]),
				toNetNodeIDs(s.nodeOrder[mid:]),
			})
		}
	}
	s.scheduler.Schedule(1, chaosTickEvent{})
}

// scheduleChaos installs whichever fault timeline Config.ChaosScenario
// names, once, at Start time.
func (s *Simulator) scheduleChaos() {
	if !s.cfg.Chaos {
		return
	}
	switch s.cfg.ChaosScenario {
	case config.ScenarioNone:
		s.scheduler.Schedule(1, chaosTickEvent{})

	case config.ScenarioLeaderFailure:
		third := s.cfg.MaxTime / 3
		s.scheduler.Schedule(scheduler.Time(third), leaderFailureTriggerEvent{RecoverAfter: secondsToDuration(third)})

	case config.ScenarioRollingFailures:
		interval := secondsToDuration(s.cfg.MaxTime / float64(len(s.nodeOrder)*2+1))
		actions := fault.RollingFailures(toNetNodeIDs(s.nodeOrder), 0, interval, interval)
		for _, a := range actions {
			s.scheduler.Schedule(durationToVirtual(a.At), faultActionEvent{Action: a})
		}

	case config.ScenarioSplitBrain:
		mid := len(s.nodeOrder) / 2
		if mid == 0 {
			return
		}
		groups := [][]network.NodeID{
			toNetNodeIDs(s.nodeOrder[:mid]),
			toNetNodeIDs(s.nodeOrder[mid:]),
		}
		at := secondsToDuration(s.cfg.MaxTime / 3)
		duration := secondsToDuration(s.cfg.MaxTime / 3)
		for _, a := range fault.SplitBrain(groups, at, duration) {
			s.scheduler.Schedule(durationToVirtual(a.At), faultActionEvent{Action: a})
		}

	case config.ScenarioNetworkPartition:
		// A three-way split instead of SplitBrain's two, exercising
		// NetworkPartition's arbitrary-group-count form.
		groups := partitionIntoThirds(s.nodeOrder)
		if len(groups) < 2 {
			return
		}
		at := secondsToDuration(s.cfg.MaxTime / 3)
		duration := secondsToDuration(s.cfg.MaxTime / 3)
		for _, a := range fault.NetworkPartition(groups, at, duration) {
			s.scheduler.Schedule(durationToVirtual(a.At), faultActionEvent{Action: a})
		}
	}
}
