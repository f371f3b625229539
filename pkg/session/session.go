// Package session implements the connection state machine (C4): handshake,
// login, the in-world packet dispatch loop, keep-alive timing, tentative
// block reconciliation and the per-session chunk cache described in
// spec.md §4.4. It is grounded on the teacher's pkg/server/server.go
// Player/Server connection handling, generalized from "one goroutine per
// server-side connection" to the client-side state machine the spec
// describes; the non-blocking resolve/connect staging is supplemented from
// original_source/client/connection.cpp.
package session

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// Phase is a connection state, per the diagram in spec.md §4.4.
type Phase int

const (
	PhaseUninit Phase = iota
	PhaseResolving
	PhaseResolved
	PhaseConnecting
	PhaseActive
	PhaseTerminated
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninit:
		return "uninit"
	case PhaseResolving:
		return "resolving"
	case PhaseResolved:
		return "resolved"
	case PhaseConnecting:
		return "connecting"
	case PhaseActive:
		return "active"
	case PhaseTerminated:
		return "terminated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Budget durations for the ACTIVE-phase per-tick packet loop (spec.md §4.4).
const (
	TickBudgetInWorld = 25 * time.Millisecond
	TickBudgetLoading = 150 * time.Millisecond

	// PosLookInterval is the outbound cadence while in-world.
	PosLookInterval = 50 * time.Millisecond

	// TentativeTimeout is how long an optimistic edit waits for server
	// confirmation before it is rolled back (spec.md §4.4, §8 property 9).
	TentativeTimeout = 5 * time.Second

	// KeepAliveLiveness is the window within which a server expects a
	// reply to its keep-alive before it SHOULD terminate (spec.md §4.4).
	KeepAliveLiveness = 30 * time.Second

	// maxCachedChunks bounds the client's "last N chunks received" cache
	// (spec.md §3 Session data model). Eviction is oldest-received-first.
	maxCachedChunks = 441 // (2*ViewDistance+1)^2 for ViewDistance=10
)

// Entity is the lightweight opaque record the driver keeps for remote
// entities (spec.md §3): only enough to apply subsequent movement deltas.
type Entity struct {
	EID                int32
	Kind               byte
	X, Y, Z            float64
	Yaw, Pitch         float32
	VX, VY, VZ         float64
}

// Session is the per-connection state described in spec.md §3. A Session is
// single-threaded per spec.md §5: its codec state, tentative list and world
// view must be touched by at most one goroutine at a time, except where mu
// explicitly guards a field accessed from the keep-alive/ticker goroutines.
type Session struct {
	ID     uuid.UUID
	Logger *log.Logger

	mu    sync.Mutex
	phase Phase
	conn  net.Conn
	rd    *protocol.StreamReader

	connectErr error
	connectCh  chan error

	// Identity.
	Username    string
	ExtensionID uuid.UUID

	// World-binding, set from the login-request reply.
	PlayerEID   int32
	Dimension   int8
	Difficulty  int8
	WorldHeight uint8
	MaxPlayers  uint8
	Seed        int64
	GameMode    int8

	// Position/look.
	X, Y, Z    float64
	Stance     float64
	Yaw, Pitch float32
	OnGround   bool
	InWorld    bool

	// Time base.
	WorldTicks int64

	// Timers.
	LastKeepAliveOut time.Time
	LastKeepAliveIn  time.Time
	LastPositionSent time.Time
	lastActivity     time.Time

	// Tentative-block list (client only).
	tentative []*TentativeBlock

	// Per-session chunk cache, keyed by column coordinate. Order tracks
	// insertion so the oldest entry can be evicted once the cache exceeds
	// maxCachedChunks.
	chunks     map[world.ChunkPos]*world.Chunk
	chunkOrder []world.ChunkPos

	// Sparse map from server-assigned entity id to local record (spec.md §5).
	entities map[int32]*Entity

	// Inventory snapshot, updated by window-set-items/window-set-slot.
	inventory map[int16][]protocol.Slot

	closeOnce sync.Once
}

// New creates a Session in PhaseUninit for the given username. logger may
// be nil, in which case log.Default() is used.
func New(username string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		ID:        uuid.New(),
		Logger:    logger,
		phase:     PhaseUninit,
		Username:  username,
		chunks:    make(map[world.ChunkPos]*world.Chunk),
		entities:  make(map[int32]*Entity),
		inventory: make(map[int16][]protocol.Slot),
	}
}

func (s *Session) logf(format string, args ...any) {
	s.Logger.Printf("session[%s] "+format, append([]any{s.ID}, args...)...)
}

// Phase returns the current connection phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
	s.logf("phase -> %s", p)
}

// Init begins the RESOLVING/CONNECTING sequence for addr (host:port),
// matching spec.md §4.4's UNINIT -init-> RESOLVING transition. The actual
// DNS resolution and TCP dial run on a background goroutine so the caller's
// tick loop never blocks (supplemented from
// original_source/client/connection.cpp: the original keeps resolve/connect
// as distinct non-blocking states to avoid stalling the render loop; Go's
// net.Dial is itself blocking, so we preserve the state-machine shape by
// running it off-goroutine and polling completion via a channel).
func (s *Session) Init(addr string) {
	s.setPhase(PhaseResolving)
	s.connectCh = make(chan error, 1)
	go func() {
		s.setPhase(PhaseConnecting)
		conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
		if err != nil {
			s.connectCh <- err
			return
		}
		s.mu.Lock()
		s.conn = conn
		s.rd = protocol.NewStreamReader(conn)
		s.mu.Unlock()
		s.connectCh <- nil
	}()
}

// StepToActive advances at most one edge of the state machine per call, as
// spec.md §4.4 requires ("nothing blocks"). Call it every tick until it
// returns PhaseActive or PhaseFailed.
func (s *Session) StepToActive() Phase {
	phase := s.Phase()
	switch phase {
	case PhaseResolving, PhaseConnecting:
		select {
		case err := <-s.connectCh:
			if err != nil {
				s.mu.Lock()
				s.connectErr = err
				s.mu.Unlock()
				s.setPhase(PhaseFailed)
			} else {
				s.setPhase(PhaseActive)
				now := time.Now()
				s.mu.Lock()
				s.lastActivity = now
				s.mu.Unlock()
			}
		default:
			// Still in flight; this tick advances no edge.
		}
	}
	return s.Phase()
}

// ConnectErr reports the error that drove the session to PhaseFailed, if any.
func (s *Session) ConnectErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectErr
}

// Attach wires an already-established connection directly into ACTIVE
// phase, bypassing Init/StepToActive. Used by server-accepted connections
// and by tests that drive the codec over an in-memory pipe.
func (s *Session) Attach(conn net.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.rd = protocol.NewStreamReader(conn)
	s.lastActivity = time.Now()
	s.mu.Unlock()
	s.setPhase(PhaseActive)
}

// Send encodes and writes a packet on the session's connection.
func (s *Session) Send(p protocol.Packet) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return fmt.Errorf("session: not connected")
	}
	return protocol.Encode(conn, p)
}

// ReadNext pulls exactly one packet from the stream reader. It blocks until
// a packet is available, an error occurs, or the stream ends; per spec.md
// §5 this only ever blocks the goroutine running this session, never
// another session's.
func (s *Session) ReadNext() (protocol.Packet, error) {
	s.mu.Lock()
	rd := s.rd
	s.mu.Unlock()
	if rd == nil {
		return nil, fmt.Errorf("session: not connected")
	}
	pkt, err := rd.Next()
	if err == nil {
		s.mu.Lock()
		s.lastActivity = time.Now()
		s.mu.Unlock()
	}
	return pkt, err
}

// setReadDeadline bounds the next read so RunTick's packet loop never
// blocks past its per-tick budget (spec.md §5 "the non-blocking socket
// read" suspension point). A nil connection is a no-op; ReadNext will
// report it as not connected.
func (s *Session) setReadDeadline(t time.Time) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.SetReadDeadline(t)
	}
}

func (s *Session) clearReadDeadline() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.SetReadDeadline(time.Time{})
	}
}

// isTimeout reports whether err is a read deadline expiry rather than a
// genuine transport failure.
func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}

// Idle reports how long it has been since the last inbound packet. Per
// spec.md §5, a session idle for 60s MAY be forcibly terminated.
func (s *Session) Idle() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastActivity.IsZero() {
		return 0
	}
	return time.Since(s.lastActivity)
}

// Terminate transitions the session to TERMINATED and releases the socket.
// Per spec.md §4.4 "Cancellation", no new packets are emitted afterward.
func (s *Session) Terminate(reason string) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		conn := s.conn
		s.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
		s.logf("terminated: %s", reason)
	})
	s.setPhase(PhaseTerminated)
}

// Pose returns the session's current position/look tuple.
func (s *Session) Pose() (x, y, z, stance float64, yaw, pitch float32, onGround bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.X, s.Y, s.Z, s.Stance, s.Yaw, s.Pitch, s.OnGround
}

// SetPose updates the session's position/look tuple, maintaining the
// stance = y + ~1.62 invariant for a standing player (spec.md §3).
func (s *Session) SetPose(x, y, z float64, yaw, pitch float32, onGround bool) {
	s.mu.Lock()
	s.X, s.Y, s.Z = x, y, z
	s.Stance = y + 1.62
	s.Yaw, s.Pitch = yaw, pitch
	s.OnGround = onGround
	s.mu.Unlock()
}
