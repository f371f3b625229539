package session

import (
	"net"
	"testing"
	"time"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// newAttachedPair returns a Session wired to one end of an in-memory pipe;
// the other end is handed back for the test to act as a fake peer,
// mirroring how pkg/protocol's tests drive the codec directly rather than
// over a real socket.
func newAttachedPair(t *testing.T) (*Session, net.Conn) {
	t.Helper()
	client, peer := net.Pipe()
	s := New("tester", nil)
	s.Attach(client)
	return s, peer
}

// S1 Handshake: a server handshake gets a login-request reply carrying
// protocol 17 and the session's username.
func TestHandshakeReplyCarriesProtocolAndUsername(t *testing.T) {
	s, peer := newAttachedPair(t)
	defer peer.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch(protocol.Handshake{Payload: "-"})
	}()

	sr := protocol.NewStreamReader(peer)
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	lr, ok := pkt.(protocol.LoginRequest)
	if !ok {
		t.Fatalf("got %T, want LoginRequest", pkt)
	}
	if lr.EntityOrVersion != 17 {
		t.Fatalf("protocol version = %d, want 17", lr.EntityOrVersion)
	}
	if lr.Username != "tester" {
		t.Fatalf("username = %q, want tester", lr.Username)
	}
	if err := <-done; err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

// S2 Keep-alive: the session echoes the server's id verbatim, never a
// substituted counter.
func TestKeepAliveEchoesVerbatim(t *testing.T) {
	s, peer := newAttachedPair(t)
	defer peer.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch(protocol.KeepAlive{ID: 918273})
	}()

	sr := protocol.NewStreamReader(peer)
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	ka, ok := pkt.(protocol.KeepAlive)
	if !ok {
		t.Fatalf("got %T, want KeepAlive", pkt)
	}
	if ka.ID != 918273 {
		t.Fatalf("echoed id = %d, want 918273", ka.ID)
	}
	if err := <-done; err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
}

// login-request records player-eid, dimension, difficulty, world-height,
// max-players and game mode from the server's reply.
func TestLoginRequestRecordsWorldBinding(t *testing.T) {
	s := New("tester", nil)
	err := s.Dispatch(protocol.LoginRequest{
		EntityOrVersion: 42,
		MapSeed:         123456789,
		ServerMode:      1,
		Dimension:       -1,
		Difficulty:      2,
		WorldHeight:     128,
		MaxPlayers:      20,
	})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if s.PlayerEID != 42 {
		t.Fatalf("PlayerEID = %d, want 42", s.PlayerEID)
	}
	if s.Seed != 123456789 {
		t.Fatalf("Seed = %d, want 123456789", s.Seed)
	}
	if s.Dimension != -1 {
		t.Fatalf("Dimension = %d, want -1", s.Dimension)
	}
	if s.WorldHeight != 128 {
		t.Fatalf("WorldHeight = %d, want 128", s.WorldHeight)
	}
	if s.MaxPlayers != 20 {
		t.Fatalf("MaxPlayers = %d, want 20", s.MaxPlayers)
	}
}

// player-pos-look snaps local pose and marks InWorld true on the first
// packet, and is acknowledged by echoing the same shape back.
func TestPlayerPosLookSnapsAndAcks(t *testing.T) {
	s, peer := newAttachedPair(t)
	defer peer.Close()

	in := protocol.PlayerPosLook{X: 1, Y: 70, Stance: 71.62, Z: -3, Yaw: 90, Pitch: 0, OnGround: true}
	done := make(chan error, 1)
	go func() {
		done <- s.Dispatch(in)
	}()

	sr := protocol.NewStreamReader(peer)
	pkt, err := sr.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	out, ok := pkt.(protocol.PlayerPosLook)
	if !ok {
		t.Fatalf("got %T, want PlayerPosLook", pkt)
	}
	if out != in {
		t.Fatalf("ack = %+v, want %+v", out, in)
	}
	if err := <-done; err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !s.InWorld {
		t.Fatalf("InWorld = false after first player-pos-look")
	}
	x, y, z, _, _, _, _ := s.Pose()
	if x != 1 || y != 70 || z != -3 {
		t.Fatalf("pose = (%v,%v,%v), want (1,70,-3)", x, y, z)
	}
}

// S4 block-change: applying a block-change writes the chunk cell directly
// and fulfills a matching tentative entry.
func TestBlockChangeWritesAndFulfills(t *testing.T) {
	s := New("tester", nil)
	cp := world.ChunkPos{X: 0, Z: 0}
	s.EnsureChunk(cp)

	pos := world.BlockPos{X: 5, Y: 64, Z: 5}
	s.RecordTentative(pos, 0, 0)

	err := s.Dispatch(protocol.BlockChange{X: 5, Y: 64, Z: 5, BlockID: 1, Metadata: 0})
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	got := s.Chunk(cp).GetBlock(5, 64, 5)
	if got != 1 {
		t.Fatalf("GetBlock = %d, want 1", got)
	}

	pending := s.PendingTentative()
	if len(pending) != 1 || !pending[0].Fulfilled {
		t.Fatalf("tentative entry not fulfilled: %+v", pending)
	}
}

// Property 9: a tentative edit unfulfilled past the timeout rolls back to
// its prior block/metadata.
func TestTentativeRollbackOnTimeout(t *testing.T) {
	s := New("tester", nil)
	pos := world.BlockPos{X: 1, Y: 2, Z: 3}
	s.RecordTentative(pos, 7, 2)

	// Force the recorded timestamp into the past without touching
	// production code's clock source.
	s.mu.Lock()
	s.tentative[0].Timestamp = time.Now().Add(-TentativeTimeout - time.Second)
	s.mu.Unlock()

	var restoredPos world.BlockPos
	var restoredBlock, restoredMeta byte
	restored := false
	s.RollbackExpired(time.Now(), func(p world.BlockPos, block, meta byte) {
		restored = true
		restoredPos, restoredBlock, restoredMeta = p, block, meta
	})

	if !restored {
		t.Fatalf("expired tentative edit was not rolled back")
	}
	if restoredPos != pos || restoredBlock != 7 || restoredMeta != 2 {
		t.Fatalf("restore(%+v, %d, %d), want (%+v, 7, 2)", restoredPos, restoredBlock, restoredMeta, pos)
	}
	if len(s.PendingTentative()) != 0 {
		t.Fatalf("expired entry should have been pruned")
	}
}

// S6 kick: receiving a kick transitions the session to TERMINATED with the
// carried reason logged.
func TestKickTerminates(t *testing.T) {
	s, peer := newAttachedPair(t)
	defer peer.Close()

	if err := s.Dispatch(protocol.Kick{Reason: "banned"}); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if s.Phase() != PhaseTerminated {
		t.Fatalf("Phase = %v, want terminated", s.Phase())
	}
}

// chunk-cache mode 1 allocates and mode 0 releases a column in the local cache.
func TestChunkCacheLoadAndUnload(t *testing.T) {
	s := New("tester", nil)
	cp := world.ChunkPos{X: 2, Z: -3}

	if err := s.Dispatch(protocol.ChunkCache{ChunkX: 2, ChunkZ: -3, Action: protocol.ChunkCacheLoad}); err != nil {
		t.Fatalf("Dispatch load: %v", err)
	}
	if s.Chunk(cp) == nil {
		t.Fatalf("chunk not allocated after load")
	}

	if err := s.Dispatch(protocol.ChunkCache{ChunkX: 2, ChunkZ: -3, Action: protocol.ChunkCacheUnload}); err != nil {
		t.Fatalf("Dispatch unload: %v", err)
	}
	if s.Chunk(cp) != nil {
		t.Fatalf("chunk still present after unload")
	}
}

// Entity packets create and update local entity records by server-assigned
// id; destroy-entity removes them.
func TestEntityLifecycle(t *testing.T) {
	s := New("tester", nil)

	if err := s.Dispatch(protocol.SpawnNamed{EntityID: 9, Username: "other", X: 32, Y: 64 * 32, Z: 0}); err != nil {
		t.Fatalf("Dispatch spawn: %v", err)
	}
	e := s.Entity(9)
	if e == nil {
		t.Fatalf("entity 9 not created")
	}
	if e.X != 1 {
		t.Fatalf("X = %v, want 1 (32 fixed-point units / 32)", e.X)
	}

	if err := s.Dispatch(protocol.MoveRel{EntityID: 9, DX: 32, DY: 0, DZ: 0}); err != nil {
		t.Fatalf("Dispatch move-rel: %v", err)
	}
	if s.Entity(9).X != 2 {
		t.Fatalf("X after move-rel = %v, want 2", s.Entity(9).X)
	}

	if err := s.Dispatch(protocol.DestroyEntity{EntityID: 9}); err != nil {
		t.Fatalf("Dispatch destroy: %v", err)
	}
	if s.Entity(9) != nil {
		t.Fatalf("entity 9 still present after destroy")
	}
}

// EnsureChunk evicts the oldest entry once the bound is exceeded.
func TestChunkCacheBound(t *testing.T) {
	s := New("tester", nil)
	first := world.ChunkPos{X: 0, Z: 0}
	s.EnsureChunk(first)
	for i := 1; i <= maxCachedChunks; i++ {
		s.EnsureChunk(world.ChunkPos{X: int32(i), Z: 0})
	}
	if s.CachedChunkCount() != maxCachedChunks {
		t.Fatalf("CachedChunkCount = %d, want %d", s.CachedChunkCount(), maxCachedChunks)
	}
	if s.Chunk(first) != nil {
		t.Fatalf("oldest chunk should have been evicted")
	}
}
