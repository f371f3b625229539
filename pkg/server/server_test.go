package server

import (
	"net"
	"testing"
	"time"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// dialLoopback starts a Server on the loopback interface and returns a
// connected client conn, mirroring the teacher's server_test.go shape of
// driving the real accept loop over a real socket rather than a pipe.
func dialLoopback(t *testing.T) (*Server, net.Conn) {
	t.Helper()
	srv := New(Config{Address: "127.0.0.1:0", MaxPlayers: 2, ViewDistance: 1})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	addr := srv.listener.Addr().String()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return srv, conn
}

func loginAs(t *testing.T, conn net.Conn, username string) *protocol.StreamReader {
	t.Helper()
	if err := protocol.Encode(conn, protocol.Handshake{Payload: "-"}); err != nil {
		t.Fatalf("encode handshake: %v", err)
	}
	rd := protocol.NewStreamReader(conn)
	pkt, err := rd.Next()
	if err != nil {
		t.Fatalf("read handshake reply: %v", err)
	}
	if _, ok := pkt.(protocol.Handshake); !ok {
		t.Fatalf("got %T, want Handshake", pkt)
	}
	if err := protocol.Encode(conn, protocol.LoginRequest{EntityOrVersion: 17, Username: username}); err != nil {
		t.Fatalf("encode login-request: %v", err)
	}
	return rd
}

// A client presenting protocol 17 receives a login-request reply carrying a
// server-assigned entity id, then a spawn-position and an initial
// chunk-cache/chunk-map stream, then a player-pos-look to settle into.
func TestHandshakeLoginAndInitialChunkStream(t *testing.T) {
	_, conn := dialLoopback(t)
	rd := loginAs(t, conn, "tester")

	pkt, err := rd.Next()
	if err != nil {
		t.Fatalf("read login reply: %v", err)
	}
	lr, ok := pkt.(protocol.LoginRequest)
	if !ok {
		t.Fatalf("got %T, want LoginRequest", pkt)
	}
	if lr.EntityOrVersion == 0 {
		t.Fatalf("server did not assign an entity id")
	}

	pkt, err = rd.Next()
	if err != nil {
		t.Fatalf("read spawn-position: %v", err)
	}
	if _, ok := pkt.(protocol.SpawnPosition); !ok {
		t.Fatalf("got %T, want SpawnPosition", pkt)
	}

	sawChunkCache := false
	sawChunkMap := false
	sawPosLook := false
	for i := 0; i < 40; i++ {
		pkt, err := rd.Next()
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		switch pkt.(type) {
		case protocol.ChunkCache:
			sawChunkCache = true
		case protocol.ChunkMap:
			sawChunkMap = true
		case protocol.PlayerPosLook:
			sawPosLook = true
		}
		if sawChunkCache && sawChunkMap && sawPosLook {
			break
		}
	}
	if !sawChunkCache || !sawChunkMap {
		t.Fatalf("initial stream missing chunk-cache/chunk-map: cache=%v map=%v", sawChunkCache, sawChunkMap)
	}
	if !sawPosLook {
		t.Fatalf("initial stream missing player-pos-look settle packet")
	}
}

// A connection presenting the wrong protocol version is kicked rather than
// accepted.
func TestWrongProtocolVersionIsKicked(t *testing.T) {
	_, conn := dialLoopback(t)
	if err := protocol.Encode(conn, protocol.Handshake{Payload: "-"}); err != nil {
		t.Fatalf("encode handshake: %v", err)
	}
	rd := protocol.NewStreamReader(conn)
	if _, err := rd.Next(); err != nil {
		t.Fatalf("read handshake reply: %v", err)
	}
	if err := protocol.Encode(conn, protocol.LoginRequest{EntityOrVersion: 99, Username: "bad"}); err != nil {
		t.Fatalf("encode login-request: %v", err)
	}
	pkt, err := rd.Next()
	if err != nil {
		t.Fatalf("read kick: %v", err)
	}
	if _, ok := pkt.(protocol.Kick); !ok {
		t.Fatalf("got %T, want Kick", pkt)
	}
}

// A server at capacity kicks new connections instead of accepting them.
func TestCapacityKicksExcessPlayers(t *testing.T) {
	srv := New(Config{Address: "127.0.0.1:0", MaxPlayers: 1, ViewDistance: 1})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })
	addr := srv.listener.Addr().String()

	first, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Dial first: %v", err)
	}
	t.Cleanup(func() { first.Close() })
	rd1 := loginAs(t, first, "first")
	if _, err := rd1.Next(); err != nil {
		t.Fatalf("first login reply: %v", err)
	}
	// Give the server time to register the first connection before
	// dialing the second.
	time.Sleep(50 * time.Millisecond)

	second, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Fatalf("Dial second: %v", err)
	}
	t.Cleanup(func() { second.Close() })
	rd2 := loginAs(t, second, "second")
	pkt, err := rd2.Next()
	if err != nil {
		t.Fatalf("read kick: %v", err)
	}
	if _, ok := pkt.(protocol.Kick); !ok {
		t.Fatalf("got %T, want Kick (server full)", pkt)
	}
}

// columnsInRange returns (2*dist+1)^2 distinct columns, nearest-first.
func TestColumnsInRangeOrderedByDistance(t *testing.T) {
	cols := columnsInRange(0, 0, 2)
	want := (2*2 + 1) * (2*2 + 1)
	if len(cols) != want {
		t.Fatalf("len = %d, want %d", len(cols), want)
	}
	if cols[0] != (world.ChunkPos{X: 0, Z: 0}) {
		t.Fatalf("nearest column = %+v, want origin", cols[0])
	}
	for i := 1; i < len(cols); i++ {
		if sqDist(cols[i-1], 0, 0) > sqDist(cols[i], 0, 0) {
			t.Fatalf("columns not distance-sorted at index %d", i)
		}
	}
}
