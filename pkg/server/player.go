package server

import (
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// playerConn is the server's per-connection record: identity, pose, the
// streamed-column set and the connection itself. Field shape carried over
// from the teacher's Player struct, trimmed to what protocol framing and
// chunk streaming need — no inventory/health/gamemode-ability state, since
// that belongs to the survival game-logic loop this package does not
// implement.
type playerConn struct {
	id       uuid.UUID
	eid      int32
	username string
	conn     net.Conn
	rd       *protocol.StreamReader

	mu         sync.Mutex
	x, y, z    float64
	stance     float64
	yaw, pitch float32
	onGround   bool

	loadedChunks map[world.ChunkPos]bool
	lastChunkX   int32
	lastChunkZ   int32

	lastActivity time.Time
	done         chan struct{}
	closeOnce    sync.Once
}

func (p *playerConn) send(pkt protocol.Packet) error {
	p.mu.Lock()
	conn := p.conn
	p.mu.Unlock()
	if conn == nil {
		return net.ErrClosed
	}
	return protocol.Encode(conn, pkt)
}

func (p *playerConn) setPos(x, y, stance, z float64, onGround bool) {
	p.mu.Lock()
	p.x, p.y, p.stance, p.z, p.onGround = x, y, stance, z, onGround
	p.mu.Unlock()
}

func (p *playerConn) setLook(yaw, pitch float32, onGround bool) {
	p.mu.Lock()
	p.yaw, p.pitch, p.onGround = yaw, pitch, onGround
	p.mu.Unlock()
}

func (p *playerConn) touch() {
	p.mu.Lock()
	p.lastActivity = time.Now()
	p.mu.Unlock()
}

func (p *playerConn) lastActivityTime() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastActivity
}

func (p *playerConn) close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.mu.Lock()
		conn := p.conn
		p.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
	})
}
