// Package server implements the server side of a protocol-17 connection:
// accept, handshake/login, per-player chunk streaming and keep-alive, and
// relaying chat between connected players. Player positions are recorded for
// chunk streaming but are not relayed to other players. It deliberately stops at
// protocol framing and world storage — no survival game-logic loop (combat,
// inventory, crafting) lives here, matching spec.md §1's scope boundary.
// Grounded on the teacher's pkg/server/server.go (Server/Player shape,
// one-goroutine-per-connection accept loop) and pkg/server/chunk.go
// (distance-sorted view-distance streaming), re-pointed at protocol-17's
// packet catalog and pkg/world's Store instead of the teacher's 1.8 wire
// format and override-map world.
package server

import (
	"errors"
	"log"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// DefaultViewDistance is the column radius streamed around each player.
const DefaultViewDistance = 10

const keepAliveInterval = 5 * time.Second
const keepAliveTimeout = 30 * time.Second

// ErrNotListening is returned by Stop when the server was never started.
var ErrNotListening = errors.New("server: not listening")

// Config is the server's startup configuration, adapted from the teacher's
// flag-based Config in cmd/server/main.go.
type Config struct {
	Address      string
	MaxPlayers   int
	MOTD         string
	Seed         int64
	ViewDistance int
	Dimension    world.Dimension
	Difficulty   int8
	WorldHeight  uint8
	GameMode     int8
}

// Server accepts protocol-17 connections and streams world state to them.
type Server struct {
	cfg    Config
	world  *world.Store
	logger *log.Logger

	mu       sync.RWMutex
	listener net.Listener
	players  map[uuid.UUID]*playerConn
	nextEID  int32

	stopCh   chan struct{}
	stopOnce sync.Once
}

// New constructs a Server from cfg, applying the teacher's convention of
// filling zero-valued fields with sane defaults before use.
func New(cfg Config) *Server {
	if cfg.ViewDistance <= 0 {
		cfg.ViewDistance = DefaultViewDistance
	}
	if cfg.WorldHeight == 0 {
		cfg.WorldHeight = uint8(world.SizeY)
	}
	return &Server{
		cfg:     cfg,
		world:   world.NewStore(cfg.Seed, cfg.Dimension),
		logger:  log.Default(),
		players: make(map[uuid.UUID]*playerConn),
		stopCh:  make(chan struct{}),
	}
}

// Start opens the listening socket and begins accepting connections on a
// background goroutine, mirroring the teacher's main.go start/signal shape.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	s.logger.Printf("server: listening on %s", ln.Addr())
	go s.acceptLoop(ln)
	return nil
}

// StopChan is closed when the server is asked to stop, letting a caller
// select on it alongside OS signals as the teacher's main.go does.
func (s *Server) StopChan() <-chan struct{} {
	return s.stopCh
}

// Stop closes the listener and every connected player's socket.
func (s *Server) Stop() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return ErrNotListening
	}
	s.stopOnce.Do(func() { close(s.stopCh) })
	ln.Close()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.players {
		p.close()
	}
	return nil
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.logger.Printf("server: accept error: %v", err)
				return
			}
		}
		go s.handleConn(conn)
	}
}

// handleConn drives one connection through handshake, login, initial chunk
// streaming and the read loop, adapted from the teacher's per-connection
// goroutine in pkg/server/server.go.
func (s *Server) handleConn(conn net.Conn) {
	rd := protocol.NewStreamReader(conn)

	hsPkt, err := rd.Next()
	if err != nil {
		conn.Close()
		return
	}
	if _, ok := hsPkt.(protocol.Handshake); !ok {
		conn.Close()
		return
	}
	if err := protocol.Encode(conn, protocol.Handshake{Payload: "-"}); err != nil {
		conn.Close()
		return
	}

	loginPkt, err := rd.Next()
	if err != nil {
		conn.Close()
		return
	}
	lr, ok := loginPkt.(protocol.LoginRequest)
	if !ok {
		conn.Close()
		return
	}
	if lr.EntityOrVersion != 17 {
		protocol.Encode(conn, protocol.Kick{Reason: "incompatible protocol version"})
		conn.Close()
		return
	}
	if s.atCapacity() {
		protocol.Encode(conn, protocol.Kick{Reason: "server is full"})
		conn.Close()
		return
	}

	p := &playerConn{
		id:           uuid.New(),
		eid:          s.allocEID(),
		username:     lr.Username,
		conn:         conn,
		rd:           rd,
		y:            70,
		stance:       70 + 1.62,
		loadedChunks: make(map[world.ChunkPos]bool),
		lastActivity: time.Now(),
		done:         make(chan struct{}),
	}

	reply := protocol.LoginRequest{
		EntityOrVersion: p.eid,
		Username:        "",
		MapSeed:         s.cfg.Seed,
		ServerMode:      int32(s.cfg.GameMode),
		Dimension:       int8(s.cfg.Dimension),
		Difficulty:      s.cfg.Difficulty,
		WorldHeight:     s.cfg.WorldHeight,
		MaxPlayers:      uint8(s.cfg.MaxPlayers),
	}
	if err := p.send(reply); err != nil {
		conn.Close()
		return
	}
	if err := p.send(protocol.SpawnPosition{X: 0, Y: 70, Z: 0}); err != nil {
		conn.Close()
		return
	}

	s.register(p)
	defer s.unregister(p)

	s.streamInitialChunks(p)

	if err := p.send(protocol.PlayerPosLook{
		X: p.x, Y: p.y, Stance: p.stance, Z: p.z,
		Yaw: p.yaw, Pitch: p.pitch, OnGround: false,
	}); err != nil {
		return
	}

	go s.keepAliveLoop(p)

	s.runReadLoop(p)
}

func (s *Server) atCapacity() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.MaxPlayers > 0 && len(s.players) >= s.cfg.MaxPlayers
}

func (s *Server) allocEID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEID++
	return s.nextEID
}

func (s *Server) register(p *playerConn) {
	s.mu.Lock()
	s.players[p.id] = p
	s.mu.Unlock()
	s.logger.Printf("server: %s connected (eid %d)", p.username, p.eid)
}

func (s *Server) unregister(p *playerConn) {
	s.mu.Lock()
	delete(s.players, p.id)
	s.mu.Unlock()
	p.close()
	s.broadcastExcept(p.id, protocol.DestroyEntity{EntityID: p.eid})
	s.logger.Printf("server: %s disconnected", p.username)
}

// runReadLoop blocks processing inbound packets until the connection fails
// or is kicked, generalizing the teacher's switch-per-packet handler to the
// protocol-17 catalog this spec targets.
func (s *Server) runReadLoop(p *playerConn) {
	for {
		pkt, err := p.rd.Next()
		if err != nil {
			return
		}
		p.touch()

		switch m := pkt.(type) {
		case protocol.KeepAlive:
			// Client replies are not round-tripped to a counter; any
			// keep-alive from the client just proves liveness.
		case protocol.PlayerPos:
			p.setPos(m.X, m.Y, m.Stance, m.Z, m.OnGround)
			s.streamChunkUpdates(p)
		case protocol.PlayerLook:
			p.setLook(m.Yaw, m.Pitch, m.OnGround)
		case protocol.PlayerPosLook:
			p.setPos(m.X, m.Y, m.Stance, m.Z, m.OnGround)
			p.setLook(m.Yaw, m.Pitch, m.OnGround)
			s.streamChunkUpdates(p)
		case protocol.Chat:
			s.broadcastExcept(p.id, protocol.Chat{Message: p.username + ": " + m.Message})
		case protocol.Kick:
			return
		}
	}
}

func (s *Server) keepAliveLoop(p *playerConn) {
	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-s.stopCh:
			return
		case now := <-ticker.C:
			if now.Sub(p.lastActivityTime()) > keepAliveTimeout {
				p.send(protocol.Kick{Reason: "timed out"})
				p.close()
				return
			}
			if err := p.send(protocol.KeepAlive{ID: int32(now.UnixNano())}); err != nil {
				return
			}
		}
	}
}

func (s *Server) broadcastExcept(exclude uuid.UUID, pkt protocol.Packet) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, p := range s.players {
		if id == exclude {
			continue
		}
		p.send(pkt)
	}
}

// streamInitialChunks sends every column within view distance of a
// freshly-connected player, grounded on the teacher's sendSpawnChunks.
func (s *Server) streamInitialChunks(p *playerConn) {
	cx, cz := int32(p.x)>>4, int32(p.z)>>4
	for _, cp := range columnsInRange(cx, cz, s.cfg.ViewDistance) {
		s.sendColumn(p, cp)
		p.loadedChunks[cp] = true
	}
	p.lastChunkX, p.lastChunkZ = cx, cz
}

// streamChunkUpdates loads newly-visible columns and unloads ones the player
// has left behind, once their position crosses a chunk boundary. Grounded on
// the teacher's sendChunkUpdates in pkg/server/chunk.go.
func (s *Server) streamChunkUpdates(p *playerConn) {
	cx, cz := int32(p.x)>>4, int32(p.z)>>4
	if cx == p.lastChunkX && cz == p.lastChunkZ {
		return
	}
	want := make(map[world.ChunkPos]bool)
	for _, cp := range columnsInRange(cx, cz, s.cfg.ViewDistance) {
		want[cp] = true
		if !p.loadedChunks[cp] {
			s.sendColumn(p, cp)
			p.loadedChunks[cp] = true
		}
	}
	for cp := range p.loadedChunks {
		if !want[cp] {
			p.send(protocol.ChunkCache{ChunkX: cp.X, ChunkZ: cp.Z, Action: protocol.ChunkCacheUnload})
			delete(p.loadedChunks, cp)
		}
	}
	p.lastChunkX, p.lastChunkZ = cx, cz
}

// sendColumn realizes a column from the world store and sends its
// chunk-cache load plus the compressed chunk-map payload.
func (s *Server) sendColumn(p *playerConn, cp world.ChunkPos) {
	if err := p.send(protocol.ChunkCache{ChunkX: cp.X, ChunkZ: cp.Z, Action: protocol.ChunkCacheLoad}); err != nil {
		return
	}
	chunk := s.world.Chunk(cp)
	data, err := chunk.Compress()
	if err != nil {
		s.logger.Printf("server: compress chunk %v: %v", cp, err)
		return
	}
	p.send(protocol.ChunkMap{
		X: cp.X * 16, Y: 0, Z: cp.Z * 16,
		SizeXMinus1: 15, SizeYMinus1: int8(world.SizeY - 1), SizeZMinus1: 15,
		Data: data,
	})
}

// columnsInRange returns every column within dist of (cx, cz), nearest
// first, matching the teacher's distance-sorted candidate list.
func columnsInRange(cx, cz int32, dist int) []world.ChunkPos {
	out := make([]world.ChunkPos, 0, (2*dist+1)*(2*dist+1))
	for dx := -dist; dx <= dist; dx++ {
		for dz := -dist; dz <= dist; dz++ {
			out = append(out, world.ChunkPos{X: cx + int32(dx), Z: cz + int32(dz)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := sqDist(out[i], cx, cz)
		dj := sqDist(out[j], cx, cz)
		return di < dj
	})
	return out
}

func sqDist(cp world.ChunkPos, cx, cz int32) int64 {
	dx := int64(cp.X - cx)
	dz := int64(cp.Z - cz)
	return dx*dx + dz*dz
}
