package session

import (
	"time"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// handler processes one inbound packet against the session, in the ACTIVE
// phase. Returning an error signals a protocol-fatal condition unless the
// handler itself already classified and absorbed it (e.g. decompression
// failures, which are recoverable per spec.md §7).
type handler func(s *Session, p protocol.Packet) error

// handlers is the dispatch table keyed by packet id, replacing the
// teacher's single 600-line handlePlayPacket switch with one function per
// id, per spec.md §9's redesign note.
var handlers = map[byte]handler{}

func registerHandler(id byte, h handler) {
	handlers[id] = h
}

// Dispatch applies one decoded packet to the session, mirroring the
// ACTIVE-phase bullet list in spec.md §4.4. An unregistered id is not a
// protocol error here (unlike at the codec layer) — it simply means this
// driver has nothing to do for a kind it can still decode, e.g. packets
// whose direction never targets the client. Handlers are looked up by the
// packet's own PacketID() so callers never need a type switch.
func (s *Session) Dispatch(p protocol.Packet) error {
	h, ok := handlers[p.PacketID()]
	if !ok {
		return nil
	}
	return h(s, p)
}

func init() {
	registerHandler(0x00, handleKeepAlive)
	registerHandler(0x02, handleHandshake)
	registerHandler(0x01, handleLoginRequest)
	registerHandler(0x46, handleNewState)
	registerHandler(0x04, handleTimeUpdate)
	registerHandler(0x0d, handlePlayerPosLook)
	registerHandler(0x32, handleChunkCache)
	registerHandler(0x33, handleChunkMap)
	registerHandler(0x35, handleBlockChange)
	registerHandler(0x34, handleMultiBlockChange)
	registerHandler(0x67, handleSetSlot)
	registerHandler(0x68, handleSetWindowItems)
	registerHandler(0xFF, handleKick)

	registerHandler(0x14, handleSpawnNamed)
	registerHandler(0x15, handleSpawnPickup)
	registerHandler(0x17, handleAddObject)
	registerHandler(0x18, handleSpawnMob)
	registerHandler(0x19, handleSpawnPainting)
	registerHandler(0x1a, handleSpawnXP)
	registerHandler(0x1c, handleEntityVelocity)
	registerHandler(0x1d, handleDestroyEntity)
	registerHandler(0x1f, handleMoveRel)
	registerHandler(0x20, handleEntityLook)
	registerHandler(0x21, handleLookMoveRel)
	registerHandler(0x22, handleTeleport)
}

// handleKeepAlive echoes the server's id verbatim (spec.md §4.4, §9 — never
// substitute a local counter).
func handleKeepAlive(s *Session, p protocol.Packet) error {
	ka := p.(protocol.KeepAlive)
	s.mu.Lock()
	s.LastKeepAliveIn = time.Now()
	s.mu.Unlock()
	return s.Send(protocol.KeepAlive{ID: ka.ID})
}

// handleHandshake replies to the server's handshake with a login-request
// carrying protocol 17, the session's username, and no extension magic
// (spec.md §4.4, §6).
func handleHandshake(s *Session, p protocol.Packet) error {
	return s.Send(protocol.LoginRequest{
		EntityOrVersion: 17,
		Username:        s.Username,
		MapSeed:         0,
		ServerMode:      0,
		Dimension:       0,
		Difficulty:      0,
		WorldHeight:     0,
		MaxPlayers:      0,
	})
}

// handleLoginRequest records the server's reply fields (spec.md §4.4).
func handleLoginRequest(s *Session, p protocol.Packet) error {
	lr := p.(protocol.LoginRequest)
	s.mu.Lock()
	s.PlayerEID = lr.EntityOrVersion
	s.Seed = lr.MapSeed
	s.GameMode = int8(lr.ServerMode)
	s.Dimension = lr.Dimension
	s.Difficulty = lr.Difficulty
	s.WorldHeight = lr.WorldHeight
	s.MaxPlayers = lr.MaxPlayers
	s.mu.Unlock()
	return nil
}

// handleNewState interprets the reason code (spec.md §4.4).
func handleNewState(s *Session, p protocol.Packet) error {
	ns := p.(protocol.NewState)
	switch ns.Reason {
	case protocol.NewStateGameModeChanged:
		s.mu.Lock()
		s.GameMode = ns.GameMode
		s.mu.Unlock()
	case protocol.NewStateInvalidBed, protocol.NewStateRainStart, protocol.NewStateRainEnd:
		// Local-flag-only notifications; nothing in this core's scope
		// tracks weather or bed state beyond acknowledging receipt.
	}
	return nil
}

func handleTimeUpdate(s *Session, p protocol.Packet) error {
	tu := p.(protocol.TimeUpdate)
	s.mu.Lock()
	s.WorldTicks = tu.Ticks
	s.mu.Unlock()
	return nil
}

// handlePlayerPosLook snaps local position/look, marks InWorld true on the
// first such packet, and acknowledges by echoing the same shape back
// (spec.md §4.4).
func handlePlayerPosLook(s *Session, p protocol.Packet) error {
	pl := p.(protocol.PlayerPosLook)
	s.mu.Lock()
	s.X, s.Y, s.Z = pl.X, pl.Y, pl.Z
	s.Stance = pl.Stance
	s.Yaw, s.Pitch = pl.Yaw, pl.Pitch
	s.OnGround = pl.OnGround
	s.InWorld = true
	s.mu.Unlock()
	return s.Send(pl)
}

// handleChunkCache handles mode 0 (unload) and mode 1 (allocate) per
// spec.md §4.4.
func handleChunkCache(s *Session, p protocol.Packet) error {
	cc := p.(protocol.ChunkCache)
	cp := world.ChunkPos{X: cc.ChunkX, Z: cc.ChunkZ}
	switch cc.Action {
	case protocol.ChunkCacheUnload:
		s.EvictChunk(cp)
	case protocol.ChunkCacheLoad:
		s.EnsureChunk(cp)
	}
	return nil
}

// handleChunkMap decompresses and splats a chunk-map cuboid into the local
// chunk set, then marks any tentative block inside the bounding box as
// fulfilled (spec.md §4.1, §4.4). A decompression failure is recoverable:
// it is reported but does not terminate the session (spec.md §7).
func handleChunkMap(s *Session, p protocol.Packet) error {
	cm := p.(protocol.ChunkMap)
	cp := world.ChunkPos{X: cm.X >> 4, Z: cm.Z >> 4}
	dst := s.Chunk(cp)
	if dst == nil {
		dst = s.EnsureChunk(cp)
	}

	cub := world.Cuboid{
		X:     int(cm.X) - int(cp.X)*16,
		Y:     int(cm.Y),
		Z:     int(cm.Z) - int(cp.Z)*16,
		SizeX: int(cm.SizeXMinus1) + 1,
		SizeY: int(cm.SizeYMinus1) + 1,
		SizeZ: int(cm.SizeZMinus1) + 1,
	}
	if err := world.SplatCuboid(dst, cub, cm.Data); err != nil {
		s.logf("chunk-map decompress failed for (%d,%d): %v", cp.X, cp.Z, &DecompressionError{Cause: err})
		return nil
	}

	s.FulfillTentativeInBox(
		cm.X, cm.Y, cm.Z,
		cm.X+int32(cub.SizeX)-1, cm.Y+int16(cub.SizeY)-1, cm.Z+int32(cub.SizeZ)-1,
	)
	return nil
}

func handleBlockChange(s *Session, p protocol.Packet) error {
	bc := p.(protocol.BlockChange)
	cp := world.ChunkPos{X: bc.X >> 4, Z: bc.Z >> 4}
	if c := s.Chunk(cp); c != nil {
		lx := int(bc.X - cp.X*16)
		lz := int(bc.Z - cp.Z*16)
		c.SetBlock(lx, int(bc.Y), lz, byte(bc.BlockID))
		c.SetMetadata(lx, int(bc.Y), lz, byte(bc.Metadata))
	}
	s.FulfillTentative(world.BlockPos{X: bc.X, Y: int32(bc.Y), Z: bc.Z})
	return nil
}

func handleMultiBlockChange(s *Session, p protocol.Packet) error {
	mb := p.(protocol.MultiBlockChange)
	c := s.Chunk(world.ChunkPos{X: mb.ChunkX, Z: mb.ChunkZ})
	for i, coord16 := range mb.Coords {
		// Packed as (x<<12 | z<<8 | y), per spec.md §6. Treat as unsigned
		// so the top nibble doesn't get read as a sign bit.
		coord := uint16(coord16)
		lx := int((coord >> 12) & 0xF)
		ly := int(coord & 0xFF)
		lz := int((coord >> 8) & 0xF)
		if c != nil {
			c.SetBlock(lx, ly, lz, byte(mb.BlockIDs[i]))
			c.SetMetadata(lx, ly, lz, byte(mb.Metadata[i]))
		}
		abs := world.BlockPos{
			X: mb.ChunkX*16 + int32(lx),
			Y: int32(ly),
			Z: mb.ChunkZ*16 + int32(lz),
		}
		s.FulfillTentative(abs)
	}
	return nil
}

func handleSetSlot(s *Session, p protocol.Packet) error {
	ss := p.(protocol.SetSlot)
	s.mu.Lock()
	items := s.inventory[int16(ss.WindowID)]
	for len(items) <= int(ss.Slot) {
		items = append(items, protocol.Slot{ItemID: -1})
	}
	items[ss.Slot] = ss.Item
	s.inventory[int16(ss.WindowID)] = items
	s.mu.Unlock()
	return nil
}

func handleSetWindowItems(s *Session, p protocol.Packet) error {
	wi := p.(protocol.SetWindowItems)
	s.mu.Lock()
	s.inventory[int16(wi.WindowID)] = append([]protocol.Slot(nil), wi.Items...)
	s.mu.Unlock()
	return nil
}

// handleKick sets the session status to TERMINATED with the carried reason
// (spec.md §4.4, §8 scenario S6).
func handleKick(s *Session, p protocol.Packet) error {
	k := p.(protocol.Kick)
	s.Terminate(k.Reason)
	return nil
}

func handleSpawnNamed(s *Session, p protocol.Packet) error {
	sn := p.(protocol.SpawnNamed)
	e := s.UpsertEntity(sn.EntityID)
	e.Kind = entityKindPlayer
	e.X, e.Y, e.Z = fixedToFloat(sn.X), fixedToFloat(sn.Y), fixedToFloat(sn.Z)
	e.Yaw, e.Pitch = angleToFloat(sn.Yaw), angleToFloat(sn.Pitch)
	return nil
}

func handleSpawnPickup(s *Session, p protocol.Packet) error {
	sp := p.(protocol.SpawnPickup)
	e := s.UpsertEntity(sp.EntityID)
	e.Kind = entityKindItem
	e.X, e.Y, e.Z = fixedToFloat(sp.X), fixedToFloat(sp.Y), fixedToFloat(sp.Z)
	return nil
}

func handleAddObject(s *Session, p protocol.Packet) error {
	ao := p.(protocol.AddObject)
	e := s.UpsertEntity(ao.EntityID)
	e.Kind = entityKindObject
	e.X, e.Y, e.Z = fixedToFloat(ao.X), fixedToFloat(ao.Y), fixedToFloat(ao.Z)
	if ao.ThrownData != 0 {
		e.VX, e.VY, e.VZ = velocityToFloat(ao.VX), velocityToFloat(ao.VY), velocityToFloat(ao.VZ)
	}
	return nil
}

func handleSpawnMob(s *Session, p protocol.Packet) error {
	sm := p.(protocol.SpawnMob)
	e := s.UpsertEntity(sm.EntityID)
	e.Kind = byte(sm.MobType)
	e.X, e.Y, e.Z = fixedToFloat(sm.X), fixedToFloat(sm.Y), fixedToFloat(sm.Z)
	e.Yaw, e.Pitch = angleToFloat(sm.Yaw), angleToFloat(sm.Pitch)
	e.VX, e.VY, e.VZ = velocityToFloat(sm.VX), velocityToFloat(sm.VY), velocityToFloat(sm.VZ)
	return nil
}

func handleSpawnPainting(s *Session, p protocol.Packet) error {
	sp := p.(protocol.SpawnPainting)
	e := s.UpsertEntity(sp.EntityID)
	e.Kind = entityKindPainting
	e.X, e.Y, e.Z = float64(sp.X), float64(sp.Y), float64(sp.Z)
	return nil
}

func handleSpawnXP(s *Session, p protocol.Packet) error {
	sx := p.(protocol.SpawnXP)
	e := s.UpsertEntity(sx.EntityID)
	e.Kind = entityKindXPOrb
	e.X, e.Y, e.Z = fixedToFloat(sx.X), fixedToFloat(sx.Y), fixedToFloat(sx.Z)
	return nil
}

func handleEntityVelocity(s *Session, p protocol.Packet) error {
	ev := p.(protocol.EntityVelocity)
	e := s.Entity(ev.EntityID)
	if e == nil {
		return nil
	}
	e.VX, e.VY, e.VZ = velocityToFloat(ev.VX), velocityToFloat(ev.VY), velocityToFloat(ev.VZ)
	return nil
}

func handleDestroyEntity(s *Session, p protocol.Packet) error {
	de := p.(protocol.DestroyEntity)
	s.RemoveEntity(de.EntityID)
	return nil
}

func handleMoveRel(s *Session, p protocol.Packet) error {
	mr := p.(protocol.MoveRel)
	e := s.Entity(mr.EntityID)
	if e == nil {
		return nil
	}
	e.X += fixedDeltaToFloat(mr.DX)
	e.Y += fixedDeltaToFloat(mr.DY)
	e.Z += fixedDeltaToFloat(mr.DZ)
	return nil
}

func handleEntityLook(s *Session, p protocol.Packet) error {
	el := p.(protocol.EntityLook)
	e := s.Entity(el.EntityID)
	if e == nil {
		return nil
	}
	e.Yaw, e.Pitch = angleToFloat(el.Yaw), angleToFloat(el.Pitch)
	return nil
}

func handleLookMoveRel(s *Session, p protocol.Packet) error {
	lm := p.(protocol.LookMoveRel)
	e := s.Entity(lm.EntityID)
	if e == nil {
		return nil
	}
	e.X += fixedDeltaToFloat(lm.DX)
	e.Y += fixedDeltaToFloat(lm.DY)
	e.Z += fixedDeltaToFloat(lm.DZ)
	e.Yaw, e.Pitch = angleToFloat(lm.Yaw), angleToFloat(lm.Pitch)
	return nil
}

func handleTeleport(s *Session, p protocol.Packet) error {
	tp := p.(protocol.Teleport)
	e := s.UpsertEntity(tp.EntityID)
	e.X, e.Y, e.Z = fixedToFloat(tp.X), fixedToFloat(tp.Y), fixedToFloat(tp.Z)
	e.Yaw, e.Pitch = angleToFloat(tp.Yaw), angleToFloat(tp.Pitch)
	return nil
}

// Entity kind tags for non-mob entity packets, which carry no MobType byte.
const (
	entityKindPlayer   byte = 0xE0
	entityKindItem     byte = 0xE1
	entityKindObject   byte = 0xE2
	entityKindPainting byte = 0xE3
	entityKindXPOrb    byte = 0xE4
)

// fixedToFloat converts the wire's 1/32-block fixed-point position units to
// a float block coordinate (spec.md §3 "Entity").
func fixedToFloat(v int32) float64 { return float64(v) / 32.0 }

// fixedDeltaToFloat converts a MoveRel delta, which uses the same 1/32
// scale as absolute positions but in a single signed byte.
func fixedDeltaToFloat(v int8) float64 { return float64(v) / 32.0 }

// angleToFloat converts a wire angle byte (256 units per revolution) to
// degrees.
func angleToFloat(v int8) float32 { return float32(v) * 360.0 / 256.0 }

// velocityToFloat converts the wire's 1/8000-block-per-tick fixed point to
// blocks per tick.
func velocityToFloat(v int16) float64 { return float64(v) / 8000.0 }
