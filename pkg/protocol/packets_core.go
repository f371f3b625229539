package protocol

import "io"

// KeepAlive (0x00, both directions): a single i32 id, echoed verbatim by
// the receiver (spec.md §4.4, §9 — never substitute a local counter).
type KeepAlive struct {
	ID int32
}

func (KeepAlive) PacketID() byte { return 0x00 }
func (p KeepAlive) EncodeBody(w io.Writer) error {
	return WriteI32(w, p.ID)
}
func decodeKeepAlive(r io.Reader) (Packet, error) {
	id, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return KeepAlive{ID: id}, nil
}

// LoginRequest (0x01, both directions). The field shapes differ by
// direction: the client sends {ProtocolVersion, Username, 0, 0, 0, 0, 0, 0}
// and the server replies {EntityID, "", Seed, GameMode, Dimension,
// Difficulty, WorldHeight, MaxPlayers} (spec.md §3, §6). Both shapes are
// carried on one struct; callers read only the fields their direction
// defines.
type LoginRequest struct {
	EntityOrVersion int32 // client: protocol version; server: assigned player entity id
	Username        string
	MapSeed         int64
	ServerMode      int32 // server: game mode (low byte); client: unused, sent as 0
	Dimension       int8
	Difficulty      int8
	WorldHeight     uint8
	MaxPlayers      uint8
}

func (LoginRequest) PacketID() byte { return 0x01 }
func (p LoginRequest) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityOrVersion); err != nil {
		return err
	}
	if err := WriteString(w, p.Username); err != nil {
		return err
	}
	if err := WriteI64(w, p.MapSeed); err != nil {
		return err
	}
	if err := WriteI32(w, p.ServerMode); err != nil {
		return err
	}
	if err := WriteI8(w, p.Dimension); err != nil {
		return err
	}
	if err := WriteI8(w, p.Difficulty); err != nil {
		return err
	}
	if err := WriteU8(w, p.WorldHeight); err != nil {
		return err
	}
	return WriteU8(w, p.MaxPlayers)
}
func decodeLoginRequest(r io.Reader) (Packet, error) {
	var p LoginRequest
	var err error
	if p.EntityOrVersion, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Username, err = ReadString(r); err != nil {
		return nil, err
	}
	if p.MapSeed, err = ReadI64(r); err != nil {
		return nil, err
	}
	if p.ServerMode, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Dimension, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Difficulty, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.WorldHeight, err = ReadU8(r); err != nil {
		return nil, err
	}
	if p.MaxPlayers, err = ReadU8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// Handshake (0x02, both directions): client sends its username as a
// handshake token request, server replies with an opaque token string.
type Handshake struct {
	Payload string
}

func (Handshake) PacketID() byte { return 0x02 }
func (p Handshake) EncodeBody(w io.Writer) error {
	return WriteString(w, p.Payload)
}
func decodeHandshake(r io.Reader) (Packet, error) {
	s, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return Handshake{Payload: s}, nil
}

// Chat (0x03, both directions): a single string, capped at MaxChatLength
// characters on send.
type Chat struct {
	Message string
}

func (Chat) PacketID() byte { return 0x03 }
func (p Chat) EncodeBody(w io.Writer) error {
	msg := p.Message
	if r := []rune(msg); len(r) > MaxChatLength {
		msg = string(r[:MaxChatLength])
	}
	return WriteString(w, msg)
}
func decodeChat(r io.Reader) (Packet, error) {
	s, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return Chat{Message: s}, nil
}

// TimeUpdate (0x04, server->client): world tick count.
type TimeUpdate struct {
	Ticks int64
}

func (TimeUpdate) PacketID() byte { return 0x04 }
func (p TimeUpdate) EncodeBody(w io.Writer) error {
	return WriteI64(w, p.Ticks)
}
func decodeTimeUpdate(r io.Reader) (Packet, error) {
	t, err := ReadI64(r)
	if err != nil {
		return nil, err
	}
	return TimeUpdate{Ticks: t}, nil
}

// SpawnPosition (0x06, server->client): the compass/respawn anchor.
type SpawnPosition struct {
	X, Y, Z int32
}

func (SpawnPosition) PacketID() byte { return 0x06 }
func (p SpawnPosition) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI32(w, p.Y); err != nil {
		return err
	}
	return WriteI32(w, p.Z)
}
func decodeSpawnPosition(r io.Reader) (Packet, error) {
	x, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	y, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	z, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return SpawnPosition{X: x, Y: y, Z: z}, nil
}

// UpdateHealth (0x08, server->client).
type UpdateHealth struct {
	Health         int16
	Food           int16
	FoodSaturation float32
}

func (UpdateHealth) PacketID() byte { return 0x08 }
func (p UpdateHealth) EncodeBody(w io.Writer) error {
	if err := WriteI16(w, p.Health); err != nil {
		return err
	}
	if err := WriteI16(w, p.Food); err != nil {
		return err
	}
	return WriteF32(w, p.FoodSaturation)
}
func decodeUpdateHealth(r io.Reader) (Packet, error) {
	h, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	f, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	sat, err := ReadF32(r)
	if err != nil {
		return nil, err
	}
	return UpdateHealth{Health: h, Food: f, FoodSaturation: sat}, nil
}

// Respawn (0x09, both directions): sent by the server after death/dimension
// change, and echoed by the client to request a respawn.
type Respawn struct {
	Dimension   int32
	Difficulty  int8
	GameMode    int8
	WorldHeight int16
	MapSeed     int64
}

func (Respawn) PacketID() byte { return 0x09 }
func (p Respawn) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.Dimension); err != nil {
		return err
	}
	if err := WriteI8(w, p.Difficulty); err != nil {
		return err
	}
	if err := WriteI8(w, p.GameMode); err != nil {
		return err
	}
	if err := WriteI16(w, p.WorldHeight); err != nil {
		return err
	}
	return WriteI64(w, p.MapSeed)
}
func decodeRespawn(r io.Reader) (Packet, error) {
	var p Respawn
	var err error
	if p.Dimension, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Difficulty, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.GameMode, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.WorldHeight, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.MapSeed, err = ReadI64(r); err != nil {
		return nil, err
	}
	return p, nil
}

// NewState reason codes (0x46).
const (
	NewStateInvalidBed      int8 = 0
	NewStateRainStart       int8 = 1
	NewStateRainEnd         int8 = 2
	NewStateGameModeChanged int8 = 3
)

// NewState (0x46, server->client): invalid-bed / weather / gamemode-change
// notification (spec.md §4.4).
type NewState struct {
	Reason    int8
	GameMode  int8 // only meaningful when Reason == NewStateGameModeChanged
}

func (NewState) PacketID() byte { return 0x46 }
func (p NewState) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.Reason); err != nil {
		return err
	}
	return WriteI8(w, p.GameMode)
}
func decodeNewState(r io.Reader) (Packet, error) {
	reason, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	mode, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return NewState{Reason: reason, GameMode: mode}, nil
}

// Thunderbolt (0x47, server->client): a lightning-strike visual/sound event.
type Thunderbolt struct {
	EntityID int32
	Unused   bool
	X, Y, Z  int32
}

func (Thunderbolt) PacketID() byte { return 0x47 }
func (p Thunderbolt) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteBool(w, p.Unused); err != nil {
		return err
	}
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI32(w, p.Y); err != nil {
		return err
	}
	return WriteI32(w, p.Z)
}
func decodeThunderbolt(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	unused, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	x, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	y, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	z, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return Thunderbolt{EntityID: eid, Unused: unused, X: x, Y: y, Z: z}, nil
}

// ServerListPing (0xFE, client->server): zero-byte body; reply is a Kick
// carrying "MOTD§online§max" (spec.md §6).
type ServerListPing struct{}

func (ServerListPing) PacketID() byte                  { return 0xFE }
func (ServerListPing) EncodeBody(w io.Writer) error { return nil }
func decodeServerListPing(r io.Reader) (Packet, error) {
	return ServerListPing{}, nil
}

// Kick (0xFF, both directions): carries the disconnect reason; the
// connection is closed after this packet is sent or received.
type Kick struct {
	Reason string
}

func (Kick) PacketID() byte { return 0xFF }
func (p Kick) EncodeBody(w io.Writer) error {
	return WriteString(w, p.Reason)
}
func decodeKick(r io.Reader) (Packet, error) {
	s, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return Kick{Reason: s}, nil
}

func init() {
	register(0x00, decodeKeepAlive)
	register(0x01, decodeLoginRequest)
	register(0x02, decodeHandshake)
	register(0x03, decodeChat)
	register(0x04, decodeTimeUpdate)
	register(0x06, decodeSpawnPosition)
	register(0x08, decodeUpdateHealth)
	register(0x09, decodeRespawn)
	register(0x46, decodeNewState)
	register(0x47, decodeThunderbolt)
	register(0xFE, decodeServerListPing)
	register(0xFF, decodeKick)
}
