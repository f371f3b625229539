package protocol

import "io"

// PlayerOnGround (0x0a, client->server).
type PlayerOnGround struct {
	OnGround bool
}

func (PlayerOnGround) PacketID() byte { return 0x0a }
func (p PlayerOnGround) EncodeBody(w io.Writer) error {
	return WriteBool(w, p.OnGround)
}
func decodePlayerOnGround(r io.Reader) (Packet, error) {
	v, err := ReadBool(r)
	if err != nil {
		return nil, err
	}
	return PlayerOnGround{OnGround: v}, nil
}

// PlayerPos (0x0b, client->server).
type PlayerPos struct {
	X, Y, Stance, Z float64
	OnGround        bool
}

func (PlayerPos) PacketID() byte { return 0x0b }
func (p PlayerPos) EncodeBody(w io.Writer) error {
	for _, f := range []float64{p.X, p.Y, p.Stance, p.Z} {
		if err := WriteF64(w, f); err != nil {
			return err
		}
	}
	return WriteBool(w, p.OnGround)
}
func decodePlayerPos(r io.Reader) (Packet, error) {
	var p PlayerPos
	var err error
	if p.X, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Stance, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayerLook (0x0c, client->server).
type PlayerLook struct {
	Yaw, Pitch float32
	OnGround   bool
}

func (PlayerLook) PacketID() byte { return 0x0c }
func (p PlayerLook) EncodeBody(w io.Writer) error {
	if err := WriteF32(w, p.Yaw); err != nil {
		return err
	}
	if err := WriteF32(w, p.Pitch); err != nil {
		return err
	}
	return WriteBool(w, p.OnGround)
}
func decodePlayerLook(r io.Reader) (Packet, error) {
	var p PlayerLook
	var err error
	if p.Yaw, err = ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadF32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayerPosLook (0x0d, both directions): client sends the full pose each
// 50ms tick while in-world; the server sends it once to snap the client's
// spawn pose, which the client must acknowledge by echoing the same shape
// back (spec.md §4.4).
type PlayerPosLook struct {
	X, Y, Stance, Z float64
	Yaw, Pitch      float32
	OnGround        bool
}

func (PlayerPosLook) PacketID() byte { return 0x0d }
func (p PlayerPosLook) EncodeBody(w io.Writer) error {
	if err := WriteF64(w, p.X); err != nil {
		return err
	}
	if err := WriteF64(w, p.Y); err != nil {
		return err
	}
	if err := WriteF64(w, p.Stance); err != nil {
		return err
	}
	if err := WriteF64(w, p.Z); err != nil {
		return err
	}
	if err := WriteF32(w, p.Yaw); err != nil {
		return err
	}
	if err := WriteF32(w, p.Pitch); err != nil {
		return err
	}
	return WriteBool(w, p.OnGround)
}
func decodePlayerPosLook(r io.Reader) (Packet, error) {
	var p PlayerPosLook
	var err error
	if p.X, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Stance, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadF32(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadF32(r); err != nil {
		return nil, err
	}
	if p.OnGround, err = ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

// Dig status codes for PlayerDig.Status.
const (
	DigStarted   int8 = 0
	DigCancelled int8 = 1
	DigFinished  int8 = 2
	DigDropStack int8 = 3
	DigDropOne   int8 = 4
	DigShootArrow int8 = 5
)

// PlayerDig (0x0e, client->server).
type PlayerDig struct {
	Status  int8
	X       int32
	Y       int8
	Z       int32
	Face    int8
}

func (PlayerDig) PacketID() byte { return 0x0e }
func (p PlayerDig) EncodeBody(w io.Writer) error {
	if err := WriteI8(w, p.Status); err != nil {
		return err
	}
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI8(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	return WriteI8(w, p.Face)
}
func decodePlayerDig(r io.Reader) (Packet, error) {
	var p PlayerDig
	var err error
	if p.Status, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Face, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// PlayerPlace (0x0f, client->server): the trailing {AdditionalByte,
// AdditionalShort} pair is only present when ItemID >= 0 (spec.md §3, S3).
type PlayerPlace struct {
	X         int32
	Y         int8
	Z         int32
	Direction int8
	ItemID    int16
	Amount    int8 // only valid if ItemID >= 0
	Damage    int16
}

func (PlayerPlace) PacketID() byte { return 0x0f }
func (p PlayerPlace) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI8(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	if err := WriteI8(w, p.Direction); err != nil {
		return err
	}
	if err := WriteI16(w, p.ItemID); err != nil {
		return err
	}
	if p.ItemID < 0 {
		return nil
	}
	if err := WriteI8(w, p.Amount); err != nil {
		return err
	}
	return WriteI16(w, p.Damage)
}
func decodePlayerPlace(r io.Reader) (Packet, error) {
	var p PlayerPlace
	var err error
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Direction, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.ItemID, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.ItemID >= 0 {
		if p.Amount, err = ReadI8(r); err != nil {
			return nil, err
		}
		if p.Damage, err = ReadI16(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// HoldChange (0x10, client->server): selects the active hotbar slot.
type HoldChange struct {
	SlotID int16
}

func (HoldChange) PacketID() byte { return 0x10 }
func (p HoldChange) EncodeBody(w io.Writer) error {
	return WriteI16(w, p.SlotID)
}
func decodeHoldChange(r io.Reader) (Packet, error) {
	v, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	return HoldChange{SlotID: v}, nil
}

// UseBed (0x11, server->client).
type UseBed struct {
	EntityID int32
	Unused   int8
	X        int32
	Y        int8
	Z        int32
}

func (UseBed) PacketID() byte { return 0x11 }
func (p UseBed) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI8(w, p.Unused); err != nil {
		return err
	}
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI8(w, p.Y); err != nil {
		return err
	}
	return WriteI32(w, p.Z)
}
func decodeUseBed(r io.Reader) (Packet, error) {
	var p UseBed
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Unused, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	return p, nil
}

// EntityAnimation (0x12, client->server, and relayed server->client).
type EntityAnimation struct {
	EntityID  int32
	Animation int8
}

func (EntityAnimation) PacketID() byte { return 0x12 }
func (p EntityAnimation) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteI8(w, p.Animation)
}
func decodeEntityAnimation(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	anim, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return EntityAnimation{EntityID: eid, Animation: anim}, nil
}

// EntityAction (0x13, client->server): crouch/uncrouch, sprint toggle, etc.
type EntityAction struct {
	EntityID int32
	Action   int8
}

func (EntityAction) PacketID() byte { return 0x13 }
func (p EntityAction) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteI8(w, p.Action)
}
func decodeEntityAction(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	action, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return EntityAction{EntityID: eid, Action: action}, nil
}

// UseEntity (0x07, client->server): attack or interact with another entity.
type UseEntity struct {
	SourceEntityID int32
	TargetEntityID int32
	IsLeftClick    bool
}

func (UseEntity) PacketID() byte { return 0x07 }
func (p UseEntity) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.SourceEntityID); err != nil {
		return err
	}
	if err := WriteI32(w, p.TargetEntityID); err != nil {
		return err
	}
	return WriteBool(w, p.IsLeftClick)
}
func decodeUseEntity(r io.Reader) (Packet, error) {
	var p UseEntity
	var err error
	if p.SourceEntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.TargetEntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.IsLeftClick, err = ReadBool(r); err != nil {
		return nil, err
	}
	return p, nil
}

func init() {
	register(0x07, decodeUseEntity)
	register(0x0a, decodePlayerOnGround)
	register(0x0b, decodePlayerPos)
	register(0x0c, decodePlayerLook)
	register(0x0d, decodePlayerPosLook)
	register(0x0e, decodePlayerDig)
	register(0x0f, decodePlayerPlace)
	register(0x10, decodeHoldChange)
	register(0x11, decodeUseBed)
	register(0x12, decodeEntityAnimation)
	register(0x13, decodeEntityAction)
}
