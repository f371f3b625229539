package protocol

import "io"

// EntityEquipment (0x05, server->client).
type EntityEquipment struct {
	EntityID int32
	Slot     int16
	Item     Slot
}

func (EntityEquipment) PacketID() byte { return 0x05 }
func (p EntityEquipment) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI16(w, p.Slot); err != nil {
		return err
	}
	return WriteSlot(w, p.Item)
}
func decodeEntityEquipment(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	slot, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	item, err := ReadSlot(r)
	if err != nil {
		return nil, err
	}
	return EntityEquipment{EntityID: eid, Slot: slot, Item: item}, nil
}

// SpawnNamed (0x14, server->client): spawns another player.
type SpawnNamed struct {
	EntityID   int32
	Username   string
	X, Y, Z    int32 // fixed-point, 1/32 block units
	Yaw, Pitch int8
	CurrentItem int16
}

func (SpawnNamed) PacketID() byte { return 0x14 }
func (p SpawnNamed) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteString(w, p.Username); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	if err := WriteI8(w, p.Yaw); err != nil {
		return err
	}
	if err := WriteI8(w, p.Pitch); err != nil {
		return err
	}
	return WriteI16(w, p.CurrentItem)
}
func decodeSpawnNamed(r io.Reader) (Packet, error) {
	var p SpawnNamed
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Username, err = ReadString(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.CurrentItem, err = ReadI16(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SpawnPickup (0x15, server->client): a dropped-item entity.
type SpawnPickup struct {
	EntityID           int32
	Item               Slot
	X, Y, Z            int32
	Rotation, Pitch, Roll int8
}

func (SpawnPickup) PacketID() byte { return 0x15 }
func (p SpawnPickup) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteSlot(w, p.Item); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	for _, v := range []int8{p.Rotation, p.Pitch, p.Roll} {
		if err := WriteI8(w, v); err != nil {
			return err
		}
	}
	return nil
}
func decodeSpawnPickup(r io.Reader) (Packet, error) {
	var p SpawnPickup
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Item, err = ReadSlot(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Rotation, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Roll, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// CollectItem (0x16, server->client): a pickup entity is absorbed.
type CollectItem struct {
	CollectedEntityID int32
	CollectorEntityID int32
}

func (CollectItem) PacketID() byte { return 0x16 }
func (p CollectItem) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.CollectedEntityID); err != nil {
		return err
	}
	return WriteI32(w, p.CollectorEntityID)
}
func decodeCollectItem(r io.Reader) (Packet, error) {
	a, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	b, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return CollectItem{CollectedEntityID: a, CollectorEntityID: b}, nil
}

// AddObject (0x17, server->client): a non-living object entity (minecart,
// boat, falling block, arrow, ...).
type AddObject struct {
	EntityID   int32
	ObjectType int8
	X, Y, Z    int32
	ThrownData int32 // if nonzero: a thrown/fired object with initial velocity
	VX, VY, VZ int16
}

func (AddObject) PacketID() byte { return 0x17 }
func (p AddObject) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI8(w, p.ObjectType); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	if err := WriteI32(w, p.ThrownData); err != nil {
		return err
	}
	if p.ThrownData == 0 {
		return nil
	}
	for _, v := range []int16{p.VX, p.VY, p.VZ} {
		if err := WriteI16(w, v); err != nil {
			return err
		}
	}
	return nil
}
func decodeAddObject(r io.Reader) (Packet, error) {
	var p AddObject
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.ObjectType, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.ThrownData, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.ThrownData != 0 {
		if p.VX, err = ReadI16(r); err != nil {
			return nil, err
		}
		if p.VY, err = ReadI16(r); err != nil {
			return nil, err
		}
		if p.VZ, err = ReadI16(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SpawnMob (0x18, server->client).
type SpawnMob struct {
	EntityID   int32
	MobType    int8
	X, Y, Z    int32
	Yaw, Pitch, HeadYaw int8
	VX, VY, VZ int16
	Metadata   []MetadataEntry
}

func (SpawnMob) PacketID() byte { return 0x18 }
func (p SpawnMob) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI8(w, p.MobType); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	for _, v := range []int8{p.Yaw, p.Pitch, p.HeadYaw} {
		if err := WriteI8(w, v); err != nil {
			return err
		}
	}
	for _, v := range []int16{p.VX, p.VY, p.VZ} {
		if err := WriteI16(w, v); err != nil {
			return err
		}
	}
	return WriteEntityMetadata(w, p.Metadata)
}
func decodeSpawnMob(r io.Reader) (Packet, error) {
	var p SpawnMob
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.MobType, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.HeadYaw, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.VX, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.VY, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.VZ, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Metadata, err = ReadEntityMetadata(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SpawnPainting (0x19, server->client).
type SpawnPainting struct {
	EntityID  int32
	Title     string
	X, Y, Z   int32
	Direction int32
}

func (SpawnPainting) PacketID() byte { return 0x19 }
func (p SpawnPainting) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteString(w, p.Title); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	return WriteI32(w, p.Direction)
}
func decodeSpawnPainting(r io.Reader) (Packet, error) {
	var p SpawnPainting
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Title, err = ReadString(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Direction, err = ReadI32(r); err != nil {
		return nil, err
	}
	return p, nil
}

// SpawnXP (0x1a, server->client): an experience orb.
type SpawnXP struct {
	EntityID int32
	X, Y, Z  int32
	Count    int16
}

func (SpawnXP) PacketID() byte { return 0x1a }
func (p SpawnXP) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	return WriteI16(w, p.Count)
}
func decodeSpawnXP(r io.Reader) (Packet, error) {
	var p SpawnXP
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Count, err = ReadI16(r); err != nil {
		return nil, err
	}
	return p, nil
}

// EntityVelocity (0x1c, server->client): 1/8000 block-per-tick fixed point.
type EntityVelocity struct {
	EntityID   int32
	VX, VY, VZ int16
}

func (EntityVelocity) PacketID() byte { return 0x1c }
func (p EntityVelocity) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	for _, v := range []int16{p.VX, p.VY, p.VZ} {
		if err := WriteI16(w, v); err != nil {
			return err
		}
	}
	return nil
}
func decodeEntityVelocity(r io.Reader) (Packet, error) {
	var p EntityVelocity
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.VX, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.VY, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.VZ, err = ReadI16(r); err != nil {
		return nil, err
	}
	return p, nil
}

// DestroyEntity (0x1d, server->client).
type DestroyEntity struct {
	EntityID int32
}

func (DestroyEntity) PacketID() byte { return 0x1d }
func (p DestroyEntity) EncodeBody(w io.Writer) error {
	return WriteI32(w, p.EntityID)
}
func decodeDestroyEntity(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return DestroyEntity{EntityID: eid}, nil
}

// EnsureSpawn (0x1e, server->client): a no-op keepalive confirming an
// entity is still valid locally (originally "Entity" in the catalog).
type EnsureSpawn struct {
	EntityID int32
}

func (EnsureSpawn) PacketID() byte { return 0x1e }
func (p EnsureSpawn) EncodeBody(w io.Writer) error {
	return WriteI32(w, p.EntityID)
}
func decodeEnsureSpawn(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return EnsureSpawn{EntityID: eid}, nil
}

// MoveRel (0x1f, server->client): 1/32-block fixed-point position delta.
type MoveRel struct {
	EntityID   int32
	DX, DY, DZ int8
}

func (MoveRel) PacketID() byte { return 0x1f }
func (p MoveRel) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	for _, v := range []int8{p.DX, p.DY, p.DZ} {
		if err := WriteI8(w, v); err != nil {
			return err
		}
	}
	return nil
}
func decodeMoveRel(r io.Reader) (Packet, error) {
	var p MoveRel
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.DX, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.DY, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.DZ, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// EntityLook (0x20, server->client).
type EntityLook struct {
	EntityID   int32
	Yaw, Pitch int8
}

func (EntityLook) PacketID() byte { return 0x20 }
func (p EntityLook) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI8(w, p.Yaw); err != nil {
		return err
	}
	return WriteI8(w, p.Pitch)
}
func decodeEntityLook(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	yaw, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	pitch, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return EntityLook{EntityID: eid, Yaw: yaw, Pitch: pitch}, nil
}

// LookMoveRel (0x21, server->client): combines MoveRel and EntityLook.
type LookMoveRel struct {
	EntityID   int32
	DX, DY, DZ int8
	Yaw, Pitch int8
}

func (LookMoveRel) PacketID() byte { return 0x21 }
func (p LookMoveRel) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	for _, v := range []int8{p.DX, p.DY, p.DZ, p.Yaw, p.Pitch} {
		if err := WriteI8(w, v); err != nil {
			return err
		}
	}
	return nil
}
func decodeLookMoveRel(r io.Reader) (Packet, error) {
	var p LookMoveRel
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.DX, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.DY, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.DZ, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// Teleport (0x22, server->client): an absolute position+look snap.
type Teleport struct {
	EntityID   int32
	X, Y, Z    int32
	Yaw, Pitch int8
}

func (Teleport) PacketID() byte { return 0x22 }
func (p Teleport) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	for _, v := range []int32{p.X, p.Y, p.Z} {
		if err := WriteI32(w, v); err != nil {
			return err
		}
	}
	if err := WriteI8(w, p.Yaw); err != nil {
		return err
	}
	return WriteI8(w, p.Pitch)
}
func decodeTeleport(r io.Reader) (Packet, error) {
	var p Teleport
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Yaw, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Pitch, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// EntityStatus (0x26, server->client): hurt/death/tame animation trigger.
type EntityStatus struct {
	EntityID int32
	Status   int8
}

func (EntityStatus) PacketID() byte { return 0x26 }
func (p EntityStatus) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteI8(w, p.Status)
}
func decodeEntityStatus(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	status, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return EntityStatus{EntityID: eid, Status: status}, nil
}

// AttachEntity (0x27, server->client): mounts/leashes one entity to another;
// VehicleEntityID -1 detaches.
type AttachEntity struct {
	EntityID        int32
	VehicleEntityID int32
}

func (AttachEntity) PacketID() byte { return 0x27 }
func (p AttachEntity) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteI32(w, p.VehicleEntityID)
}
func decodeAttachEntity(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	vid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	return AttachEntity{EntityID: eid, VehicleEntityID: vid}, nil
}

// EntityMetadataPacket (0x28, server->client): out-of-band metadata update
// for an already-spawned entity.
type EntityMetadataPacket struct {
	EntityID int32
	Metadata []MetadataEntry
}

func (EntityMetadataPacket) PacketID() byte { return 0x28 }
func (p EntityMetadataPacket) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteEntityMetadata(w, p.Metadata)
}
func decodeEntityMetadataPacket(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	md, err := ReadEntityMetadata(r)
	if err != nil {
		return nil, err
	}
	return EntityMetadataPacket{EntityID: eid, Metadata: md}, nil
}

// EntityEffect (0x29, server->client).
type EntityEffect struct {
	EntityID  int32
	EffectID  int8
	Amplifier int8
	Duration  int16
}

func (EntityEffect) PacketID() byte { return 0x29 }
func (p EntityEffect) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	if err := WriteI8(w, p.EffectID); err != nil {
		return err
	}
	if err := WriteI8(w, p.Amplifier); err != nil {
		return err
	}
	return WriteI16(w, p.Duration)
}
func decodeEntityEffect(r io.Reader) (Packet, error) {
	var p EntityEffect
	var err error
	if p.EntityID, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.EffectID, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Amplifier, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Duration, err = ReadI16(r); err != nil {
		return nil, err
	}
	return p, nil
}

// EntityEffectRemove (0x2a, server->client).
type EntityEffectRemove struct {
	EntityID int32
	EffectID int8
}

func (EntityEffectRemove) PacketID() byte { return 0x2a }
func (p EntityEffectRemove) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EntityID); err != nil {
		return err
	}
	return WriteI8(w, p.EffectID)
}
func decodeEntityEffectRemove(r io.Reader) (Packet, error) {
	eid, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	effect, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return EntityEffectRemove{EntityID: eid, EffectID: effect}, nil
}

// SetXP (0x2b, server->client).
type SetXP struct {
	Bar   float32
	Level int16
	Total int16
}

func (SetXP) PacketID() byte { return 0x2b }
func (p SetXP) EncodeBody(w io.Writer) error {
	if err := WriteF32(w, p.Bar); err != nil {
		return err
	}
	if err := WriteI16(w, p.Level); err != nil {
		return err
	}
	return WriteI16(w, p.Total)
}
func decodeSetXP(r io.Reader) (Packet, error) {
	bar, err := ReadF32(r)
	if err != nil {
		return nil, err
	}
	level, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	total, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	return SetXP{Bar: bar, Level: level, Total: total}, nil
}

func init() {
	register(0x05, decodeEntityEquipment)
	register(0x14, decodeSpawnNamed)
	register(0x15, decodeSpawnPickup)
	register(0x16, decodeCollectItem)
	register(0x17, decodeAddObject)
	register(0x18, decodeSpawnMob)
	register(0x19, decodeSpawnPainting)
	register(0x1a, decodeSpawnXP)
	register(0x1c, decodeEntityVelocity)
	register(0x1d, decodeDestroyEntity)
	register(0x1e, decodeEnsureSpawn)
	register(0x1f, decodeMoveRel)
	register(0x20, decodeEntityLook)
	register(0x21, decodeLookMoveRel)
	register(0x22, decodeTeleport)
	register(0x26, decodeEntityStatus)
	register(0x27, decodeAttachEntity)
	register(0x28, decodeEntityMetadataPacket)
	register(0x29, decodeEntityEffect)
	register(0x2a, decodeEntityEffectRemove)
	register(0x2b, decodeSetXP)
}
