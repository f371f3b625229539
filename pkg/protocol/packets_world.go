package protocol

import "io"

// ChunkCache load actions (0x32).
const (
	ChunkCacheLoad   int8 = 1
	ChunkCacheUnload int8 = 0
)

// ChunkCache (0x32, server->client): tells the client to allocate or
// release the 16x128x16 column at (ChunkX, ChunkZ) before any ChunkMap
// touching it arrives.
type ChunkCache struct {
	ChunkX, ChunkZ int32
	Action         int8
}

func (ChunkCache) PacketID() byte { return 0x32 }
func (p ChunkCache) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.ChunkX); err != nil {
		return err
	}
	if err := WriteI32(w, p.ChunkZ); err != nil {
		return err
	}
	return WriteI8(w, p.Action)
}
func decodeChunkCache(r io.Reader) (Packet, error) {
	x, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	z, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	action, err := ReadI8(r)
	if err != nil {
		return nil, err
	}
	return ChunkCache{ChunkX: x, ChunkZ: z, Action: action}, nil
}

// ChunkMap (0x33, server->client): a compressed cuboid splat. X/Z are block
// coordinates of the cuboid's origin, Y is in blocks; SizeX/SizeY/SizeZ are
// counts minus one (spec.md §3's "sized as N-1" convention, mirroring the
// chunk-map packing rule used for both whole-column sends and the partial
// re-sends produced by incremental edits). Data is the zlib-compressed
// four-plane byte stream described in spec.md §3.
type ChunkMap struct {
	X              int32
	Y              int16
	Z              int32
	SizeXMinus1    int8
	SizeYMinus1    int8
	SizeZMinus1    int8
	Data           []byte // zlib-compressed
}

func (ChunkMap) PacketID() byte { return 0x33 }
func (p ChunkMap) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI16(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	if err := WriteI8(w, p.SizeXMinus1); err != nil {
		return err
	}
	if err := WriteI8(w, p.SizeYMinus1); err != nil {
		return err
	}
	if err := WriteI8(w, p.SizeZMinus1); err != nil {
		return err
	}
	if err := WriteI32(w, int32(len(p.Data))); err != nil {
		return err
	}
	_, err := w.Write(p.Data)
	return err
}
func decodeChunkMap(r io.Reader) (Packet, error) {
	var p ChunkMap
	var err error
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.SizeXMinus1, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.SizeYMinus1, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.SizeZMinus1, err = ReadI8(r); err != nil {
		return nil, err
	}
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &InvalidLengthError{Field: "ChunkMap.Data", Value: int64(n)}
	}
	data, err := ReadBytes(r, int(n))
	if err != nil {
		return nil, err
	}
	p.Data = data
	return p, nil
}

// InvalidLengthError reports a negative or otherwise impossible
// length-prefixed field.
type InvalidLengthError struct {
	Field string
	Value int64
}

func (e *InvalidLengthError) Error() string {
	return "protocol: invalid length for " + e.Field
}

// MultiBlockChange (0x34, server->client): N block updates within a single
// chunk column, addressed by a packed 16-bit (x<<12 | z<<8 | y) coordinate
// relative to the chunk origin.
type MultiBlockChange struct {
	ChunkX, ChunkZ int32
	Coords         []int16
	BlockIDs       []int8
	Metadata       []int8
}

func (MultiBlockChange) PacketID() byte { return 0x34 }
func (p MultiBlockChange) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.ChunkX); err != nil {
		return err
	}
	if err := WriteI32(w, p.ChunkZ); err != nil {
		return err
	}
	n := len(p.Coords)
	if err := WriteI16(w, int16(n)); err != nil {
		return err
	}
	for _, c := range p.Coords {
		if err := WriteI16(w, c); err != nil {
			return err
		}
	}
	for _, b := range p.BlockIDs {
		if err := WriteI8(w, b); err != nil {
			return err
		}
	}
	for _, m := range p.Metadata {
		if err := WriteI8(w, m); err != nil {
			return err
		}
	}
	return nil
}
func decodeMultiBlockChange(r io.Reader) (Packet, error) {
	var p MultiBlockChange
	var err error
	if p.ChunkX, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.ChunkZ, err = ReadI32(r); err != nil {
		return nil, err
	}
	n16, err := ReadI16(r)
	if err != nil {
		return nil, err
	}
	if n16 < 0 {
		return nil, &InvalidLengthError{Field: "MultiBlockChange.N", Value: int64(n16)}
	}
	n := int(n16)
	p.Coords = make([]int16, n)
	for i := range p.Coords {
		if p.Coords[i], err = ReadI16(r); err != nil {
			return nil, err
		}
	}
	p.BlockIDs = make([]int8, n)
	for i := range p.BlockIDs {
		if p.BlockIDs[i], err = ReadI8(r); err != nil {
			return nil, err
		}
	}
	p.Metadata = make([]int8, n)
	for i := range p.Metadata {
		if p.Metadata[i], err = ReadI8(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// BlockChange (0x35, server->client): a single cell update, in absolute
// block coordinates (spec.md §8 scenario S4).
type BlockChange struct {
	X        int32
	Y        int8
	Z        int32
	BlockID  int8
	Metadata int8
}

func (BlockChange) PacketID() byte { return 0x35 }
func (p BlockChange) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI8(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	if err := WriteI8(w, p.BlockID); err != nil {
		return err
	}
	return WriteI8(w, p.Metadata)
}
func decodeBlockChange(r io.Reader) (Packet, error) {
	var p BlockChange
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
	if p.BlockID, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Metadata, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// BlockAction (0x36, server->client): a non-persistent block event (note
// block pitch, piston extend/retract, chest open-count).
type BlockAction struct {
	X        int32
	Y        int16
	Z        int32
	Byte1    int8
	Byte2    int8
}

func (BlockAction) PacketID() byte { return 0x36 }
func (p BlockAction) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.X); err != nil {
		return err
	}
	if err := WriteI16(w, p.Y); err != nil {
		return err
	}
	if err := WriteI32(w, p.Z); err != nil {
		return err
	}
	if err := WriteI8(w, p.Byte1); err != nil {
		return err
	}
	return WriteI8(w, p.Byte2)
}
func decodeBlockAction(r io.Reader) (Packet, error) {
	var p BlockAction
	var err error
	if p.X, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadI16(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadI32(r); err != nil {
		return nil, err
	}
	if p.Byte1, err = ReadI8(r); err != nil {
		return nil, err
	}
	if p.Byte2, err = ReadI8(r); err != nil {
		return nil, err
	}
	return p, nil
}

// Explosion (0x3c, server->client): a center point plus a list of
// relative-byte block offsets to remove.
type Explosion struct {
	X, Y, Z float64
	Radius  float32
	Offsets []struct{ DX, DY, DZ int8 }
}

func (Explosion) PacketID() byte { return 0x3c }
func (p Explosion) EncodeBody(w io.Writer) error {
	if err := WriteF64(w, p.X); err != nil {
		return err
	}
	if err := WriteF64(w, p.Y); err != nil {
		return err
	}
	if err := WriteF64(w, p.Z); err != nil {
		return err
	}
	if err := WriteF32(w, p.Radius); err != nil {
		return err
	}
	if err := WriteI32(w, int32(len(p.Offsets))); err != nil {
		return err
	}
	for _, o := range p.Offsets {
		if err := WriteI8(w, o.DX); err != nil {
			return err
		}
		if err := WriteI8(w, o.DY); err != nil {
			return err
		}
		if err := WriteI8(w, o.DZ); err != nil {
			return err
		}
	}
	return nil
}
func decodeExplosion(r io.Reader) (Packet, error) {
	var p Explosion
	var err error
	if p.X, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Y, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Z, err = ReadF64(r); err != nil {
		return nil, err
	}
	if p.Radius, err = ReadF32(r); err != nil {
		return nil, err
	}
	n, err := ReadI32(r)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &InvalidLengthError{Field: "Explosion.N", Value: int64(n)}
	}
	p.Offsets = make([]struct{ DX, DY, DZ int8 }, n)
	for i := range p.Offsets {
		if p.Offsets[i].DX, err = ReadI8(r); err != nil {
			return nil, err
		}
		if p.Offsets[i].DY, err = ReadI8(r); err != nil {
			return nil, err
		}
		if p.Offsets[i].DZ, err = ReadI8(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Sfx (0x3d, server->client): a positioned sound/particle effect id.
type Sfx struct {
	EffectID int32
	X        int32
	Y        int8
	Z        int32
	Data     int32
}

func (Sfx) PacketID() byte { return 0x3d }
func (p Sfx) EncodeBody(w io.Writer) error {
	if err := WriteI32(w, p.EffectID); err != nil {
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
	return WriteI32(w, p.Data)
}
func decodeSfx(r io.Reader) (Packet, error) {
	var p Sfx
	var err error
	if p.EffectID, err = ReadI32(r); err != nil {
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
	if p.Data, err = ReadI32(r); err != nil {
		return nil, err
	}
	return p, nil
}

func init() {
	register(0x32, decodeChunkCache)
	register(0x33, decodeChunkMap)
	register(0x34, decodeMultiBlockChange)
	register(0x35, decodeBlockChange)
	register(0x36, decodeBlockAction)
	register(0x3c, decodeExplosion)
	register(0x3d, decodeSfx)
}
