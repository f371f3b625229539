// Package world implements the bit-packed chunk store and the deterministic
// procedural generator that fills it.
package world

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

const (
	SizeX = 16
	SizeY = 128
	SizeZ = 16

	cellCount  = SizeX * SizeY * SizeZ
	planeBytes = cellCount / 2 // nibble-packed plane size

	// ChunkBytes is the fixed size of the contiguous byte array backing a
	// whole 16x128x16 column: one byte per cell for block id, then three
	// nibble-packed planes (metadata, block light, sky light).
	ChunkBytes = cellCount + planeBytes*3

	blockPlaneOffset = 0
	metaPlaneOffset  = cellCount
	blockLightOffset = metaPlaneOffset + planeBytes
	skyLightOffset   = blockLightOffset + planeBytes
)

// MaxBlockID is the exclusive upper bound on block ids (valid ids are
// 0..MaxBlockID-1); set_block substitutes 0 for anything at or above it.
const MaxBlockID = 110

// Chunk is a 16x128x16 column of cells, stored as the contiguous byte array
// carried by the chunk-map (0x33) blob format: block-id plane, then three
// nibble-packed planes, indexed YZX.
type Chunk struct {
	data    [ChunkBytes]byte
	changed bool
}

// NewChunk returns a zero-initialized chunk (air, no light).
func NewChunk() *Chunk {
	return &Chunk{}
}

// index computes i = y + z*Y + x*Y*Z, the fixed YZX index formula shared by
// every plane in the chunk.
func index(x, y, z int) int {
	return y + z*SizeY + x*SizeY*SizeZ
}

// wrap applies the legacy negative-coordinate wrap: +16 on X and Z only.
func wrap(x, y, z int) (int, int, int) {
	if x < 0 {
		x += SizeX
	}
	if z < 0 {
		z += SizeZ
	}
	return x, y, z
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < SizeX && y >= 0 && y < SizeY && z >= 0 && z < SizeZ
}

func readNibble(plane []byte, i int) byte {
	b := plane[i/2]
	if i&1 == 0 {
		return b & 0x0F
	}
	return b >> 4
}

func writeNibble(plane []byte, i int, v byte) {
	v &= 0x0F
	b := &plane[i/2]
	if i&1 == 0 {
		*b = (*b &^ 0x0F) | v
	} else {
		*b = (*b &^ 0xF0) | (v << 4)
	}
}

// GetBlock returns the block id at (x, y, z), wrapping negative x/z by +16
// (legacy cross-boundary lookup behavior, spec.md §3).
func (c *Chunk) GetBlock(x, y, z int) byte {
	x, y, z = wrap(x, y, z)
	if !inBounds(x, y, z) {
		return 0
	}
	return c.data[blockPlaneOffset+index(x, y, z)]
}

// GetBlockStrict returns fallback instead of wrapping when out of bounds.
func (c *Chunk) GetBlockStrict(x, y, z int, fallback byte) byte {
	if !inBounds(x, y, z) {
		return fallback
	}
	return c.data[blockPlaneOffset+index(x, y, z)]
}

// SetBlock writes id at (x, y, z), substituting 0 for any id at or beyond
// MaxBlockID. Out-of-bounds coordinates are a caller bug and are ignored.
func (c *Chunk) SetBlock(x, y, z int, id byte) {
	if !inBounds(x, y, z) {
		return
	}
	if int(id) >= MaxBlockID {
		id = 0
	}
	c.data[blockPlaneOffset+index(x, y, z)] = id
	c.changed = true
}

func (c *Chunk) GetMetadata(x, y, z int) byte {
	x, y, z = wrap(x, y, z)
	if !inBounds(x, y, z) {
		return 0
	}
	return readNibble(c.data[metaPlaneOffset:blockLightOffset], index(x, y, z))
}

func (c *Chunk) SetMetadata(x, y, z int, v byte) {
	if !inBounds(x, y, z) {
		return
	}
	writeNibble(c.data[metaPlaneOffset:blockLightOffset], index(x, y, z), v)
	c.changed = true
}

func (c *Chunk) GetBlockLight(x, y, z int) byte {
	x, y, z = wrap(x, y, z)
	if !inBounds(x, y, z) {
		return 0
	}
	return readNibble(c.data[blockLightOffset:skyLightOffset], index(x, y, z))
}

func (c *Chunk) SetBlockLight(x, y, z int, v byte) {
	if !inBounds(x, y, z) {
		return
	}
	writeNibble(c.data[blockLightOffset:skyLightOffset], index(x, y, z), v)
	c.changed = true
}

func (c *Chunk) GetSkyLight(x, y, z int) byte {
	x, y, z = wrap(x, y, z)
	if !inBounds(x, y, z) {
		return 0
	}
	return readNibble(c.data[skyLightOffset:ChunkBytes], index(x, y, z))
}

func (c *Chunk) SetSkyLight(x, y, z int, v byte) {
	if !inBounds(x, y, z) {
		return
	}
	writeNibble(c.data[skyLightOffset:ChunkBytes], index(x, y, z), v)
	c.changed = true
}

// Changed reports whether any setter has run since the chunk was created or
// last cleared, letting the lighting pass skip chunks with no edits.
func (c *Chunk) Changed() bool { return c.changed }

// ClearChanged resets the changed flag.
func (c *Chunk) ClearChanged() { c.changed = false }

// Bytes exposes the raw 20480-byte backing array, e.g. for splatting a
// cuboid straight into a destination chunk.
func (c *Chunk) Bytes() []byte { return c.data[:] }

// CompressTo deflates the chunk's raw bytes with zlib into w.
func (c *Chunk) CompressTo(w io.Writer) error {
	zw := zlib.NewWriter(w)
	if _, err := zw.Write(c.data[:]); err != nil {
		zw.Close()
		return fmt.Errorf("world: compressing chunk: %w", err)
	}
	return zw.Close()
}

// Compress returns the zlib-compressed form of the chunk.
func (c *Chunk) Compress() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.CompressTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress inflates r and overwrites the chunk's array, rejecting any
// result whose length differs from ChunkBytes. On error the chunk's prior
// state is left untouched (spec.md §4.1: compression failures must not
// corrupt existing state).
func (c *Chunk) Decompress(r io.Reader) error {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return fmt.Errorf("world: opening zlib stream: %w", err)
	}
	defer zr.Close()

	var buf [ChunkBytes]byte
	n, err := io.ReadFull(zr, buf[:])
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("world: inflating chunk: %w", err)
	}
	if n != ChunkBytes {
		return fmt.Errorf("world: inflated chunk is %d bytes, want %d", n, ChunkBytes)
	}
	// Confirm there isn't trailing data implying a larger original size.
	var extra [1]byte
	if m, _ := zr.Read(extra[:]); m != 0 {
		return fmt.Errorf("world: inflated chunk exceeds %d bytes", ChunkBytes)
	}
	c.data = buf
	c.changed = true
	return nil
}

// DecompressBytes is a convenience wrapper over Decompress for an
// already-buffered compressed blob.
func (c *Chunk) DecompressBytes(compressed []byte) error {
	return c.Decompress(bytes.NewReader(compressed))
}

// SubChunk is a 16x16x16 slice used by the client to maintain a
// dimension-tall world as a stack of slices keyed by (cx, cy, cz). It shares
// the chunk's packing scheme and index formula, scaled to SizeY=16.
type SubChunk struct {
	data    [16 * 16 * 16 * 5 / 2]byte
	changed bool
}

func subIndex(x, y, z int) int {
	return y + z*16 + x*16*16
}

const (
	subCellCount      = 16 * 16 * 16
	subPlaneBytes     = subCellCount / 2
	subMetaOffset     = subCellCount
	subBlockLightOff  = subMetaOffset + subPlaneBytes
	subSkyLightOff    = subBlockLightOff + subPlaneBytes
	subBytesTotal     = subSkyLightOff + subPlaneBytes
)

func (s *SubChunk) GetBlock(x, y, z int) byte {
	return s.data[subIndex(x, y, z)]
}

func (s *SubChunk) SetBlock(x, y, z int, id byte) {
	if int(id) >= MaxBlockID {
		id = 0
	}
	s.data[subIndex(x, y, z)] = id
	s.changed = true
}

func (s *SubChunk) GetMetadata(x, y, z int) byte {
	return readNibble(s.data[subMetaOffset:subBlockLightOff], subIndex(x, y, z))
}

func (s *SubChunk) SetMetadata(x, y, z int, v byte) {
	writeNibble(s.data[subMetaOffset:subBlockLightOff], subIndex(x, y, z), v)
	s.changed = true
}

func (s *SubChunk) GetBlockLight(x, y, z int) byte {
	return readNibble(s.data[subBlockLightOff:subSkyLightOff], subIndex(x, y, z))
}

func (s *SubChunk) SetBlockLight(x, y, z int, v byte) {
	writeNibble(s.data[subBlockLightOff:subSkyLightOff], subIndex(x, y, z), v)
	s.changed = true
}

func (s *SubChunk) GetSkyLight(x, y, z int) byte {
	return readNibble(s.data[subSkyLightOff:subBytesTotal], subIndex(x, y, z))
}

func (s *SubChunk) SetSkyLight(x, y, z int, v byte) {
	writeNibble(s.data[subSkyLightOff:subBytesTotal], subIndex(x, y, z), v)
	s.changed = true
}

func (s *SubChunk) Changed() bool   { return s.changed }
func (s *SubChunk) ClearChanged()   { s.changed = false }
func (s *SubChunk) Bytes() []byte   { return s.data[:] }

// Cuboid describes the axis-aligned region carried by a chunk-map packet
// (spec.md §4.1 "partial-chunk updates").
type Cuboid struct {
	X, Y, Z          int
	SizeX, SizeY, SizeZ int
}

// cuboidPlaneSizes returns the block-id plane byte count and the byte count
// of each of the three nibble planes for a cuboid of the given dimensions,
// mirroring the whole-chunk layout scaled down.
func cuboidPlaneSizes(c Cuboid) (blockPlane, nibblePlane int) {
	n := c.SizeX * c.SizeY * c.SizeZ
	return n, n / 2
}

// SplatCuboid decodes a compressed cuboid blob (same four-channel layout as
// a whole chunk, dimensioned to the cuboid) and copies its cells into dst at
// the chunk-local origin given by the cuboid's (X, Y, Z).
func SplatCuboid(dst *Chunk, cub Cuboid, compressed []byte) error {
	blockPlane, nibblePlane := cuboidPlaneSizes(cub)
	want := blockPlane + nibblePlane*3

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return fmt.Errorf("world: opening chunk-map zlib stream: %w", err)
	}
	defer zr.Close()

	buf := make([]byte, want)
	if _, err := io.ReadFull(zr, buf); err != nil {
		return fmt.Errorf("world: inflating chunk-map cuboid: %w", err)
	}

	blocks := buf[0:blockPlane]
	metas := buf[blockPlane : blockPlane+nibblePlane]
	blockLights := buf[blockPlane+nibblePlane : blockPlane+2*nibblePlane]
	skyLights := buf[blockPlane+2*nibblePlane : blockPlane+3*nibblePlane]

	i := 0
	for lx := 0; lx < cub.SizeX; lx++ {
		for lz := 0; lz < cub.SizeZ; lz++ {
			for ly := 0; ly < cub.SizeY; ly++ {
				x, y, z := cub.X+lx, cub.Y+ly, cub.Z+lz
				dst.SetBlock(x, y, z, blocks[i])
				dst.SetMetadata(x, y, z, readNibble(metas, i))
				dst.SetBlockLight(x, y, z, readNibble(blockLights, i))
				dst.SetSkyLight(x, y, z, readNibble(skyLights, i))
				i++
			}
		}
	}
	return nil
}
