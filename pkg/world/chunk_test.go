package world

import (
	"bytes"
	"testing"
)

func TestChunkIndexFormulaYZX(t *testing.T) {
	// y varies fastest, then z, then x.
	if index(0, 1, 0)-index(0, 0, 0) != 1 {
		t.Fatal("y should advance the index by 1")
	}
	if index(0, 0, 1)-index(0, 0, 0) != SizeY {
		t.Fatal("z should advance the index by SizeY")
	}
	if index(1, 0, 0)-index(0, 0, 0) != SizeY*SizeZ {
		t.Fatal("x should advance the index by SizeY*SizeZ")
	}
}

func TestChunkBytesSize(t *testing.T) {
	if ChunkBytes != 20480 {
		t.Fatalf("ChunkBytes = %d, want 20480", ChunkBytes)
	}
}

func TestChunkChannelIndependence(t *testing.T) {
	c := NewChunk()
	c.SetBlock(5, 10, 3, BlockStone)
	c.SetMetadata(5, 10, 3, 7)
	c.SetSkyLight(5, 10, 3, 12)

	c.SetBlockLight(5, 10, 3, 9)

	if got := c.GetBlock(5, 10, 3); got != BlockStone {
		t.Errorf("block changed after SetBlockLight: got %d", got)
	}
	if got := c.GetMetadata(5, 10, 3); got != 7 {
		t.Errorf("metadata changed after SetBlockLight: got %d", got)
	}
	if got := c.GetSkyLight(5, 10, 3); got != 12 {
		t.Errorf("sky light changed after SetBlockLight: got %d", got)
	}
	if got := c.GetBlockLight(5, 10, 3); got != 9 {
		t.Errorf("block light = %d, want 9", got)
	}
}

func TestChunkSetBlockRejectsOutOfRangeID(t *testing.T) {
	c := NewChunk()
	c.SetBlock(0, 0, 0, MaxBlockID) // at the bound, must substitute 0
	if got := c.GetBlock(0, 0, 0); got != 0 {
		t.Errorf("GetBlock = %d, want 0 for an out-of-range id", got)
	}
}

func TestChunkNegativeCoordinateWrap(t *testing.T) {
	c := NewChunk()
	c.SetBlock(0, 5, 0, BlockGravel)
	if got := c.GetBlock(-16, 5, 0); got != BlockGravel {
		t.Errorf("GetBlock(-16,...) = %d, want wrap to (0,...) = gravel", got)
	}
}

func TestChunkGetBlockStrictNoWrap(t *testing.T) {
	c := NewChunk()
	c.SetBlock(0, 5, 0, BlockGravel)
	if got := c.GetBlockStrict(-16, 5, 0, 255); got != 255 {
		t.Errorf("GetBlockStrict(-16,...) = %d, want fallback 255", got)
	}
}

func TestChunkCompressRoundTrip(t *testing.T) {
	c := NewChunk()
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			c.SetBlock(x, 0, z, BlockBedrock)
			c.SetBlock(x, 1, z, byte((x+z)%MaxBlockID))
		}
	}

	compressed, err := c.Compress()
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	c2 := NewChunk()
	if err := c2.DecompressBytes(compressed); err != nil {
		t.Fatalf("DecompressBytes: %v", err)
	}
	if !bytes.Equal(c.Bytes(), c2.Bytes()) {
		t.Fatal("decompressed chunk differs from the original")
	}
}

func TestChunkDecompressRejectsWrongSize(t *testing.T) {
	// A truncated zlib stream, which cannot inflate to the full chunk length,
	// must be rejected without touching the chunk's existing contents.
	c := NewChunk()
	c.SetBlock(1, 1, 1, BlockStone)

	shortChunk := NewChunk()
	compressed, err := shortChunk.Compress()
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	if err := c.Decompress(bytes.NewReader(compressed[:len(compressed)/2])); err == nil {
		t.Fatal("Decompress accepted a truncated stream")
	}
	if got := c.GetBlock(1, 1, 1); got != BlockStone {
		t.Error("chunk state was modified by a failed decompress")
	}
}
