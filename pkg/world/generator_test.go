package world

import "testing"

func TestGeneratorDeterministic(t *testing.T) {
	g1 := NewGenerator(1)
	g2 := NewGenerator(1)
	c1 := g1.Generate(0, 0, DimensionOverworld)
	c2 := g2.Generate(0, 0, DimensionOverworld)
	if string(c1.Bytes()) != string(c2.Bytes()) {
		t.Fatal("two independent runs with the same seed/coords produced different chunks")
	}
}

func TestGeneratorOrderIndependence(t *testing.T) {
	seed := int64(99)
	coords := []ChunkPos{{0, 0}, {1, 0}, {0, 1}, {-1, -1}}

	forward := make(map[ChunkPos]string)
	g := NewGenerator(seed)
	for _, cp := range coords {
		forward[cp] = string(g.Generate(cp.X, cp.Z, DimensionOverworld).Bytes())
	}

	reversed := make(map[ChunkPos]string)
	g2 := NewGenerator(seed)
	for i := len(coords) - 1; i >= 0; i-- {
		cp := coords[i]
		reversed[cp] = string(g2.Generate(cp.X, cp.Z, DimensionOverworld).Bytes())
	}

	for _, cp := range coords {
		if forward[cp] != reversed[cp] {
			t.Fatalf("chunk %+v differs depending on generation order", cp)
		}
	}
}

func TestGeneratorOverworldBedrockFloor(t *testing.T) {
	g := NewGenerator(5)
	c := g.Generate(2, -3, DimensionOverworld)
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			if got := c.GetBlock(x, 0, z); got != BlockBedrock {
				t.Fatalf("(%d,0,%d) = %d, want bedrock", x, z, got)
			}
		}
	}
}

func TestGeneratorNetherBedrockFloorAndCeiling(t *testing.T) {
	g := NewGenerator(5)
	c := g.Generate(0, 0, DimensionNether)
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			if got := c.GetBlock(x, 0, z); got != BlockBedrock {
				t.Fatalf("(%d,0,%d) = %d, want bedrock", x, z, got)
			}
			if got := c.GetBlock(x, SizeY-1, z); got != BlockBedrock {
				t.Fatalf("(%d,%d,%d) = %d, want bedrock", x, SizeY-1, z, got)
			}
		}
	}
}

func TestGeneratorNeighborVeinCoherence(t *testing.T) {
	seed := int64(12345)
	const x, z = int32(4), int32(-1)

	// Generating (x,z) and its neighbor in either order must yield the same
	// bytes for each of the two chunks.
	gA := NewGenerator(seed)
	a1 := gA.Generate(x, z, DimensionOverworld)
	a2 := gA.Generate(x+1, z, DimensionOverworld)

	gB := NewGenerator(seed)
	b2 := gB.Generate(x+1, z, DimensionOverworld)
	b1 := gB.Generate(x, z, DimensionOverworld)

	if string(a1.Bytes()) != string(b1.Bytes()) {
		t.Fatal("chunk (x,z) differs depending on which neighbor generated first")
	}
	if string(a2.Bytes()) != string(b2.Bytes()) {
		t.Fatal("chunk (x+1,z) differs depending on which neighbor generated first")
	}
}

// TestGeneratorVeinsCrossChunkBoundary checks that, for at least one of 40
// seeds, an ore-type block sits on the shared face of chunks (0,0) and
// (1,0). It does not by itself tell a vein rolled from the neighbor's PRNG
// stream from one rolled by the chunk itself: a vein whose origin lies on
// the face column of its own chunk also satisfies it.
func TestGeneratorVeinsCrossChunkBoundary(t *testing.T) {
	foundCrossing := false
	for seed := int64(0); seed < 40 && !foundCrossing; seed++ {
		g := NewGenerator(seed)
		center := g.Generate(0, 0, DimensionOverworld)
		east := g.Generate(1, 0, DimensionOverworld)

		for y := 1; y < SizeY-1 && !foundCrossing; y++ {
			for lz := 0; lz < SizeZ; lz++ {
				centerFace := center.GetBlock(SizeX-1, y, lz)
				eastFace := east.GetBlock(0, y, lz)
				if isOreBlock(centerFace) || isOreBlock(eastFace) {
					foundCrossing = true
					break
				}
			}
		}
	}
	if !foundCrossing {
		t.Fatal("no ore vein reached either face of an adjacent chunk boundary across 40 seeds; veins may be confined to their origin chunk")
	}
}

func isOreBlock(id byte) bool {
	switch id {
	case BlockGravel, BlockClay, BlockCoalOre, BlockLapisOre, BlockIronOre,
		BlockGoldOre, BlockRedstoneOre, BlockDiamondOre:
		return true
	default:
		return false
	}
}

func TestSeedLightingSkyColumn(t *testing.T) {
	c := NewChunk()
	for x := 0; x < SizeX; x++ {
		for z := 0; z < SizeZ; z++ {
			c.SetBlock(x, 0, z, BlockBedrock)
			c.SetBlock(x, 10, z, BlockStone)
		}
	}
	SeedLighting(c)

	if got := c.GetSkyLight(0, 20, 0); got != 15 {
		t.Errorf("sky light above the stone cap = %d, want 15", got)
	}
	if got := c.GetSkyLight(0, 5, 0); got != 0 {
		t.Errorf("sky light below the stone cap = %d, want 0", got)
	}
}
