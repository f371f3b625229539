package world

import (
	"github.com/aquilax/go-perlin"
)

// Block ids used by the generator. Values follow the original game's fixed
// id table (original_source/shared/ids.h); only the subset the generator
// itself places is named here.
const (
	BlockAir         byte = 0
	BlockStone       byte = 1
	BlockGrass       byte = 2
	BlockDirt        byte = 3
	BlockBedrock     byte = 7
	BlockWater       byte = 9
	BlockLava        byte = 11
	BlockSand        byte = 12
	BlockGravel      byte = 13
	BlockGoldOre     byte = 14
	BlockIronOre     byte = 15
	BlockCoalOre     byte = 16
	BlockLapisOre    byte = 21
	BlockSandstone   byte = 24
	BlockRedstoneOre byte = 73
	BlockClay        byte = 82
	BlockNetherrack  byte = 87
	BlockGlowstone   byte = 89
	BlockDiamondOre  byte = 56
)

// Dimension selects which generation pipeline runs.
type Dimension byte

const (
	DimensionOverworld Dimension = iota
	DimensionNether
)

// emission gives the block-light seed value for light-emitting block types,
// used by the step-9 lighting seed pass.
func emission(id byte) byte {
	switch id {
	case BlockLava:
		return 15
	case BlockGlowstone:
		return 15
	default:
		return 0
	}
}

// opaque reports whether a block blocks the top-down sky-light seed pass.
func opaque(id byte) bool {
	return id != BlockAir
}

const (
	xStride = 341873128712
	zStride = 132897987541

	numOreChance = 384

	seaLevel = 64
)

// prng is the xorshift-family 64-bit generator seeded per spec.md §4.2: a
// fixed, reproducible source so every implementation derives the same
// stream of chance words from (seed, chunk_x, chunk_z).
type prng struct {
	state uint64
}

func newPRNG(seed int64, chunkX, chunkZ int32) *prng {
	s := uint64(seed) ^ (uint64(uint32(chunkX)) * xStride) ^ (uint64(uint32(chunkZ)) * zStride << 32)
	if s == 0 {
		s = 0x9E3779B97F4A7C15
	}
	return &prng{state: s}
}

// next32 advances the xorshift64 state and returns the next 32-bit word.
func (p *prng) next32() uint32 {
	x := p.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	p.state = x
	return uint32(x)
}

// nextChance combines two consecutive 32-bit words into one 64-bit "chance"
// word, per spec.md §4.2.
func (p *prng) nextChance() uint64 {
	hi := uint64(p.next32())
	lo := uint64(p.next32())
	return hi<<32 | lo
}

// chanceWords pre-rolls numOreChance words for one chunk's PRNG stream.
func chanceWords(seed int64, chunkX, chunkZ int32) []uint64 {
	p := newPRNG(seed, chunkX, chunkZ)
	words := make([]uint64, numOreChance)
	for i := range words {
		words[i] = p.nextChance()
	}
	return words
}

// Generator produces terrain data from a seed. It is a pure function of
// (seed, chunk_x, chunk_z, dimension): no generator method depends on
// generation order or on any previously generated chunk (spec.md §4.2).
type Generator struct {
	Seed int64

	terrain    *Perlin // seeded but not read by any generation step
	roughness  *Perlin // fine detail on top of terrain
	tempNoise  *Perlin // biome temperature
	rainNoise  *Perlin // biome humidity
	toppingN   *Perlin // topping-depth modulation
	blendNoise *perlin.Perlin
}

// NewGenerator builds a generator for seed. Noise fields are independent
// per-concern generators seeded by offsetting the world seed, matching the
// teacher's convention of one Perlin instance per noise purpose.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:       seed,
		terrain:    NewPerlin(seed),
		roughness:  NewPerlin(seed + 100),
		tempNoise:  NewPerlin(seed + 1),
		rainNoise:  NewPerlin(seed + 2),
		toppingN:   NewPerlin(seed + 3),
		blendNoise: perlin.NewPerlin(2.0, 2.0, 3, seed+4),
	}
}

// oreSpec describes one ore pass entry: the block it places, which host
// blocks it may replace, its rarity, a preferred Y zone, and the vein's
// typical walk length.
type oreSpec struct {
	block    byte
	hosts    [2]byte // host blocks eligible for replacement; second may be BlockAir (unused)
	rarity   float64 // lower = rarer
	zoneY    int     // preferred center height
	zoneHalf int     // +/- half-width of the preferred zone
	walk     int     // random-walk step count
}

var oreSpecs = []oreSpec{
	{block: BlockGravel, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.018, zoneY: 64, zoneHalf: 48, walk: 6},
	{block: BlockDirt, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.015, zoneY: 70, zoneHalf: 40, walk: 5},
	{block: BlockClay, hosts: [2]byte{BlockSand, BlockAir}, rarity: 0.01, zoneY: 60, zoneHalf: 6, walk: 4},
	{block: BlockCoalOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.03, zoneY: 60, zoneHalf: 60, walk: 8},
	{block: BlockCoalOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.02, zoneY: 40, zoneHalf: 30, walk: 8},
	{block: BlockLapisOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.006, zoneY: 16, zoneHalf: 16, walk: 5},
	{block: BlockIronOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.02, zoneY: 40, zoneHalf: 40, walk: 7},
	{block: BlockGoldOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.006, zoneY: 24, zoneHalf: 24, walk: 6},
	{block: BlockRedstoneOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.012, zoneY: 12, zoneHalf: 12, walk: 7},
	{block: BlockDiamondOre, hosts: [2]byte{BlockStone, BlockAir}, rarity: 0.003, zoneY: 10, zoneHalf: 10, walk: 5},
}

// vein walk stamps: small relative-offset bit masks applied around the
// walk's current cell. Kept tiny and fixed so every implementation draws
// the same vein shape from the same PRNG stream.
var veinStamp = [][3]int{
	{0, 0, 0}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
}

// sphereStencil lists sphere-stencil offsets for a cave/ravine cutter of the
// given radius; runCutterPass builds one per cutter (radius 2-4 for caves,
// 1-2 for ravines).
func sphereStencil(radius int) [][3]int {
	var cells [][3]int
	r2 := radius * radius
	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			for dz := -radius; dz <= radius; dz++ {
				if dx*dx+dy*dy+dz*dz <= r2 {
					cells = append(cells, [3]int{dx, dy, dz})
				}
			}
		}
	}
	return cells
}

// Generate implements the pure function (seed, chunk_x, chunk_z, dim) ->
// Chunk described by spec.md §4.2, running each pipeline step in the
// documented order against a freshly-zeroed chunk.
func (g *Generator) Generate(chunkX, chunkZ int32, dim Dimension) *Chunk {
	c := NewChunk()
	switch dim {
	case DimensionNether:
		g.generateNether(c, chunkX, chunkZ)
	default:
		g.generateOverworld(c, chunkX, chunkZ)
	}
	return c
}

func (g *Generator) generateOverworld(c *Chunk, chunkX, chunkZ int32) {
	// Step 1+2: biome scalars and stone layer.
	heights := [SizeX][SizeZ]int{}
	biomes := [SizeX][SizeZ]Biome{}
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			wx := int(chunkX)*SizeX + lx
			wz := int(chunkZ)*SizeZ + lz
			s := g.biomeScalarsAt(wx, wz)
			biomes[lx][lz] = s.Classify()

			rough := g.roughness.OctaveNoise2D(float64(wx)*0.05, float64(wz)*0.05, 4, 2.0, 0.5)
			height := 64.0 + s.Blend*8 + rough*10
			h := int(height)
			if h < 2 {
				h = 2
			}
			if h > SizeY-2 {
				h = SizeY - 2
			}
			heights[lx][lz] = h

			for y := 1; y < h; y++ {
				c.SetBlock(lx, y, lz, BlockStone)
			}
		}
	}

	// Step 3: biome toppings.
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			wx := int(chunkX)*SizeX + lx
			wz := int(chunkZ)*SizeZ + lz
			h := heights[lx][lz]
			depthNoise := g.toppingN.Noise2D(float64(wx)*0.08, float64(wz)*0.08)
			depth := 2 + int((depthNoise+1)/2*3)

			switch biomes[lx][lz] {
			case BiomeArid:
				for d := 0; d < depth && h-d > 0; d++ {
					y := h - 1 - d
					if d == 0 {
						c.SetBlock(lx, y, lz, BlockSand)
					} else {
						c.SetBlock(lx, y, lz, BlockSandstone)
					}
				}
			default:
				for d := 0; d < depth && h-d > 0; d++ {
					c.SetBlock(lx, h-1-d, lz, BlockDirt)
				}
			}
		}
	}

	// Step 4: water/lava fill.
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			h := heights[lx][lz]
			fill := byte(BlockWater)
			if biomes[lx][lz] == BiomeArid {
				fill = BlockLava
			}
			for y := h; y < seaLevel; y++ {
				if c.GetBlock(lx, y, lz) == BlockAir {
					c.SetBlock(lx, y, lz, fill)
				}
			}
		}
	}

	// Step 5: ore pass over a 3x3 chunk neighborhood so veins straddling a
	// chunk boundary come out identical regardless of generation order.
	g.runOrePass(c, chunkX, chunkZ)

	// Step 6: cutter pass (caves/ravines) over an 11x11 neighborhood.
	g.runCutterPass(c, chunkX, chunkZ)

	// Step 7: bedrock floor.
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			c.SetBlock(lx, 0, lz, BlockBedrock)
		}
	}

	// Step 8: grass fixup.
	fixupGrass(c)

	// Step 9: lighting seed.
	SeedLighting(c)

	c.ClearChanged()
}

func (g *Generator) generateNether(c *Chunk, chunkX, chunkZ int32) {
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			for y := 1; y < SizeY-1; y++ {
				switch {
				case y <= 4 || y >= SizeY-5:
					c.SetBlock(lx, y, lz, BlockNetherrack)
				case y < 32:
					c.SetBlock(lx, y, lz, BlockLava)
				default:
					wx := int(chunkX)*SizeX + lx
					wz := int(chunkZ)*SizeZ + lz
					n := g.roughness.Noise3D(float64(wx)*0.05, float64(y)*0.05, float64(wz)*0.05)
					if n > 0.35 {
						c.SetBlock(lx, y, lz, BlockNetherrack)
					}
				}
			}
		}
	}

	// Glowstone clusters: seed gold-marker blocks on the ceiling, then an
	// ore pass that replaces the marker with glowstone (spec.md §4.2).
	const goldMarker = BlockGoldOre
	words := neighborChanceWords(g.Seed, chunkX, chunkZ, 1)
	rng := newPRNG(g.Seed, chunkX, chunkZ)
	for i := 0; i < 24; i++ {
		w := words[i%len(words)].word ^ uint64(rng.next32())
		lx := int(w % SizeX)
		lz := int((w >> 8) % SizeZ)
		y := SizeY - 6 - int((w>>16)%6)
		if c.GetBlock(lx, y, lz) == BlockNetherrack {
			c.SetBlock(lx, y, lz, goldMarker)
		}
	}
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			for y := 0; y < SizeY; y++ {
				if c.GetBlock(lx, y, lz) == goldMarker {
					c.SetBlock(lx, y, lz, BlockGlowstone)
				}
			}
		}
	}

	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			c.SetBlock(lx, 0, lz, BlockBedrock)
			c.SetBlock(lx, SizeY-1, lz, BlockBedrock)
		}
	}

	SeedLighting(c)
	c.ClearChanged()
}

// fixupGrass re-runs the dirt<->grass conversion: dirt with air directly
// above promotes to grass, grass with a solid block directly above demotes
// to dirt (spec.md §4.2 step 8). The generator runs it once, after the
// cutter pass; no separate pass runs after the step-3 toppings.
func fixupGrass(c *Chunk) {
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			for y := 0; y < SizeY-1; y++ {
				switch c.GetBlock(lx, y, lz) {
				case BlockDirt:
					if c.GetBlock(lx, y+1, lz) == BlockAir {
						c.SetBlock(lx, y, lz, BlockGrass)
					}
				case BlockGrass:
					if opaque(c.GetBlock(lx, y+1, lz)) {
						c.SetBlock(lx, y, lz, BlockDirt)
					}
				}
			}
		}
	}
}

// SeedLighting performs the non-propagating lighting seed pass (spec.md
// §4.1/§4.2 step 9): top-down sky light until the first opaque block, and
// each cell's own emission level for block light. Full flood-fill
// propagation across chunk borders is out of scope for the core.
func SeedLighting(c *Chunk) {
	for lx := 0; lx < SizeX; lx++ {
		for lz := 0; lz < SizeZ; lz++ {
			lit := true
			for y := SizeY - 1; y >= 0; y-- {
				id := c.GetBlock(lx, y, lz)
				if lit && opaque(id) {
					lit = false
				}
				if lit {
					c.SetSkyLight(lx, y, lz, 15)
				}
				c.SetBlockLight(lx, y, lz, emission(id))
			}
		}
	}
}

// neighborWord is one pre-rolled chance word tagged with the chunk-space
// offset (relative to the chunk currently generating) of the chunk whose
// PRNG stream produced it.
type neighborWord struct {
	word   uint64
	dx, dz int32
}

// neighborChanceWords concatenates the pre-rolled chance words of every
// chunk in a (2*radius+1)^2 neighborhood centered on (chunkX, chunkZ),
// deriving each neighbor's PRNG the same way regardless of which chunk is
// generated first (spec.md §4.2 "neighbor-aware veins"). Each word carries
// its source chunk's offset so a vein/cutter rolled from a neighbor's
// stream can be placed at the neighbor's true position and allowed to
// wander across the shared boundary: two adjacent chunks processing the
// same word independently then draw the identical global cells.
func neighborChanceWords(seed int64, chunkX, chunkZ int32, radius int) []neighborWord {
	var words []neighborWord
	for dz := -radius; dz <= radius; dz++ {
		for dx := -radius; dx <= radius; dx++ {
			for _, w := range chanceWords(seed, chunkX+int32(dx), chunkZ+int32(dz)) {
				words = append(words, neighborWord{word: w, dx: int32(dx), dz: int32(dz)})
			}
		}
	}
	return words
}

func (g *Generator) runOrePass(c *Chunk, chunkX, chunkZ int32) {
	words := neighborChanceWords(g.Seed, chunkX, chunkZ, 1)
	perSpec := numOreChance / len(oreSpecs)
	sources := len(words) / numOreChance
	for si, spec := range oreSpecs {
		for n := 0; n < sources*perSpec; n++ {
			// Each chunk of the neighborhood rolls this spec from the same
			// slice of its own chance words, whichever chunk is generating.
			nw := words[(n/perSpec)*numOreChance+si*perSpec+n%perSpec]
			w := nw.word
			if float64(w&0xFFFF)/0xFFFF >= spec.rarity {
				continue
			}
			// Vein origin within the source chunk's own local space,
			// translated into the currently-generating chunk's coordinate
			// frame by the neighbor offset. A neighbor-born vein's origin
			// therefore sits outside [0,SizeX) here and only the cells its
			// random walk carries into this chunk get drawn (drawVein
			// bounds-checks every stamp cell), so both sides of a shared
			// boundary replay the identical walk from the identical word.
			ox := int(nw.dx)*SizeX + int((w>>16)%SizeX)
			oz := int(nw.dz)*SizeZ + int((w>>32)%SizeZ)
			zoneSpread := spec.zoneHalf
			if zoneSpread <= 0 {
				zoneSpread = 1
			}
			oy := spec.zoneY + int((w>>48)%uint64(zoneSpread*2)) - zoneSpread
			if oy < 1 {
				oy = 1
			}
			if oy > SizeY-2 {
				oy = SizeY - 2
			}
			g.drawVein(c, spec, ox, oy, oz, w)
		}
	}
}

func (g *Generator) drawVein(c *Chunk, spec oreSpec, x, y, z int, seed uint64) {
	walker := &prng{state: seed ^ 0xD1B54A32D192ED03}
	for step := 0; step < spec.walk; step++ {
		for _, d := range veinStamp {
			cx, cy, cz := x+d[0], y+d[1], z+d[2]
			if !inBounds(cx, cy, cz) {
				continue
			}
			host := c.GetBlock(cx, cy, cz)
			if host == spec.hosts[0] || (spec.hosts[1] != BlockAir && host == spec.hosts[1]) {
				c.SetBlock(cx, cy, cz, spec.block)
			}
		}
		r := walker.next32()
		x += int(r%3) - 1
		y += int((r>>8)%3) - 1
		z += int((r>>16)%3) - 1
	}
}

func (g *Generator) runCutterPass(c *Chunk, chunkX, chunkZ int32) {
	words := neighborChanceWords(g.Seed, chunkX, chunkZ, 5)
	const numCutters = 6
	for i := 0; i < numCutters; i++ {
		nw := words[(i*7919)%len(words)]
		w := nw.word
		if float64(w&0xFF)/0xFF >= 0.08 {
			continue
		}
		isRavine := w&0x100 != 0
		// Same translation as the ore pass: a cutter rolled from a
		// neighbor's stream starts at that neighbor's true position so its
		// meander can carve across the shared boundary identically from
		// either chunk's perspective.
		x := int(nw.dx)*SizeX + int((w>>16)%SizeX)
		z := int(nw.dz)*SizeZ + int((w>>24)%SizeZ)
		y := 4 + int((w>>32)%(SizeY-8))
		walker := &prng{state: w ^ 0x9E3779B97F4A7C15}
		length := 20
		radius := 2 + int(w>>40)%3
		if isRavine {
			length = 40
			radius = 1 + int(w>>40)%2
		}
		stencil := sphereStencil(radius)
		for step := 0; step < length; step++ {
			for _, d := range stencil {
				cx, cy, cz := x+d[0], y+d[1], z+d[2]
				if !inBounds(cx, cy, cz) || cy == 0 {
					continue
				}
				if c.GetBlock(cx, cy, cz) == BlockBedrock {
					continue
				}
				if cy < 13 {
					c.SetBlock(cx, cy, cz, BlockLava)
				} else {
					c.SetBlock(cx, cy, cz, BlockAir)
				}
			}
			r := walker.next32()
			x += int(r%3) - 1
			z += int((r>>8)%3) - 1
			if isRavine {
				y += int((r>>16)%3) - 1
			} else {
				y += int((r>>20)%3) - 1
			}
			if x < -SizeX || x > 2*SizeX || z < -SizeZ || z > 2*SizeZ {
				break
			}
			if y < 1 {
				y = 1
			}
			if y > SizeY-2 {
				y = SizeY - 2
			}
		}
	}
}
