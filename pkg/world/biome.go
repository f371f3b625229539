package world

// Biome is the coarse three-way climate classification spec.md §4.2 step 1
// reduces every column to: cold/temperate columns get dirt-topped terrain
// and water fill below sea level, arid columns get sand-over-sandstone and
// lava fill instead.
type Biome byte

const (
	BiomeCold      Biome = iota // temperature < 30, humid half
	BiomeTemperate              // temperature < 30, dry half
	BiomeArid                   // temperature >= 30
)

// biomeScalars is the per-column result of step 1 of the overworld
// pipeline: temperature and humidity drive the biome split, and blend
// feeds the stone-layer height noise as an extra fractal term.
type biomeScalars struct {
	Temperature float64 // roughly 0..60; spec.md's 30 threshold splits cold/temperate from arid
	Humidity    float64 // 0..1
	Blend       float64 // -1..1, continuous noise term folded into height
}

// biomeScalarsAt computes the three scalars for world column (x, z) via
// multi-octave simplex-family noise on offset coordinates, per spec.md
// §4.2 step 1.
func (g *Generator) biomeScalarsAt(x, z int) biomeScalars {
	const scale = 0.01
	fx, fz := float64(x)*scale, float64(z)*scale

	temp := g.tempNoise.OctaveNoise2D(fx, fz, 4, 2.0, 0.5)
	humid := g.rainNoise.OctaveNoise2D(fx+1000, fz+1000, 3, 2.0, 0.55)
	blend := g.blendNoise.Noise2D(fx*0.37, fz*0.37)

	return biomeScalars{
		Temperature: (temp + 1) / 2 * 60,
		Humidity:    (humid + 1) / 2,
		Blend:       blend,
	}
}

// Classify reduces the scalars to the three-way split used by the stone and
// topping steps.
func (s biomeScalars) Classify() Biome {
	if s.Temperature >= 30 {
		return BiomeArid
	}
	if s.Humidity > 0.45 {
		return BiomeCold
	}
	return BiomeTemperate
}
