package world

import "testing"

func TestPerlinDeterministic(t *testing.T) {
	a := NewPerlin(17)
	b := NewPerlin(17)
	for i := 0; i < 10; i++ {
		x, y := float64(i)*0.37, float64(i)*0.11
		if a.Noise2D(x, y) != b.Noise2D(x, y) {
			t.Fatalf("same seed produced different noise at (%v,%v)", x, y)
		}
	}
}

func TestPerlinBounded(t *testing.T) {
	p := NewPerlin(3)
	for i := 0; i < 50; i++ {
		v := p.Noise3D(float64(i)*0.2, float64(i)*0.3, float64(i)*0.1)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("Noise3D(%d) = %v, out of expected range", i, v)
		}
	}
}

func TestOctaveNoiseNormalized(t *testing.T) {
	p := NewPerlin(9)
	for i := 0; i < 20; i++ {
		v := p.OctaveNoise2D(float64(i)*0.05, float64(i)*0.07, 4, 2.0, 0.5)
		if v < -1.5 || v > 1.5 {
			t.Fatalf("OctaveNoise2D(%d) = %v, out of expected range", i, v)
		}
	}
}
