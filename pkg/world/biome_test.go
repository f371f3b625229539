package world

import "testing"

func TestBiomeClassifyThreshold(t *testing.T) {
	cases := []struct {
		s    biomeScalars
		want Biome
	}{
		{biomeScalars{Temperature: 10, Humidity: 0.8}, BiomeCold},
		{biomeScalars{Temperature: 10, Humidity: 0.1}, BiomeTemperate},
		{biomeScalars{Temperature: 45, Humidity: 0.9}, BiomeArid},
	}
	for _, c := range cases {
		if got := c.s.Classify(); got != c.want {
			t.Errorf("Classify(%+v) = %v, want %v", c.s, got, c.want)
		}
	}
}

func TestBiomeScalarsDeterministic(t *testing.T) {
	g1 := NewGenerator(8)
	g2 := NewGenerator(8)
	a := g1.biomeScalarsAt(100, -50)
	b := g2.biomeScalarsAt(100, -50)
	if a != b {
		t.Fatalf("biomeScalarsAt differs across generators with the same seed: %+v vs %+v", a, b)
	}
}
