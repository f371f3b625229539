package world

import "testing"

func TestStoreGetSetBlockAcrossChunkBoundary(t *testing.T) {
	s := NewStore(1, DimensionOverworld)

	s.SetBlock(0, 70, 0, BlockStone)
	s.SetBlock(16, 70, 0, BlockDirt) // neighboring chunk

	if got := s.GetBlock(0, 70, 0); got != BlockStone {
		t.Errorf("GetBlock(0,70,0) = %d, want stone", got)
	}
	if got := s.GetBlock(16, 70, 0); got != BlockDirt {
		t.Errorf("GetBlock(16,70,0) = %d, want dirt", got)
	}
}

func TestStoreChunkCachedAcrossCalls(t *testing.T) {
	s := NewStore(42, DimensionOverworld)
	a := s.Chunk(ChunkPos{X: 3, Z: -2})
	b := s.Chunk(ChunkPos{X: 3, Z: -2})
	if a != b {
		t.Fatal("Chunk() returned a different pointer on the second call")
	}
}

func TestStoreEvict(t *testing.T) {
	s := NewStore(7, DimensionOverworld)
	cp := ChunkPos{X: 0, Z: 0}
	first := s.Chunk(cp)
	s.Evict(cp)
	second := s.Chunk(cp)
	if first == second {
		t.Fatal("Evict did not force regeneration")
	}
}
