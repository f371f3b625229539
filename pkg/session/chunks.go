package session

import "github.com/blockworld-proto/mcs17/pkg/world"

// EnsureChunk allocates an empty column at cp if one is not already cached
// (chunk-cache packet, mode 1, spec.md §4.4), evicting the oldest cached
// column once the cache exceeds maxCachedChunks (spec.md §3 "per-chunk
// cache of the last N chunks received").
func (s *Session) EnsureChunk(cp world.ChunkPos) *world.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.chunks[cp]; ok {
		return c
	}
	c := world.NewChunk()
	s.chunks[cp] = c
	s.chunkOrder = append(s.chunkOrder, cp)
	if len(s.chunkOrder) > maxCachedChunks {
		oldest := s.chunkOrder[0]
		s.chunkOrder = s.chunkOrder[1:]
		delete(s.chunks, oldest)
	}
	return c
}

// EvictChunk removes a cached column (chunk-cache packet, mode 0).
func (s *Session) EvictChunk(cp world.ChunkPos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chunks[cp]; !ok {
		return
	}
	delete(s.chunks, cp)
	for i, p := range s.chunkOrder {
		if p == cp {
			s.chunkOrder = append(s.chunkOrder[:i], s.chunkOrder[i+1:]...)
			break
		}
	}
}

// Chunk returns the cached column at cp, or nil if it has not been
// allocated. handleChunkMap allocates the column itself when a chunk-map
// arrives for one that is not cached.
func (s *Session) Chunk(cp world.ChunkPos) *world.Chunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks[cp]
}

// CachedChunkCount reports how many columns are currently cached, for
// tests and diagnostics.
func (s *Session) CachedChunkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Entity returns the local record for a server entity id, or nil.
func (s *Session) Entity(eid int32) *Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entities[eid]
}

// UpsertEntity creates or returns the existing record for eid.
func (s *Session) UpsertEntity(eid int32) *Entity {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[eid]
	if !ok {
		e = &Entity{EID: eid}
		s.entities[eid] = e
	}
	return e
}

// RemoveEntity drops a local entity record (destroy-entity packet).
func (s *Session) RemoveEntity(eid int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entities, eid)
}
