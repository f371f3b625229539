package session

import (
	"time"

	"github.com/blockworld-proto/mcs17/pkg/world"
)

// TentativeBlock is an optimistic client-side edit awaiting server
// confirmation or timeout (spec.md §3, §4.4, §8 property 9). The list is
// scanned linearly on every inbound block change, matching spec.md §9's
// note that a spatial hash is only warranted "for large counts" — a single
// player's in-flight edit count never grows large enough to need one.
type TentativeBlock struct {
	Pos           world.BlockPos
	Timestamp     time.Time
	PriorBlock    byte
	PriorMetadata byte
	Fulfilled     bool
}

// RecordTentative registers an optimistic edit at pos, remembering the
// block/metadata that were there before so a timeout can restore them.
func (s *Session) RecordTentative(pos world.BlockPos, priorBlock, priorMetadata byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tentative = append(s.tentative, &TentativeBlock{
		Pos:           pos,
		Timestamp:     time.Now(),
		PriorBlock:    priorBlock,
		PriorMetadata: priorMetadata,
	})
}

// FulfillTentative marks any unfulfilled tentative entry at pos as
// confirmed. Called from the block-change/multi-block-change/chunk-map
// handlers (spec.md §4.4).
func (s *Session) FulfillTentative(pos world.BlockPos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tentative {
		if !t.Fulfilled && t.Pos == pos {
			t.Fulfilled = true
		}
	}
}

// FulfillTentativeInBox marks every unfulfilled tentative entry inside the
// axis-aligned box [minX,maxX]x[minY,maxY]x[minZ,maxZ] as confirmed, used
// when a chunk-map splat covers a bounding box rather than a single cell.
func (s *Session) FulfillTentativeInBox(minX, minY, minZ, maxX, maxY, maxZ int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tentative {
		if t.Fulfilled {
			continue
		}
		p := t.Pos
		if p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY && p.Z >= minZ && p.Z <= maxZ {
			t.Fulfilled = true
		}
	}
}

// RollbackExpired restores any tentative edit still unfulfilled past
// TentativeTimeout, invoking restore(pos, priorBlock, priorMetadata) for
// each one and removing it from the list. Fulfilled entries are also
// pruned once they age out, so the list does not grow unbounded.
func (s *Session) RollbackExpired(now time.Time, restore func(pos world.BlockPos, priorBlock, priorMetadata byte)) {
	s.mu.Lock()
	var kept []*TentativeBlock
	var toRestore []*TentativeBlock
	for _, t := range s.tentative {
		expired := now.Sub(t.Timestamp) >= TentativeTimeout
		switch {
		case !expired:
			kept = append(kept, t)
		case !t.Fulfilled:
			toRestore = append(toRestore, t)
		}
		// Expired and fulfilled entries are simply dropped.
	}
	s.tentative = kept
	s.mu.Unlock()

	for _, t := range toRestore {
		restore(t.Pos, t.PriorBlock, t.PriorMetadata)
	}
}

// PendingTentative returns a snapshot of the current tentative list, for
// tests and diagnostics.
func (s *Session) PendingTentative() []TentativeBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]TentativeBlock, len(s.tentative))
	for i, t := range s.tentative {
		out[i] = *t
	}
	return out
}
