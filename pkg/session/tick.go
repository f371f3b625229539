package session

import (
	"errors"
	"io"
	"time"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

// RunTick drains inbound packets for one tick and, while in-world, emits the
// 50ms player-pos-look cadence and rolls back any tentative edit that has
// aged out (spec.md §4.4 "Outbound cadence", "Tentative blocks"). restore is
// the world-write callback for rolled-back cells; it may be nil if the
// caller tracks no local world (e.g. a headless driver exercising only the
// state machine).
//
// The packet loop stops when the per-tick budget elapses, the stream runs
// dry, or a fatal error surfaces, matching spec.md §4.4's "bounded per-tick
// budget" and §5's "never holds a lock across a suspension point".
func (s *Session) RunTick(now time.Time, restore func(pos world.BlockPos, priorBlock, priorMetadata byte)) error {
	if s.Phase() != PhaseActive {
		return nil
	}

	s.mu.Lock()
	inWorld := s.InWorld
	s.mu.Unlock()
	budget := TickBudgetInWorld
	if !inWorld {
		budget = TickBudgetLoading
	}
	deadline := now.Add(budget)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		s.setReadDeadline(deadline)
		pkt, err := s.ReadNext()
		if err != nil {
			if isTimeout(err) {
				break
			}
			if errors.Is(err, io.EOF) {
				s.Terminate("connection closed by peer")
				return nil
			}
			s.Terminate(err.Error())
			return &TransportError{Cause: err}
		}
		if err := s.Dispatch(pkt); err != nil {
			return err
		}
	}
	s.clearReadDeadline()

	if inWorld {
		s.maybeSendPose(now)
	}

	s.RollbackExpired(now, func(pos world.BlockPos, priorBlock, priorMetadata byte) {
		if restore != nil {
			restore(pos, priorBlock, priorMetadata)
		}
	})

	return nil
}

// maybeSendPose sends a player-pos-look if at least PosLookInterval has
// elapsed since the last one (spec.md §4.4 "Outbound cadence").
func (s *Session) maybeSendPose(now time.Time) {
	s.mu.Lock()
	due := now.Sub(s.LastPositionSent) >= PosLookInterval
	var pkt protocol.PlayerPosLook
	if due {
		pkt = protocol.PlayerPosLook{
			X: s.X, Y: s.Y, Stance: s.Stance, Z: s.Z,
			Yaw: s.Yaw, Pitch: s.Pitch, OnGround: s.OnGround,
		}
	}
	s.mu.Unlock()
	if !due {
		return
	}
	if err := s.Send(pkt); err != nil {
		s.logf("pos-look send failed: %v", err)
		return
	}
	s.mu.Lock()
	s.LastPositionSent = now
	s.mu.Unlock()
}

// LivenessExceeded reports whether the session has gone silent long enough
// that the peer SHOULD terminate it (spec.md §4.4 "Keep-alive", §5
// "Cancellation/timeout").
func (s *Session) LivenessExceeded() bool {
	return s.Idle() >= KeepAliveLiveness
}
