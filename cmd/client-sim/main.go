// Command client-sim is a headless driver that exercises session.Session
// against a real server, modeled on the teacher's cmd/server/main.go
// flag-based shape. It is not a rendering client (out of scope per
// spec.md §1); it drives the state machine to ACTIVE, sends a handshake
// carrying the username, runs the per-tick packet loop, and logs phase
// transitions (through the session's logger) and tentative rollbacks.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blockworld-proto/mcs17/pkg/protocol"
	"github.com/blockworld-proto/mcs17/pkg/session"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

func main() {
	address := flag.String("address", "127.0.0.1:25565", "Server address to connect to")
	username := flag.String("username", "sim", "Username to present at login")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)
	s := session.New(*username, logger)
	s.Init(*address)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	handshakeSent := false
	for {
		select {
		case <-sigCh:
			s.Terminate("interrupted")
			return
		case now := <-ticker.C:
			phase := s.StepToActive()
			switch phase {
			case session.PhaseFailed:
				logger.Printf("connect failed: %v", s.ConnectErr())
				return
			case session.PhaseTerminated:
				return
			case session.PhaseActive:
				if !handshakeSent {
					if err := s.Send(protocol.Handshake{Payload: *username}); err != nil {
						logger.Printf("send handshake: %v", err)
						return
					}
					handshakeSent = true
				}
				if err := s.RunTick(now, func(pos world.BlockPos, priorBlock, priorMetadata byte) {
					logger.Printf("tentative rollback at %+v: block=%d meta=%d", pos, priorBlock, priorMetadata)
				}); err != nil {
					logger.Printf("tick error: %v", err)
					return
				}
			}
		}
	}
}
