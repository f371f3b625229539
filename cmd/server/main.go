package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/blockworld-proto/mcs17/pkg/server"
	"github.com/blockworld-proto/mcs17/pkg/world"
)

func main() {
	address := flag.String("address", ":25565", "Server address to listen on")
	maxPlayers := flag.Int("max-players", 20, "Maximum number of players")
	motd := flag.String("motd", "A block-world server", "Server MOTD")
	seed := flag.Int64("seed", 0, "World seed (0 = random)")
	viewDistance := flag.Int("view-distance", server.DefaultViewDistance, "Chunk columns streamed around each player")
	nether := flag.Bool("nether", false, "Generate the nether dimension instead of the overworld")
	flag.Parse()

	dim := world.DimensionOverworld
	if *nether {
		dim = world.DimensionNether
	}

	config := server.Config{
		Address:      *address,
		MaxPlayers:   *maxPlayers,
		MOTD:         *motd,
		Seed:         *seed,
		ViewDistance: *viewDistance,
		Dimension:    dim,
	}

	srv := server.New(config)
	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Printf("block-world server started (protocol 17)")
	log.Printf("Address: %s | Max Players: %d", config.Address, config.MaxPlayers)

	// Wait for interrupt signal or internal shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Shutting down server (received signal: %v)...", sig)
	case <-srv.StopChan():
		log.Println("Shutting down server (internal)...")
	}

	srv.Stop()
	log.Println("Server stopped.")
}
