// Command tracker runs the C-UAS dwell-processing daemon: it listens for
// SP Detection Messages, tracks contacts across dwells, and publishes a
// Track Table over UDP every cycle.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"cuastracker/internal/config"
	"cuastracker/internal/logging"
	"cuastracker/internal/pipeline"
)

const banner = `
   ____      _   _   _    _____
  / ___|    | | | | / \  / ____)
 | |   _____| | | |/ _ \ \___ \
 | |__|_____| |_| / ___ \ ___) |
  \____|     \___/_/   \_)____/  tracker
`

func main() {
	configPath := flag.String("config", "config.json", "path to the tracker configuration document")
	flag.Parse()

	resolved := config.ResolvePath(*configPath)
	cfg, err := config.Load(resolved)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracker: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.NewFromConfigLevel(cfg.System.LogLevel), os.Stdout)
	fmt.Fprint(os.Stdout, banner)
	log.Info().Str("config", resolved).Msg("loaded configuration")

	var running atomic.Bool
	running.Store(true)

	p, err := pipeline.New(cfg, log, &running)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pipeline")
	}
	defer p.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info().Msg("shutdown requested")
		running.Store(false)
	}()

	log.Info().
		Str("receiver", fmt.Sprintf("%s:%d", cfg.Network.ReceiverIP, cfg.Network.ReceiverPort)).
		Str("sender", fmt.Sprintf("%s:%d", cfg.Network.SenderIP, cfg.Network.SenderPort)).
		Msg("tracker running")

	p.Run()
	log.Info().Msg("tracker stopped")
}
