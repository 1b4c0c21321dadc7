// Command inject generates synthetic SP Detection Messages and sends them
// over UDP, either as a scripted linear-motion target or by replaying a
// previously captured binary log's raw dwells.
package main

import (
	"flag"
	"fmt"
	"math"
	"net"
	"os"
	"time"

	"cuastracker/internal/binlog"
	"cuastracker/internal/logging"
	"cuastracker/internal/wire"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "destination host:port for detection messages")
	replay := flag.String("replay", "", "replay raw dwells from a session log instead of synthesizing")
	dwells := flag.Int("dwells", 50, "number of synthetic dwells to send")
	rate := flag.Duration("rate", 100*time.Millisecond, "delay between dwells")
	flag.Parse()

	log := logging.Default()

	udpAddr, err := net.ResolveUDPAddr("udp", *addr)
	if err != nil {
		log.Fatal().Err(err).Msg("inject: bad address")
	}
	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("inject: dial failed")
	}
	defer conn.Close()

	if *replay != "" {
		runReplay(*replay, conn)
		return
	}
	runSynthetic(*dwells, *rate, conn)
}

func runReplay(path string, conn *net.UDPConn) {
	r, err := binlog.OpenReader(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inject: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	count := 0
	for {
		rec, err := r.Next()
		if err != nil {
			break
		}
		if rec.Type != binlog.RecordDwellRaw {
			continue
		}
		if _, err := conn.Write(rec.Payload); err != nil {
			fmt.Fprintf(os.Stderr, "inject: send failed: %v\n", err)
			return
		}
		count++
	}
	fmt.Fprintf(os.Stdout, "inject: replayed %d dwells from %s\n", count, path)
}

// runSynthetic sends a scripted target flying a straight line inbound at
// constant speed, one detection per dwell, exercising initiation and
// confirmation.
func runSynthetic(numDwells int, rate time.Duration, conn *net.UDPConn) {
	const speed = 60.0 // m/s
	const startRange = 8000.0
	const azimuth = 0.4
	const elevation = 0.05

	for i := 0; i < numDwells; i++ {
		r := startRange - speed*float64(i)*rate.Seconds()
		if r < 100 {
			r = 100
		}
		det := wire.Detection{
			Range: r, Azimuth: azimuth, Elevation: elevation,
			Strength: -40 + 5*math.Sin(float64(i)*0.3),
			Noise:    -80, SNR: 40, RCS: 0.05, MicroDoppler: 12.0,
		}

		msg := wire.EncodeDetectionMessage(wire.DwellHeader{
			DwellCount: uint32(i),
			Timestamp:  uint64(i) * uint64(rate.Microseconds()),
		}, []wire.Detection{det})

		if _, err := conn.Write(msg); err != nil {
			fmt.Fprintf(os.Stderr, "inject: send failed: %v\n", err)
			return
		}
		time.Sleep(rate)
	}
	fmt.Fprintf(os.Stdout, "inject: sent %d synthetic dwells\n", numDwells)
}
