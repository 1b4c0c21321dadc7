// Command dumplog reads a tracker session log and prints a summary of its
// records, or with -pcap, ingests a captured UDP pcap file and dumps the
// SP Detection Messages it contains.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"cuastracker/internal/binlog"
	"cuastracker/internal/wire"
)

func main() {
	path := flag.String("log", "", "path to a session log file")
	pcapPath := flag.String("pcap", "", "path to a pcap capture of detection UDP traffic")
	flag.Parse()

	switch {
	case *pcapPath != "":
		dumpPcap(*pcapPath)
	case *path != "":
		dumpLog(*path)
	default:
		fmt.Fprintln(os.Stderr, "dumplog: one of -log or -pcap is required")
		os.Exit(1)
	}
}

func dumpLog(path string) {
	r, err := binlog.OpenReader(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dumplog: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	counts := make(map[binlog.RecordType]int)
	total := 0
	for {
		rec, err := r.Next()
		if err != nil {
			break
		}
		counts[rec.Type]++
		total++

		switch rec.Type {
		case binlog.RecordDwellRaw:
			_, dets, err := wire.DecodeDetectionMessage(rec.Payload)
			if err == nil {
				fmt.Printf("[%d] dwell raw: %d detections\n", rec.Timestamp, len(dets))
			}
		case binlog.RecordTrackTable:
			_, tracks, err := wire.DecodeTrackTable(rec.Payload)
			if err == nil {
				fmt.Printf("[%d] track table: %d tracks\n", rec.Timestamp, len(tracks))
			}
		}
	}

	fmt.Println("---")
	for t, n := range counts {
		fmt.Printf("%-16s %d\n", t, n)
	}
	fmt.Printf("total records: %d\n", total)
}

func dumpPcap(path string) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dumplog: %v\n", err)
		os.Exit(1)
	}
	defer handle.Close()

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	count := 0
	for packet := range source.Packets() {
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, _ := udpLayer.(*layers.UDP)
		hdr, dets, err := wire.DecodeDetectionMessage(udp.Payload)
		if err != nil {
			continue
		}
		fmt.Printf("dwell %d @ %d: %d detections\n", hdr.DwellCount, hdr.Timestamp, len(dets))
		count++
	}
	fmt.Printf("dumplog: decoded %d detection messages from %s\n", count, path)
}
