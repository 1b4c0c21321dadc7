// Package pipeline wires together preprocessing, clustering, association,
// and track management into the tracker's per-dwell processing loop: a
// receiver goroutine feeds a bounded channel, a single processor goroutine
// drains it and calls the sender synchronously, and both goroutines watch
// a shared atomic running flag for clean shutdown.
package pipeline

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"cuastracker/internal/archive"
	"cuastracker/internal/associate"
	"cuastracker/internal/binlog"
	"cuastracker/internal/cluster"
	"cuastracker/internal/config"
	"cuastracker/internal/kinematics"
	"cuastracker/internal/netio"
	"cuastracker/internal/preprocess"
	"cuastracker/internal/telemetry"
	"cuastracker/internal/track"
	"cuastracker/internal/wire"
)

const dwellQueueSize = 32

// Pipeline is the tracker's top-level per-dwell processing loop.
type Pipeline struct {
	cfg config.TrackerConfig
	log zerolog.Logger

	receiver *netio.Receiver
	sender   *netio.Sender

	preproc  *preprocess.Preprocessor
	clusters *cluster.Engine
	manager  *track.Manager

	binlogW   *binlog.Writer
	telemetry *telemetry.Hub
	archiveDB *archive.Archive

	running *atomic.Bool
	dwellCh chan []byte
	wg      sync.WaitGroup

	lastTimestamp uint64
	haveLast      bool
}

// New builds a Pipeline from a fully loaded configuration document.
func New(cfg config.TrackerConfig, log zerolog.Logger, running *atomic.Bool) (*Pipeline, error) {
	receiver, err := netio.NewReceiver(cfg.Network.ReceiverIP, cfg.Network.ReceiverPort, cfg.Network.ReceiveBufferSize, log)
	if err != nil {
		return nil, err
	}
	sender, err := netio.NewSender(cfg.Network.SenderIP, cfg.Network.SenderPort, cfg.Network.SendBufferSize)
	if err != nil {
		receiver.Close()
		return nil, err
	}

	clusterEngine, err := cluster.NewEngine(cfg.Clustering)
	if err != nil {
		return nil, err
	}
	associator, err := associate.NewEngine(cfg.Association)
	if err != nil {
		return nil, err
	}

	// Constant measurement noise, independent of association strategy:
	// diagonal on the position-only measurement space, sigma=25m per axis.
	r := kinematics.DiagMeasMatrix(625.0)

	manager := track.NewManager(cfg.TrackManagement, cfg.Prediction, r, associator)

	p := &Pipeline{
		cfg:      cfg,
		log:      log,
		receiver: receiver,
		sender:   sender,
		preproc:  preprocess.New(cfg.Preprocessing),
		clusters: clusterEngine,
		manager:  manager,
		running:  running,
		dwellCh:  make(chan []byte, dwellQueueSize),
	}

	if cfg.System.LogEnabled {
		w, err := binlog.NewWriter(cfg.System.LogDirectory)
		if err != nil {
			log.Warn().Err(err).Msg("pipeline: session log disabled, could not open")
		} else {
			p.binlogW = w
		}
	}

	if cfg.Display.TelemetryAddr != "" {
		hub := telemetry.NewHub(log)
		go func() {
			if err := hub.Serve(cfg.Display.TelemetryAddr); err != nil {
				log.Warn().Err(err).Msg("pipeline: telemetry hub stopped")
			}
		}()
		p.telemetry = hub
	}

	if cfg.Display.ArchivePath != "" {
		db, err := archive.Open(cfg.Display.ArchivePath)
		if err != nil {
			log.Warn().Err(err).Msg("pipeline: track archive disabled, could not open")
		} else {
			p.archiveDB = db
		}
	}

	return p, nil
}

// Run starts the receiver and processor goroutines and blocks until both
// have exited, which happens once running reports false and the receiver's
// read-deadline loop notices.
func (p *Pipeline) Run() {
	p.wg.Add(2)

	go func() {
		defer p.wg.Done()
		p.receiver.Run(p.running.Load, p.dwellCh)
	}()

	go func() {
		defer p.wg.Done()
		p.processLoop()
	}()

	p.wg.Wait()
}

func (p *Pipeline) processLoop() {
	cycle := time.Duration(p.cfg.System.CyclePeriodMs) * time.Millisecond
	if cycle <= 0 {
		cycle = 50 * time.Millisecond
	}
	ticker := time.NewTicker(cycle)
	defer ticker.Stop()

	for p.running.Load() {
		select {
		case raw, ok := <-p.dwellCh:
			if !ok {
				return
			}
			p.processDwell(raw)
		case <-ticker.C:
			// No dwell arrived this cycle; nothing to do but keep the loop
			// responsive to the running flag.
		}
	}
}

func (p *Pipeline) processDwell(raw []byte) {
	hdr, dets, err := wire.DecodeDetectionMessage(raw)
	if err != nil {
		p.log.Warn().Err(err).Msg("pipeline: dropping malformed dwell")
		return
	}

	dt := p.dwellDelta(hdr.Timestamp)

	if p.binlogW != nil {
		p.binlogW.Write(binlog.Record{Type: binlog.RecordDwellRaw, Timestamp: hdr.Timestamp, Payload: raw})
	}

	filtered := p.preproc.Filter(dets)
	clusters := p.clusters.Run(filtered)

	if p.binlogW != nil {
		p.binlogW.Flush()
	}

	p.manager.Step(dt, clusters)

	records := p.buildRecords(hdr.Timestamp)
	payload := wire.EncodeTrackTable(hdr.Timestamp, records)
	if err := p.sender.Send(payload); err != nil {
		p.log.Warn().Err(err).Msg("pipeline: failed to send track table")
	}

	if p.telemetry != nil {
		p.telemetry.Broadcast(hdr.Timestamp, records)
	}
	if p.archiveDB != nil {
		if err := p.archiveDB.RecordDwell(hdr.Timestamp, p.manager.Tracks()); err != nil {
			p.log.Warn().Err(err).Msg("pipeline: failed to archive dwell")
		}
	}
}

func (p *Pipeline) buildRecords(timestamp uint64) []wire.TrackRecord {
	tracks := p.manager.Tracks()
	records := make([]wire.TrackRecord, 0, len(tracks))
	for _, t := range tracks {
		if t.Status == track.StatusTentative {
			continue // not yet confirmed, don't publish
		}
		if t.Status == track.StatusDeleted && !p.cfg.Display.SendDeletedTracks {
			continue
		}
		records = append(records, t.ToRecord(timestamp))
	}
	return records
}

// dwellDelta converts consecutive dwell timestamps (microseconds since
// epoch, per the wire format) into a dt in seconds for the filter. A
// nonpositive or implausibly large delta — a backward or stale timestamp —
// is a time anomaly and falls back to the configured cycle period rather
// than corrupting the filter's process noise scaling.
func (p *Pipeline) dwellDelta(timestamp uint64) float64 {
	cyclePeriod := float64(p.cfg.System.CyclePeriodMs) / 1000.0
	if !p.haveLast {
		p.haveLast = true
		p.lastTimestamp = timestamp
		return cyclePeriod
	}
	dt := (float64(timestamp) - float64(p.lastTimestamp)) / 1e6
	p.lastTimestamp = timestamp
	if dt <= 0.0 || dt > 10.0 {
		return cyclePeriod
	}
	return dt
}

// Close releases every resource the pipeline opened.
func (p *Pipeline) Close() {
	p.receiver.Close()
	p.sender.Close()
	if p.binlogW != nil {
		p.binlogW.Close()
	}
	if p.telemetry != nil {
		p.telemetry.Close()
	}
	if p.archiveDB != nil {
		p.archiveDB.Close()
	}
}
