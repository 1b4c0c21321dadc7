package track

import (
	"math"

	"cuastracker/internal/associate"
	"cuastracker/internal/cluster"
	"cuastracker/internal/config"
	"cuastracker/internal/kinematics"
)

// Manager owns the full track population and runs one dwell's worth of
// association, filter update/coast, quality maintenance, deletion, and
// initiation.
type Manager struct {
	cfg       config.TrackManagementConfig
	predCfg   config.PredictionConfig
	r         kinematics.MeasMatrix
	associate associate.Associator
	initiator *Initiator

	tracks []*Track
	nextID int
}

func NewManager(trackCfg config.TrackManagementConfig, predCfg config.PredictionConfig, r kinematics.MeasMatrix, associator associate.Associator) *Manager {
	return &Manager{
		cfg:       trackCfg,
		predCfg:   predCfg,
		r:         r,
		associate: associator,
		initiator: NewInitiator(trackCfg.Initiation),
	}
}

// Tracks returns the current, live (non-deleted) track population.
func (m *Manager) Tracks() []*Track { return m.tracks }

// Step runs one full dwell cycle: predict every non-deleted track forward
// to the current dwell, associate clusters against the resulting merged
// state, update matched tracks and count misses on unmatched ones, run
// M-of-N initiation over clusters that matched no track, then apply
// quality maintenance, deletion and classification to every live track,
// including any initiated this dwell.
func (m *Manager) Step(dt float64, clusters []cluster.Cluster) {
	for _, t := range m.tracks {
		t.Filter.Predict(dt)
		t.Age++
	}

	views := make([]associate.TrackView, len(m.tracks))
	for i, t := range m.tracks {
		views[i] = t.View()
	}

	result := m.associate.Associate(views, clusters, m.r)

	byID := make(map[int]*Track, len(m.tracks))
	for _, t := range m.tracks {
		byID[t.ID] = t
	}
	clusterByID := make(map[int]cluster.Cluster, len(clusters))
	for _, c := range clusters {
		clusterByID[c.ID] = c
	}

	for trackID, clusterID := range result.Matches {
		t := byID[trackID]
		c := clusterByID[clusterID]
		z := kinematics.MeasVector{c.Cartesian.X, c.Cartesian.Y, c.Cartesian.Z}
		t.Filter.Correct(z)
		t.HitCount++
		t.ConsecutiveMisses = 0
	}

	for _, trackID := range result.UnmatchedTracks {
		t := byID[trackID]
		t.MissCount++
		t.ConsecutiveMisses++
	}

	var unmatchedClusters []cluster.Cluster
	for _, cid := range result.UnmatchedClusters {
		unmatchedClusters = append(unmatchedClusters, clusterByID[cid])
	}
	for _, seed := range m.initiator.Step(dt, unmatchedClusters) {
		m.spawn(seed)
	}

	m.maintain()
	m.applyDeletion()
	m.classify()
}

// maintain runs quality update and the confirm/coast status transitions
// over every non-deleted track, before deletion and classification.
func (m *Manager) maintain() {
	maint := m.cfg.Maintenance
	for _, t := range m.tracks {
		if t.ConsecutiveMisses == 0 {
			t.Quality = math.Min(1.0, t.Quality+maint.QualityBoost)
		} else {
			t.Quality *= maint.QualityDecayRate
		}

		switch t.Status {
		case StatusTentative:
			if t.HitCount >= uint32(maint.ConfirmHits) {
				t.Status = StatusConfirmed
			}
		case StatusConfirmed:
			if t.ConsecutiveMisses > 0 {
				t.Status = StatusCoasting
			}
		case StatusCoasting:
			if t.ConsecutiveMisses == 0 {
				t.Status = StatusConfirmed
			}
		}
	}
}

// classify recomputes every non-deleted track's classification from its
// merged-state velocity and current mode probabilities.
func (m *Manager) classify() {
	for _, t := range m.tracks {
		x := t.Filter.Merged.X
		t.Classification = classify(speedOf(x), t.Filter.ModeProbabilities())
	}
}

func (m *Manager) spawn(seed Initiation) {
	filter := newFilter(m.predCfg, m.cfg.InitialCovariance, m.r, seed.X, seed.Y, seed.Z, seed.VX, seed.VY, seed.VZ)
	t := &Track{
		ID:      m.nextID,
		Status:  StatusTentative,
		Filter:  filter,
		Quality: 0.5,
	}
	m.nextID++
	m.tracks = append(m.tracks, t)
}

// applyDeletion checks each track against the deletion predicate in exact
// priority order — max coasting, then low quality, then out of range —
// so a track failing multiple conditions at once is always attributed to
// the first one, matching the original evaluation order.
func (m *Manager) applyDeletion() {
	kept := m.tracks[:0]
	for _, t := range m.tracks {
		reason := ""
		switch {
		case t.ConsecutiveMisses >= m.cfg.Deletion.MaxCoastingDwells:
			reason = "max_coasting"
		case t.Quality < m.cfg.Deletion.MinQuality:
			reason = "low_quality"
		case t.SphericalRange() > m.cfg.Deletion.MaxRange:
			reason = "out_of_range"
		}
		if reason != "" {
			t.Status = StatusDeleted
			t.DeletionReason = reason
			continue
		}
		kept = append(kept, t)
	}
	m.tracks = kept
}
