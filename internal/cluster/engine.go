package cluster

import (
	"fmt"

	"cuastracker/internal/config"
	"cuastracker/internal/geometry"
	"cuastracker/internal/wire"
)

// Engine dispatches to the configured clusterer and owns the two things
// every strategy shares: monotonic cluster id assignment and computing
// each cluster's Cartesian centroid from its spherical mean, rather than
// the reverse.
type Engine struct {
	strategy Clusterer
}

func NewEngine(cfg config.ClusterConfig) (*Engine, error) {
	var strategy Clusterer
	switch cfg.Method {
	case config.ClusterDBSCAN:
		strategy = NewDBScan(cfg.DBScan)
	case config.ClusterRangeBased:
		strategy = NewRangeBased(cfg.RangeBased)
	case config.ClusterRangeStrength:
		strategy = NewRangeStrength(cfg.RangeStrength)
	default:
		return nil, fmt.Errorf("cluster: unknown method %q", cfg.Method)
	}
	return &Engine{strategy: strategy}, nil
}

// Run clusters a dwell's filtered detections, reassigning cluster ids
// monotonically in output order and filling in each cluster's Cartesian
// centroid from its spherical mean.
func (e *Engine) Run(dets []wire.Detection) []Cluster {
	clusters := e.strategy.Cluster(dets)
	for i := range clusters {
		clusters[i].ID = i
		clusters[i].Cartesian = geometry.SphericalToCartesian(
			clusters[i].Range, clusters[i].Azimuth, clusters[i].Elevation)
	}
	return clusters
}
