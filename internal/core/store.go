package core

import (
	"slices"
	"sync"

	"github.com/Rorical/RoriMeans/internal/models"
)

// ConfigStore holds the run configuration for one session. All mutations go
// through its methods.
type ConfigStore struct {
	mu  sync.RWMutex
	cfg models.RunConfig
}

func NewConfigStore(clusters int, method models.Method) *ConfigStore {
	return &ConfigStore{
		cfg: models.RunConfig{
			Clusters:  max(clusters, 1),
			Method:    method,
			Centroids: make([]models.Point, 0),
		},
	}
}

// SetClusterCount sets the cluster count, clamped to at least 1.
func (s *ConfigStore) SetClusterCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Clusters = max(n, 1)
}

func (s *ConfigStore) ClusterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clusters
}

func (s *ConfigStore) SetMethod(m models.Method) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Method = m
}

func (s *ConfigStore) Method() models.Method {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Method
}

func (s *ConfigStore) ClearCentroids() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Centroids = make([]models.Point, 0)
}

// AppendCentroid records a centroid. There is no upper bound; the count is
// only checked against the cluster count when initializing.
func (s *ConfigStore) AppendCentroid(p models.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Centroids = append(s.cfg.Centroids, p)
}

func (s *ConfigStore) CentroidCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cfg.Centroids)
}

// Snapshot returns a copy that is safe to send or keep.
func (s *ConfigStore) Snapshot() models.RunConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := s.cfg
	snap.Centroids = slices.Clone(s.cfg.Centroids)
	if snap.Centroids == nil {
		snap.Centroids = make([]models.Point, 0)
	}
	return snap
}
