package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// artifact is one finished, downloadable validation result.
type artifact struct {
	Name      string
	Data      []byte
	CreatedAt time.Time
}

// artifactStore keeps finished artifacts in memory, keyed by id. Single
// process, no eviction beyond TTL sweeps on Put; a restart loses
// artifacts, which matches the download-right-after-upload usage.
type artifactStore struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]artifact
}

func newArtifactStore(ttl time.Duration) *artifactStore {
	return &artifactStore{ttl: ttl, m: make(map[string]artifact)}
}

func (s *artifactStore) Put(name string, data []byte) string {
	id := uuid.NewString()
	now := time.Now()
	s.mu.Lock()
	for k, a := range s.m {
		if s.ttl > 0 && now.Sub(a.CreatedAt) > s.ttl {
			delete(s.m, k)
		}
	}
	s.m[id] = artifact{Name: name, Data: data, CreatedAt: now}
	s.mu.Unlock()
	return id
}

func (s *artifactStore) Get(id string) (artifact, bool) {
	s.mu.RLock()
	a, ok := s.m[id]
	s.mu.RUnlock()
	return a, ok
}
