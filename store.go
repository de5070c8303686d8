package main

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"GeneSetViz/pkg/geneset"
)

// runTTL bounds how long download/chart links stay valid.
const runTTL = time.Hour

// Run holds one analysis run's inputs and outputs for the download and chart
// endpoints. Nothing is persisted to disk.
type Run struct {
	ID      string
	Created time.Time
	Config  geneset.AnalysisConfig

	// venn path
	Sets          geneset.SetCollection
	Intersections []geneset.IntersectionRow
	Exclusive     map[string][]string

	// enrichment path
	Enrichment []geneset.EnrichmentRecord
}

// RunStore is an in-memory, TTL-bounded store of recent runs.
type RunStore struct {
	mu   sync.Mutex
	runs map[string]*Run
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*Run)}
}

// Put assigns the run an ID, stores it, and sweeps expired runs.
func (s *RunStore) Put(run *Run) string {
	var buf [8]byte
	rand.Read(buf[:])
	run.ID = hex.EncodeToString(buf[:])
	run.Created = time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, old := range s.runs {
		if time.Since(old.Created) > runTTL {
			delete(s.runs, id)
		}
	}
	s.runs[run.ID] = run
	return run.ID
}

func (s *RunStore) Get(id string) (*Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[id]
	if !ok || time.Since(run.Created) > runTTL {
		return nil, false
	}
	return run, true
}
