package store

import (
	"context"
	"sort"
	"sync"

	"github.com/soaringjerry/Persona/internal/models"
)

// MemoryBackend keeps results in a map. Used by tests and the "memory" driver.
type MemoryBackend struct {
	mu      sync.RWMutex
	results map[int64]models.TestResult
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{results: map[int64]models.TestResult{}}
}

func (m *MemoryBackend) Put(_ context.Context, r models.TestResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[r.Timestamp] = clone(r)
	return nil
}

func (m *MemoryBackend) Get(_ context.Context, key int64) (models.TestResult, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.results[key]
	if !ok {
		return models.TestResult{}, false, nil
	}
	return clone(r), true, nil
}

func (m *MemoryBackend) List(_ context.Context) ([]models.TestResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.TestResult, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, clone(r))
	}
	// keep stable order by key
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

func (m *MemoryBackend) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.results)
	m.results = map[int64]models.TestResult{}
	return n, nil
}

func (m *MemoryBackend) Close() error { return nil }

func clone(r models.TestResult) models.TestResult {
	r.Answers = append([]models.AnswerChoice(nil), r.Answers...)
	r.TraitLetters = append([]models.TraitLetter(nil), r.TraitLetters...)
	return r
}
