package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/maltedev/selector-discovery/internal/analyzer"
)

// SavedResult is one discovery outcome kept in the results file.
type SavedResult struct {
	URL       string                   `json:"url"`
	Domain    string                   `json:"domain"`
	Selectors []analyzer.PatternResult `json:"selectors"`
	SavedAt   time.Time                `json:"saved_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ResultStorage persists discovery results to a JSON file, for CLI runs
// that have no database behind them.
type ResultStorage struct {
	mu       sync.RWMutex
	results  map[string]*SavedResult
	filename string
}

func NewResultStorage(filename string) (*ResultStorage, error) {
	rs := &ResultStorage{
		results:  make(map[string]*SavedResult),
		filename: filename,
	}

	// Load existing data if file exists
	if err := rs.Load(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	return rs, nil
}

func (rs *ResultStorage) Add(result *SavedResult) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if result.URL == "" {
		return fmt.Errorf("URL is required")
	}

	now := time.Now()
	if existing, ok := rs.results[result.URL]; ok {
		result.SavedAt = existing.SavedAt
	} else {
		result.SavedAt = now
	}
	result.UpdatedAt = now

	rs.results[result.URL] = result
	return rs.save()
}

func (rs *ResultStorage) Get(url string) (*SavedResult, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	result, exists := rs.results[url]
	return result, exists
}

func (rs *ResultStorage) All() []*SavedResult {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	results := make([]*SavedResult, 0, len(rs.results))
	for _, r := range rs.results {
		results = append(results, r)
	}
	return results
}

func (rs *ResultStorage) save() error {
	data, err := json.MarshalIndent(rs.results, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first for atomicity
	tmpFile := rs.filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return err
	}

	// Rename to actual file
	return os.Rename(tmpFile, rs.filename)
}

func (rs *ResultStorage) Load() error {
	data, err := os.ReadFile(rs.filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &rs.results)
}
