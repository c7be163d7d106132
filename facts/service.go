package facts

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/opencivic/civicassist/pkg/logging"
	"gopkg.in/yaml.v3"
)

// Store is the query surface the tool dispatcher consumes. Absence is
// represented as nil/empty results, never as an error.
type Store interface {
	GetByID(id string) *Fact
	GetByPrefix(prefix string) []*Fact
	GetAll() []*Fact
}

// Service loads facts registries from YAML files and caches them in memory.
// Safe for concurrent use; if two callers race to load the same registry,
// only one load happens and both see the same cached result.
type Service struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	cache  map[string]*Registry
	loaded []string // registry names in load order
}

// NewService creates a facts service rooted at the given directory.
func NewService(dir string) *Service {
	return &Service{
		dir:    dir,
		logger: logging.WithComponent("facts"),
		cache:  make(map[string]*Registry),
	}
}

func (s *Service) registryPath(name string) string {
	return filepath.Join(s.dir, name+".yaml")
}

// LoadRegistry loads a registry by name, returning the cached copy when one
// exists. The load happens under the lock so concurrent first access
// performs a single read from disk.
func (s *Service) LoadRegistry(name string) (*Registry, error) {
	s.mu.RLock()
	if reg, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return reg, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if reg, ok := s.cache[name]; ok {
		return reg, nil
	}

	path := s.registryPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", name, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("validate registry %s: %w", name, err)
	}

	s.cache[name] = &reg
	s.loaded = append(s.loaded, name)
	s.logger.Info("loaded facts registry", "registry", name, "facts", len(reg.Facts))
	return &reg, nil
}

// ReloadRegistry drops the cached copy and loads fresh from disk.
func (s *Service) ReloadRegistry(name string) (*Registry, error) {
	s.mu.Lock()
	if _, ok := s.cache[name]; ok {
		delete(s.cache, name)
		for i, n := range s.loaded {
			if n == name {
				s.loaded = append(s.loaded[:i], s.loaded[i+1:]...)
				break
			}
		}
		s.logger.Debug("cleared cached registry", "registry", name)
	}
	s.mu.Unlock()
	return s.LoadRegistry(name)
}

// GetByID returns the fact with the given id from any loaded registry, or
// nil when not found.
func (s *Service) GetByID(id string) *Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.loaded {
		for _, f := range s.cache[name].Facts {
			if f.ID == id {
				return f
			}
		}
	}
	return nil
}

// GetByPrefix returns all facts whose id starts with prefix, in load order.
// The empty prefix matches everything; no matches yields an empty slice.
func (s *Service) GetByPrefix(prefix string) []*Fact {
	matched := []*Fact{}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.loaded {
		for _, f := range s.cache[name].Facts {
			if strings.HasPrefix(f.ID, prefix) {
				matched = append(matched, f)
			}
		}
	}
	return matched
}

// GetAll returns all facts from all loaded registries in load order.
func (s *Service) GetAll() []*Fact {
	all := []*Fact{}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.loaded {
		all = append(all, s.cache[name].Facts...)
	}
	return all
}

// LoadedRegistries returns the names of all cached registries in load order.
func (s *Service) LoadedRegistries() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.loaded...)
}

// ClearCache drops all cached registries.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.cache)
	s.cache = make(map[string]*Registry)
	s.loaded = nil
	s.logger.Info("cleared facts cache", "registries", n)
}
