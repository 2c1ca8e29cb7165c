package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/collect-game/game/level"
	"github.com/wricardo/collect-game/game/service"
)

// MapExt is the file extension of map files
const MapExt = ".txt"

// DefaultMapName is preferred as the default map when present
const DefaultMapName = "map"

var ErrMapNotFound = service.ErrMapNotFound

// Manager handles map discovery, loading and caching for a maps directory
type Manager struct {
	mapsDir    string
	defaultMap string
	maps       map[string]*level.Level
	mu         sync.RWMutex
}

// NewManager creates a new map manager
func NewManager(mapsDir string) (*Manager, error) {
	// Ensure maps directory exists
	if info, err := os.Stat(mapsDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("maps directory does not exist: %s", mapsDir)
	}

	m := &Manager{
		mapsDir: mapsDir,
		maps:    make(map[string]*level.Level),
	}
	m.loadDefaultMap()
	return m, nil
}

// Dir returns the maps directory
func (m *Manager) Dir() string {
	return m.mapsDir
}

// Path returns the file path of the named map
func (m *Manager) Path(name string) (string, error) {
	name = strings.TrimSuffix(name, MapExt)
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", ErrMapNotFound
	}

	path := filepath.Join(m.mapsDir, name+MapExt)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrMapNotFound
		}
		return "", fmt.Errorf("failed to stat map file: %w", err)
	}
	return path, nil
}

// LoadMap loads and validates a map by name
func (m *Manager) LoadMap(name string) (*level.Level, error) {
	name = strings.TrimSuffix(name, MapExt)

	m.mu.RLock()
	// Check cache first
	if lvl, exists := m.maps[name]; exists {
		m.mu.RUnlock()
		return lvl, nil
	}
	m.mu.RUnlock()

	path, err := m.Path(name)
	if err != nil {
		return nil, err
	}
	lvl, err := level.Load(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another goroutine may have loaded it meanwhile
	if cached, exists := m.maps[name]; exists {
		return cached, nil
	}
	m.maps[name] = lvl
	return lvl, nil
}

// ListMaps returns information about every valid map, sorted by name.
// Invalid map files are skipped.
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	var maps []*service.MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MapExt) {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), MapExt)
		lvl, err := m.LoadMap(name)
		if err != nil {
			continue
		}
		maps = append(maps, service.NewMapInfo(name, entry.Name(), lvl))
	}

	sort.Slice(maps, func(i, j int) bool {
		return maps[i].Name < maps[j].Name
	})
	return maps, nil
}

// DefaultMap returns the name used when a session is created without one
func (m *Manager) DefaultMap() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultMap
}

// SetDefault sets the default map by name
func (m *Manager) SetDefault(name string) error {
	if _, err := m.LoadMap(name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultMap = strings.TrimSuffix(name, MapExt)
	return nil
}

// RefreshCache drops every cached map so edits on disk are picked up
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.maps = make(map[string]*level.Level)
	m.mu.Unlock()

	m.loadDefaultMap()
}

// loadDefaultMap prefers "map", then the first valid map by name
func (m *Manager) loadDefaultMap() {
	name := ""
	if _, err := m.LoadMap(DefaultMapName); err == nil {
		name = DefaultMapName
	} else if maps, err := m.ListMaps(); err == nil && len(maps) > 0 {
		name = maps[0].Name
	}

	m.mu.Lock()
	m.defaultMap = name
	m.mu.Unlock()
}

var _ service.MapManager = (*Manager)(nil)
