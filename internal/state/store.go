// Package state persists adapter counter snapshots across restarts.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"netdev-go/pkg/netdev"

	"github.com/vmihailenco/msgpack/v5"
)

// AdapterState is one adapter's counters at save time.
type AdapterState struct {
	Name         string `msgpack:"name"`
	PacketsIn    uint64 `msgpack:"packets_in"`
	BytesIn      uint64 `msgpack:"bytes_in"`
	PacketsOut   uint64 `msgpack:"packets_out"`
	BytesOut     uint64 `msgpack:"bytes_out"`
	RxDrops      uint64 `msgpack:"rx_drops"`
	FragmentsOut uint64 `msgpack:"fragments_out"`
	SavedAt      int64  `msgpack:"saved_at"`
}

type snapshotFile struct {
	Adapters []AdapterState `msgpack:"adapters"`
}

// Store writes snapshots to a single file, replaced atomically.
type Store struct {
	mu   sync.Mutex
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Collect walks the registry and captures every adapter's counters.
func Collect(reg *netdev.Registry) []AdapterState {
	now := time.Now().Unix()
	var out []AdapterState
	reg.ForEach(func(a *netdev.Adapter) {
		st := a.Stats()
		out = append(out, AdapterState{
			Name:         a.Name(),
			PacketsIn:    st.PacketsIn,
			BytesIn:      st.BytesIn,
			PacketsOut:   st.PacketsOut,
			BytesOut:     st.BytesOut,
			RxDrops:      st.RxDrops,
			FragmentsOut: st.FragmentsOut,
			SavedAt:      now,
		})
	})
	return out
}

func (s *Store) Save(states []AdapterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}
	}

	data, err := msgpack.Marshal(snapshotFile{Adapters: states})
	if err != nil {
		return fmt.Errorf("marshal adapter state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Load returns the last saved snapshot, or nil when none exists yet.
func (s *Store) Load() ([]AdapterState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var file snapshotFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("corrupted state file: %w", err)
	}
	return file.Adapters, nil
}
