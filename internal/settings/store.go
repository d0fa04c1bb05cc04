package settings

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store is the settings provider handed to the serving layer: a
// mutex-guarded Settings value backed by the encrypted file. The aggregator
// reads ProviderConfigs from it on every refresh, so edits take effect on
// the next pass.
type Store struct {
	mu      sync.RWMutex
	path    string
	cipher  *Cipher
	current Settings
}

func NewStore(path string, cipher *Cipher) (*Store, error) {
	s, err := LoadFrom(path, cipher)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, cipher: cipher, current: s}, nil
}

func (st *Store) Current() Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.current
}

// Update applies a partial change, persists it, and returns the new state.
func (st *Store) Update(u Update) (Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current
	if err := next.Apply(u); err != nil {
		return Settings{}, err
	}
	if err := SaveTo(st.path, st.cipher, next); err != nil {
		return Settings{}, err
	}
	st.current = next
	return next, nil
}

func (st *Store) reload() error {
	s, err := LoadFrom(st.path, st.cipher)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.current = s
	st.mu.Unlock()
	return nil
}

// Watch reloads the store when the settings file changes on disk, until the
// context is cancelled. Editors that replace the file (rename-over) are
// handled by watching the parent directory.
func (st *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(st.path)); err != nil {
		return fmt.Errorf("watching settings dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != st.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := st.reload(); err != nil {
				log.Printf("settings event=reload_error err=%v", err)
				continue
			}
			log.Printf("settings event=reloaded path=%s", st.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("settings event=watch_error err=%v", err)
		}
	}
}
