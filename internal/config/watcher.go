package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Tuning is the runtime-changeable slice of configuration, kept in a YAML
// file next to the deployment and reloaded on write.
type Tuning struct {
	Features Features `yaml:"features"`
	Limits   Limits   `yaml:"limits"`
	Metadata Metadata `yaml:"metadata"`
}

// Features holds runtime feature toggles.
type Features struct {
	// MockGeneration switches the generation backend to canned payloads.
	// Takes effect on restart; the watcher only reports the change.
	MockGeneration bool `yaml:"mockGeneration"`
}

// Limits holds runtime canvas and generation limits.
type Limits struct {
	MaxNodesPerCanvas        int `yaml:"maxNodesPerCanvas"`
	MaxEdgesPerCanvas        int `yaml:"maxEdgesPerCanvas"`
	MaxConcurrentGenerations int `yaml:"maxConcurrentGenerations"`
}

// Metadata identifies a tuning file revision.
type Metadata struct {
	Version   string    `yaml:"version"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

// Watcher watches the tuning file for changes and notifies listeners with
// the reloaded values. Invalid updates are rejected and the previous tuning
// stays in effect.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	current  *Tuning
	mu       sync.RWMutex
	onChange []func(*Tuning)
	logger   *zap.Logger
	stopCh   chan struct{}
}

// NewWatcher creates a watcher over the given tuning file. The file must
// exist and parse; a deployment without one should not construct a watcher.
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	tuning, err := loadTuningFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial tuning: %w", err)
	}
	if err := validateTuning(tuning); err != nil {
		return nil, fmt.Errorf("invalid tuning file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch tuning file: %w", err)
	}

	// Watch the directory too so atomic saves (write temp, rename over)
	// still produce events for our file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		logger.Warn("failed to watch tuning directory", zap.Error(err))
	}

	return &Watcher{
		path:     path,
		watcher:  watcher,
		current:  tuning,
		onChange: make([]func(*Tuning), 0),
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching for tuning changes.
func (w *Watcher) Start() {
	go w.watchLoop()
	w.logger.Info("tuning watcher started", zap.String("path", w.path))
}

// Stop stops watching for tuning changes.
func (w *Watcher) Stop() {
	close(w.stopCh)
	w.watcher.Close()
	w.logger.Info("tuning watcher stopped")
}

// OnChange registers a callback invoked after each successful reload.
func (w *Watcher) OnChange(handler func(*Tuning)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = append(w.onChange, handler)
}

// GetCurrent returns the current tuning.
func (w *Watcher) GetCurrent() *Tuning {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// GetLimits returns the current limits.
func (w *Watcher) GetLimits() Limits {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Limits
}

// GetFeatures returns the current feature toggles.
func (w *Watcher) GetFeatures() Features {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current.Features
}

// watchLoop debounces file events so editors that write in several bursts
// trigger a single reload.
func (w *Watcher) watchLoop() {
	var debounceTimer *time.Timer
	debounceDuration := 100 * time.Millisecond

	for {
		select {
		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, w.handleChange)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("tuning watcher error", zap.Error(err))
		}
	}
}

// handleChange reloads the tuning file and notifies listeners.
func (w *Watcher) handleChange() {
	newTuning, err := loadTuningFile(w.path)
	if err != nil {
		w.logger.Error("failed to reload tuning", zap.Error(err))
		return
	}
	if err := validateTuning(newTuning); err != nil {
		w.logger.Error("invalid tuning, keeping current", zap.Error(err))
		return
	}

	w.mu.Lock()
	oldTuning := w.current
	w.current = newTuning
	handlers := append(([]func(*Tuning))(nil), w.onChange...)
	w.mu.Unlock()

	w.logChanges(oldTuning, newTuning)

	for _, handler := range handlers {
		go handler(newTuning)
	}

	w.logger.Info("tuning reloaded",
		zap.String("path", w.path),
		zap.String("version", newTuning.Metadata.Version),
	)
}

// logChanges reports the differences between two tuning revisions.
func (w *Watcher) logChanges(oldTuning, newTuning *Tuning) {
	var changes []string

	if oldTuning.Features.MockGeneration != newTuning.Features.MockGeneration {
		changes = append(changes, fmt.Sprintf("MockGeneration: %v -> %v (takes effect on restart)",
			oldTuning.Features.MockGeneration, newTuning.Features.MockGeneration))
	}
	if oldTuning.Limits.MaxNodesPerCanvas != newTuning.Limits.MaxNodesPerCanvas {
		changes = append(changes, fmt.Sprintf("MaxNodesPerCanvas: %d -> %d",
			oldTuning.Limits.MaxNodesPerCanvas, newTuning.Limits.MaxNodesPerCanvas))
	}
	if oldTuning.Limits.MaxEdgesPerCanvas != newTuning.Limits.MaxEdgesPerCanvas {
		changes = append(changes, fmt.Sprintf("MaxEdgesPerCanvas: %d -> %d",
			oldTuning.Limits.MaxEdgesPerCanvas, newTuning.Limits.MaxEdgesPerCanvas))
	}
	if oldTuning.Limits.MaxConcurrentGenerations != newTuning.Limits.MaxConcurrentGenerations {
		changes = append(changes, fmt.Sprintf("MaxConcurrentGenerations: %d -> %d",
			oldTuning.Limits.MaxConcurrentGenerations, newTuning.Limits.MaxConcurrentGenerations))
	}

	if len(changes) > 0 {
		w.logger.Info("tuning changes detected", zap.Strings("changes", changes))
	}
}

// validateTuning rejects values that would wedge the engine at runtime.
func validateTuning(tuning *Tuning) error {
	if tuning.Limits.MaxNodesPerCanvas < 0 {
		return fmt.Errorf("maxNodesPerCanvas cannot be negative")
	}
	if tuning.Limits.MaxEdgesPerCanvas < 0 {
		return fmt.Errorf("maxEdgesPerCanvas cannot be negative")
	}
	if tuning.Limits.MaxConcurrentGenerations < 0 {
		return fmt.Errorf("maxConcurrentGenerations cannot be negative")
	}
	return nil
}

// loadTuningFile loads tuning from a YAML file.
func loadTuningFile(path string) (*Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %w", err)
	}

	var tuning Tuning
	if err := yaml.Unmarshal(data, &tuning); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %w", err)
	}

	if tuning.Metadata.Version == "" {
		tuning.Metadata.Version = "1.0.0"
	}

	return &tuning, nil
}
