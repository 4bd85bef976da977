package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
)

const ruleExtension = ".tengo"

// Registry holds the rule set: embedded defaults plus external overrides
// loaded from a rules directory. External files win over embedded rules of
// the same name, and a watcher reloads them on change so content tuning does
// not need a rebuild.
type Registry struct {
	mu       sync.RWMutex
	embedded map[string]*Rule
	external map[string]*Rule

	fs       afero.Fs
	rulesDir string

	watcher       *fsnotify.Watcher
	watcherActive bool
}

// NewRegistry creates a registry reading external rules from rulesDir on fs.
// An empty rulesDir disables external overrides entirely.
func NewRegistry(fs afero.Fs, rulesDir string) *Registry {
	return &Registry{
		embedded: make(map[string]*Rule),
		external: make(map[string]*Rule),
		fs:       fs,
		rulesDir: rulesDir,
	}
}

// RegisterEmbedded adds a compiled-in rule. Called during module boot before
// LoadRules.
func (r *Registry) RegisterEmbedded(name, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embedded[name] = &Rule{
		Name:    name,
		Content: content,
		Source:  SourceEmbedded,
	}
}

// LoadRules scans the rules directory for overrides. Missing directory is
// fine: embedded rules still serve.
func (r *Registry) LoadRules() error {
	if r.rulesDir == "" {
		return nil
	}

	exists, err := afero.DirExists(r.fs, r.rulesDir)
	if err != nil {
		return fmt.Errorf("failed to check rules directory: %w", err)
	}
	if !exists {
		slog.Debug("rules directory does not exist, using embedded rules only", "path", r.rulesDir)
		return nil
	}

	entries, err := afero.ReadDir(r.fs, r.rulesDir)
	if err != nil {
		return fmt.Errorf("failed to read rules directory: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ruleExtension) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ruleExtension)
		rule, err := r.readExternalLocked(name)
		if err != nil {
			slog.Error("failed to load external rule", "rule", name, "error", err)
			continue
		}
		r.external[name] = rule
	}

	slog.Info("loaded rules", "embedded", len(r.embedded), "external", len(r.external))
	return nil
}

// Get returns the rule by name, preferring an external override.
func (r *Registry) Get(name string) (*Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rule, ok := r.external[name]; ok {
		return rule, nil
	}
	if rule, ok := r.embedded[name]; ok {
		return rule, nil
	}
	return nil, NewRuleError(ErrorTypeNotFound, name, fmt.Sprintf("rule not found: %s", name), nil)
}

// List returns the names of all known rules.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.embedded)+len(r.external))
	for name := range r.embedded {
		seen[name] = struct{}{}
	}
	for name := range r.external {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	return names
}

// Reload re-reads one external rule from disk. If the file is gone, the
// override is dropped and the embedded version serves again.
func (r *Registry) Reload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rule, err := r.readExternalLocked(name)
	if err != nil {
		delete(r.external, name)
		slog.Debug("external rule unavailable, reverting to embedded", "rule", name, "error", err)
		return nil
	}
	r.external[name] = rule
	return nil
}

func (r *Registry) readExternalLocked(name string) (*Rule, error) {
	path := filepath.Join(r.rulesDir, name+ruleExtension)
	content, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, err
	}

	info, err := r.fs.Stat(path)
	modified := time.Now()
	if err == nil {
		modified = info.ModTime()
	}

	return &Rule{
		Name:         name,
		Content:      string(content),
		Source:       SourceExternal,
		LastModified: modified,
	}, nil
}

// StartWatcher begins monitoring the rules directory for changes. It is a
// no-op when the directory does not exist or the registry has no directory
// configured. The watcher stops when ctx is cancelled.
func (r *Registry) StartWatcher(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.watcherActive {
		return nil
	}
	if r.rulesDir == "" {
		return nil
	}

	exists, err := afero.DirExists(r.fs, r.rulesDir)
	if err != nil || !exists {
		slog.Debug("rules directory does not exist, skipping watcher", "path", r.rulesDir)
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create rules watcher: %w", err)
	}
	if err := watcher.Add(r.rulesDir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch rules directory: %w", err)
	}

	r.watcher = watcher
	r.watcherActive = true
	go r.watchFiles(ctx)

	slog.Debug("started rules watcher", "directory", r.rulesDir)
	return nil
}

func (r *Registry) watchFiles(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		if r.watcher != nil {
			r.watcher.Close()
			r.watcher = nil
		}
		r.watcherActive = false
		r.mu.Unlock()
		slog.Info("rules watcher stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			r.handleFileEvent(event)

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("rules watcher error", "error", err)
		}
	}
}

func (r *Registry) handleFileEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ruleExtension) {
		return
	}
	name := strings.TrimSuffix(filepath.Base(event.Name), ruleExtension)

	switch {
	case event.Op&fsnotify.Write == fsnotify.Write,
		event.Op&fsnotify.Create == fsnotify.Create:
		slog.Info("rule file changed, reloading", "rule", name, "path", event.Name)
		if err := r.Reload(name); err != nil {
			slog.Error("failed to reload rule", "rule", name, "error", err)
		}

	case event.Op&fsnotify.Remove == fsnotify.Remove,
		event.Op&fsnotify.Rename == fsnotify.Rename:
		slog.Info("rule file removed, reverting to embedded", "rule", name)
		r.mu.Lock()
		delete(r.external, name)
		r.mu.Unlock()
	}
}
