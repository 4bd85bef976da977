package topicmgr

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Manager is the registry of every topic the application publishes or
// subscribes to. Registering topics up front gives the CLI something to list
// and catches duplicate or malformed names at startup instead of at publish
// time.
type Manager struct {
	mu     sync.RWMutex
	topics map[string]Topic
}

// NewManager creates an empty topic manager.
func NewManager() *Manager {
	return &Manager{
		topics: make(map[string]Topic),
	}
}

var (
	defaultManager     *Manager
	defaultManagerOnce sync.Once
)

// Default returns the process-wide manager. Topics declared at package level
// register themselves here during init.
func Default() *Manager {
	defaultManagerOnce.Do(func() {
		defaultManager = NewManager()
	})
	return defaultManager
}

// Register validates and stores a topic. Duplicate names are rejected.
func (m *Manager) Register(t Topic) error {
	if err := validate(t); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.topics[t.Name()]; exists {
		return fmt.Errorf("topic %q already registered", t.Name())
	}
	m.topics[t.Name()] = t
	return nil
}

// MustRegister registers a topic and panics on failure. Intended for
// package-level topic declarations where a failure is a programming error.
func (m *Manager) MustRegister(t Topic) Topic {
	if err := m.Register(t); err != nil {
		panic(err)
	}
	return t
}

// Get returns a registered topic by name.
func (m *Manager) Get(name string) (Topic, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topics[name]
	return t, ok
}

// List returns all registered topics sorted by name.
func (m *Manager) List() []Topic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Topic, 0, len(m.topics))
	for _, t := range m.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// ListByModule returns the topics owned by one module, sorted by name.
func (m *Manager) ListByModule(module string) []Topic {
	out := make([]Topic, 0)
	for _, t := range m.List() {
		if t.Module() == module {
			out = append(out, t)
		}
	}
	return out
}

// ListByScope returns the topics with the given scope, sorted by name.
func (m *Manager) ListByScope(scope TopicScope) []Topic {
	out := make([]Topic, 0)
	for _, t := range m.List() {
		if t.Scope() == scope {
			out = append(out, t)
		}
	}
	return out
}

func validate(t Topic) error {
	name := t.Name()
	if name == "" {
		return fmt.Errorf("topic name cannot be empty")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("topic name %q cannot contain whitespace", name)
	}
	if t.Scope() == ScopeModule && t.Module() == "" {
		return fmt.Errorf("module topic %q must declare an owning module", name)
	}
	return nil
}
