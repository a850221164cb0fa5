// Package plugin provides a keyed registry with lifecycle management
// for figment extensions such as generators and exporters.
package plugin

import (
	"context"
	"errors"
	"fmt"
)

// Registry errors.
var (
	ErrDuplicateName = errors.New("plugin already registered")
	ErrUnknownPlugin = errors.New("plugin not registered")
	ErrBadState      = errors.New("invalid plugin state for operation")
)

// State tracks a plugin through its lifecycle.
type State int

const (
	StateRegistered State = iota
	StateInitialized
	StateFailed
	StateDestroyed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateInitialized:
		return "initialized"
	case StateFailed:
		return "failed"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Plugin is an extension with a unique name and lifecycle hooks. Init
// and Destroy receive a context so slow hooks can be cancelled.
type Plugin interface {
	Name() string
	Init(ctx context.Context) error
	Destroy(ctx context.Context) error
}

// Manager is a keyed plugin registry. Plugins initialize sequentially
// in registration order and destroy in reverse order. Manager is not
// safe for concurrent use; callers drive it from one goroutine.
type Manager struct {
	plugins []Plugin
	states  map[string]State
	byName  map[string]Plugin
}

// NewManager creates an empty plugin manager.
func NewManager() *Manager {
	return &Manager{
		states: make(map[string]State),
		byName: make(map[string]Plugin),
	}
}

// Register adds a plugin in the registered state.
func (m *Manager) Register(p Plugin) error {
	name := p.Name()
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateName)
	}
	m.plugins = append(m.plugins, p)
	m.byName[name] = p
	m.states[name] = StateRegistered
	return nil
}

// Get returns the named plugin.
func (m *Manager) Get(name string) (Plugin, error) {
	p, ok := m.byName[name]
	if !ok {
		return nil, fmt.Errorf("get %q: %w", name, ErrUnknownPlugin)
	}
	return p, nil
}

// StateOf returns the lifecycle state of the named plugin.
func (m *Manager) StateOf(name string) (State, error) {
	s, ok := m.states[name]
	if !ok {
		return 0, fmt.Errorf("state of %q: %w", name, ErrUnknownPlugin)
	}
	return s, nil
}

// Names returns plugin names in registration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.plugins))
	for i, p := range m.plugins {
		names[i] = p.Name()
	}
	return names
}

// Init initializes one plugin. Only registered plugins may initialize;
// a failed Init moves the plugin to the failed state.
func (m *Manager) Init(ctx context.Context, name string) error {
	p, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("init %q: %w", name, ErrUnknownPlugin)
	}
	if s := m.states[name]; s != StateRegistered {
		return fmt.Errorf("init %q from %s: %w", name, s, ErrBadState)
	}
	if err := p.Init(ctx); err != nil {
		m.states[name] = StateFailed
		return fmt.Errorf("init %q: %w", name, err)
	}
	m.states[name] = StateInitialized
	return nil
}

// InitAll initializes every registered plugin in registration order,
// stopping at the first failure.
func (m *Manager) InitAll(ctx context.Context) error {
	for _, p := range m.plugins {
		if m.states[p.Name()] != StateRegistered {
			continue
		}
		if err := m.Init(ctx, p.Name()); err != nil {
			return err
		}
	}
	return nil
}

// Destroy tears down one initialized plugin.
func (m *Manager) Destroy(ctx context.Context, name string) error {
	p, ok := m.byName[name]
	if !ok {
		return fmt.Errorf("destroy %q: %w", name, ErrUnknownPlugin)
	}
	if s := m.states[name]; s != StateInitialized {
		return fmt.Errorf("destroy %q from %s: %w", name, s, ErrBadState)
	}
	if err := p.Destroy(ctx); err != nil {
		m.states[name] = StateFailed
		return fmt.Errorf("destroy %q: %w", name, err)
	}
	m.states[name] = StateDestroyed
	return nil
}

// DestroyAll tears down initialized plugins in reverse registration
// order. All are attempted; the first error is returned.
func (m *Manager) DestroyAll(ctx context.Context) error {
	var firstErr error
	for i := len(m.plugins) - 1; i >= 0; i-- {
		name := m.plugins[i].Name()
		if m.states[name] != StateInitialized {
			continue
		}
		if err := m.Destroy(ctx, name); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
