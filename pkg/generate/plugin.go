package generate

import (
	"context"
	"fmt"

	"github.com/figment3d/figment/pkg/plugin"
)

// GeneratorPlugin adapts a Generator to the plugin lifecycle, keyed by
// its kind. Builtin generators have no setup to do, so the hooks are
// no-ops; external generators can carry real state.
type GeneratorPlugin struct {
	Generator
}

func (p GeneratorPlugin) Name() string                  { return p.Kind() }
func (p GeneratorPlugin) Init(context.Context) error    { return nil }
func (p GeneratorPlugin) Destroy(context.Context) error { return nil }

// RegisterGenerators registers every builtin generator with a manager.
func RegisterGenerators(m *plugin.Manager) error {
	for _, kind := range Kinds() {
		g, err := New(kind)
		if err != nil {
			return err
		}
		if err := m.Register(GeneratorPlugin{g}); err != nil {
			return err
		}
	}
	return nil
}

// GeneratorFrom resolves a registered generator plugin back to its
// Generator interface.
func GeneratorFrom(m *plugin.Manager, kind string) (Generator, error) {
	p, err := m.Get(kind)
	if err != nil {
		return nil, err
	}
	g, ok := p.(GeneratorPlugin)
	if !ok {
		return nil, fmt.Errorf("plugin %q is not a generator: %w", kind, ErrUnknownKind)
	}
	return g.Generator, nil
}
