package llms

import (
	"fmt"

	"github.com/ontoplan/ontoplan/pkg/registry"
)

// ProviderRegistry holds named providers so deployments can route different
// oracles to different endpoints.
type ProviderRegistry struct {
	*registry.BaseRegistry[Provider]
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		BaseRegistry: registry.NewBaseRegistry[Provider](),
	}
}

func (r *ProviderRegistry) RegisterProvider(name string, provider Provider) error {
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}
	return r.Register(name, provider)
}

func (r *ProviderRegistry) Provider(name string) (Provider, error) {
	provider, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("provider %q not found", name)
	}
	return provider, nil
}
