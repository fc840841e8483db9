package platforms

import (
	"fmt"

	"github.com/orderhub/backend/internal/domain/integration"
)

// Registry is the concrete integration.ClientRegistry, holding one
// client per configured platform.
type Registry struct {
	clients map[integration.PlatformCode]integration.PlatformClient
	order   []integration.PlatformCode
}

// NewRegistry creates a registry over the given clients. Registration
// order is preserved for List.
func NewRegistry(clients ...integration.PlatformClient) *Registry {
	r := &Registry{
		clients: make(map[integration.PlatformCode]integration.PlatformClient, len(clients)),
	}
	for _, client := range clients {
		code := client.PlatformCode()
		if _, exists := r.clients[code]; !exists {
			r.order = append(r.order, code)
		}
		r.clients[code] = client
	}
	return r
}

// Get returns the client for the specified platform code
func (r *Registry) Get(code integration.PlatformCode) (integration.PlatformClient, error) {
	client, ok := r.clients[code]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrPlatformNotSupported, code)
	}
	return client, nil
}

// List returns all registered clients in registration order
func (r *Registry) List() []integration.PlatformClient {
	out := make([]integration.PlatformClient, 0, len(r.order))
	for _, code := range r.order {
		out = append(out, r.clients[code])
	}
	return out
}

// Ensure Registry implements the registry port
var _ integration.ClientRegistry = (*Registry)(nil)
