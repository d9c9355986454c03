package identity

import "fmt"

// Registry holds the configured identity clients and allows lookup by
// name. It performs no auth logic itself.
type Registry struct {
	clients map[string]Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client under the given name. Names must be unique;
// a later registration replaces an earlier one.
func (r *Registry) Register(name string, c Client) {
	r.clients[name] = c
}

// Get returns the client by name or an error if not registered.
func (r *Registry) Get(name string) (Client, error) {
	c, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("unknown identity provider: %s", name)
	}
	return c, nil
}
