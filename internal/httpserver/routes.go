package httpserver

import (
	"errors"
	"fmt"
)

// productSearchRoute names the storefront search view; handlers resolve it
// instead of hardcoding the path.
const productSearchRoute = "product_search"

// ErrRouteNotFound indicates a reverse lookup for an unregistered route name.
var ErrRouteNotFound = errors.New("route not registered")

// routeTable maps route names to their canonical, parameter-free paths.
type routeTable struct {
	paths map[string]string
}

func newRouteTable() *routeTable {
	return &routeTable{paths: map[string]string{}}
}

func (t *routeTable) register(name, path string) {
	t.paths[name] = path
}

// Reverse resolves a route name to its canonical path.
func (t *routeTable) Reverse(name string) (string, error) {
	path, ok := t.paths[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return path, nil
}
