package domain

import (
	"fmt"
	"sort"
)

// =============================================================================
// Fleet
// =============================================================================

// Fleet is the fully linked deployment model: ships, services and the
// containers placed on them.
type Fleet struct {
	Name       string
	Ships      map[string]*Ship
	Services   map[string]*Service
	Containers map[string]*Container
}

// AllContainers returns every container in the fleet, sorted by name
// for stable iteration.
func (f *Fleet) AllContainers() []*Container {
	out := make([]*Container, 0, len(f.Containers))
	for _, c := range f.Containers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Select resolves a list of service or container names to the set of
// containers a play operates on. An empty list selects the whole fleet.
// Duplicate selections collapse to a single container.
func (f *Fleet) Select(names []string) ([]*Container, error) {
	if len(names) == 0 {
		return f.AllContainers(), nil
	}

	seen := make(map[string]bool)
	var out []*Container

	add := func(c *Container) {
		if !seen[c.Name] {
			seen[c.Name] = true
			out = append(out, c)
		}
	}

	for _, name := range names {
		if svc, ok := f.Services[name]; ok {
			members := make([]*Container, len(svc.Containers))
			copy(members, svc.Containers)
			sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
			for _, c := range members {
				add(c)
			}
			continue
		}
		if c, ok := f.Containers[name]; ok {
			add(c)
			continue
		}
		return nil, fmt.Errorf("no service or container named %q", name)
	}

	return out, nil
}
