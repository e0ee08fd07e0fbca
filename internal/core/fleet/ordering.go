package fleet

import (
	"sort"

	"github.com/artpar/flotilla/internal/core/domain"
	"github.com/artpar/flotilla/internal/core/orchestration"
)

// =============================================================================
// Container Ordering
// =============================================================================

// OrderContainers orders a play's containers for registration and
// display using Kahn's algorithm over the owning services, restricted to
// the services actually present in the selection.
//
// Forward puts dependencies first (bring-up order); Backward reverses
// the result so dependents come first (tear-down order). The engine
// enforces correctness either way; ordering only makes the board read
// top to bottom.
//
// If a cycle survives to this point (it should be caught when the fleet
// is linked), remaining containers are appended as a fallback.
func OrderContainers(containers []*domain.Container, dir orchestration.Direction) []*domain.Container {
	if len(containers) == 0 {
		return containers
	}

	byService := make(map[string][]*domain.Container)
	services := make(map[string]*domain.Service)
	for _, c := range containers {
		byService[c.Service.Name] = append(byService[c.Service.Name], c)
		services[c.Service.Name] = c.Service
	}
	for _, members := range byService {
		sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	}

	// In-degree counts only dependencies on services present in the
	// selection.
	inDegree := make(map[string]int, len(services))
	dependents := make(map[string][]string)
	for name, svc := range services {
		degree := 0
		for depName := range svc.Requires {
			if _, present := services[depName]; present {
				degree++
				dependents[depName] = append(dependents[depName], name)
			}
		}
		inDegree[name] = degree
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []*domain.Container
	placed := make(map[string]bool, len(services))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		placed[name] = true
		result = append(result, byService[name]...)

		next := dependents[name]
		sort.Strings(next)
		for _, dep := range next {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	// Cycle fallback: append whatever was not placed.
	if len(placed) < len(services) {
		for _, name := range sortedKeys(services) {
			if !placed[name] {
				result = append(result, byService[name]...)
			}
		}
	}

	if dir == orchestration.Backward {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}
