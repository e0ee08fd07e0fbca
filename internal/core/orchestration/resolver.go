// Package orchestration implements the concurrent play engine: the
// dependency resolver and the scheduler that runs one action per container,
// blocking each action until its dependencies are done and aborting the
// whole batch on the first failure.
package orchestration

import "github.com/artpar/flotilla/internal/core/domain"

// =============================================================================
// Direction
// =============================================================================

// Direction selects which service relation dependency edges follow.
type Direction int

const (
	// Forward follows Requires: a container waits for the containers of
	// the services its service depends on. Used for bring-up.
	Forward Direction = iota

	// Backward follows NeededFor: a container waits for the containers
	// of the services that depend on its service. Used for tear-down.
	Backward
)

// =============================================================================
// Container Sets
// =============================================================================

// Set is a set of container names.
type Set map[string]struct{}

// Has reports whether name is in the set.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// =============================================================================
// Dependency Resolution
// =============================================================================

// Resolve computes, for every container in the play, the set of other
// in-play containers it must wait for before its action may run.
//
// The walk is a fixpoint transitive closure over the chosen service
// relation: dependencies of dependencies are included, but only containers
// that are part of the play. A container never depends on itself, and
// never on a container outside the play, even when the service graph
// reaches further.
func Resolve(containers []*domain.Container, dir Direction) map[string]Set {
	inPlay := make(Set, len(containers))
	for _, c := range containers {
		inPlay[c.Name] = struct{}{}
	}

	deps := make(map[string]Set, len(containers))
	for _, c := range containers {
		deps[c.Name] = gather(c, inPlay, dir)
	}
	return deps
}

// NoDependencies returns an empty dependency set for every container,
// forcing full concurrency. Used by the fast status play.
func NoDependencies(containers []*domain.Container) map[string]Set {
	deps := make(map[string]Set, len(containers))
	for _, c := range containers {
		deps[c.Name] = Set{}
	}
	return deps
}

// gather walks the service graph from c's service to a fixpoint,
// collecting every in-play container reachable through the chosen
// relation.
func gather(c *domain.Container, inPlay Set, dir Direction) Set {
	result := Set{}
	visited := Set{c.Name: {}}
	queue := []*domain.Container{c}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		rel := cur.Service.Requires
		if dir == Backward {
			rel = cur.Service.NeededFor
		}
		for _, svc := range rel {
			for _, member := range svc.Containers {
				if !inPlay.Has(member.Name) || visited.Has(member.Name) {
					continue
				}
				visited[member.Name] = struct{}{}
				result[member.Name] = struct{}{}
				queue = append(queue, member)
			}
		}
	}

	return result
}
