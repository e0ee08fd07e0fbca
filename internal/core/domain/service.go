package domain

// =============================================================================
// Service
// =============================================================================

// Service is a logical group of containers sharing dependency relations
// with other services.
//
// Requires and NeededFor are logical inverses across the whole fleet:
// if X requires Y, then Y is needed for X. Within a single play's
// container subset the two views are not necessarily symmetric.
type Service struct {
	// Name is the service's identifier within the fleet.
	Name string

	// Containers are the member containers (instances) of this service.
	Containers []*Container

	// Requires are the services this service depends on.
	Requires map[string]*Service

	// NeededFor are the services that depend on this service.
	// Computed as the inverse of Requires when the fleet is linked.
	NeededFor map[string]*Service
}

// RequiredBy records that other depends on s. Maintains both sides of
// the relation.
func (s *Service) RequiredBy(other *Service) {
	if other.Requires == nil {
		other.Requires = make(map[string]*Service)
	}
	if s.NeededFor == nil {
		s.NeededFor = make(map[string]*Service)
	}
	other.Requires[s.Name] = s
	s.NeededFor[other.Name] = other
}
