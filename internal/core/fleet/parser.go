package fleet

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Defaults
// =============================================================================

// DefaultDockerPort is the daemon port assumed when a ship declares no
// explicit docker endpoint.
const DefaultDockerPort = 2375

// =============================================================================
// Parsing
// =============================================================================

// Parse decodes a fleet file. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &f, nil
}

// Load parses and links a fleet file in one step.
func Load(data []byte) (*domain.Fleet, error) {
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Link(f)
}

// =============================================================================
// Linking
// =============================================================================

// Link builds the domain model from a parsed fleet file: ships, services
// with both dependency directions (NeededFor is computed as the inverse
// of Requires), and container instances with inherited image/env.
//
// Dependency cycles are rejected here: a cycle would leave every worker
// in the play waiting forever.
func Link(f *File) (*domain.Fleet, error) {
	if len(f.Ships) == 0 {
		return nil, ErrNoShips
	}
	if len(f.Services) == 0 {
		return nil, ErrNoServices
	}

	fl := &domain.Fleet{
		Name:       f.Name,
		Ships:      make(map[string]*domain.Ship, len(f.Ships)),
		Services:   make(map[string]*domain.Service, len(f.Services)),
		Containers: make(map[string]*domain.Container),
	}

	for _, name := range sortedKeys(f.Ships) {
		def := f.Ships[name]
		if def.Address == "" {
			return nil, NewFleetError("ships."+name, "address is required", nil)
		}
		endpoint := def.DockerEndpoint
		if endpoint == "" {
			endpoint = fmt.Sprintf("tcp://%s:%d", def.Address, DefaultDockerPort)
		}
		fl.Ships[name] = &domain.Ship{
			Name:        name,
			Address:     def.Address,
			Endpoint:    endpoint,
			SSHUser:     def.SSHUser,
			SSHIdentity: def.SSHIdentity,
		}
	}

	// First pass: create services so requires can link in any order.
	for _, name := range sortedKeys(f.Services) {
		fl.Services[name] = &domain.Service{
			Name:      name,
			Requires:  make(map[string]*domain.Service),
			NeededFor: make(map[string]*domain.Service),
		}
	}

	// Second pass: dependency links and instances.
	for _, name := range sortedKeys(f.Services) {
		def := f.Services[name]
		svc := fl.Services[name]

		for _, req := range def.Requires {
			if req == name {
				return nil, NewFleetError("services."+name, "service cannot require itself", ErrSelfDependency)
			}
			dep, ok := fl.Services[req]
			if !ok {
				return nil, NewFleetError("services."+name,
					fmt.Sprintf("requires unknown service %q", req), ErrUnknownService)
			}
			dep.RequiredBy(svc)
		}

		for _, instName := range sortedKeys(def.Instances) {
			container, err := linkInstance(fl, name, instName, def, def.Instances[instName])
			if err != nil {
				return nil, err
			}
			svc.Containers = append(svc.Containers, container)
			fl.Containers[container.Name] = container
		}
	}

	if err := checkCycles(fl.Services); err != nil {
		return nil, err
	}
	return fl, nil
}

// linkInstance builds one container from its instance definition,
// applying service-level image/env defaults.
func linkInstance(fl *domain.Fleet, svcName, instName string, svcDef ServiceDef, def InstanceDef) (*domain.Container, error) {
	field := fmt.Sprintf("services.%s.instances.%s", svcName, instName)

	if _, exists := fl.Containers[instName]; exists {
		return nil, NewFleetError(field, "container name already in use", ErrDuplicateContainer)
	}

	ship, ok := fl.Ships[def.Ship]
	if !ok {
		return nil, NewFleetError(field, fmt.Sprintf("unknown ship %q", def.Ship), ErrUnknownShip)
	}

	image := def.Image
	if image == "" {
		image = svcDef.Image
	}
	if image == "" {
		return nil, NewFleetError(field, "no image declared on instance or service", ErrNoImage)
	}

	// Fresh env map per instance: service defaults, instance overrides.
	env := make(map[string]string, len(svcDef.Env)+len(def.Env))
	for k, v := range svcDef.Env {
		env[k] = v
	}
	for k, v := range def.Env {
		env[k] = v
	}

	ports := make(map[string]domain.Port, len(def.Ports))
	for portName, spec := range def.Ports {
		ports[portName] = spec.toDomain()
	}

	var stopTimeout time.Duration
	if def.StopTimeout != "" {
		d, err := time.ParseDuration(def.StopTimeout)
		if err != nil {
			return nil, NewFleetError(field, fmt.Sprintf("invalid stop_timeout %q", def.StopTimeout), err)
		}
		stopTimeout = d
	}

	return &domain.Container{
		Name:        instName,
		Service:     fl.Services[svcName],
		Ship:        ship,
		Image:       image,
		Env:         env,
		Ports:       ports,
		Command:     def.Command,
		StopTimeout: stopTimeout,
	}, nil
}

// =============================================================================
// Cycle Detection
// =============================================================================

// checkCycles rejects dependency cycles in the service graph with a DFS
// over Requires.
func checkCycles(services map[string]*domain.Service) error {
	const (
		unvisited = iota
		visiting
		finished
	)
	state := make(map[string]int, len(services))

	var visit func(svc *domain.Service, path []string) error
	visit = func(svc *domain.Service, path []string) error {
		switch state[svc.Name] {
		case visiting:
			return NewFleetError("services",
				fmt.Sprintf("cycle: %s", strings.Join(append(path, svc.Name), " -> ")),
				ErrDependencyCycle)
		case finished:
			return nil
		}
		state[svc.Name] = visiting
		for _, depName := range sortedKeys(svc.Requires) {
			if err := visit(svc.Requires[depName], append(path, svc.Name)); err != nil {
				return err
			}
		}
		state[svc.Name] = finished
		return nil
	}

	for _, name := range sortedKeys(services) {
		if err := visit(services[name], nil); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
