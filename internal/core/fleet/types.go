package fleet

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/flotilla/internal/core/domain"
)

// =============================================================================
// Fleet File Schema
// =============================================================================

// File is the raw fleet file, as decoded from YAML. Link turns it into
// the domain model.
type File struct {
	Name     string                `yaml:"name"`
	Ships    map[string]ShipDef    `yaml:"ships"`
	Services map[string]ServiceDef `yaml:"services"`
}

// ShipDef declares a Docker host.
type ShipDef struct {
	Address string `yaml:"address"`

	// DockerEndpoint overrides the daemon endpoint. Defaults to
	// tcp://<address>:2375. ssh://user@host endpoints get a tunneled
	// client.
	DockerEndpoint string `yaml:"docker_endpoint"`

	SSHUser     string `yaml:"ssh_user"`
	SSHIdentity string `yaml:"ssh_identity"`
}

// ServiceDef declares a service and its instances. Image and env act as
// defaults that instances inherit.
type ServiceDef struct {
	Image     string                 `yaml:"image"`
	Env       map[string]string      `yaml:"env"`
	Requires  []string               `yaml:"requires"`
	Instances map[string]InstanceDef `yaml:"instances"`
}

// InstanceDef declares one container of a service, placed on a ship.
type InstanceDef struct {
	Ship        string              `yaml:"ship"`
	Image       string              `yaml:"image"`
	Env         map[string]string   `yaml:"env"`
	Ports       map[string]PortSpec `yaml:"ports"`
	Command     []string            `yaml:"command"`
	StopTimeout string              `yaml:"stop_timeout"`
}

// =============================================================================
// Port Specification
// =============================================================================

// PortSpec is a named port declaration. Accepted forms:
//
//	http: 80            # container port only
//	http: "8080:80"     # host:container
//	dns: "5353:53/udp"  # host:container/protocol
type PortSpec struct {
	ContainerPort int
	HostPort      int
	Protocol      string
}

// UnmarshalYAML accepts both integer and string scalar forms.
func (p *PortSpec) UnmarshalYAML(value *yaml.Node) error {
	var asInt int
	if err := value.Decode(&asInt); err == nil {
		if asInt <= 0 || asInt > 65535 {
			return fmt.Errorf("%w: %d", ErrInvalidPort, asInt)
		}
		p.ContainerPort = asInt
		p.Protocol = "tcp"
		return nil
	}

	var asString string
	if err := value.Decode(&asString); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPort, value.Value)
	}
	parsed, err := ParsePortSpec(asString)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePortSpec parses the string form of a port specification.
func ParsePortSpec(s string) (PortSpec, error) {
	spec := PortSpec{Protocol: "tcp"}

	rest := s
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		proto := strings.ToLower(rest[i+1:])
		if proto != "tcp" && proto != "udp" {
			return spec, fmt.Errorf("%w: unknown protocol %q", ErrInvalidPort, proto)
		}
		spec.Protocol = proto
		rest = rest[:i]
	}

	parts := strings.Split(rest, ":")
	switch len(parts) {
	case 1:
		port, err := parsePortNumber(parts[0])
		if err != nil {
			return spec, err
		}
		spec.ContainerPort = port
	case 2:
		host, err := parsePortNumber(parts[0])
		if err != nil {
			return spec, err
		}
		container, err := parsePortNumber(parts[1])
		if err != nil {
			return spec, err
		}
		spec.HostPort = host
		spec.ContainerPort = container
	default:
		return spec, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return spec, nil
}

func parsePortNumber(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 || n > 65535 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return n, nil
}

// toDomain converts a PortSpec to the domain representation. A port with
// no explicit host port is published on the container port itself, so
// readiness probes have an address to dial.
func (p PortSpec) toDomain() domain.Port {
	host := p.HostPort
	if host == 0 {
		host = p.ContainerPort
	}
	return domain.Port{
		ContainerPort: p.ContainerPort,
		HostPort:      host,
		Protocol:      p.Protocol,
	}
}
