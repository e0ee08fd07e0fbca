package fleet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Fixtures
// =============================================================================

const validFleet = `
name: demo
ships:
  alpha:
    address: 10.0.0.1
  beta:
    address: 10.0.0.2
    docker_endpoint: tcp://10.0.0.2:4243
services:
  db:
    image: postgres:16
    env:
      POSTGRES_DB: demo
    instances:
      db-1:
        ship: alpha
        ports:
          postgres: 5432
        stop_timeout: 30s
  web:
    image: nginx:alpine
    requires: [db]
    instances:
      web-1:
        ship: alpha
        env:
          ROLE: primary
        ports:
          http: "8080:80"
      web-2:
        ship: beta
        image: nginx:latest
        ports:
          http: "8081:80"
          dns: "5353:53/udp"
`

// =============================================================================
// Parse Tests
// =============================================================================

func TestParse_EmptyInput(t *testing.T) {
	_, err := Parse([]byte("  \n\t"))
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("ships: [unclosed"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestParse_UnknownFieldRejected(t *testing.T) {
	_, err := Parse([]byte("name: x\nflotsam: true\n"))
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

// =============================================================================
// Link Tests
// =============================================================================

func TestLoad_ValidFleet(t *testing.T) {
	fl, err := Load([]byte(validFleet))
	require.NoError(t, err)

	assert.Equal(t, "demo", fl.Name)
	assert.Len(t, fl.Ships, 2)
	assert.Len(t, fl.Services, 2)
	assert.Len(t, fl.Containers, 3)

	// Default endpoint derived from the address; explicit one kept.
	assert.Equal(t, "tcp://10.0.0.1:2375", fl.Ships["alpha"].Endpoint)
	assert.Equal(t, "tcp://10.0.0.2:4243", fl.Ships["beta"].Endpoint)

	// Both dependency directions are linked.
	db, web := fl.Services["db"], fl.Services["web"]
	assert.Same(t, db, web.Requires["db"])
	assert.Same(t, web, db.NeededFor["web"])
	assert.Empty(t, db.Requires)

	// Instances inherit the service image unless they override it.
	assert.Equal(t, "nginx:alpine", fl.Containers["web-1"].Image)
	assert.Equal(t, "nginx:latest", fl.Containers["web-2"].Image)

	// Env merges service defaults with instance overrides in a fresh map.
	assert.Equal(t, map[string]string{"POSTGRES_DB": "demo"}, fl.Containers["db-1"].Env)
	assert.Equal(t, map[string]string{"ROLE": "primary"}, fl.Containers["web-1"].Env)

	assert.Equal(t, 30*time.Second, fl.Containers["db-1"].StopTimeout)
	assert.Zero(t, fl.Containers["web-1"].StopTimeout)

	assert.Same(t, fl.Ships["beta"], fl.Containers["web-2"].Ship)
}

func TestLoad_PortForms(t *testing.T) {
	fl, err := Load([]byte(validFleet))
	require.NoError(t, err)

	// Bare container port publishes on the same host port.
	pg := fl.Containers["db-1"].Ports["postgres"]
	assert.Equal(t, 5432, pg.ContainerPort)
	assert.Equal(t, 5432, pg.HostPort)
	assert.Equal(t, "tcp", pg.Protocol)

	http := fl.Containers["web-1"].Ports["http"]
	assert.Equal(t, 80, http.ContainerPort)
	assert.Equal(t, 8080, http.HostPort)

	dns := fl.Containers["web-2"].Ports["dns"]
	assert.Equal(t, 53, dns.ContainerPort)
	assert.Equal(t, 5353, dns.HostPort)
	assert.Equal(t, "udp", dns.Protocol)
}

func TestLoad_NoShips(t *testing.T) {
	_, err := Load([]byte("services:\n  web:\n    image: nginx\n"))
	assert.ErrorIs(t, err, ErrNoShips)
}

func TestLoad_NoServices(t *testing.T) {
	_, err := Load([]byte("ships:\n  alpha:\n    address: 10.0.0.1\n"))
	assert.ErrorIs(t, err, ErrNoServices)
}

func TestLoad_ShipWithoutAddress(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha: {}
services:
  web:
    image: nginx
`))
	require.Error(t, err)
	var fe *FleetError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "ships.alpha", fe.Field)
}

func TestLoad_UnknownShip(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    image: nginx
    instances:
      web-1:
        ship: gamma
`))
	assert.ErrorIs(t, err, ErrUnknownShip)
}

func TestLoad_UnknownRequiredService(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    image: nginx
    requires: [db]
`))
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestLoad_SelfDependency(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    image: nginx
    requires: [web]
`))
	assert.ErrorIs(t, err, ErrSelfDependency)
}

func TestLoad_DependencyCycle(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  a:
    image: x
    requires: [b]
  b:
    image: x
    requires: [c]
  c:
    image: x
    requires: [a]
`))
	require.ErrorIs(t, err, ErrDependencyCycle)
	assert.Contains(t, err.Error(), "cycle")
}

func TestLoad_DuplicateContainerName(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  db:
    image: postgres
    instances:
      node-1:
        ship: alpha
  web:
    image: nginx
    instances:
      node-1:
        ship: alpha
`))
	assert.ErrorIs(t, err, ErrDuplicateContainer)
}

func TestLoad_MissingImage(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    instances:
      web-1:
        ship: alpha
`))
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestLoad_InvalidStopTimeout(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    image: nginx
    instances:
      web-1:
        ship: alpha
        stop_timeout: soon
`))
	require.Error(t, err)
	var fe *FleetError
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe.Message, "stop_timeout")
}

// =============================================================================
// Port Spec Tests
// =============================================================================

func TestParsePortSpec(t *testing.T) {
	tests := []struct {
		in   string
		want PortSpec
	}{
		{"80", PortSpec{ContainerPort: 80, Protocol: "tcp"}},
		{"8080:80", PortSpec{HostPort: 8080, ContainerPort: 80, Protocol: "tcp"}},
		{"5353:53/udp", PortSpec{HostPort: 5353, ContainerPort: 53, Protocol: "udp"}},
		{"443/tcp", PortSpec{ContainerPort: 443, Protocol: "tcp"}},
	}
	for _, tt := range tests {
		got, err := ParsePortSpec(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParsePortSpec_Invalid(t *testing.T) {
	for _, in := range []string{"", "0", "70000", "http", "1:2:3", "80/icmp", "-1:80"} {
		_, err := ParsePortSpec(in)
		assert.ErrorIs(t, err, ErrInvalidPort, in)
	}
}

func TestPortSpec_RejectsOutOfRangeInteger(t *testing.T) {
	_, err := Load([]byte(`
ships:
  alpha:
    address: 10.0.0.1
services:
  web:
    image: nginx
    instances:
      web-1:
        ship: alpha
        ports:
          http: 99999
`))
	assert.ErrorIs(t, err, ErrInvalidPort)
}
