package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFleet() *Fleet {
	db := &Service{Name: "db"}
	web := &Service{Name: "web"}
	db.RequiredBy(web)

	ship := &Ship{Name: "alpha", Address: "10.0.0.1"}
	fl := &Fleet{
		Name:       "demo",
		Ships:      map[string]*Ship{"alpha": ship},
		Services:   map[string]*Service{"db": db, "web": web},
		Containers: map[string]*Container{},
	}
	for _, c := range []*Container{
		{Name: "db-1", Service: db, Ship: ship},
		{Name: "web-2", Service: web, Ship: ship},
		{Name: "web-1", Service: web, Ship: ship},
	} {
		c.Service.Containers = append(c.Service.Containers, c)
		fl.Containers[c.Name] = c
	}
	return fl
}

func TestFleet_AllContainersSorted(t *testing.T) {
	fl := testFleet()
	var names []string
	for _, c := range fl.AllContainers() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"db-1", "web-1", "web-2"}, names)
}

func TestFleet_SelectEmptySelectsAll(t *testing.T) {
	fl := testFleet()
	out, err := fl.Select(nil)
	require.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestFleet_SelectByServiceName(t *testing.T) {
	fl := testFleet()
	out, err := fl.Select([]string{"web"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "web-1", out[0].Name)
	assert.Equal(t, "web-2", out[1].Name)
}

func TestFleet_SelectByContainerName(t *testing.T) {
	fl := testFleet()
	out, err := fl.Select([]string{"db-1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "db-1", out[0].Name)
}

func TestFleet_SelectDeduplicates(t *testing.T) {
	fl := testFleet()
	out, err := fl.Select([]string{"web", "web-1"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestFleet_SelectUnknownName(t *testing.T) {
	fl := testFleet()
	_, err := fl.Select([]string{"cache"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"cache"`)
}

func TestService_RequiredByLinksBothSides(t *testing.T) {
	db := &Service{Name: "db"}
	web := &Service{Name: "web"}
	db.RequiredBy(web)

	assert.Same(t, db, web.Requires["db"])
	assert.Same(t, web, db.NeededFor["web"])
}
