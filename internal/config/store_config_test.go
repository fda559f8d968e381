package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lblod/acmidm-login-service/internal/config"
)

func TestGraphsFallBackToApplicationGraph(t *testing.T) {
	t.Setenv("MU_APPLICATION_GRAPH", "http://mu.semte.ch/graphs/app")
	c := config.New()

	assert.Equal(t, "http://mu.semte.ch/graphs/app", c.GetSessionsGraph())
	assert.Equal(t, "http://mu.semte.ch/graphs/app", c.GetUsersGraph())
	assert.Equal(t, "http://mu.semte.ch/graphs/app", c.GetOrganizationsGraph())
	assert.Equal(t, "http://mu.semte.ch/graphs/app", c.GetLogsGraph())
}

func TestGraphOverridesTakePrecedence(t *testing.T) {
	t.Setenv("MU_APPLICATION_GRAPH", "http://mu.semte.ch/graphs/app")
	t.Setenv("SESSIONS_GRAPH", "http://mu.semte.ch/graphs/sessions")
	c := config.New()

	assert.Equal(t, "http://mu.semte.ch/graphs/sessions", c.GetSessionsGraph())
	assert.Equal(t, "http://mu.semte.ch/graphs/app", c.GetUsersGraph())
}
