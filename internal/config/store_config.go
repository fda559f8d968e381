package config

// StoreConfig locates the SPARQL endpoint and the graphs this service reads
// and writes. Graphs are configurable so the same binary serves deployments
// with and without graph-per-concern separation.
type StoreConfig interface {
	GetSparqlEndpoint() string
	GetApplicationGraph() string
	GetSessionsGraph() string
	GetUsersGraph() string
	GetOrganizationsGraph() string
	GetLogsGraph() string
}

type Store struct{}

var _ StoreConfig = Store{}

func (Store) GetSparqlEndpoint() string {
	return GetEnv("MU_SPARQL_ENDPOINT", "http://database:8890/sparql")
}

func (Store) GetApplicationGraph() string {
	return GetEnv("MU_APPLICATION_GRAPH", "http://mu.semte.ch/application")
}

// The per-concern graphs default to the application graph, so a deployment
// without graph separation configures nothing beyond MU_APPLICATION_GRAPH.
func (s Store) GetSessionsGraph() string {
	return GetEnv("SESSIONS_GRAPH", s.GetApplicationGraph())
}

func (s Store) GetUsersGraph() string {
	return GetEnv("USERS_GRAPH", s.GetApplicationGraph())
}

func (s Store) GetOrganizationsGraph() string {
	return GetEnv("ORGANIZATIONS_GRAPH", s.GetApplicationGraph())
}

func (s Store) GetLogsGraph() string {
	return GetEnv("LOGS_GRAPH", s.GetApplicationGraph())
}
