package sparqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lblod/acmidm-login-service/identity"
	"github.com/lblod/acmidm-login-service/internal/config"
	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/sessions"
	"github.com/lblod/acmidm-login-service/sparql"
)

const prefixes = `PREFIX mu: <http://mu.semte.ch/vocabularies/core/>
PREFIX ext: <http://mu.semte.ch/vocabularies/ext/>
PREFIX session: <http://mu.semte.ch/vocabularies/session/>
PREFIX dcterms: <http://purl.org/dc/terms/>
PREFIX foaf: <http://xmlns.com/foaf/0.1/>
PREFIX besluit: <http://data.vlaanderen.be/ns/besluit#>
`

// Repo implements sessions.Repo against the sessions graph of a SPARQL store.
// Graph and claim names are captured once at construction; request handling
// never reads the environment.
type Repo struct {
	store              sparql.Executor
	sessionsGraph      string
	usersGraph         string
	organizationsGraph string
	groupIDClaim       string
	log                zerolog.Logger
}

var _ sessions.Repo = (*Repo)(nil)

func New(store sparql.Executor, cfg config.Config, log zerolog.Logger) *Repo {
	return &Repo{
		store:              store,
		sessionsGraph:      cfg.GetSessionsGraph(),
		usersGraph:         cfg.GetUsersGraph(),
		organizationsGraph: cfg.GetOrganizationsGraph(),
		groupIDClaim:       cfg.GetGroupIDClaim(),
		log:                log,
	}
}

func (r *Repo) ResolveGroup(ctx context.Context, claims openid.Claims) (*sessions.Group, error) {
	code := claims.String(r.groupIDClaim)
	if code == "" {
		return nil, errs.ErrNotFound
	}

	query := prefixes + fmt.Sprintf(`
SELECT ?group ?groupId
FROM %s
WHERE {
  ?group a besluit:Bestuurseenheid ;
         mu:uuid ?groupId ;
         dcterms:identifier %s .
}`, sparql.URI(r.organizationsGraph), sparql.Literal(code))

	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, errs.Wrapf(err, "looking up bestuurseenheid")
	}
	if results.Empty() {
		return nil, errs.ErrNotFound
	}
	if len(results.Results.Bindings) > 1 {
		r.log.Warn().Str("identifier", code).Msg("multiple bestuurseenheden for one identifier, taking the first")
	}

	row := results.First()
	return &sessions.Group{URI: row.Value("group"), ID: row.Value("groupId")}, nil
}

func (r *Repo) Purge(ctx context.Context, sessionURI string) error {
	update := prefixes + fmt.Sprintf(`
WITH %s
DELETE WHERE {
  %s ?p ?o .
}`, sparql.URI(r.sessionsGraph), sparql.URI(sessionURI))

	if err := r.store.Update(ctx, update); err != nil {
		return errs.Wrapf(err, "purging session")
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, account *identity.Account, sessionURI string, group *sessions.Group, roles []string) (*sessions.Session, error) {
	session := &sessions.Session{
		URI:        sessionURI,
		ID:         uuid.NewString(),
		AccountURI: account.URI,
		Group:      *group,
		Roles:      roles,
	}

	roleTriples := ""
	for _, role := range roles {
		roleTriples += fmt.Sprintf(" ext:sessionRole %s ;\n", sparql.Literal(role))
	}

	update := prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s mu:uuid %s ;
       session:account %s ;
       ext:sessionGroup %s ;
%s       dcterms:modified %s .
  }
}`,
		sparql.URI(r.sessionsGraph),
		sparql.URI(sessionURI),
		sparql.Literal(session.ID),
		sparql.URI(account.URI),
		sparql.URI(group.URI),
		roleTriples,
		sparql.DateTime(time.Now()))

	if err := r.store.Update(ctx, update); err != nil {
		return nil, errs.Wrapf(err, "inserting session")
	}
	return session, nil
}

func (r *Repo) FindAccountBySession(ctx context.Context, sessionURI string) (*identity.Account, error) {
	query := prefixes + fmt.Sprintf(`
SELECT ?account ?accountId
WHERE {
  GRAPH %s {
    %s session:account ?account .
  }
  GRAPH %s {
    ?account a foaf:OnlineAccount ;
             mu:uuid ?accountId .
  }
}`, sparql.URI(r.sessionsGraph), sparql.URI(sessionURI), sparql.URI(r.usersGraph))

	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, errs.Wrapf(err, "looking up account by session")
	}
	if results.Empty() {
		return nil, errs.ErrNotFound
	}
	if len(results.Results.Bindings) > 1 {
		r.log.Warn().Str("session", sessionURI).Msg("multiple accounts bound to one session, taking the first")
	}

	row := results.First()
	return &identity.Account{URI: row.Value("account"), ID: row.Value("accountId")}, nil
}

func (r *Repo) FindSessionByAccount(ctx context.Context, account *identity.Account) (*sessions.Session, error) {
	query := prefixes + fmt.Sprintf(`
SELECT ?session ?sessionId ?group ?groupId ?role
WHERE {
  GRAPH %s {
    ?session session:account %s ;
             mu:uuid ?sessionId ;
             ext:sessionGroup ?group .
    OPTIONAL { ?session ext:sessionRole ?role . }
  }
  GRAPH %s {
    ?group mu:uuid ?groupId .
  }
}`, sparql.URI(r.sessionsGraph), sparql.URI(account.URI), sparql.URI(r.organizationsGraph))

	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, errs.Wrapf(err, "looking up session by account")
	}
	if results.Empty() {
		return nil, errs.ErrNotFound
	}

	// One row per role; all rows should describe the same session. A second
	// session URI in the results is an anomaly: keep the first, log the rest.
	first := results.First()
	session := &sessions.Session{
		URI:        first.Value("session"),
		ID:         first.Value("sessionId"),
		AccountURI: account.URI,
		Group:      sessions.Group{URI: first.Value("group"), ID: first.Value("groupId")},
	}
	for _, row := range results.Results.Bindings {
		if row.Value("session") != session.URI {
			r.log.Warn().Str("account", account.URI).Msg("multiple sessions bound to one account, taking the first")
			continue
		}
		if role := row.Value("role"); role != "" {
			session.Roles = append(session.Roles, role)
		}
	}
	return session, nil
}
