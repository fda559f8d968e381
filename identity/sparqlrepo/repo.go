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
	"github.com/lblod/acmidm-login-service/sparql"
)

const (
	personBaseURI     = "http://data.lblod.info/id/persoon/"
	accountBaseURI    = "http://data.lblod.info/id/account/"
	identifierBaseURI = "http://data.lblod.info/id/identificator/"

	serviceHomepage = "https://github.com/lblod/acmidm-login-service"

	prefixes = `PREFIX foaf: <http://xmlns.com/foaf/0.1/>
PREFIX mu: <http://mu.semte.ch/vocabularies/core/>
PREFIX ext: <http://mu.semte.ch/vocabularies/ext/>
PREFIX dcterms: <http://purl.org/dc/terms/>
PREFIX adms: <http://www.w3.org/ns/adms#>
PREFIX skos: <http://www.w3.org/2004/02/skos/core#>
`

	// Group-membership metadata attached to a fresh account when present.
	doelgroepCodeClaim = "doelgroepcode"
	doelgroepNaamClaim = "doelgroepnaam"
)

// Repo implements identity.Repo against the users graph of a SPARQL store.
// Graph and claim names are captured once at construction; request handling
// never reads the environment.
type Repo struct {
	store          sparql.Executor
	usersGraph     string
	userIDClaim    string
	accountIDClaim string
	log            zerolog.Logger
}

var _ identity.Repo = (*Repo)(nil)

func New(store sparql.Executor, cfg config.Config, log zerolog.Logger) *Repo {
	return &Repo{
		store:          store,
		usersGraph:     cfg.GetUsersGraph(),
		userIDClaim:    cfg.GetUserIDClaim(),
		accountIDClaim: cfg.GetAccountIDClaim(),
		log:            log,
	}
}

func (r *Repo) FindOrCreatePerson(ctx context.Context, claims openid.Claims) (*identity.Person, error) {
	userID := claims.String(r.userIDClaim)
	if userID == "" {
		return nil, fmt.Errorf("claims are missing the %q claim", r.userIDClaim)
	}

	query := prefixes + fmt.Sprintf(`
SELECT ?person ?personId
FROM %s
WHERE {
  ?person a foaf:Person ;
          mu:uuid ?personId ;
          adms:identifier ?identifier .
  ?identifier skos:notation %s .
}`, sparql.URI(r.usersGraph), sparql.Literal(userID))

	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, errs.Wrapf(err, "looking up person")
	}

	if !results.Empty() {
		if len(results.Results.Bindings) > 1 {
			r.log.Warn().Str("identifier", userID).Msg("multiple persons for one identifier, taking the first")
		}
		row := results.First()
		return &identity.Person{
			URI:        row.Value("person"),
			ID:         row.Value("personId"),
			Identifier: userID,
		}, nil
	}

	return r.insertPerson(ctx, userID, claims)
}

func (r *Repo) insertPerson(ctx context.Context, userID string, claims openid.Claims) (*identity.Person, error) {
	// One uuid per resource: the URI suffix and the mu:uuid triple must match.
	personID := uuid.NewString()
	identifierID := uuid.NewString()

	person := &identity.Person{
		URI:        personBaseURI + personID,
		ID:         personID,
		Identifier: userID,
		FirstName:  claims.String("given_name"),
		FamilyName: claims.String("family_name"),
	}
	identifierURI := identifierBaseURI + identifierID

	// Name claims are optional; their triples are simply omitted when absent.
	names := ""
	if person.FirstName != "" {
		names += fmt.Sprintf(" foaf:firstName %s ;\n", sparql.Literal(person.FirstName))
	}
	if person.FamilyName != "" {
		names += fmt.Sprintf(" foaf:familyName %s ;\n", sparql.Literal(person.FamilyName))
	}

	update := prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s a foaf:Person ;
       mu:uuid %s ;
%s       adms:identifier %s .
    %s a adms:Identifier ;
       mu:uuid %s ;
       skos:notation %s .
  }
}`,
		sparql.URI(r.usersGraph),
		sparql.URI(person.URI),
		sparql.Literal(person.ID),
		names,
		sparql.URI(identifierURI),
		sparql.URI(identifierURI),
		sparql.Literal(identifierID),
		sparql.Literal(userID))

	if err := r.store.Update(ctx, update); err != nil {
		return nil, errs.Wrapf(err, "inserting person")
	}
	return person, nil
}

func (r *Repo) FindOrCreateAccount(ctx context.Context, person *identity.Person, claims openid.Claims) (*identity.Account, error) {
	accountID := claims.String(r.accountIDClaim)
	if accountID == "" {
		return nil, fmt.Errorf("claims are missing the %q claim", r.accountIDClaim)
	}

	query := prefixes + fmt.Sprintf(`
SELECT ?account ?accountId
FROM %s
WHERE {
  %s foaf:account ?account .
  ?account a foaf:OnlineAccount ;
           mu:uuid ?accountId ;
           dcterms:identifier %s .
}`, sparql.URI(r.usersGraph), sparql.URI(person.URI), sparql.Literal(accountID))

	results, err := r.store.Select(ctx, query)
	if err != nil {
		return nil, errs.Wrapf(err, "looking up account")
	}

	if !results.Empty() {
		if len(results.Results.Bindings) > 1 {
			r.log.Warn().Str("identifier", accountID).Msg("multiple accounts for one identifier, taking the first")
		}
		row := results.First()
		return &identity.Account{
			URI: row.Value("account"),
			ID:  row.Value("accountId"),
		}, nil
	}

	return r.insertAccount(ctx, person, accountID, claims)
}

func (r *Repo) insertAccount(ctx context.Context, person *identity.Person, accountID string, claims openid.Claims) (*identity.Account, error) {
	id := uuid.NewString()
	account := &identity.Account{
		URI: accountBaseURI + id,
		ID:  id,
	}

	membership := ""
	if code := claims.String(doelgroepCodeClaim); code != "" {
		membership += fmt.Sprintf(" ext:doelgroepCode %s ;\n", sparql.Literal(code))
	}
	if name := claims.String(doelgroepNaamClaim); name != "" {
		membership += fmt.Sprintf(" ext:doelgroepNaam %s ;\n", sparql.Literal(name))
	}

	update := prefixes + fmt.Sprintf(`
INSERT DATA {
  GRAPH %s {
    %s foaf:account %s .
    %s a foaf:OnlineAccount ;
       mu:uuid %s ;
       foaf:accountServiceHomepage %s ;
       dcterms:identifier %s ;
%s       dcterms:created %s .
  }
}`,
		sparql.URI(r.usersGraph),
		sparql.URI(person.URI),
		sparql.URI(account.URI),
		sparql.URI(account.URI),
		sparql.Literal(account.ID),
		sparql.URI(serviceHomepage),
		sparql.Literal(accountID),
		membership,
		sparql.DateTime(time.Now()))

	if err := r.store.Update(ctx, update); err != nil {
		return nil, errs.Wrapf(err, "inserting account")
	}
	return account, nil
}
