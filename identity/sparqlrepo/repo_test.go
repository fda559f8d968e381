package sparqlrepo_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lblod/acmidm-login-service/identity"
	"github.com/lblod/acmidm-login-service/identity/sparqlrepo"
	"github.com/lblod/acmidm-login-service/internal/config"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/sparql/executorfake"
)

func setup(t *testing.T) (*sparqlrepo.Repo, *executorfake.FakeExecutor) {
	t.Helper()
	store := executorfake.New()
	return sparqlrepo.New(store, config.New(), zerolog.Nop()), store
}

func claims() openid.Claims {
	return openid.Claims{
		"rrn":         "79112204312",
		"vo_id":       "vo-id-1",
		"given_name":  "Jan",
		"family_name": "Jansens",
	}
}

func TestFindPersonReturnsExisting(t *testing.T) {
	repo, store := setup(t)
	store.QueueResults(executorfake.Bindings(map[string]string{
		"person":   "http://data.lblod.info/id/persoon/abc",
		"personId": "abc",
	}))

	person, err := repo.FindOrCreatePerson(context.Background(), claims())
	require.NoError(t, err)

	require.Equal(t, "http://data.lblod.info/id/persoon/abc", person.URI)
	require.Equal(t, "abc", person.ID)
	require.Equal(t, "79112204312", person.Identifier)

	// Lookup only: no insert was issued.
	require.Len(t, store.Queries, 1)
	require.Contains(t, store.Queries[0], `skos:notation "79112204312"`)
	require.Empty(t, store.Updates)
}

func TestCreatePersonInsertsNamesWhenPresent(t *testing.T) {
	repo, store := setup(t)

	person, err := repo.FindOrCreatePerson(context.Background(), claims())
	require.NoError(t, err)
	require.NotEmpty(t, person.URI)
	require.NotEmpty(t, person.ID)

	require.Len(t, store.Updates, 1)
	require.Contains(t, store.Updates[0], "a foaf:Person")
	require.Contains(t, store.Updates[0], `foaf:firstName "Jan"`)
	require.Contains(t, store.Updates[0], `foaf:familyName "Jansens"`)
	require.Contains(t, store.Updates[0], `skos:notation "79112204312"`)
}

func TestCreatePersonToleratesMissingNames(t *testing.T) {
	repo, store := setup(t)

	c := claims()
	delete(c, "given_name")
	delete(c, "family_name")

	_, err := repo.FindOrCreatePerson(context.Background(), c)
	require.NoError(t, err)

	require.Len(t, store.Updates, 1)
	require.NotContains(t, store.Updates[0], "foaf:firstName")
	require.NotContains(t, store.Updates[0], "foaf:familyName")
}

func TestCreatedResourcesShareUUIDWithURI(t *testing.T) {
	repo, store := setup(t)

	person, err := repo.FindOrCreatePerson(context.Background(), claims())
	require.NoError(t, err)
	require.Equal(t, "http://data.lblod.info/id/persoon/"+person.ID, person.URI)
	require.Contains(t, store.Updates[0], `mu:uuid "`+person.ID+`"`)

	// The adms:Identifier URI and its mu:uuid carry the same uuid too.
	identifierURI := regexp.MustCompile(`identificator/([0-9a-f-]+)`).FindStringSubmatch(store.Updates[0])
	require.Len(t, identifierURI, 2)
	require.Contains(t, store.Updates[0], `mu:uuid "`+identifierURI[1]+`"`)

	account, err := repo.FindOrCreateAccount(context.Background(), person, claims())
	require.NoError(t, err)
	require.Equal(t, "http://data.lblod.info/id/account/"+account.ID, account.URI)
	require.Contains(t, store.Updates[1], `mu:uuid "`+account.ID+`"`)
}

func TestFindPersonRequiresIdentifierClaim(t *testing.T) {
	repo, _ := setup(t)

	c := claims()
	delete(c, "rrn")

	_, err := repo.FindOrCreatePerson(context.Background(), c)
	require.Error(t, err)
}

func TestFindAccountReturnsExisting(t *testing.T) {
	repo, store := setup(t)
	store.QueueResults(executorfake.Bindings(map[string]string{
		"account":   "http://data.lblod.info/id/account/def",
		"accountId": "def",
	}))

	person := &identity.Person{URI: "http://data.lblod.info/id/persoon/abc", ID: "abc"}
	account, err := repo.FindOrCreateAccount(context.Background(), person, claims())
	require.NoError(t, err)

	require.Equal(t, "http://data.lblod.info/id/account/def", account.URI)
	require.Equal(t, "def", account.ID)
	require.Empty(t, store.Updates)
}

func TestCreateAccountLinksPerson(t *testing.T) {
	repo, store := setup(t)

	person := &identity.Person{URI: "http://data.lblod.info/id/persoon/abc", ID: "abc"}
	account, err := repo.FindOrCreateAccount(context.Background(), person, claims())
	require.NoError(t, err)
	require.NotEmpty(t, account.URI)

	require.Len(t, store.Updates, 1)
	require.Contains(t, store.Updates[0], "<http://data.lblod.info/id/persoon/abc> foaf:account")
	require.Contains(t, store.Updates[0], "a foaf:OnlineAccount")
	require.Contains(t, store.Updates[0], `dcterms:identifier "vo-id-1"`)
}

func TestCreateAccountAttachesMembershipClaims(t *testing.T) {
	repo, store := setup(t)

	c := claims()
	c["doelgroepcode"] = "LB"
	c["doelgroepnaam"] = "Lokale besturen"

	person := &identity.Person{URI: "http://data.lblod.info/id/persoon/abc", ID: "abc"}
	_, err := repo.FindOrCreateAccount(context.Background(), person, c)
	require.NoError(t, err)

	require.Contains(t, store.Updates[0], `ext:doelgroepCode "LB"`)
	require.Contains(t, store.Updates[0], `ext:doelgroepNaam "Lokale besturen"`)
}
