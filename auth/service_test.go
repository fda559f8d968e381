package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/lblod/acmidm-login-service/auth"
	identityfake "github.com/lblod/acmidm-login-service/identity/repofake"
	"github.com/lblod/acmidm-login-service/internal/config"
	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/openid/resolverfake"
	sessionfake "github.com/lblod/acmidm-login-service/sessions/repofake"
)

const (
	testSessionURI = "http://mu.semte.ch/sessions/5eceeea0-8fd6-11e6-ae22-56b6b6499611"
	testGroupCode  = "OVO002949"
	testCode       = "secret-authorization-code"
	testOtherCode  = "other-authorization-code"

	userIDClaim    = "rrn"
	accountIDClaim = "vo_id"
	groupIDClaim   = "dg_ovoCode"
	roleClaim      = "abb_loketLB_rol_3d"
)

// testFixture holds all test dependencies
type testFixture struct {
	resolver    *resolverfake.FakeResolver
	identity    *identityfake.FakeIdentityRepo
	sessionRepo *sessionfake.FakeSessionRepo
	service     *auth.SessionService
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	resolver := resolverfake.NewFakeResolver()
	identityRepo := identityfake.NewFakeIdentityRepo(userIDClaim, accountIDClaim)
	sessionRepo := sessionfake.NewFakeSessionRepo(groupIDClaim)
	sessionRepo.AddGroup(testGroupCode)

	service := auth.NewSessionService(resolver, auth.Repos{
		Identity: identityRepo,
		Sessions: sessionRepo,
	}, config.Claims{}, nil, zerolog.Nop())

	return &testFixture{
		resolver:    resolver,
		identity:    identityRepo,
		sessionRepo: sessionRepo,
		service:     service,
	}
}

func testClaims(rrn, voID string) openid.Claims {
	return openid.Claims{
		userIDClaim:    rrn,
		accountIDClaim: voID,
		groupIDClaim:   testGroupCode,
		"given_name":   "Jan",
		"family_name":  "Jansens",
		roleClaim:      []any{"LoketLB-mandaatGebruiker:OVO002949", "LoketLB-berichtenGebruiker"},
	}
}

func TestLoginCreatesSession(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	info, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	require.Equal(t, testSessionURI, info.SessionURI)
	require.NotEmpty(t, info.SessionID)
	require.NotEmpty(t, info.AccountID)
	require.NotEmpty(t, info.GroupID)
	require.Equal(t, []string{"LoketLB-mandaatGebruiker", "LoketLB-berichtenGebruiker"}, info.Roles)

	require.Equal(t, 1, f.sessionRepo.BindingCount())
	require.Equal(t, 1, f.identity.PersonCount())
	require.Equal(t, 1, f.identity.AccountCount())
}

func TestLoginValidationErrors(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Login(context.Background(), "", testCode)
	require.ErrorIs(t, err, errs.ErrMissingSessionHeader)

	_, err = f.service.Login(context.Background(), testSessionURI, "")
	require.ErrorIs(t, err, errs.ErrMissingAuthorizationCode)

	// Validation failures are terminal: no exchange is attempted.
	require.Equal(t, 0, f.resolver.Calls())
}

func TestLoginAuthenticationFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	// A prior binding survives a failed exchange: the purge only happens
	// after the provider accepted the code.
	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	_, err = f.service.Login(context.Background(), testSessionURI, "wrong-code")
	require.ErrorIs(t, err, errs.ErrAuthentication)
	require.Equal(t, 1, f.sessionRepo.BindingCount())
}

func TestLoginUnknownGroup(t *testing.T) {
	f := setupTestFixture(t)

	claims := testClaims("79112204312", "vo-id-1")
	claims[groupIDClaim] = "OVO000000"
	f.resolver.AddCode(testCode, claims)

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.ErrorIs(t, err, errs.ErrNoGroup)

	// The gate fires before any person or account is created.
	require.Equal(t, 0, f.identity.PersonCount())
	require.Equal(t, 0, f.identity.AccountCount())
	require.Equal(t, 0, f.sessionRepo.BindingCount())
}

func TestLoginMissingGroupClaim(t *testing.T) {
	f := setupTestFixture(t)

	claims := testClaims("79112204312", "vo-id-1")
	delete(claims, groupIDClaim)
	f.resolver.AddCode(testCode, claims)

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.ErrorIs(t, err, errs.ErrNoGroup)
}

func TestLoginGroupGatePurgesPriorBinding(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	claims := testClaims("79112204312", "vo-id-1")
	claims[groupIDClaim] = "OVO000000"
	f.resolver.AddCode(testOtherCode, claims)

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	// The second attempt authenticates but fails the group gate. The old
	// binding was already purged and is not restored.
	_, err = f.service.Login(context.Background(), testSessionURI, testOtherCode)
	require.ErrorIs(t, err, errs.ErrNoGroup)
	require.Equal(t, 0, f.sessionRepo.BindingCount())
}

func TestLoginTwiceLeavesSingleBinding(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))
	f.resolver.AddCode(testOtherCode, testClaims("86081503169", "vo-id-2"))

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	second, err := f.service.Login(context.Background(), testSessionURI, testOtherCode)
	require.NoError(t, err)

	require.Equal(t, 1, f.sessionRepo.BindingCount())
	require.Equal(t, second.AccountURI, f.sessionRepo.Binding(testSessionURI).AccountURI)
}

func TestLoginIsIdempotentByIdentifier(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	first, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	// Same identifiers, different optional claims: no new person or account.
	claims := testClaims("79112204312", "vo-id-1")
	claims["given_name"] = "Johan"
	f.resolver.AddCode(testOtherCode, claims)

	second, err := f.service.Login(context.Background(), testSessionURI, testOtherCode)
	require.NoError(t, err)

	require.Equal(t, first.AccountURI, second.AccountURI)
	require.Equal(t, 1, f.identity.PersonCount())
	require.Equal(t, 1, f.identity.AccountCount())
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), testSessionURI))
	require.Equal(t, 0, f.sessionRepo.BindingCount())

	// A repeated logout observes no binding and reports an invalid session.
	err = f.service.Logout(context.Background(), testSessionURI)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestLogoutValidation(t *testing.T) {
	f := setupTestFixture(t)

	err := f.service.Logout(context.Background(), "")
	require.ErrorIs(t, err, errs.ErrMissingSessionHeader)

	err = f.service.Logout(context.Background(), testSessionURI)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestCurrentSessionRoundTrip(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	login, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)

	current, err := f.service.CurrentSession(context.Background(), testSessionURI)
	require.NoError(t, err)

	require.Equal(t, login.SessionID, current.SessionID)
	require.Equal(t, login.AccountID, current.AccountID)
	require.Equal(t, login.GroupID, current.GroupID)
	require.Equal(t, login.Roles, current.Roles)
}

func TestCurrentSessionAfterLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))

	_, err := f.service.Login(context.Background(), testSessionURI, testCode)
	require.NoError(t, err)
	require.NoError(t, f.service.Logout(context.Background(), testSessionURI))

	_, err = f.service.CurrentSession(context.Background(), testSessionURI)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestCurrentSessionValidation(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.CurrentSession(context.Background(), "")
	require.ErrorIs(t, err, errs.ErrMissingSessionHeader)

	_, err = f.service.CurrentSession(context.Background(), testSessionURI)
	require.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestConcurrentLoginsLeaveOneBinding(t *testing.T) {
	f := setupTestFixture(t)
	f.resolver.AddCode(testCode, testClaims("79112204312", "vo-id-1"))
	f.resolver.AddCode(testOtherCode, testClaims("86081503169", "vo-id-2"))

	var wg sync.WaitGroup
	results := make([]*auth.SessionInfo, 2)
	loginErrs := make([]error, 2)
	for i, code := range []string{testCode, testOtherCode} {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			results[i], loginErrs[i] = f.service.Login(context.Background(), testSessionURI, code)
		}(i, code)
	}
	wg.Wait()
	require.NoError(t, loginErrs[0])
	require.NoError(t, loginErrs[1])

	// Last writer wins; the binding must point at exactly one of the two
	// accounts, never both, never neither.
	require.Equal(t, 1, f.sessionRepo.BindingCount())
	winner := f.sessionRepo.Binding(testSessionURI).AccountURI
	require.Contains(t, []string{results[0].AccountURI, results[1].AccountURI}, winner)
}
