package auth

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lblod/acmidm-login-service/identity"
	"github.com/lblod/acmidm-login-service/internal/config"
	errs "github.com/lblod/acmidm-login-service/internal/errors"
	"github.com/lblod/acmidm-login-service/internal/metrics"
	"github.com/lblod/acmidm-login-service/openid"
	"github.com/lblod/acmidm-login-service/sessions"
)

// Repos holds all repository dependencies for the SessionService.
type Repos struct {
	Identity identity.Repo // persons and accounts
	Sessions sessions.Repo // session bindings and bestuurseenheden
}

// SessionInfo describes one session binding as returned by login and
// current-session lookups.
type SessionInfo struct {
	SessionURI string
	SessionID  string
	AccountURI string
	AccountID  string
	GroupURI   string
	GroupID    string
	Roles      []string
}

// SessionService implements the session lifecycle: exchanging an
// authorization code for claims, mapping claims onto the identity graph and
// binding the caller's session URI to the resulting account.
type SessionService struct {
	resolver openid.Resolver
	repos    Repos

	roleClaim     string
	roleSeparator string

	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewSessionService(resolver openid.Resolver, repos Repos, cfg config.ClaimsConfig, m *metrics.Metrics, log zerolog.Logger) *SessionService {
	return &SessionService{
		resolver:      resolver,
		repos:         repos,
		roleClaim:     cfg.GetRoleClaim(),
		roleSeparator: cfg.GetRoleSeparator(),
		metrics:       m,
		log:           log,
	}
}

// Login exchanges the authorization code for claims and binds the session URI
// to the matching account. The previous binding for the URI is purged before
// the group gate, so a login that fails authorization leaves the caller
// logged out rather than bound to a stale identity.
func (s *SessionService) Login(ctx context.Context, sessionURI, authorizationCode string) (*SessionInfo, error) {
	if sessionURI == "" {
		return nil, errs.ErrMissingSessionHeader
	}
	if authorizationCode == "" {
		return nil, errs.ErrMissingAuthorizationCode
	}

	claims, err := s.resolver.Exchange(ctx, authorizationCode)
	if err != nil {
		s.metrics.IncrementLogin("authentication_failed")
		return nil, err
	}

	if err := s.repos.Sessions.Purge(ctx, sessionURI); err != nil {
		s.metrics.IncrementLogin("storage_failed")
		return nil, err
	}

	group, err := s.repos.Sessions.ResolveGroup(ctx, claims)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			s.metrics.IncrementLogin("no_group")
			return nil, errs.ErrNoGroup
		}
		s.metrics.IncrementLogin("storage_failed")
		return nil, err
	}

	person, err := s.repos.Identity.FindOrCreatePerson(ctx, claims)
	if err != nil {
		s.metrics.IncrementLogin("storage_failed")
		return nil, err
	}

	account, err := s.repos.Identity.FindOrCreateAccount(ctx, person, claims)
	if err != nil {
		s.metrics.IncrementLogin("storage_failed")
		return nil, err
	}

	roles := NormalizeRoles(claims.Strings(s.roleClaim), s.roleSeparator)

	session, err := s.repos.Sessions.Create(ctx, account, sessionURI, group, roles)
	if err != nil {
		s.metrics.IncrementLogin("storage_failed")
		return nil, err
	}

	s.metrics.IncrementLogin("success")
	s.metrics.IncrementSessionsCreated()
	s.log.Info().Str("session", sessionURI).Str("account", account.ID).Str("group", group.ID).Msg("session created")

	return sessionInfo(session, account), nil
}

// Logout purges the binding for the session URI. A URI with no binding yields
// ErrInvalidSession; repeating a logout is safe and reports the same.
func (s *SessionService) Logout(ctx context.Context, sessionURI string) error {
	if sessionURI == "" {
		return errs.ErrMissingSessionHeader
	}

	if _, err := s.repos.Sessions.FindAccountBySession(ctx, sessionURI); err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return errs.ErrInvalidSession
		}
		return err
	}

	if err := s.repos.Sessions.Purge(ctx, sessionURI); err != nil {
		return err
	}

	s.log.Info().Str("session", sessionURI).Msg("session removed")
	return nil
}

// CurrentSession resolves the account bound to the session URI and the
// session details bound to that account. Absence at either step is an
// invalid-session condition.
func (s *SessionService) CurrentSession(ctx context.Context, sessionURI string) (*SessionInfo, error) {
	if sessionURI == "" {
		return nil, errs.ErrMissingSessionHeader
	}

	account, err := s.repos.Sessions.FindAccountBySession(ctx, sessionURI)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidSession
		}
		return nil, err
	}

	session, err := s.repos.Sessions.FindSessionByAccount(ctx, account)
	if err != nil {
		if errs.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrInvalidSession
		}
		return nil, err
	}

	return sessionInfo(session, account), nil
}

func sessionInfo(session *sessions.Session, account *identity.Account) *SessionInfo {
	return &SessionInfo{
		SessionURI: session.URI,
		SessionID:  session.ID,
		AccountURI: account.URI,
		AccountID:  account.ID,
		GroupURI:   session.Group.URI,
		GroupID:    session.Group.ID,
		Roles:      session.Roles,
	}
}
