package sessions

import (
	"context"

	"github.com/lblod/acmidm-login-service/identity"
	"github.com/lblod/acmidm-login-service/openid"
)

// Repo defines the interface for session binding storage operations.
// Lookups that find nothing return errors.ErrNotFound; the session service
// translates that into its own taxonomy.
type Repo interface {
	// ResolveGroup reads the configured group-identifier claim and resolves
	// the matching bestuurseenheid. A missing claim or unknown identifier
	// yields ErrNotFound; login treats that as a hard authorization gate.
	ResolveGroup(ctx context.Context, claims openid.Claims) (*Group, error)

	// Purge deletes every statement whose subject is the session URI in the
	// sessions graph, all predicates, unconditionally. A no-op when nothing
	// is bound.
	Purge(ctx context.Context, sessionURI string) error

	// Create inserts a fresh binding. Callers must Purge the same URI first
	// within the same logical operation to keep at most one binding per URI.
	Create(ctx context.Context, account *identity.Account, sessionURI string, group *Group, roles []string) (*Session, error)

	// FindAccountBySession resolves the account currently bound to a session
	// URI; used for logout and session-fetch authorization.
	FindAccountBySession(ctx context.Context, sessionURI string) (*identity.Account, error)

	// FindSessionByAccount is the reverse lookup for current-session queries.
	FindSessionByAccount(ctx context.Context, account *identity.Account) (*Session, error)
}
