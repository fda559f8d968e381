package identity

import (
	"context"

	"github.com/lblod/acmidm-login-service/openid"
)

// Repo defines the interface for person/account storage operations.
// Both operations are lookup-then-conditionally-insert and are idempotent by
// identifier: a repeated call with different optional claims (names, group
// membership metadata) does not update an existing record.
type Repo interface {
	// FindOrCreatePerson resolves the person matching the configured user-id
	// claim, creating one when absent. Name claims may be missing; creation
	// must not fail on their absence.
	FindOrCreatePerson(ctx context.Context, claims openid.Claims) (*Person, error)

	// FindOrCreateAccount resolves the account under the given person by the
	// configured account-id claim, creating and linking one when absent.
	FindOrCreateAccount(ctx context.Context, person *Person, claims openid.Claims) (*Account, error)
}
