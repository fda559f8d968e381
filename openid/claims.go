package openid

import "github.com/lblod/acmidm-login-service/internal/utils"

// Claims is the verified claim set returned by the OpenID Provider after a
// successful authorization-code exchange. Values are strings or string lists
// depending on the claim; accessors normalize either shape.
type Claims map[string]any

// String returns the named claim as a string, or "" when absent or non-string.
func (c Claims) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// Strings returns the named claim as a string list. A single string value is
// returned as a one-element list; absent or foreign-typed claims yield nil.
func (c Claims) Strings(name string) []string {
	switch v := c[name].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		return utils.ToStringSlice(v)
	default:
		return nil
	}
}
