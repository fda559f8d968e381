package config

// OpenIDConfig describes the connection to the ACM/IDM OpenID Provider.
// Discovery URL, client credentials and redirect URI have no sane defaults and
// must be provided through the environment.
type OpenIDConfig interface {
	GetDiscoveryURL() string
	GetClientID() string
	GetClientSecret() string
	GetRedirectURI() string
	GetAuthScope() string
}

type OpenID struct{}

var _ OpenIDConfig = OpenID{}

func (OpenID) GetDiscoveryURL() string {
	return GetEnv("ACM_IDM_DISCOVERY_URL", "")
}

func (OpenID) GetClientID() string {
	return GetEnv("ACM_IDM_CLIENT_ID", "")
}

func (OpenID) GetClientSecret() string {
	return GetEnv("ACM_IDM_CLIENT_SECRET", "")
}

func (OpenID) GetRedirectURI() string {
	return GetEnv("ACM_IDM_REDIRECT_URI", "")
}

func (OpenID) GetAuthScope() string {
	return GetEnv("ACM_IDM_AUTH_SCOPE", "openid rrn vo profile")
}
