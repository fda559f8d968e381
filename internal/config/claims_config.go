package config

// ClaimsConfig names the claims that identify the person, the account and the
// bestuurseenheid, and the claim carrying the raw role list. ACM/IDM has
// changed this mapping between deployments (rrn-keyed vs sub-keyed persons),
// so the scheme is configuration rather than code.
type ClaimsConfig interface {
	GetUserIDClaim() string
	GetAccountIDClaim() string
	GetGroupIDClaim() string
	GetRoleClaim() string
	GetRoleSeparator() string
}

type Claims struct{}

var _ ClaimsConfig = Claims{}

func (Claims) GetUserIDClaim() string {
	return GetEnv("ACM_IDM_USER_ID_CLAIM", "rrn")
}

func (Claims) GetAccountIDClaim() string {
	return GetEnv("ACM_IDM_ACCOUNT_ID_CLAIM", "vo_id")
}

func (Claims) GetGroupIDClaim() string {
	return GetEnv("ACM_IDM_GROUP_ID_CLAIM", "dg_ovoCode")
}

func (Claims) GetRoleClaim() string {
	return GetEnv("ACM_IDM_ROLE_CLAIM", "abb_loketLB_rol_3d")
}

func (Claims) GetRoleSeparator() string {
	return GetEnv("ACM_IDM_ROLE_SEPARATOR", ":")
}
