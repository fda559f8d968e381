package config

import "time"

type Config interface {
	EnvConfig
	OpenIDConfig
	StoreConfig
	ClaimsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetRequestTimeout() time.Duration
}

type mainConfig struct {
	EnvVars
	OpenID
	Store
	Claims
}

func New() Config {
	return mainConfig{}
}
