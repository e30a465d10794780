package config

const (
	EnvPrefix = "gudangpos"

	AppEnvProd    = "production"
	AppEnvStaging = "staging"

	// StagingTablePrefix namespaces staging tables inside a shared database.
	StagingTablePrefix = "staging_"

	EnvDBDSN  = "GUDANGPOS_DB_DSN"
	EnvDBHost = "GUDANGPOS_DB_HOST"
	EnvDBUser = "GUDANGPOS_DB_USER"
	EnvDBName = "GUDANGPOS_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
