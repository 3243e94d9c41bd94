package config

// EnvPrefix namespaces every variable read by Load.
const EnvPrefix = "PAWPRINT"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "PAWPRINT_APP_ENV"
	EnvPort     = "PAWPRINT_APP_PORT"
	EnvLogLevel = "PAWPRINT_LOG_LEVEL"

	EnvDBDSN  = "PAWPRINT_DB_DSN"
	EnvDBHost = "PAWPRINT_DB_HOST"
	EnvDBUser = "PAWPRINT_DB_USER"
	EnvDBName = "PAWPRINT_DB_NAME"

	EnvRedisURL = "PAWPRINT_REDIS_URL"

	EnvSessionSecret = "PAWPRINT_SESSION_SECRET"
	EnvSessionMaxAge = "PAWPRINT_SESSION_MAX_AGE"

	EnvPetfinderClientID     = "PAWPRINT_PETFINDER_CLIENT_ID"
	EnvPetfinderClientSecret = "PAWPRINT_PETFINDER_CLIENT_SECRET"
	EnvPetfinderTimeout      = "PAWPRINT_PETFINDER_TIMEOUT"

	EnvMirrorDefaultColor = "PAWPRINT_MIRROR_DEFAULT_COLOR"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
