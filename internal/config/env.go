package config

import "os"

// applyEnv overlays environment variables on the loaded configuration.
// Environment wins over the config file so containerized deployments can
// inject secrets without a file on disk.
func applyEnv(cfg *Config) {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent(&cfg.GLPI.APIURL, "GLPI_API_URL")
	setIfPresent(&cfg.GLPI.AppToken, "GLPI_APP_TOKEN")
	setIfPresent(&cfg.GLPI.UserToken, "GLPI_USER_TOKEN")
	setIfPresent(&cfg.GLPI.RequestTimeout, "GLPI_REQUEST_TIMEOUT")

	setIfPresent(&cfg.OAuth.ClientID, "OAUTH_CLIENT_ID")
	setIfPresent(&cfg.OAuth.ClientSecret, "OAUTH_CLIENT_SECRET")
	setIfPresent(&cfg.OAuth.AuthorizationURL, "OAUTH_AUTHORIZATION_URL")
	setIfPresent(&cfg.OAuth.TokenURL, "OAUTH_TOKEN_URL")
	setIfPresent(&cfg.OAuth.RedirectURI, "OAUTH_REDIRECT_URI")
	setIfPresent(&cfg.OAuth.TokenPath, "OAUTH_TOKEN_PATH")

	setIfPresent(&cfg.LLM.Provider, "LLM_PROVIDER")
	setIfPresent(&cfg.LLM.Model, "LLM_MODEL")
	setIfPresent(&cfg.LLM.APIKey, "LLM_API_KEY")
	setIfPresent(&cfg.LLM.BaseURL, "LLM_BASE_URL")

	setIfPresent(&cfg.Logging.Level, "LOG_LEVEL")
}
