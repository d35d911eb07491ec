package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The Sheets authorization code is delivered to a local listener on this port and path
const (
	OAuthCallbackPort = 3000
	OAuthCallbackPath = "/oauth/callback"
)

// OAuthRedirectURL is the redirect URI sent with every authorization request
var OAuthRedirectURL = fmt.Sprintf("http://localhost:%d%s", OAuthCallbackPort, OAuthCallbackPath)

// OAuthClientConfig is the desktop client file downloaded from the Google Cloud console
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url,omitempty" validate:"omitempty,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// OAuthClientPath resolves the OAuth client file for env. An oauthClientFile set in the
// config wins, with a leading ~ expanded to the home directory. Otherwise
// oauthClient.json (or oauthClient.<env>.json) is looked up the same way as
// rota_config.yaml.
func (c *Config) OAuthClientPath(env string) (string, error) {
	if c.OAuthClientFile == "" {
		return findInWorkingOrHomeDir(envFileName("oauthClient", env, "json"))
	}

	path := c.OAuthClientFile
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, rest)
	}
	return path, nil
}

// LoadOAuthClient loads the OAuth client configuration that belongs to this config
func (c *Config) LoadOAuthClient(env string) (*OAuthClientConfig, error) {
	path, err := c.OAuthClientPath(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	return LoadOAuthClientFromPath(path)
}

// LoadOAuthClientFromPath loads and validates the OAuth client configuration from a specific path
func LoadOAuthClientFromPath(path string) (*OAuthClientConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file %s: %w", path, err)
	}

	if err := ValidateOAuthClient(&oauthCfg); err != nil {
		return nil, err
	}

	return &oauthCfg, nil
}

// ValidateOAuthClient checks the required fields and that the client accepts the local
// callback at OAuthRedirectURL
func ValidateOAuthClient(cfg *OAuthClientConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("oauth client validation failed: %w", err)
	}

	for _, uri := range cfg.Installed.RedirectURIs {
		if acceptsLocalCallback(uri) {
			return nil
		}
	}
	return fmt.Errorf("oauth client validation failed: redirect_uris %v do not allow %s", cfg.Installed.RedirectURIs, OAuthRedirectURL)
}

// acceptsLocalCallback reports whether a registered redirect URI covers the callback
// listener. Google matches loopback URIs registered without a port against any port.
func acceptsLocalCallback(uri string) bool {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "http" {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1":
	default:
		return false
	}
	if u.Port() != "" && u.Port() != strconv.Itoa(OAuthCallbackPort) {
		return false
	}
	return u.Path == "" || u.Path == "/" || u.Path == OAuthCallbackPath
}
