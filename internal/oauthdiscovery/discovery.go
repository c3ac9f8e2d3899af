// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

// Package oauthdiscovery computes the OpenShift OAuth server's metadata and
// the authorization/logout URLs derived from it, and derives the
// OAuthAccessToken object name for a bearer token so it can be revoked on
// logout.
package oauthdiscovery

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	oauthv1client "github.com/openshift/client-go/oauth/clientset/versioned/typed/oauth/v1"

	"go.cryostat.dev/openshift-auth/internal/plog"
)

const (
	clientIDEnvVar = "CRYOSTAT_OAUTH_CLIENT_ID"
	roleEnvVar     = "CRYOSTAT_OAUTH_ROLE"

	sha256TokenPrefix = "sha256~"
)

// MissingEnvironmentVariableError means a required environment variable was
// not set when building the login redirect URL.
type MissingEnvironmentVariableError struct {
	Name string
}

func (e *MissingEnvironmentVariableError) Error() string {
	return fmt.Sprintf("missing required environment variable %q", e.Name)
}

// TokenNotFoundError means logout targeted an OAuthAccessToken object that
// does not, or no longer, exists.
type TokenNotFoundError struct{}

func (e *TokenNotFoundError) Error() string { return "token not found" }

// Environment reads process environment variables. It exists as an
// interface purely so tests can substitute a fixed set of variables.
type Environment interface {
	GetEnv(name string) (string, bool)
}

// metadata is the subset of the OAuth server's
// .well-known/oauth-authorization-server document this package needs.
// Unknown fields are ignored on unmarshal.
type metadata struct {
	Issuer                string `json:"issuer"`
	AuthorizationEndpoint string `json:"authorization_endpoint"`
}

// Discovery fetches and memoizes an OpenShift cluster's OAuth server
// metadata and derives the URLs and object names built from it. Each memoized
// value is resolved at most once per process lifetime, including a memoized
// failure: a transient error is "sticky" until the process restarts, the
// same tradeoff the original implementation's computeIfAbsent made.
type Discovery struct {
	HTTPClient  *http.Client
	MasterURL   string
	Env         Environment
	Namespace   func() (string, error)
	OAuthTokens oauthv1client.OAuthAccessTokenInterface

	metadataOnce sync.Once
	metadata     metadata
	metadataErr  error

	authEndpointOnce sync.Once
	authEndpoint     string
	authEndpointErr  error

	logoutEndpointOnce sync.Once
	logoutEndpoint     string
	logoutEndpointErr  error
}

func (d *Discovery) fetchMetadata(ctx context.Context) (metadata, error) {
	d.metadataOnce.Do(func() {
		d.metadata, d.metadataErr = d.queryOAuthServer(ctx)
	})
	return d.metadata, d.metadataErr
}

func (d *Discovery) queryOAuthServer(ctx context.Context) (metadata, error) {
	endpoint, err := url.JoinPath(d.MasterURL, ".well-known", "oauth-authorization-server")
	if err != nil {
		return metadata{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return metadata{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		plog.Info("oauth metadata request failed", "error", err.Error())
		return metadata{}, err
	}
	defer resp.Body.Close()

	var m metadata
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return metadata{}, err
	}
	return m, nil
}

// AuthorizationEndpoint returns the OAuth2 login URL a client with no valid
// session should be redirected to, parameterized by the service account's
// client ID and the cluster role scope.
func (d *Discovery) AuthorizationEndpoint(ctx context.Context) (string, error) {
	d.authEndpointOnce.Do(func() {
		d.authEndpoint, d.authEndpointErr = d.computeAuthorizationEndpoint(ctx)
	})
	return d.authEndpoint, d.authEndpointErr
}

func (d *Discovery) computeAuthorizationEndpoint(ctx context.Context) (string, error) {
	clientID, err := d.serviceAccountName()
	if err != nil {
		return "", err
	}
	scope, err := d.tokenScope()
	if err != nil {
		return "", err
	}

	m, err := d.fetchMetadata(ctx)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(m.AuthorizationEndpoint)
	if err != nil {
		return "", err
	}
	q := parsed.Query()
	q.Set("client_id", clientID)
	q.Set("response_type", "token")
	q.Set("response_mode", "fragment")
	q.Set("scope", scope)
	parsed.RawQuery = q.Encode()

	return parsed.String(), nil
}

// LogoutEndpoint returns the URL a client should be redirected to after its
// session is revoked.
func (d *Discovery) LogoutEndpoint(ctx context.Context) (string, error) {
	d.logoutEndpointOnce.Do(func() {
		m, err := d.fetchMetadata(ctx)
		if err != nil {
			d.logoutEndpointErr = err
			return
		}
		d.logoutEndpoint = fmt.Sprintf("%s/logout", m.Issuer)
	})
	return d.logoutEndpoint, d.logoutEndpointErr
}

func (d *Discovery) serviceAccountName() (string, error) {
	clientID, ok := d.Env.GetEnv(clientIDEnvVar)
	if !ok || clientID == "" {
		return "", &MissingEnvironmentVariableError{Name: clientIDEnvVar}
	}
	namespace, err := d.Namespace()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("system:serviceaccount:%s:%s", namespace, clientID), nil
}

func (d *Discovery) tokenScope() (string, error) {
	role, ok := d.Env.GetEnv(roleEnvVar)
	if !ok || role == "" {
		return "", &MissingEnvironmentVariableError{Name: roleEnvVar}
	}
	namespace, err := d.Namespace()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("user:check-access role:%s:%s", role, namespace), nil
}

// RevokeToken deletes the OAuthAccessToken object that backs token.
func (d *Discovery) RevokeToken(ctx context.Context, token string) error {
	name := AccessTokenName(token)
	err := d.OAuthTokens.Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return &TokenNotFoundError{}
	}
	return nil
}

// AccessTokenName derives the name of the OAuthAccessToken object that
// backs the given bearer token: the sha256~ prefix (if present) is
// stripped, the remainder is SHA-256 hashed, the digest is base64url
// encoded with padding stripped, and the sha256~ prefix is reapplied.
func AccessTokenName(token string) string {
	raw := strings.TrimPrefix(token, sha256TokenPrefix)
	sum := sha256.Sum256([]byte(raw))
	encoded := base64.URLEncoding.EncodeToString(sum[:])
	return sha256TokenPrefix + strings.TrimRight(encoded, "=")
}
