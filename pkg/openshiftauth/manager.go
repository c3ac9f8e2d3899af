// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	oauthv1client "github.com/openshift/client-go/oauth/clientset/versioned/typed/oauth/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/utils/clock"

	"go.cryostat.dev/openshift-auth/internal/clientcache"
	"go.cryostat.dev/openshift-auth/internal/oauthdiscovery"
	"go.cryostat.dev/openshift-auth/internal/plog"
)

// ServiceAccountClient is the cluster client this process authenticates
// as. It is used for TokenReview, OAuth metadata discovery, and
// OAuthAccessToken revocation; it is never used to run a caller's own
// SelfSubjectAccessReviews.
type ServiceAccountClient interface {
	kubernetes.Interface
	OAuthV1() oauthv1client.OauthV1Interface
	MasterURL() string
	HTTPClient() *http.Client
}

// UserClientFactory builds a cluster client whose AuthorizationV1 requests
// run as the bearer of token. The returned close func releases whatever
// transport resources that client holds — typically
// (*http.Client).CloseIdleConnections on the http.Client the factory built
// the client's rest.Config around — and is called at most once, when the
// Manager's client cache evicts the entry. It may be nil if there is
// nothing worth releasing early.
type UserClientFactory func(token string) (client kubernetes.Interface, close func(), err error)

// NamespaceProvider lazily resolves the namespace this process runs in.
type NamespaceProvider func() (string, error)

// Manager is the authentication and authorization façade: it validates
// bearer tokens against a cluster's TokenReview API, authorizes abstract
// ResourceActions via SelfSubjectAccessReview, drives the OAuth2
// login/logout redirect flow, and caches per-token cluster clients.
type Manager struct {
	namespace NamespaceProvider

	tokenReviewer  *TokenReviewer
	accessReviewer *AccessReviewer
	cache          *clientcache.Cache
	discovery      *oauthdiscovery.Discovery

	oauthTokens oauthv1client.OAuthAccessTokenInterface
}

// Option configures optional aspects of a Manager.
type Option func(*managerOptions)

type managerOptions struct {
	env   oauthdiscovery.Environment
	clock clock.Clock
}

// WithEnvironment overrides the environment variable reader consulted when
// building login URLs. Defaults to the process's real environment.
func WithEnvironment(env oauthdiscovery.Environment) Option {
	return func(o *managerOptions) {
		o.env = env
	}
}

// WithClock overrides the clock used for the client cache's idle-expiry
// bookkeeping. Defaults to the real wall clock.
func WithClock(clk clock.Clock) Option {
	return func(o *managerOptions) {
		o.clock = clk
	}
}

// NewManager constructs a Manager. serviceAccountClient is this process's
// own cluster identity; userClientFactory builds a client authenticated as
// a specific end user's bearer token; resources maps abstract
// ResourceTypes to the concrete GroupResources that gate them; namespace
// lazily resolves the pod's own namespace.
func NewManager(
	serviceAccountClient ServiceAccountClient,
	userClientFactory UserClientFactory,
	resources ResourceMap,
	namespace NamespaceProvider,
	opts ...Option,
) (*Manager, error) {
	options := managerOptions{env: realEnvironment{}, clock: clock.RealClock{}}
	for _, opt := range opts {
		opt(&options)
	}

	oauthTokens := serviceAccountClient.OAuthV1().OAuthAccessTokens()

	m := &Manager{
		namespace:      namespace,
		tokenReviewer:  &TokenReviewer{ServiceAccountClient: serviceAccountClient},
		accessReviewer: &AccessReviewer{Resources: resources},
		oauthTokens:    oauthTokens,
		discovery: &oauthdiscovery.Discovery{
			HTTPClient:  serviceAccountClient.HTTPClient(),
			MasterURL:   serviceAccountClient.MasterURL(),
			Env:         options.env,
			Namespace:   namespace,
			OAuthTokens: oauthTokens,
		},
	}

	cache, err := clientcache.New(func(token string) (clientcache.Loaded, error) {
		client, closeClient, err := userClientFactory(token)
		if err != nil {
			return clientcache.Loaded{}, err
		}
		return clientcache.Loaded{Client: client, Close: closeClient}, nil
	}, options.clock)
	if err != nil {
		return nil, fmt.Errorf("constructing client cache: %w", err)
	}
	m.cache = cache

	return m, nil
}

// Scheme returns the credential transport this Manager expects: Bearer.
func (m *Manager) Scheme() AuthenticationScheme {
	return Bearer
}

// UserInfo resolves the identity behind the bearer token in an HTTP
// Authorization header.
func (m *Manager) UserInfo(ctx context.Context, headerProvider func() string) (UserInfo, error) {
	token, ok := ExtractFromHeader(headerProvider())
	if !ok {
		return UserInfo{}, &AuthorizationError{Message: "no bearer token presented"}
	}
	return m.tokenReviewer.ReviewToken(ctx, token)
}

// ValidateToken authenticates token and, if resourceActions is non-empty,
// authorizes every action against the ResourceMap this Manager was built
// with. An empty resourceActions performs authentication only: callers
// relying on this path as a permission check will silently grant.
func (m *Manager) ValidateToken(ctx context.Context, tokenProvider func() string, resourceActions []ResourceAction) (bool, error) {
	token := tokenProvider()
	if strings.TrimSpace(token) == "" {
		return false, nil
	}

	if len(resourceActions) == 0 {
		if _, err := m.tokenReviewer.ReviewToken(ctx, token); err != nil {
			return false, err
		}
		return true, nil
	}

	client, err := m.cache.Get(token)
	if err != nil {
		return false, err
	}

	namespace, err := m.namespace()
	if err != nil {
		m.cache.Invalidate(token)
		return false, err
	}

	if err := m.accessReviewer.ValidateActions(ctx, client, namespace, resourceActions); err != nil {
		m.cache.Invalidate(token)
		plog.Info("access review denied or failed", "error", err.Error())
		return false, err
	}
	return true, nil
}

// ValidateHTTPHeader extracts a bearer token from an HTTP Authorization
// header and delegates to ValidateToken. A missing or malformed header
// yields (false, nil).
func (m *Manager) ValidateHTTPHeader(ctx context.Context, headerProvider func() string, resourceActions []ResourceAction) (bool, error) {
	token, ok := ExtractFromHeader(headerProvider())
	if !ok {
		return false, nil
	}
	return m.ValidateToken(ctx, func() string { return token }, resourceActions)
}

// ValidateWebSocketSubProtocol extracts a bearer token from a WebSocket
// subprotocol string and delegates to ValidateToken. A non-matching or
// blank subprotocol yields (false, nil).
func (m *Manager) ValidateWebSocketSubProtocol(ctx context.Context, subProtocolProvider func() string, resourceActions []ResourceAction) (bool, error) {
	token, ok := ExtractFromSubProtocol(subProtocolProvider())
	if !ok {
		return false, nil
	}
	return m.ValidateToken(ctx, func() string { return token }, resourceActions)
}

// LoginRedirectURL reports whether the caller presented a valid,
// sufficiently-privileged header. If so it returns ("", false, nil). If
// not because of an authentication, authorization, or cluster-transport
// failure, it returns the cluster's OAuth2 authorization URL with
// required=true and a nil error, so callers can uniformly redirect to
// login. Any other validation failure is returned as-is. A failure to
// build that URL is returned as *MissingEnvironmentVariableError when a
// required environment variable is unset, and as *ClusterClientError
// otherwise.
func (m *Manager) LoginRedirectURL(ctx context.Context, headerProvider func() string, resourceActions []ResourceAction) (string, bool, error) {
	valid, err := m.ValidateHTTPHeader(ctx, headerProvider, resourceActions)
	if err == nil && valid {
		return "", false, nil
	}
	if err != nil && !isLoginRequiredError(err) {
		return "", false, err
	}

	url, urlErr := m.discovery.AuthorizationEndpoint(ctx)
	if urlErr != nil {
		return "", false, convertDiscoveryError(urlErr)
	}
	return url, true, nil
}

// Logout revokes the OAuthAccessToken backing the bearer token in an HTTP
// Authorization header and returns the cluster's logout redirect URL.
func (m *Manager) Logout(ctx context.Context, headerProvider func() string) (string, error) {
	token, ok := ExtractFromHeader(headerProvider())
	if !ok {
		return "", &TokenNotFoundError{}
	}

	m.cache.Invalidate(token)
	if err := m.discovery.RevokeToken(ctx, token); err != nil {
		return "", &TokenNotFoundError{}
	}

	return m.discovery.LogoutEndpoint(ctx)
}

func isLoginRequiredError(err error) bool {
	var authErr *AuthorizationError
	var permErr *PermissionDeniedError
	var clusterErr *ClusterClientError
	return errors.As(err, &authErr) || errors.As(err, &permErr) || errors.As(err, &clusterErr)
}

// convertDiscoveryError maps internal/oauthdiscovery's error taxonomy onto
// this package's public one.
func convertDiscoveryError(err error) error {
	var missingEnv *oauthdiscovery.MissingEnvironmentVariableError
	if errors.As(err, &missingEnv) {
		return &MissingEnvironmentVariableError{Name: missingEnv.Name}
	}
	return &ClusterClientError{Cause: err}
}

type realEnvironment struct{}

func (realEnvironment) GetEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}
