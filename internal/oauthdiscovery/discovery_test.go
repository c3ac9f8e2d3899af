// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package oauthdiscovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	kubetesting "k8s.io/client-go/testing"

	oauthv1 "github.com/openshift/api/oauth/v1"
	oauthfake "github.com/openshift/client-go/oauth/clientset/versioned/fake"
)

type mapEnv map[string]string

func (e mapEnv) GetEnv(name string) (string, bool) {
	v, ok := e[name]
	return v, ok
}

func fixedNamespace(ns string) func() (string, error) {
	return func() (string, error) { return ns, nil }
}

func TestDiscoveryAuthorizationEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/oauth-authorization-server", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issuer":"https://oauth.example.com","authorization_endpoint":"https://oauth.example.com/authorize"}`))
	}))
	defer server.Close()

	d := &Discovery{
		HTTPClient: server.Client(),
		MasterURL:  server.URL,
		Env:        mapEnv{clientIDEnvVar: "cryostat", roleEnvVar: "cryostat-operator"},
		Namespace:  fixedNamespace("cryostat-ns"),
	}

	endpoint, err := d.AuthorizationEndpoint(context.Background())
	require.NoError(t, err)
	require.Contains(t, endpoint, "https://oauth.example.com/authorize?")
	require.Contains(t, endpoint, "client_id=system%3Aserviceaccount%3Acryostat-ns%3Acryostat")
	require.Contains(t, endpoint, "response_type=token")
	require.Contains(t, endpoint, "response_mode=fragment")
}

func TestDiscoveryAuthorizationEndpointMissingEnvVar(t *testing.T) {
	t.Parallel()

	d := &Discovery{
		Env:       mapEnv{},
		Namespace: fixedNamespace("cryostat-ns"),
	}

	_, err := d.AuthorizationEndpoint(context.Background())
	require.Error(t, err)
	require.IsType(t, &MissingEnvironmentVariableError{}, err)
}

func TestDiscoveryLogoutEndpoint(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"issuer":"https://oauth.example.com","authorization_endpoint":"https://oauth.example.com/authorize"}`))
	}))
	defer server.Close()

	d := &Discovery{HTTPClient: server.Client(), MasterURL: server.URL}

	endpoint, err := d.LogoutEndpoint(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://oauth.example.com/logout", endpoint)
}

func TestAccessTokenName(t *testing.T) {
	t.Parallel()

	name := AccessTokenName("sha256~abc")
	require.True(t, len(name) > len("sha256~"))
	require.Equal(t, name, AccessTokenName("abc"))
}

func TestDiscoveryRevokeToken(t *testing.T) {
	t.Parallel()

	t.Run("found", func(t *testing.T) {
		t.Parallel()
		clientset := oauthfake.NewSimpleClientset(&oauthv1.OAuthAccessToken{
			ObjectMeta: metav1.ObjectMeta{Name: AccessTokenName("sha256~abc")},
		})
		d := &Discovery{OAuthTokens: clientset.OauthV1().OAuthAccessTokens()}
		err := d.RevokeToken(context.Background(), "sha256~abc")
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		clientset := oauthfake.NewSimpleClientset()
		clientset.PrependReactor("delete", "oauthaccesstokens", func(kubetesting.Action) (bool, runtime.Object, error) {
			return true, nil, apierrors.NewNotFound(schema.GroupResource{Group: "oauth.openshift.io", Resource: "oauthaccesstokens"}, "missing")
		})
		d := &Discovery{OAuthTokens: clientset.OauthV1().OAuthAccessTokens()}
		err := d.RevokeToken(context.Background(), "sha256~abc")
		require.Error(t, err)
		require.IsType(t, &TokenNotFoundError{}, err)
	})
}
