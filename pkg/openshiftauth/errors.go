// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import "fmt"

// AuthorizationError means the cluster reported a non-blank error on a
// TokenReview, or reported the token as unauthenticated.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	if e.Message == "" {
		return "authentication failed"
	}
	return "authentication failed: " + e.Message
}

// PermissionDeniedError means a specific SelfSubjectAccessReview came back
// with allowed=false.
type PermissionDeniedError struct {
	Namespace     string
	GroupResource string
	Verb          string
	Reason        string
}

func (e *PermissionDeniedError) Error() string {
	msg := fmt.Sprintf("permission denied: cannot %s %s in namespace %s", e.Verb, e.GroupResource, e.Namespace)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// ClusterClientError wraps a transport failure talking to the cluster API.
type ClusterClientError struct {
	Cause error
}

func (e *ClusterClientError) Error() string {
	return fmt.Sprintf("cluster client error: %v", e.Cause)
}

func (e *ClusterClientError) Unwrap() error {
	return e.Cause
}

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

func (e *TokenNotFoundError) Error() string {
	return "token not found"
}

// InvalidArgumentError is a programmer error: an unknown ResourceVerb, or
// some other malformed input that should never occur given valid callers.
type InvalidArgumentError struct {
	Message string
}

func (e *InvalidArgumentError) Error() string {
	return "invalid argument: " + e.Message
}
