// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

// Package openshiftauth implements an authentication and authorization
// manager that gates access to a service running inside an OpenShift
// cluster. It validates bearer tokens against the cluster's TokenReview
// API, translates an abstract resource/verb permission vocabulary into
// SelfSubjectAccessReview probes, drives the OAuth2 login/logout redirect
// flow, and caches per-user cluster clients.
//
// The manager never issues tokens, never stores long-lived credentials,
// and never verifies a token's signature offline: every authentication
// decision is delegated to the cluster API.
package openshiftauth
