// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

// Package metrics exposes the Prometheus instrumentation for the AuthRequest
// telemetry point, replacing the original implementation's JFR event of the
// same name (category "Cryostat", label "AuthRequest").
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	authRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryostat_auth_requests_total",
			Help: "Total number of authentication/authorization requests by outcome.",
		},
		[]string{"successful"},
	)

	authRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryostat_auth_request_duration_seconds",
			Help:    "Duration of authentication/authorization requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"successful"},
	)
)

func init() {
	prometheus.MustRegister(authRequestsTotal, authRequestDuration)
}

// AuthRequest brackets a single cluster API call (a TokenReview or one
// SelfSubjectAccessReview). Call the returned func exactly once when the
// call concludes, passing whether the cluster call returned without error.
func AuthRequest() func(successful bool) {
	start := time.Now()
	return func(successful bool) {
		label := prometheus.Labels{"successful": boolLabel(successful)}
		authRequestsTotal.With(label).Inc()
		authRequestDuration.With(label).Observe(time.Since(start).Seconds())
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
