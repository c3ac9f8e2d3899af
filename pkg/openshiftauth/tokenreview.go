// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"context"

	"github.com/pkg/errors"
	authenticationv1 "k8s.io/api/authentication/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"go.cryostat.dev/openshift-auth/internal/metrics"
	"go.cryostat.dev/openshift-auth/internal/plog"
)

// TokenReviewer authenticates bearer tokens against a cluster's
// TokenReview API. It never needs a per-user client: TokenReview is
// submitted as the service account, carrying the candidate token in the
// request body rather than as the caller's own credential.
type TokenReviewer struct {
	// ServiceAccountClient is the cluster client this process authenticates
	// as. It must be able to create TokenReview objects.
	ServiceAccountClient kubernetes.Interface
}

// ReviewToken submits token to the cluster's TokenReview API and returns
// the identity the cluster resolved it to. A cluster-reported review error,
// or an explicit Authenticated=false verdict, is reported as
// *AuthorizationError; a transport failure is reported as
// *ClusterClientError.
func (r *TokenReviewer) ReviewToken(ctx context.Context, token string) (UserInfo, error) {
	done := metrics.AuthRequest()
	success := false
	defer func() { done(success) }()

	review, err := r.ServiceAccountClient.AuthenticationV1().TokenReviews().Create(
		ctx,
		&authenticationv1.TokenReview{
			Spec: authenticationv1.TokenReviewSpec{
				Token: token,
			},
		},
		metav1.CreateOptions{},
	)
	if err != nil {
		plog.Error("token review request failed", err)
		return UserInfo{}, &ClusterClientError{Cause: errors.Wrap(err, "token review request failed")}
	}
	success = true

	if review.Status.Error != "" {
		return UserInfo{}, &AuthorizationError{Message: review.Status.Error}
	}
	if !review.Status.Authenticated {
		return UserInfo{}, &AuthorizationError{}
	}

	return UserInfo{Username: review.Status.User.Username}, nil
}
