// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	authenticationv1 "k8s.io/api/authentication/v1"
	"k8s.io/apimachinery/pkg/runtime"
	kubernetesfake "k8s.io/client-go/kubernetes/fake"
	kubetesting "k8s.io/client-go/testing"
)

func TestTokenReviewerReviewToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		reactor      func(kubetesting.Action) (bool, runtime.Object, error)
		wantUsername string
		wantErrType  interface{}
	}{
		{
			name: "authenticated",
			reactor: func(kubetesting.Action) (bool, runtime.Object, error) {
				return true, &authenticationv1.TokenReview{
					Status: authenticationv1.TokenReviewStatus{
						Authenticated: true,
						User:          authenticationv1.UserInfo{Username: "some-user"},
					},
				}, nil
			},
			wantUsername: "some-user",
		},
		{
			name: "unauthenticated",
			reactor: func(kubetesting.Action) (bool, runtime.Object, error) {
				return true, &authenticationv1.TokenReview{
					Status: authenticationv1.TokenReviewStatus{Authenticated: false},
				}, nil
			},
			wantErrType: &AuthorizationError{},
		},
		{
			name: "status error",
			reactor: func(kubetesting.Action) (bool, runtime.Object, error) {
				return true, &authenticationv1.TokenReview{
					Status: authenticationv1.TokenReviewStatus{Error: "webhook unreachable"},
				}, nil
			},
			wantErrType: &AuthorizationError{},
		},
		{
			name: "transport failure",
			reactor: func(kubetesting.Action) (bool, runtime.Object, error) {
				return true, nil, errors.New("connection refused")
			},
			wantErrType: &ClusterClientError{},
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			clientset := kubernetesfake.NewSimpleClientset()
			clientset.PrependReactor("create", "tokenreviews", test.reactor)

			reviewer := &TokenReviewer{ServiceAccountClient: clientset}
			info, err := reviewer.ReviewToken(context.Background(), "some-token")

			if test.wantErrType == nil {
				require.NoError(t, err)
				require.Equal(t, test.wantUsername, info.Username)
				return
			}
			require.Error(t, err)
			require.IsType(t, test.wantErrType, err)
		})
	}
}
