// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	authorizationv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"go.cryostat.dev/openshift-auth/internal/metrics"
	"go.cryostat.dev/openshift-auth/internal/plog"
)

// accessReviewTimeout bounds the whole fan-out for one ValidateToken call,
// mirroring the 15 second ceiling the original implementation placed on its
// CompletableFuture.allOf(...).get(15, TimeUnit.SECONDS).
const accessReviewTimeout = 15 * time.Second

// AccessReviewer translates ResourceActions into SelfSubjectAccessReview
// probes run as a specific end user, using the ResourceMap to expand each
// abstract ResourceType into the concrete GroupResources that gate it.
type AccessReviewer struct {
	Resources ResourceMap
}

// ValidateActions submits one SelfSubjectAccessReview per (action,
// GroupResource) pair the ResourceMap maps action.Resource to, against
// client, scoped to namespace. It returns nil only if every probe came back
// allowed. The first denial or transport failure cancels every other
// in-flight probe and is returned; ResourceTypes with no ResourceMap entry
// contribute no probes (open by omission, per policy).
func (a *AccessReviewer) ValidateActions(ctx context.Context, client kubernetes.Interface, namespace string, actions []ResourceAction) error {
	ctx, cancel := context.WithTimeout(ctx, accessReviewTimeout)
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)

	for _, action := range actions {
		verb, err := kubeVerb(action.Verb)
		if err != nil {
			return err
		}
		for _, resource := range a.Resources.Resources(action.Resource) {
			resource := resource
			verb := verb
			group.Go(func() error {
				return a.validateOne(ctx, client, namespace, resource, verb)
			})
		}
	}

	return group.Wait()
}

func (a *AccessReviewer) validateOne(ctx context.Context, client kubernetes.Interface, namespace string, resource GroupResource, verb string) error {
	done := metrics.AuthRequest()
	success := false
	defer func() { done(success) }()

	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Namespace:   namespace,
				Group:       resource.Group,
				Resource:    resource.Resource,
				Subresource: resource.SubResource,
				Verb:        verb,
			},
		},
	}

	result, err := client.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		plog.Info("self subject access review request failed", "resource", resource.String(), "verb", verb, "error", err.Error())
		return &ClusterClientError{Cause: errors.Wrap(err, "self subject access review request failed")}
	}
	success = true

	if !result.Status.Allowed {
		return &PermissionDeniedError{
			Namespace:     namespace,
			GroupResource: resource.String(),
			Verb:          verb,
			Reason:        result.Status.Reason,
		}
	}

	return nil
}
