// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKubeVerb(t *testing.T) {
	t.Parallel()

	tests := []struct {
		verb ResourceVerb
		want string
	}{
		{CreateVerb, "create"},
		{ReadVerb, "get"},
		{UpdateVerb, "patch"},
		{DeleteVerb, "delete"},
	}

	for _, test := range tests {
		got, err := kubeVerb(test.verb)
		require.NoError(t, err)
		require.Equal(t, test.want, got)
	}
}

func TestKubeVerbUnknown(t *testing.T) {
	t.Parallel()

	_, err := kubeVerb(ResourceVerb("BOGUS"))
	require.Error(t, err)
	require.IsType(t, &InvalidArgumentError{}, err)
}
