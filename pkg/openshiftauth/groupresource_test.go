// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGroupResourceRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []string{
		"pods",
		"flightrecorders.operator.cryostat.io",
		"flightrecorders.operator.cryostat.io/status",
		"pods/log",
	}

	for _, raw := range tests {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()
			gr, err := ParseGroupResource(raw)
			require.NoError(t, err)
			require.Equal(t, raw, gr.String())
		})
	}
}

func TestParseGroupResourceFields(t *testing.T) {
	t.Parallel()

	gr, err := ParseGroupResource("flightrecorders.operator.cryostat.io/status")
	require.NoError(t, err)
	require.Equal(t, "flightrecorders", gr.Resource)
	require.Equal(t, "operator.cryostat.io", gr.Group)
	require.Equal(t, "status", gr.SubResource)
}

func TestParseGroupResourceInvalid(t *testing.T) {
	t.Parallel()

	_, err := ParseGroupResource("")
	require.Error(t, err)
}
