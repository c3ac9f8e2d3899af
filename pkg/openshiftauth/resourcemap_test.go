// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errResourceMapLoadFailed = errors.New("resource map load failed")

func TestNewResourceMap(t *testing.T) {
	t.Parallel()

	rm := NewResourceMap(staticResourceMapSource{
		"TARGET":    "pods, pods/log",
		"RECORDING": "flightrecorders.operator.cryostat.io",
		"BOGUS":     "pods",
	})

	targetResources := rm.Resources(TargetResource)
	require.Len(t, targetResources, 2)

	recordingResources := rm.Resources(RecordingResource)
	require.Len(t, recordingResources, 1)
	require.Equal(t, "flightrecorders.operator.cryostat.io", recordingResources[0].String())

	require.Nil(t, rm.Resources(CertificateResource))
}

func TestNewResourceMapIgnoresMalformedEntries(t *testing.T) {
	t.Parallel()

	rm := NewResourceMap(staticResourceMapSource{
		"TARGET": "pods, , !!!not-valid!!!",
	})

	require.Len(t, rm.Resources(TargetResource), 1)
}

type erroringResourceMapSource struct{}

func (erroringResourceMapSource) Load() (map[string]string, error) {
	return nil, errResourceMapLoadFailed
}

func TestNewResourceMapSourceLoadFailureYieldsEmptyMap(t *testing.T) {
	t.Parallel()

	rm := NewResourceMap(erroringResourceMapSource{})
	require.Nil(t, rm.Resources(TargetResource))
}
