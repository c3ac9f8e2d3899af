// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"bufio"
	"os"
	"strings"

	"sigs.k8s.io/yaml"

	"go.cryostat.dev/openshift-auth/internal/plog"
)

// ResourceMapSource yields the raw ResourceType-name -> comma-separated
// GroupResource-string configuration that backs a ResourceMap. It stands in
// for the original implementation's ClassPropertiesLoader.
type ResourceMapSource interface {
	Load() (map[string]string, error)
}

// YAMLResourceMapSource loads a flat string/string mapping from a YAML (or
// JSON, which is a YAML subset) file, the way the teacher's
// internal/config/concierge package loads its server configuration.
type YAMLResourceMapSource struct {
	Path string
}

func (s YAMLResourceMapSource) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	m := map[string]string{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// PropertiesResourceMapSource loads a flat string/string mapping from a
// Java-".properties"-flavored "key=value" text file, for parity with the
// original ClassPropertiesLoader this package replaces.
type PropertiesResourceMapSource struct {
	Path string
}

func (s PropertiesResourceMapSource) Load() (map[string]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ResourceMap is an immutable ResourceType -> set<GroupResource> mapping.
// The zero value is an empty, usable map (every lookup grants, per policy).
type ResourceMap struct {
	resources map[ResourceType]map[GroupResource]struct{}
}

// Resources returns the GroupResource set mapped to the given ResourceType,
// or nil if the type has no mapping entries. A nil/empty result is, by
// policy, treated as "ungated" by the access review fan-out (§4.3).
func (m ResourceMap) Resources(rt ResourceType) []GroupResource {
	set := m.resources[rt]
	if len(set) == 0 {
		return nil
	}
	out := make([]GroupResource, 0, len(set))
	for gr := range set {
		out = append(out, gr)
	}
	return out
}

// NewResourceMap builds a ResourceMap from a ResourceMapSource. Construction
// never fails: unrecognized ResourceType keys and malformed GroupResource
// values are logged and dropped, and the best-effort map is returned
// regardless.
func NewResourceMap(source ResourceMapSource) ResourceMap {
	rm := ResourceMap{resources: map[ResourceType]map[GroupResource]struct{}{}}

	raw, err := source.Load()
	if err != nil {
		plog.Error("failed to load resource map configuration", err)
		return rm
	}

	for key, value := range raw {
		rt := ResourceType(strings.ToUpper(strings.TrimSpace(key)))
		if !isKnownResourceType(rt) {
			plog.Warning("ignoring unrecognized resource type in resource map configuration", "key", key)
			continue
		}

		set := map[GroupResource]struct{}{}
		for _, piece := range strings.Split(value, ",") {
			piece = strings.TrimSpace(piece)
			if piece == "" {
				continue
			}
			gr, err := ParseGroupResource(piece)
			if err != nil {
				plog.Warning("ignoring malformed group/resource entry in resource map configuration", "resourceType", key, "value", piece, "error", err.Error())
				continue
			}
			set[gr] = struct{}{}
		}
		rm.resources[rt] = set
	}

	return rm
}

func isKnownResourceType(rt ResourceType) bool {
	switch rt {
	case TargetResource, RecordingResource, CertificateResource, CredentialsResource,
		CredentialsRuleResource, ProbeTemplateResource, TemplateResource, RuleResource, ReportResource:
		return true
	default:
		return false
	}
}
