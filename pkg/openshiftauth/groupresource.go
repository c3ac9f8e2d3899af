// Copyright 2026 the cryostat authors.
// SPDX-License-Identifier: Apache-2.0

package openshiftauth

import (
	"fmt"
	"regexp"
	"strings"
)

// groupResourcePattern matches the canonical "resource[.group][/subResource]"
// form: group 1 is the resource, group 2 (with its leading '.') is the
// optional group, group 3 is the optional subresource.
var groupResourcePattern = regexp.MustCompile(`(?i)^([\w]+)([.\w]+)?(?:/([\w]+))?$`)

// GroupResource is a concrete Kubernetes (group, resource, subresource)
// triple. The zero value has every field empty, which is the correct
// "absent" representation for all three components.
type GroupResource struct {
	Group       string
	Resource    string
	SubResource string
}

// String renders the canonical "resource[.group][/subResource]" form.
func (g GroupResource) String() string {
	var b strings.Builder
	b.WriteString(g.Resource)
	if g.Group != "" {
		b.WriteByte('.')
		b.WriteString(g.Group)
	}
	if g.SubResource != "" {
		b.WriteByte('/')
		b.WriteString(g.SubResource)
	}
	return b.String()
}

// ParseGroupResource parses the canonical string form produced by String.
func ParseGroupResource(raw string) (GroupResource, error) {
	m := groupResourcePattern.FindStringSubmatch(raw)
	if m == nil {
		return GroupResource{}, fmt.Errorf("%q is not a valid group/resource/subresource string", raw)
	}
	group := m[2]
	if group != "" {
		group = group[1:] // drop the leading '.' captured by the regex
	}
	return GroupResource{
		Resource:    m[1],
		Group:       group,
		SubResource: m[3],
	}, nil
}
