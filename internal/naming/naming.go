// Package naming resolves output file names from templates and strips the
// marker prefixes that flag scene entities for export.
package naming

import (
	"regexp"
	"strings"
)

// Tokens recognised in name templates, written as $(token).
const (
	TokenFile       = "file"
	TokenCollection = "collection"
	TokenArmature   = "armature"
)

var tokenPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// Resolve replaces every $(token) in template that has an entry in subs.
// Unknown tokens are kept verbatim. Substituted values are not rescanned.
func Resolve(template string, subs map[string]string) string {
	return tokenPattern.ReplaceAllStringFunc(template, func(m string) string {
		key := m[2 : len(m)-1]
		if v, ok := subs[key]; ok {
			return v
		}
		return m
	})
}

// StripPrefix removes every leading repetition of prefix, so stripping an
// already-stripped name is a no-op.
func StripPrefix(name, prefix string) string {
	if prefix == "" {
		return name
	}
	for strings.HasPrefix(name, prefix) {
		name = name[len(prefix):]
	}
	return name
}

// StripExportPrefix removes the export prefix from name.
func StripExportPrefix(name, exportPrefix string) string {
	return StripPrefix(name, exportPrefix)
}

// BaseName strips the export prefix and then the secondary marker prefix.
// marked reports whether the marker was present.
func BaseName(name, exportPrefix, markerPrefix string) (base string, marked bool) {
	base = StripExportPrefix(name, exportPrefix)
	if markerPrefix != "" && strings.HasPrefix(base, markerPrefix) {
		return StripPrefix(base, markerPrefix), true
	}
	return base, false
}
