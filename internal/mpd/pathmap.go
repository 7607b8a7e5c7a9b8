package mpd

import (
	"net/url"
	"strings"
)

// PathMapper translates between externally-exposed source labels and the
// backend's internal URI paths, in both directions. Matching is
// first-match-in-iteration-order prefix matching; callers should avoid
// configuring sources whose labels overlap as prefixes of one another.
type PathMapper struct {
	sources []Source
}

// NewPathMapper builds a mapper over the given sources, in the order they
// should be tried.
func NewPathMapper(sources []Source) *PathMapper {
	return &PathMapper{sources: sources}
}

// ToInternal finds the first source whose label is a prefix of external
// and returns internal_base + remaining_suffix. Returns ok=false if no
// source matches.
func (m *PathMapper) ToInternal(external string) (string, bool) {
	for _, s := range m.sources {
		if strings.HasPrefix(external, s.Label) {
			return s.Internal + strings.TrimPrefix(external, s.Label), true
		}
	}
	return "", false
}

// ToExternal is the symmetric lookup: first source whose internal URI is
// a prefix of internal.
func (m *PathMapper) ToExternal(internal string) (string, bool) {
	for _, s := range m.sources {
		if strings.HasPrefix(internal, s.Internal) {
			return s.Label + strings.TrimPrefix(internal, s.Internal), true
		}
	}
	return "", false
}

// Sources returns the configured source list, e.g. for listing the
// external top-level directories.
func (m *PathMapper) Sources() []Source {
	return m.sources
}

// externalPathFromURI extracts the label-relative path component from a
// URI already resolved against file:///, rejecting anything that isn't a
// file:// reference. The leading slash is stripped so the result lines up
// with Source.Label.
func externalPathFromURI(raw string) (string, *CmdError) {
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", errInvalidArgument("Malformed URI")
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return "", errNoExist("Unsupported URI scheme")
	}
	return strings.TrimPrefix(u.Path, "/"), nil
}
