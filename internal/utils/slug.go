package utils

import (
	"fmt"

	"github.com/gosimple/slug"
)

// MaxStoreNameLen is the hard cap on store names. Longer names are
// truncated before slugging rather than rejected at this layer; the form
// validator rejects them earlier so truncation only acts as a backstop.
const MaxStoreNameLen = 40

// TruncateName shortens a store name to MaxStoreNameLen runes.
func TruncateName(name string) string {
	runes := []rune(name)
	if len(runes) <= MaxStoreNameLen {
		return name
	}
	return string(runes[:MaxStoreNameLen])
}

// Slugify converts a store name into its URL-safe lowercase hyphenated base
// slug. The name is truncated first so renames past the cap cannot produce
// slugs longer than the column allows. A name with no sluggable characters
// at all ("!!!") falls back to "store" so the page stays reachable; the
// usual numeric disambiguation keeps multiple such stores apart.
func Slugify(name string) string {
	s := slug.Make(TruncateName(name))
	if s == "" {
		s = "store"
	}
	return s
}

// SlugPattern returns the regular expression matching a base slug and all of
// its numeric disambiguations: base, base-2, base-3, ... A trailing bare
// hyphen also matches, mirroring how the suffixes were originally counted.
func SlugPattern(base string) string {
	// Base slugs only contain [a-z0-9-], no escaping needed.
	return "^(" + base + ")(-[0-9]*)?$"
}

// UniqueSlug disambiguates a base slug given the number of existing slugs
// that already match SlugPattern(base). The first store keeps the bare base;
// the Nth one becomes base-N.
func UniqueSlug(base string, existing int) string {
	if existing == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, existing+1)
}
