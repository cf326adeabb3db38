/*
Package classify maps catalog items onto the storefront's category buckets.

Three pure functions are exposed, each with a fixed precedence order:

  - Display picks the canonical category shown on cards and in listing metadata.
  - Primary picks the filter tab an item appears under. It never returns an
    unknown bucket; anything unrecognized lands in CSE.
  - CseSubCategory picks the CSE track (DL, ANDROID, ML, WEB or OTHER) from
    keyword rules evaluated first-match-wins.
*/
package classify

import (
	"strings"
	"unicode"

	"github.com/bastiangx/catalogserve/pkg/catalog"
)

// Canonical categories.
const (
	CSE     = "CSE"
	EEE     = "EEE"
	ECE     = "ECE"
	MECH    = "MECH"
	MATLAB  = "MATLAB"
	GENERAL = "GENERAL"
)

// Primaries lists every bucket Primary can return.
var Primaries = []string{CSE, EEE, ECE, MECH, MATLAB}

func normalizeCategory(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

func oneOf(v string, set ...string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}

// HasMatlabTag reports whether any tag, lowercased with all whitespace
// removed, contains "matlab". "MATLAB/Simulink" and "Mat Lab" both count.
func HasMatlabTag(it *catalog.Item) bool {
	for _, tag := range it.Tags {
		squashed := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, strings.ToLower(tag))
		if strings.Contains(squashed, "matlab") {
			return true
		}
	}
	return false
}

// Display returns the canonical category. A MATLAB override or tag wins over
// everything, then the source override, then the raw category, else GENERAL.
func Display(it *catalog.Item) string {
	source := normalizeCategory(it.SourceCategory)
	if source == MATLAB || HasMatlabTag(it) {
		return MATLAB
	}
	if oneOf(source, CSE, EEE, ECE, MECH) {
		return source
	}

	raw := normalizeCategory(it.Category)
	if oneOf(raw, CSE, EEE, ECE, MECH, MATLAB) {
		return raw
	}
	return GENERAL
}

// Primary returns the filter bucket for it. GENERAL and anything unknown
// fall back to CSE so every item is reachable from some tab.
func Primary(it *catalog.Item) string {
	source := normalizeCategory(it.SourceCategory)
	if source == MATLAB || HasMatlabTag(it) {
		return MATLAB
	}
	if oneOf(source, EEE, ECE, MECH) {
		return source
	}
	if source == CSE {
		return CSE
	}

	switch canonical := Display(it); canonical {
	case MATLAB, EEE, ECE, MECH:
		return canonical
	}
	return CSE
}

// IsPrimary reports whether v is a bucket Primary can return.
func IsPrimary(v string) bool {
	return oneOf(v, Primaries...)
}
