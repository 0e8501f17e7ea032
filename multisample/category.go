// sampleconv
// Licensed under MIT

package multisample

import "strings"

// knownCategories is consulted by InferCategory when no explicit category
// metadata is present; path parts are matched case-insensitively against
// this list, in order, and the first match wins. This mirrors the YSFC main
// category table collapsed to plain strings so a Kontakt
// source (which has no equivalent bitmask) can still produce something
// useful for a YSFC destination.
var knownCategories = []string{
	"Piano", "Keyboard", "Organ", "Guitar", "Bass", "Strings", "Brass",
	"Woodwind", "SynLead", "Pad", "Choir", "SynComp", "ChromaticPerc",
	"Drum", "Perc", "SoundFX", "MusicalFX", "Ethnic",
}

// InferCategory derives a category from the MultiSample's path parts when
// no explicit category metadata was set by the source decoder. Returns ""
// if nothing matches.
func (m *MultiSample) InferCategory() string {
	if m.Metadata.Category != "" {
		return m.Metadata.Category
	}
	for _, part := range m.PathParts {
		for _, cat := range knownCategories {
			if strings.EqualFold(part, cat) || strings.Contains(strings.ToLower(part), strings.ToLower(cat)) {
				return cat
			}
		}
	}
	return ""
}
