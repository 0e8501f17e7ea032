// sampleconv
// Licensed under MIT

package kontakt

import _ "embed"

// nki5Template is the canonical empty Kontakt 6.8.0-era preset (PROGRAM
// chunk version 0xAE) that NewEmptyNKI5 starts from. Writing from scratch
// goes through the same decode-mutate-reencode path as re-saving a real
// file, so the template's private data, version-dependent program tail, and
// sibling QUICK_BROWSE/SAVE_SETTINGS/SOUNDINFO bytes survive verbatim into
// the output.
//
//go:embed template.nki
var nki5Template []byte
