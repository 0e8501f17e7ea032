// sampleconv
// Licensed under MIT

package kontakt

import "strconv"

// Version is a Kontakt 2-era version triplet: "{major}.{release}.{minor}"
// with ".{patch}" appended, or "?" when the patch byte reads as the
// placeholder 0xFF.
type Version struct {
	Major, Release, Minor int
	// Patch is -1 until resolved (placeholder).
	Patch int
}

// parseVersionTriplet decodes the 4-byte [patch, minor, release, major]
// wire order into a Version.
func parseVersionTriplet(b [4]byte) Version {
	v := Version{
		Major:   int(b[3]),
		Release: int(b[2]),
		Minor:   int(b[1]),
		Patch:   -1,
	}
	if b[0] != 0xFF {
		v.Patch = int(b[0])
	}
	return v
}

func (v Version) String() string {
	patch := "?"
	if v.Patch >= 0 {
		patch = strconv.Itoa(v.Patch)
	}
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Release) + "." + strconv.Itoa(v.Minor) + "." + patch
}

// IsUnsupported42 reports whether v is the specifically-unsupported Kontakt
// 4.2 release: "4.x" where x is neither 0 ("4.0") nor 1 ("4.1").
func (v Version) IsUnsupported42() bool {
	if v.Major != 4 {
		return false
	}
	return v.Release != 0 && v.Release != 1
}
