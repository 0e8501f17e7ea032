// sampleconv
// Licensed under MIT

package kontakt

// iconNames is the fixed 29-entry Kontakt icon table. The full list below reproduces the
// stock Kontakt instrument icon set in UI order.
var iconNames = [29]string{
	"Organ", "Cello", "Drum Kit", "Piano", "Band", "Brass", "Bell", "Bass",
	"Flute", "Guitar", "Mallet", "World", "SFX", "Orchestral", "Church",
	"Ethnic", "Strings", "Pad", "Choir", "Synth", "Clavinet", "Vibraphone",
	"Marimba", "Saxophone", "Violin", "Computer", "Loop", "Voice", "New",
}

// IconName maps a raw icon ID to its display name, or "" if out of range.
func IconName(id uint32) string {
	if int(id) < 0 || int(id) >= len(iconNames) {
		return ""
	}
	return iconNames[id]
}
