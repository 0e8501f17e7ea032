// sampleconv
// Licensed under MIT

package ysfc

import "strings"

// mainCategories maps a bit position in the main-category bitmask to its
// name: bit 0x0001 = Piano ... bit 0x8000 = Ethnic.
var mainCategories = [16]string{
	"Piano", "Keyboard", "Organ", "Guitar", "Bass", "Strings",
	"Brass", "Woodwind", "SynLead", "Pad/Choir", "SynComp",
	"ChromaticPerc", "Drum/Perc", "SoundFX", "MusicalFX", "Ethnic",
}

// MainCategoryName resolves a main-category bitmask: the lowest set bit
// wins. Returns the name and the bit index, or ("", -1)
// for an empty mask.
func MainCategoryName(mask uint16) (string, int) {
	for i := 0; i < 16; i++ {
		if mask&(1<<i) != 0 {
			return mainCategories[i], i
		}
	}
	return "", -1
}

// MainCategoryMask is the inverse of MainCategoryName: one set bit for the
// given category index.
func MainCategoryMask(index int) uint16 {
	if index < 0 || index > 15 {
		return 0
	}
	return 1 << index
}

// MainCategoryIndex matches a free-form category name (typically from
// multisample metadata) against the table, tolerating partial matches such
// as "Drum" for "Drum/Perc". Returns -1 when nothing matches.
func MainCategoryIndex(name string) int {
	if name == "" {
		return -1
	}
	lower := strings.ToLower(name)
	for i, cat := range mainCategories {
		if strings.EqualFold(cat, name) {
			return i
		}
		if strings.Contains(strings.ToLower(cat), lower) || strings.Contains(lower, strings.ToLower(cat)) {
			return i
		}
	}
	return -1
}

// subCategories names the sub-category slots inside each main category's
// 16-value block. Slots not listed here fall back to the main category name;
// slot 8 of every block (values 8, 24, 40, ... 248) and value 256 are
// "No Assign".
var subCategories = map[int]string{
	0*16 + 0: "Acoustic", 0*16 + 1: "Layer", 0*16 + 2: "Modern", 0*16 + 3: "Vintage",
	1*16 + 0: "Electric Piano", 1*16 + 1: "FM Piano", 1*16 + 2: "Clavi", 1*16 + 3: "Synth",
	2*16 + 0: "Tone Wheel", 2*16 + 1: "Combo", 2*16 + 2: "Pipe", 2*16 + 3: "Synth",
	3*16 + 0: "Acoustic", 3*16 + 1: "Electric Clean", 3*16 + 2: "Electric Distortion", 3*16 + 3: "Muted",
	4*16 + 0: "Acoustic", 4*16 + 1: "Electric", 4*16 + 2: "Synth", 4*16 + 3: "Slap",
	5*16 + 0: "Solo", 5*16 + 1: "Ensemble", 5*16 + 2: "Pizzicato", 5*16 + 3: "Synth",
	6*16 + 0: "Solo", 6*16 + 1: "Ensemble", 6*16 + 2: "Orchestral", 6*16 + 3: "Synth",
	7*16 + 0: "Saxophone", 7*16 + 1: "Flute", 7*16 + 2: "Clarinet", 7*16 + 3: "Oboe", 7*16 + 4: "Reed",
	8*16 + 0: "Analog", 8*16 + 1: "Digital", 8*16 + 2: "Hip Hop", 8*16 + 3: "Dance",
	9*16 + 0: "Analog", 9*16 + 1: "Warm", 9*16 + 2: "Bright", 9*16 + 3: "Choir",
	10*16 + 0: "Analog", 10*16 + 1: "Digital", 10*16 + 2: "Decay", 10*16 + 3: "Hook",
	11*16 + 0: "Mallet", 11*16 + 1: "Bell", 11*16 + 2: "Synth Bell", 11*16 + 3: "Pitched Drum",
	12*16 + 0: "Drums", 12*16 + 1: "Percussion", 12*16 + 2: "Synth", 12*16 + 3: "Electronic",
	13*16 + 0: "Moving", 13*16 + 1: "Ambient", 13*16 + 2: "Nature", 13*16 + 3: "Sci-Fi",
	14*16 + 0: "Moving", 14*16 + 1: "Ambient", 14*16 + 2: "Sweep", 14*16 + 3: "Hit",
	15*16 + 0: "Bowed", 15*16 + 1: "Plucked", 15*16 + 2: "Struck", 15*16 + 3: "Blown",
}

// SubCategoryName resolves a dense sub-category value.
func SubCategoryName(value int) string {
	if value < 0 || value > 256 {
		return "No Assign"
	}
	if value == 256 || value%16 == 8 {
		return "No Assign"
	}
	if name, ok := subCategories[value]; ok {
		return name
	}
	if block := value / 16; block < 16 {
		return mainCategories[block]
	}
	return "No Assign"
}
