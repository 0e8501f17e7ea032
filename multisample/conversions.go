// sampleconv
// Licensed under MIT

package multisample

import "math"

// ValueToDB converts a linear gain multiplier to decibels, clamped at
// -95.25 dB for non-positive input.
func ValueToDB(linear float64) float64 {
	if linear <= 0 {
		return -95.25
	}
	db := 20 * math.Log10(linear)
	if db < -95.25 {
		return -95.25
	}
	return db
}

// DBToValue is the inverse of ValueToDB.
func DBToValue(db float64) float64 {
	return math.Pow(10, db/20)
}

// CentsFromFine converts Kontakt's "fine tune" representation (0..127,
// centered at 64) into cents.
func CentsFromFine(x float64) float64 {
	return (x - 64) * (100.0 / 64.0)
}

// FineFromCents is the inverse of CentsFromFine.
func FineFromCents(cents float64) float64 {
	return cents*(64.0/100.0) + 64
}

// TuneCombine combines a zone's, group's and program's multiplicative tune
// factors into a single semitone offset, rounded to 1e-5 semitones. Kontakt
// stores tune multiplicatively as 2^(st/12); this function is the inverse,
// producing log-space semitones from the product of the three linear
// factors.
func TuneCombine(zoneTune, groupTune, programTune float64) float64 {
	product := zoneTune * groupTune * programTune
	st := 12 * math.Log2(product)
	const scale = 1e5
	return math.Round(st*scale) / scale
}

// YSFCLevelToDB converts a YSFC version-2 stored level (1..255) to
// decibels: dB = -95.25 + (level-1)*0.375 for level >= 1, else -inf.
// Clamped to [-95.25, 0] dB on the inverse.
func YSFCLevelToDB(level int) float64 {
	if level < 1 {
		return math.Inf(-1)
	}
	db := -95.25 + float64(level-1)*0.375
	if db > 0 {
		db = 0
	}
	return db
}

// YSFCDBToLevel is the inverse of YSFCLevelToDB, clamped to [-95.25, 0] dB
// before conversion and rounded to the nearest integer level.
func YSFCDBToLevel(db float64) int {
	if db < -95.25 {
		db = -95.25
	}
	if db > 0 {
		db = 0
	}
	level := int(math.Round((db+95.25)/0.375)) + 1
	if level < 1 {
		level = 1
	}
	if level > 255 {
		level = 255
	}
	return level
}

// YSFCCentsFromFine converts a YSFC stored fine-tune byte (0..127) to
// cents: (stored-64)*1.5625.
func YSFCCentsFromFine(stored int) float64 {
	return float64(stored-64) * 1.5625
}

// YSFCFineFromCents is the inverse of YSFCCentsFromFine, rounded and
// clamped to [0, 127].
func YSFCFineFromCents(cents float64) int {
	stored := int(math.Round(cents/1.5625)) + 64
	if stored < 0 {
		stored = 0
	}
	if stored > 127 {
		stored = 127
	}
	return stored
}

// YSFCPanFromStored converts a YSFC stored pan byte (1..127, centered at 64)
// to a normalised pan in [-1, 1].
func YSFCPanFromStored(stored int) float64 {
	if stored > 64 {
		return float64(stored-64) / 63.0
	}
	return float64(stored-64) / 64.0
}

// YSFCStoredFromPan is the inverse of YSFCPanFromStored, clamped to [1, 127].
func YSFCStoredFromPan(pan float64) int {
	var stored int
	if pan > 0 {
		stored = int(math.Round(pan*63.0)) + 64
	} else {
		stored = int(math.Round(pan*64.0)) + 64
	}
	if stored < 1 {
		stored = 1
	}
	if stored > 127 {
		stored = 127
	}
	return stored
}
