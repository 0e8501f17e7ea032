// sampleconv
// Licensed under MIT

package multisample

import (
	"fmt"

	"github.com/mukunda-go/sampleconv/codecerr"
)

// Validate checks the structural invariants of the model and returns the
// first violation found as a codecerr.InvalidModel carrying the entity
// path. The Kontakt and YSFC encoders call it before writing, so a
// caller-edited model that breaks an invariant fails fast rather than
// producing a corrupt file. The NKI 5 decoder calls it and only logs a
// violation; the YSFC decoder does not call it.
func (m *MultiSample) Validate() error {
	if m.Name == "" {
		return invalid("", "name must be non-empty")
	}
	for gi, g := range m.Groups {
		if err := g.validate(fmt.Sprintf("group %d (%s)", gi, g.Name)); err != nil {
			return err
		}
	}
	return nil
}

func invalid(path, reason string) error {
	return &codecerr.InvalidModel{Path: path, Verb: "validate multisample", Reason: reason}
}

func (g *Group) validate(path string) error {
	for zi, z := range g.Zones {
		if err := z.validate(fmt.Sprintf("%s/zone %d (%s)", path, zi, z.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (z *SampleZone) validate(path string) error {
	if !(0 <= z.KeyLow && z.KeyLow <= z.KeyHigh && z.KeyHigh <= 127) {
		return invalid(path, fmt.Sprintf("key range [%d, %d] out of bounds", z.KeyLow, z.KeyHigh))
	}
	if !(0 <= z.VelLow && z.VelLow <= z.VelHigh && z.VelHigh <= 127) {
		return invalid(path, fmt.Sprintf("velocity range [%d, %d] out of bounds", z.VelLow, z.VelHigh))
	}
	if !(0 <= z.RootKey && z.RootKey <= 127) {
		return invalid(path, fmt.Sprintf("root key %d out of bounds", z.RootKey))
	}
	if z.Data != nil && z.Stop > z.Data.Meta.FrameCount {
		return invalid(path, fmt.Sprintf("zone stop %d exceeds sample length %d", z.Stop, z.Data.Meta.FrameCount))
	}
	if z.Start > z.Stop {
		return invalid(path, fmt.Sprintf("zone start %d exceeds stop %d", z.Start, z.Stop))
	}
	for li, loop := range z.Loops {
		if err := loop.validate(fmt.Sprintf("%s/loop %d", path, li), z.Stop); err != nil {
			return err
		}
	}
	return nil
}

func (l *SampleLoop) validate(path string, sampleLength int) error {
	if !(0 <= l.Start && l.Start < l.End) {
		return invalid(path, fmt.Sprintf("loop range [%d, %d) invalid", l.Start, l.End))
	}
	if sampleLength > 0 && l.End > sampleLength {
		return invalid(path, fmt.Sprintf("loop end %d exceeds sample length %d", l.End, sampleLength))
	}
	if l.Crossfade > l.End-l.Start {
		return invalid(path, fmt.Sprintf("loop crossfade %d exceeds loop length %d", l.Crossfade, l.End-l.Start))
	}
	return nil
}
