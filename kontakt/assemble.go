// sampleconv
// Licensed under MIT

package kontakt

import (
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// tuneLinear converts a Kontakt wire "tune" field (stored multiplicatively
// as 2^(st/12)) back to the linear factor TuneCombine expects.
func tuneLinear(wireTune float32) float64 {
	return float64(wireTune)
}

// Assemble converts a decoded Program (with its Groups and Zones already
// populated by DecodeProgram/DecodeGroup/DecodeZone) into the shared
// multisample model. This is the point where the wire's per-level volume
// and tune factors are multiplied and its pan values summed, and where Loop
// records become multisample.SampleLoop and a group's modulators yield a
// multisample.Filter. InternalModulator envelopes are not copied into
// SampleZone.Envelope.
func Assemble(p *Program, filenames []string, n notifier.Notifier) *multisample.MultiSample {
	ms := &multisample.MultiSample{Name: p.Name}
	if p.Author != "" {
		ms.Metadata.Creator = p.Author
	}

	for _, g := range p.Groups {
		group := &multisample.Group{
			Name:        g.Name,
			KeyTracking: g.KeyTracking,
			Reverse:     g.Reverse,
			TuneOffset:  multisample.TuneCombine(tuneLinear(g.Tune), 1, 1),
		}
		if g.ReleaseTrigger {
			group.Trigger = multisample.TriggerRelease
		} else {
			group.Trigger = multisample.TriggerAttack
		}
		if g.VoiceGroupIdx != 0 {
			vg := int(g.VoiceGroupIdx)
			group.VoiceGroup = &vg
		}
		groupFilter := filterFromModulators(g.Modulators)
		group.Filter = groupFilter

		for _, z := range g.Zones {
			zone := zoneToMultisample(z, g, p, filenames, n)
			if zone.Filter == nil {
				zone.Filter = groupFilter
			}
			group.Zones = append(group.Zones, zone)
		}

		ms.Groups = append(ms.Groups, group)
	}

	if n != nil {
		n.Log("assembled_multisample", map[string]any{"name": ms.Name, "groups": len(ms.Groups)})
	}
	return ms
}

func zoneToMultisample(z *Zone, g *Group, p *Program, filenames []string, n notifier.Notifier) *multisample.SampleZone {
	zone := &multisample.SampleZone{
		KeyLow: int(z.LowKey), KeyHigh: int(z.HighKey),
		VelLow: int(z.LowVel), VelHigh: int(z.HighVel),
		RootKey: int(z.RootKey),
		KeyFadeLow: int(z.FadeLowKey), KeyFadeHigh: int(z.FadeHighKey),
		VelFadeLow: int(z.FadeLowVel), VelFadeHigh: int(z.FadeHighVel),
	}

	zone.Tune = multisample.TuneCombine(tuneLinear(z.Tune), tuneLinear(g.Tune), tuneLinear(p.Tune))
	zone.Gain = multisample.ValueToDB(float64(p.Volume) * float64(g.Volume) * float64(z.Volume))

	pan := float64(p.Pan) + float64(g.Pan) + float64(z.Pan)
	if pan > 1 {
		pan = 1
	} else if pan < -1 {
		pan = -1
	}
	zone.Pan = pan

	zone.Start = int(z.SampleStart)
	zone.Stop = int(z.SampleEnd)

	if z.Sample != nil {
		if id := int(z.Sample.FilenameID); id >= 0 && id < len(filenames) {
			zone.Name = filenames[id]
		}
		bitDepth := 16
		if z.Sample.SampleDataType == 3 {
			bitDepth = 24
		}
		zone.Data = &multisample.SampleData{
			Meta: multisample.AudioMetadata{
				Channels:   int(z.Sample.NumChannels),
				SampleRate: int(z.Sample.SampleRate),
				BitDepth:   bitDepth,
				FrameCount: int(z.Sample.NumFrames),
			},
		}
	}

	for _, l := range z.Loops {
		if !l.IsSustainLoop() {
			continue
		}
		lt := multisample.LoopForward
		if l.Alternating {
			lt = multisample.LoopAlternating
		}
		zone.Loops = append(zone.Loops, multisample.SampleLoop{
			Type: lt, Start: int(l.Start), End: int(l.Start + l.Length), Crossfade: int(l.Crossfade),
		})
	}

	return zone
}

// filterFromModulators derives a Filter from the "filterCutoff"/
// "filterResonance" modulated-parameter entries carried in a group's
// modulator array. There is no separate filter chunk in this wire layout;
// the static intensity of those two named modulator targets stands in for
// cutoff/resonance.
// Returns nil if neither parameter is present.
func filterFromModulators(mods []*InternalModulator) *multisample.Filter {
	var f *multisample.Filter
	for _, m := range mods {
		for _, p := range m.Parameters {
			switch p.Name {
			case "filterCutoff":
				if f == nil {
					f = &multisample.Filter{}
				}
				f.Cutoff = float64(p.Intensity)
			case "filterResonance":
				if f == nil {
					f = &multisample.Filter{}
				}
				f.Resonance = float64(p.Intensity)
			}
		}
	}
	return f
}
