// sampleconv
// Licensed under MIT

package ysfc

import (
	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Library is a fully decoded YSFC file: the envelope plus the assembled
// model. Consecutive waveforms sharing a base name are merged into one
// MultiSample with one group per waveform — the inverse of the write path,
// which emits one waveform per group.
type Library struct {
	File         *File
	MultiSamples []*multisample.MultiSample
	Performance  *multisample.Performance

	// waveformOwner maps a waveform index (EWFM order) to its position in
	// MultiSamples, for performance-part resolution.
	waveformOwner []int
}

// Decode reads a YSFC file and assembles the multi-sample model.
func Decode(r *bytestream.Reader, n notifier.Notifier) (*Library, error) {
	f, err := Read(r, n)
	if err != nil {
		return nil, err
	}
	return DecodeFile(f, n)
}

// DecodeFile assembles the model from an already-read envelope.
func DecodeFile(f *File, n notifier.Notifier) (*Library, error) {
	lib := &Library{File: f}

	ewfm, dwfm := f.Chunk("EWFM"), f.Chunk("DWFM")
	ewim, dwim := f.Chunk("EWIM"), f.Chunk("DWIM")

	if ewfm == nil || dwfm == nil {
		// A performance-only file with no waveforms is legal but empty
		// from this codec's point of view.
		return lib, lib.decodePerformance(n)
	}
	if len(ewfm.Entries) != len(dwfm.Data) {
		return nil, &codecerr.Truncated{
			Path: "EWFM/DWFM", Verb: "bind entry list to data list",
			Expected: int64(len(ewfm.Entries)), Got: int64(len(dwfm.Data)),
		}
	}
	if ewim != nil && dwim != nil && len(ewim.Entries) != len(dwim.Data) {
		return nil, &codecerr.Truncated{
			Path: "EWIM/DWIM", Verb: "bind entry list to data list",
			Expected: int64(len(ewim.Entries)), Got: int64(len(dwim.Data)),
		}
	}

	// Wave payloads are consumed sequentially across the whole file: the
	// i-th key-bank takes one payload (mono) or two (stereo), in order.
	var waves [][]byte
	if dwim != nil {
		for _, item := range dwim.Data {
			parsed, err := parseWaveData(item)
			if err != nil {
				return nil, err
			}
			waves = append(waves, parsed...)
		}
	}
	waveIndex := 0

	version1 := f.usesVersion1KeyBanks()
	ws := f.Workstation()

	var current *multisample.MultiSample
	currentBase := ""
	for wfIdx, entry := range ewfm.Entries {
		catIdx, base := SplitEntryName(entry.Name)

		banks, err := parseKeyBanks(dwfm.Data[wfIdx], version1, ws, n)
		if err != nil {
			return nil, err
		}

		group := &multisample.Group{Name: base, Trigger: multisample.TriggerAttack}
		for _, kb := range banks {
			zones, consumed, err := keyBankToZones(kb, base, waves[min(waveIndex, len(waves)):])
			if err != nil {
				return nil, err
			}
			waveIndex += consumed
			group.Zones = append(group.Zones, zones...)
		}
		if len(banks) > 0 {
			group.KeyTracking = banks[0].FixedPitch == 0
		}

		if current == nil || base != currentBase {
			current = &multisample.MultiSample{Name: base}
			fullName := entry.Name
			current.MappingName = &fullName
			if catIdx >= 0 {
				current.Metadata.Category, _ = MainCategoryName(MainCategoryMask(catIdx))
			}
			currentBase = base
			lib.MultiSamples = append(lib.MultiSamples, current)
		}
		current.Groups = append(current.Groups, group)
		lib.waveformOwner = append(lib.waveformOwner, len(lib.MultiSamples)-1)
	}

	if n != nil {
		n.Log("ysfc_decoded", map[string]any{
			"multisamples": len(lib.MultiSamples),
			"waveforms":    len(ewfm.Entries),
		})
	}

	return lib, lib.decodePerformance(n)
}

// keyBankToZones translates one key-bank plus its wave payload(s) into model
// zones, consuming one payload for mono and two for stereo. Equal-length
// stereo payloads interleave into a single stereo zone; unequal ones become
// two mono zones panned hard left and right.
func keyBankToZones(kb *KeyBank, name string, waves [][]byte) ([]*multisample.SampleZone, int, error) {
	stereo := kb.Channels == 2
	need := 1
	if stereo {
		need = 2
	}
	if len(waves) < need {
		return nil, 0, &codecerr.Truncated{
			Path: "DWIM", Verb: "bind key-bank to wave data",
			Expected: int64(need), Got: int64(len(waves)),
		}
	}

	if !stereo {
		z := zoneFromKeyBank(kb, name)
		z.Data = inlineSample(waves[0], 1, int(kb.SampleFrequency))
		clampZoneRange(z)
		return []*multisample.SampleZone{z}, 1, nil
	}

	left, right := waves[0], waves[1]
	if len(left) == len(right) {
		z := zoneFromKeyBank(kb, name)
		z.Data = inlineSample(interleaveStereo(left, right), 2, int(kb.SampleFrequency))
		clampZoneRange(z)
		return []*multisample.SampleZone{z}, 2, nil
	}

	zl := zoneFromKeyBank(kb, name)
	zl.Pan = -1
	zl.Data = inlineSample(left, 1, int(kb.SampleFrequency))
	clampZoneRange(zl)
	zr := zoneFromKeyBank(kb, name)
	zr.Pan = 1
	zr.Data = inlineSample(right, 1, int(kb.SampleFrequency))
	clampZoneRange(zr)
	return []*multisample.SampleZone{zl, zr}, 2, nil
}

func zoneFromKeyBank(kb *KeyBank, name string) *multisample.SampleZone {
	z := &multisample.SampleZone{
		Name:    name,
		KeyLow:  int(kb.KeyRangeLower),
		KeyHigh: int(kb.KeyRangeUpper),
		VelLow:  int(kb.VelLower),
		VelHigh: int(kb.VelUpper),
		RootKey: int(kb.RootNote),
		Gain:    multisample.YSFCLevelToDB(int(kb.Level)),
		Pan:     multisample.YSFCPanFromStored(int(kb.Pan)),
		Tune:    float64(int(kb.CoarseTune)-64) + multisample.YSFCCentsFromFine(int(kb.FineTune))/100,
		Start:   int(kb.PlayStart),
		Stop:    int(kb.PlayEnd),
	}
	if kb.FixedPitch != 0 {
		z.KeyTrackingScalar = 0
	} else {
		z.KeyTrackingScalar = 1
	}
	switch kb.LoopMode {
	case LoopModeForward:
		if kb.LoopEnd > kb.LoopStart {
			z.Loops = append(z.Loops, multisample.SampleLoop{
				Type: multisample.LoopForward, Start: int(kb.LoopStart), End: int(kb.LoopEnd),
			})
		}
	case LoopModeReverse:
		z.Reversed = true
	}
	return z
}

func inlineSample(pcm []byte, channels, rate int) *multisample.SampleData {
	return &multisample.SampleData{
		Meta: multisample.AudioMetadata{
			Channels:   channels,
			SampleRate: rate,
			BitDepth:   16,
			FrameCount: len(pcm) / 2 / channels,
		},
		Inline: pcm,
	}
}

// clampZoneRange fills a zero play-end in from the sample length and keeps
// the stop inside the payload, so the model invariants hold even for files
// that leave the play range at its device defaults.
func clampZoneRange(z *multisample.SampleZone) {
	if z.Data == nil {
		return
	}
	frames := z.Data.Meta.FrameCount
	if z.Stop == 0 || z.Stop > frames {
		z.Stop = frames
	}
	if z.Start > z.Stop {
		z.Start = 0
	}
	for i := range z.Loops {
		if z.Loops[i].End > frames {
			z.Loops[i].End = frames
		}
	}
}

// decodePerformance assembles a multisample.Performance from the EPFM/DPFM
// pair, resolving each part's waveform number against the decoded
// multi-samples.
func (lib *Library) decodePerformance(n notifier.Notifier) error {
	epfm, dpfm := lib.File.Chunk("EPFM"), lib.File.Chunk("DPFM")
	if epfm == nil || dpfm == nil {
		return nil
	}
	if len(epfm.Entries) != len(dpfm.Data) {
		return &codecerr.Truncated{
			Path: "EPFM/DPFM", Verb: "bind entry list to data list",
			Expected: int64(len(epfm.Entries)), Got: int64(len(dpfm.Data)),
		}
	}

	for i, entry := range epfm.Entries {
		data, err := parsePerformance(dpfm.Data[i])
		if err != nil {
			return err
		}
		perf := &multisample.Performance{Name: entry.Name}
		for _, part := range data.Parts {
			mp := multisample.PerformancePart{
				Name:        entry.Name,
				MidiChannel: int(part.MidiChannel),
				KeyLow:      int(part.KeyLow),
				KeyHigh:     int(part.KeyHigh),
			}
			if len(part.Elements) > 0 {
				wf := int(part.Elements[0].WaveformNumber) - 1
				if wf >= 0 && wf < len(lib.waveformOwner) {
					mp.Program = lib.MultiSamples[lib.waveformOwner[wf]]
					mp.Name = mp.Program.Name
				}
			}
			perf.Parts = append(perf.Parts, mp)
		}
		if lib.Performance == nil {
			lib.Performance = perf
		}
		if len(lib.MultiSamples) > 0 && i == 0 {
			lib.MultiSamples[0].Performance = perf
		}
	}

	if n != nil && lib.Performance != nil {
		n.Log("ysfc_performance", map[string]any{"parts": len(lib.Performance.Parts)})
	}
	return nil
}
