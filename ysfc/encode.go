// sampleconv
// Licensed under MIT

package ysfc

import (
	"math"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
)

// firstEntryID is where the write path's entry renumbering starts.
const firstEntryID = 10001

// Encode builds a YSFC file from the model: one waveform per group, sharing
// the multi-sample's "<cat>:<name>" entry name so the decode path can merge
// them back, plus the wave-image payloads and (when present) the
// performance chunks. Entry IDs are renumbered from 10001, performance IDs
// first, then alternating waveform/wave-image IDs.
func Encode(mss []*multisample.MultiSample, ws Workstation, n notifier.Notifier) (*File, error) {
	version := ws.DefaultVersion()
	f := &File{Version: version, VersionNumber: ParseVersionNumber(version)}
	version1 := f.usesVersion1KeyBanks()

	ewfm := &Chunk{ID: "EWFM"}
	dwfm := &Chunk{ID: "DWFM"}
	ewim := &Chunk{ID: "EWIM"}
	dwim := &Chunk{ID: "DWIM"}
	epfm := &Chunk{ID: "EPFM"}
	dpfm := &Chunk{ID: "DPFM"}

	waveformIndex := 0
	for _, ms := range mss {
		if err := ms.Validate(); err != nil {
			return nil, err
		}
		catIdx := MainCategoryIndex(ms.InferCategory())
		entryName := JoinEntryName(catIdx, ms.Name)
		if ms.MappingName != nil {
			entryName = *ms.MappingName
		}

		for _, g := range ms.Groups {
			banks := make([]*KeyBank, 0, len(g.Zones))
			var payloads [][]byte
			for _, z := range g.Zones {
				kb, waves := keyBankFromZone(z)
				banks = append(banks, kb)
				payloads = append(payloads, waves...)
			}

			data, err := encodeKeyBanks(banks, version1, ws)
			if err != nil {
				return nil, err
			}
			dwfm.Data = append(dwfm.Data, data)
			ewfm.Entries = append(ewfm.Entries, &Entry{
				Name:          entryName,
				SpecificValue: uint32(waveformIndex + 1),
			})

			waveBody, err := encodeWaveData(payloads)
			if err != nil {
				return nil, err
			}
			dwim.Data = append(dwim.Data, waveBody)
			ewim.Entries = append(ewim.Entries, &Entry{Name: entryName})

			waveformIndex++
		}

		if ms.Performance != nil && len(epfm.Entries) == 0 {
			pd := performanceFromModel(ms.Performance, mss)
			body, err := encodePerformance(pd)
			if err != nil {
				return nil, err
			}
			dpfm.Data = append(dpfm.Data, body)
			epfm.Entries = append(epfm.Entries, &Entry{
				Name:          ms.Performance.Name,
				Title:         ms.Performance.Name,
				SpecificValue: 1,
			})
		}
	}

	// Waveform-only libraries skip the performance pair entirely.
	if len(epfm.Entries) > 0 {
		f.Chunks = append(f.Chunks, epfm, dpfm)
	}
	f.Chunks = append(f.Chunks, ewfm, ewim, dwfm, dwim)

	assignEntryIDs(f, epfm, ewfm, ewim)
	bindOffsets(ewfm, dwfm)
	bindOffsets(ewim, dwim)
	bindOffsets(epfm, dpfm)

	if n != nil {
		n.Log("ysfc_encoded", map[string]any{
			"workstation": ws.String(),
			"waveforms":   len(ewfm.Entries),
		})
	}
	return f, nil
}

// Write encodes and serializes in one step.
func Write(mss []*multisample.MultiSample, ws Workstation, w *bytestream.Writer, n notifier.Notifier) error {
	f, err := Encode(mss, ws, n)
	if err != nil {
		return err
	}
	return f.Write(w)
}

func assignEntryIDs(f *File, epfm, ewfm, ewim *Chunk) {
	id := uint32(firstEntryID)
	for _, e := range epfm.Entries {
		e.EntryID = id
		id++
	}
	for i := 0; i < len(ewfm.Entries) || i < len(ewim.Entries); i++ {
		if i < len(ewfm.Entries) {
			ewfm.Entries[i].EntryID = id
			id++
		}
		if i < len(ewim.Entries) {
			ewim.Entries[i].EntryID = id
			id++
		}
	}
	if id > firstEntryID {
		f.MaxEntryID = id - 1
	}
}

// bindOffsets recomputes each entry's item size and offset from the paired
// data chunk's actual payloads.
func bindOffsets(entries, data *Chunk) {
	offsets := data.dataOffsets()
	for i, e := range entries.Entries {
		if i < len(data.Data) {
			e.ItemSize = uint32(len(data.Data[i]))
			e.ItemOffset = offsets[i]
		}
	}
}

// keyBankFromZone is the inverse of keyBankToZones: one key-bank plus one
// (mono) or two (stereo, deinterleaved) wave payloads.
func keyBankFromZone(z *multisample.SampleZone) (*KeyBank, [][]byte) {
	cents := z.Tune * 100
	coarse := int(math.Round(cents / 100))
	fine := multisample.YSFCFineFromCents(cents - float64(coarse)*100)
	coarse = clampInt(coarse+64, 0, 127)

	kb := &KeyBank{
		KeyRangeLower: uint8(z.KeyLow),
		KeyRangeUpper: uint8(z.KeyHigh),
		VelLower:      uint8(z.VelLow),
		VelUpper:      uint8(z.VelHigh),
		Level:         uint8(multisample.YSFCDBToLevel(z.Gain)),
		Pan:           uint8(multisample.YSFCStoredFromPan(z.Pan)),
		RootNote:      uint8(z.RootKey),
		CoarseTune:    uint8(coarse),
		FineTune:      uint8(fine),
		Channels:      1,
		LoopMode:      LoopModeOneShot,
		PlayStart:     uint32(z.Start),
		PlayEnd:       uint32(z.Stop),
	}
	if z.KeyTrackingScalar == 0 {
		kb.FixedPitch = 1
	}
	if z.Reversed {
		kb.LoopMode = LoopModeReverse
	}
	for _, l := range z.Loops {
		if l.Type == multisample.LoopForward || l.Type == multisample.LoopAlternating {
			kb.LoopMode = LoopModeForward
			kb.LoopStart = uint32(l.Start)
			kb.LoopEnd = uint32(l.End)
			break
		}
	}

	var payloads [][]byte
	if z.Data != nil {
		kb.SampleFrequency = uint32(z.Data.Meta.SampleRate)
		if z.Data.Meta.Channels == 2 {
			kb.Channels = 2
			left, right := deinterleaveStereo(z.Data.Inline)
			payloads = [][]byte{left, right}
		} else {
			payloads = [][]byte{z.Data.Inline}
		}
	} else {
		payloads = [][]byte{nil}
	}
	return kb, payloads
}

// performanceFromModel rebuilds the wire performance from the model,
// re-deriving each part's waveform number from the written group order.
func performanceFromModel(perf *multisample.Performance, mss []*multisample.MultiSample) *PerformanceData {
	// Waveform numbers are 1-based positions in written group order across
	// all multi-samples.
	waveformOf := map[*multisample.MultiSample]int{}
	next := 1
	for _, ms := range mss {
		waveformOf[ms] = next
		next += len(ms.Groups)
	}

	pd := &PerformanceData{}
	for _, part := range perf.Parts {
		p := &Part{
			MidiChannel: uint8(clampInt(part.MidiChannel, 0, 255)),
			KeyLow:      uint8(clampInt(part.KeyLow, 0, 127)),
			KeyHigh:     uint8(clampInt(part.KeyHigh, 0, 127)),
		}
		wf := 0
		if part.Program != nil {
			wf = waveformOf[part.Program]
		}
		e := &Element{WaveformNumber: uint16(wf)}
		p.Elements = append(p.Elements, e)
		pd.Parts = append(pd.Parts, p)
	}
	return pd
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
