// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"testing"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionNumber(t *testing.T) {
	assert.Equal(t, 404, ParseVersionNumber("4.0.4"))
	assert.Equal(t, 101, ParseVersionNumber("1.0.1"))
	assert.Equal(t, 500, ParseVersionNumber("5.0.0"))
}

func TestWorkstationFromVersion(t *testing.T) {
	assert.Equal(t, MotifXS, WorkstationFromVersion(101))
	assert.Equal(t, MotifXF, WorkstationFromVersion(102))
	assert.Equal(t, MOXF, WorkstationFromVersion(103))
	assert.Equal(t, Montage, WorkstationFromVersion(405))
	assert.Equal(t, MODX, WorkstationFromVersion(500))
}

// pcm builds n frames of deterministic mono 16-bit samples.
func pcm(n int, seed byte) []byte {
	out := make([]byte, n*2)
	for i := range out {
		out[i] = seed + byte(i)
	}
	return out
}

func testZone(name string, root int, data []byte, channels int) *multisample.SampleZone {
	frames := len(data) / 2 / channels
	return &multisample.SampleZone{
		Name: name, KeyLow: root - 1, KeyHigh: root + 1, RootKey: root,
		VelLow: 0, VelHigh: 127,
		Gain: -6, Pan: 0.25, Tune: 0.5,
		KeyTrackingScalar: 1,
		Stop:              frames,
		Data: &multisample.SampleData{
			Meta: multisample.AudioMetadata{
				Channels: channels, SampleRate: 44100, BitDepth: 16, FrameCount: frames,
			},
			Inline: data,
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	// Scenario 6 shape: 3 groups x 8 zones, written for Montage, read back
	// with the same counts, category, and prefixed entry name.
	ms := &multisample.MultiSample{Name: "Grand Piano"}
	ms.Metadata.Category = "Piano"
	for g := 0; g < 3; g++ {
		group := &multisample.Group{Name: "Grand Piano"}
		for z := 0; z < 8; z++ {
			group.Zones = append(group.Zones, testZone("Grand Piano", 36+z*3, pcm(64, byte(g*8+z)), 1))
		}
		ms.Groups = append(ms.Groups, group)
	}

	var buf bytes.Buffer
	require.NoError(t, Write([]*multisample.MultiSample{ms}, Montage, bytestream.NewWriter(&buf), notifier.Nop()))

	lib, err := Decode(bytestream.NewReader(bytes.NewReader(buf.Bytes())), notifier.Nop())
	require.NoError(t, err)
	require.Len(t, lib.MultiSamples, 1)

	got := lib.MultiSamples[0]
	assert.Equal(t, "Grand Piano", got.Name)
	assert.Equal(t, "Piano", got.Metadata.Category)
	require.NotNil(t, got.MappingName)
	assert.Equal(t, "0:Grand Piano", *got.MappingName)
	require.Len(t, got.Groups, 3)
	for _, g := range got.Groups {
		require.Len(t, g.Zones, 8)
	}

	z := got.Groups[0].Zones[0]
	assert.Equal(t, 36, z.RootKey)
	assert.Equal(t, 35, z.KeyLow)
	assert.Equal(t, 37, z.KeyHigh)
	assert.InDelta(t, -6, z.Gain, 0.5)
	assert.InDelta(t, 0.25, z.Pan, 0.02)
	assert.InDelta(t, 0.5, z.Tune, 0.02)
	require.NotNil(t, z.Data)
	assert.Equal(t, pcm(64, 0), z.Data.Inline)
}

func TestStereoKeyBankInterleaves(t *testing.T) {
	// Scenario 3: one stereo key-bank with two equal-length wave payloads
	// becomes one interleaved stereo zone.
	ms := &multisample.MultiSample{Name: "EP"}
	group := &multisample.Group{Name: "EP"}
	group.Zones = append(group.Zones, testZone("EP", 60, pcm(32, 1), 2))
	ms.Groups = append(ms.Groups, group)

	var buf bytes.Buffer
	require.NoError(t, Write([]*multisample.MultiSample{ms}, Montage, bytestream.NewWriter(&buf), nil))

	lib, err := Decode(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	require.NoError(t, err)
	require.Len(t, lib.MultiSamples, 1)
	require.Len(t, lib.MultiSamples[0].Groups, 1)
	require.Len(t, lib.MultiSamples[0].Groups[0].Zones, 1)

	z := lib.MultiSamples[0].Groups[0].Zones[0]
	assert.Equal(t, 2, z.Data.Meta.Channels)
	assert.Equal(t, pcm(32, 1), z.Data.Inline)
}

func TestUnequalStereoSplitsToPannedMonoZones(t *testing.T) {
	// Scenario 4: a stereo key-bank whose two payloads differ in length
	// yields two mono zones panned hard left and right. Constructed at the
	// chunk level since the encoder never produces mismatched payloads.
	kb := &KeyBank{
		KeyRangeUpper: 127, VelUpper: 127, Level: 255, Pan: 64,
		RootNote: 60, CoarseTune: 64, FineTune: 64, Channels: 2,
		LoopMode: LoopModeOneShot, SampleFrequency: 44100,
	}
	banks, err := encodeKeyBanks([]*KeyBank{kb}, true, MOXF)
	require.NoError(t, err)

	left, right := pcm(16, 1), pcm(24, 2)
	waveBody, err := encodeWaveData([][]byte{left, right})
	require.NoError(t, err)

	f := &File{Version: MOXF.DefaultVersion(), VersionNumber: 103}
	f.Chunks = []*Chunk{
		{ID: "EWFM", Entries: []*Entry{{Name: "3:Split"}}},
		{ID: "EWIM", Entries: []*Entry{{Name: "3:Split"}}},
		{ID: "DWFM", Data: [][]byte{banks}},
		{ID: "DWIM", Data: [][]byte{waveBody}},
	}

	lib, err := DecodeFile(f, nil)
	require.NoError(t, err)
	require.Len(t, lib.MultiSamples, 1)
	zones := lib.MultiSamples[0].Groups[0].Zones
	require.Len(t, zones, 2)
	assert.Equal(t, -1.0, zones[0].Pan)
	assert.Equal(t, 1.0, zones[1].Pan)
	assert.Equal(t, left, zones[0].Data.Inline)
	assert.Equal(t, right, zones[1].Data.Inline)
	assert.Equal(t, "Guitar", lib.MultiSamples[0].Metadata.Category)
}

func TestKeyBankRoundTripBothVersions(t *testing.T) {
	kb := &KeyBank{
		KeyRangeLower: 24, KeyRangeUpper: 48, VelLower: 10, VelUpper: 100,
		Level: 200, Pan: 80, RootNote: 36, CoarseTune: 66, FineTune: 70,
		Channels: 1, LoopMode: LoopModeForward,
		SampleFrequency: 48000, PlayStart: 100, PlayEnd: 9000,
		LoopStart: 4000, LoopEnd: 8000,
	}

	for _, version1 := range []bool{true, false} {
		ws := Montage
		if version1 {
			ws = MotifXS
		}
		data, err := encodeKeyBanks([]*KeyBank{kb}, version1, ws)
		require.NoError(t, err)

		banks, err := parseKeyBanks(data, version1, ws, nil)
		require.NoError(t, err)
		require.Len(t, banks, 1)
		got := banks[0]

		assert.Equal(t, kb.KeyRangeLower, got.KeyRangeLower)
		assert.Equal(t, kb.KeyRangeUpper, got.KeyRangeUpper)
		assert.Equal(t, kb.VelLower, got.VelLower)
		assert.Equal(t, kb.VelUpper, got.VelUpper)
		assert.Equal(t, kb.Pan, got.Pan)
		assert.Equal(t, kb.RootNote, got.RootNote)
		assert.Equal(t, kb.FineTune, got.FineTune)
		assert.Equal(t, kb.SampleFrequency, got.SampleFrequency)
		assert.Equal(t, kb.PlayStart, got.PlayStart)
		assert.Equal(t, kb.PlayEnd, got.PlayEnd)
		assert.Equal(t, kb.LoopStart, got.LoopStart)
		assert.Equal(t, kb.LoopEnd, got.LoopEnd)
		assert.InDelta(t, int(kb.Level), int(got.Level), 1)
	}
}

func TestKeyBankV2LoopStartRemainder(t *testing.T) {
	// Version 2 splits the loop start into stored/16 plus a remainder byte.
	kb := &KeyBank{KeyRangeUpper: 127, VelUpper: 127, Level: 1, Pan: 64, LoopStart: 4003, LoopEnd: 8000, LoopMode: LoopModeForward, Channels: 1}
	data, err := encodeKeyBanks([]*KeyBank{kb}, false, Montage)
	require.NoError(t, err)
	banks, err := parseKeyBanks(data, false, Montage, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(4003), banks[0].LoopStart)
}

func TestKeyBankRejectsBadWaveFormat(t *testing.T) {
	kb := &KeyBank{WaveFormat: 3, Channels: 1}
	data, err := encodeKeyBanks([]*KeyBank{kb}, false, Montage)
	require.NoError(t, err)

	_, err = parseKeyBanks(data, false, Montage, nil)
	var uv *codecerr.UnsupportedVersion
	require.ErrorAs(t, err, &uv)
	assert.Equal(t, 3, uv.Version)
}

func TestEntryIDRenumbering(t *testing.T) {
	ms := &multisample.MultiSample{Name: "Two Groups"}
	for g := 0; g < 2; g++ {
		group := &multisample.Group{}
		group.Zones = append(group.Zones, testZone("Two Groups", 60, pcm(8, byte(g)), 1))
		ms.Groups = append(ms.Groups, group)
	}

	f, err := Encode([]*multisample.MultiSample{ms}, Montage, nil)
	require.NoError(t, err)

	ewfm, ewim := f.Chunk("EWFM"), f.Chunk("EWIM")
	require.NotNil(t, ewfm)
	require.NotNil(t, ewim)
	assert.Equal(t, uint32(10001), ewfm.Entries[0].EntryID)
	assert.Equal(t, uint32(10002), ewim.Entries[0].EntryID)
	assert.Equal(t, uint32(10003), ewfm.Entries[1].EntryID)
	assert.Equal(t, uint32(10004), ewim.Entries[1].EntryID)
	assert.Equal(t, uint32(10004), f.MaxEntryID)
}

func TestEntryOffsetsMatchDataItems(t *testing.T) {
	// P2, entry side: entry sizes and offsets must match the serialized
	// data items.
	ms := &multisample.MultiSample{Name: "Offsets"}
	group := &multisample.Group{}
	group.Zones = append(group.Zones,
		testZone("Offsets", 40, pcm(10, 1), 1),
		testZone("Offsets", 50, pcm(20, 2), 1))
	ms.Groups = append(ms.Groups, group)

	f, err := Encode([]*multisample.MultiSample{ms}, Montage, nil)
	require.NoError(t, err)

	ewfm, dwfm := f.Chunk("EWFM"), f.Chunk("DWFM")
	require.Len(t, ewfm.Entries, 1)
	assert.Equal(t, uint32(len(dwfm.Data[0])), ewfm.Entries[0].ItemSize)
	assert.Equal(t, uint32(dataItemBase), ewfm.Entries[0].ItemOffset)
}

func TestPerformanceRoundTrip(t *testing.T) {
	ms := &multisample.MultiSample{Name: "Lead"}
	group := &multisample.Group{}
	group.Zones = append(group.Zones, testZone("Lead", 60, pcm(8, 7), 1))
	ms.Groups = append(ms.Groups, group)
	ms.Performance = &multisample.Performance{
		Name: "Stage Set",
		Parts: []multisample.PerformancePart{
			{Name: "Lead", MidiChannel: 2, Program: ms, KeyLow: 12, KeyHigh: 96},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write([]*multisample.MultiSample{ms}, MODX, bytestream.NewWriter(&buf), nil))

	lib, err := Decode(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	require.NoError(t, err)
	require.NotNil(t, lib.Performance)
	assert.Equal(t, "Stage Set", lib.Performance.Name)
	require.Len(t, lib.Performance.Parts, 1)

	part := lib.Performance.Parts[0]
	assert.Equal(t, 2, part.MidiChannel)
	assert.Equal(t, 12, part.KeyLow)
	assert.Equal(t, 96, part.KeyHigh)
	require.NotNil(t, part.Program)
	assert.Equal(t, "Lead", part.Program.Name)
}

func TestPerformanceElementShortFormAccepted(t *testing.T) {
	// Both element tail forms must parse; the long form is what we write.
	long := &PerformanceData{Parts: []*Part{{MidiChannel: 1, KeyHigh: 127, Elements: []*Element{{WaveformNumber: 1}}}}}
	body, err := encodePerformance(long)
	require.NoError(t, err)

	// Strip each element's 3 unknown bytes to fabricate the short form.
	short := append([]byte{}, body[:4+8]...)
	short = append(short, body[4+8:4+8+elementParamBytes]...)
	short = append(short, body[len(body)-2:]...)

	got, err := parsePerformance(short)
	require.NoError(t, err)
	require.Len(t, got.Parts, 1)
	assert.Equal(t, uint16(1), got.Parts[0].Elements[0].WaveformNumber)
}

func TestFileEnvelopeRoundTrip(t *testing.T) {
	ms := &multisample.MultiSample{Name: "Env"}
	group := &multisample.Group{}
	group.Zones = append(group.Zones, testZone("Env", 60, pcm(8, 3), 1))
	ms.Groups = append(ms.Groups, group)

	f, err := Encode([]*multisample.MultiSample{ms}, Montage, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Write(bytestream.NewWriter(&buf)))

	got, err := Read(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	require.NoError(t, err)
	assert.Equal(t, f.VersionNumber, got.VersionNumber)
	assert.Equal(t, f.MaxEntryID, got.MaxEntryID)
	assert.Len(t, got.Chunks, len(f.Chunks))
	for _, id := range []string{"EWFM", "EWIM", "DWFM", "DWIM"} {
		assert.NotNil(t, got.Chunk(id), id)
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	data := append([]byte("NOT-A-YSFC-FILE "), make([]byte, 64)...)
	_, err := Read(bytestream.NewReader(bytes.NewReader(data)), nil)
	var bm *codecerr.BadMagic
	require.ErrorAs(t, err, &bm)
}
