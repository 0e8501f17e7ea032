// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/nicontainer"
	"github.com/mukunda-go/sampleconv/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersionTriplet(t *testing.T) {
	v := parseVersionTriplet([4]byte{3, 1, 3, 5})
	assert.Equal(t, "5.3.1.3", v.String())

	v = parseVersionTriplet([4]byte{0xFF, 0, 0, 2})
	assert.Equal(t, "2.0.0.?", v.String())
	v.Patch = 7
	assert.Equal(t, "2.0.0.7", v.String())
}

func TestIsUnsupported42(t *testing.T) {
	assert.True(t, parseVersionTriplet([4]byte{0, 0, 2, 4}).IsUnsupported42())
	assert.False(t, parseVersionTriplet([4]byte{0, 0, 0, 4}).IsUnsupported42())
	assert.False(t, parseVersionTriplet([4]byte{0, 0, 1, 4}).IsUnsupported42())
	assert.False(t, parseVersionTriplet([4]byte{0, 0, 2, 5}).IsUnsupported42())
}

func TestIconNameTable(t *testing.T) {
	assert.Equal(t, "Organ", IconName(0))
	assert.Equal(t, "Drum Kit", IconName(2))
	assert.Equal(t, "New", IconName(28))
	assert.Equal(t, "", IconName(9999))
}

func TestLoopArrayRoundTrip(t *testing.T) {
	loops := []Loop{
		{Mode: LoopModeUntilEnd, Start: 100, Length: 900, Count: 0, Tuning: 0.5, Crossfade: 32},
		{Mode: LoopModeUntilRelease, Start: 2000, Length: 500, Alternating: true},
	}
	payload, err := encodeLoopArray(loops)
	require.NoError(t, err)

	got, err := decodeLoopArray(payload)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, loops[0].Mode, got[0].Mode)
	assert.Equal(t, loops[0].Start, got[0].Start)
	assert.Equal(t, loops[0].Length, got[0].Length)
	assert.Equal(t, loops[0].Crossfade, got[0].Crossfade)
	assert.True(t, got[1].Alternating)
	assert.True(t, got[0].IsSustainLoop())
	assert.True(t, got[1].IsSustainLoop())
	assert.False(t, Loop{Mode: LoopModeOneShot}.IsSustainLoop())
}

func TestLoopArrayRejectsBadConstant(t *testing.T) {
	payload, err := encodeLoopArray([]Loop{{Mode: LoopModeUntilEnd}})
	require.NoError(t, err)
	payload[2] = 0x61 // corrupt the 0x60 per-loop constant

	_, err = decodeLoopArray(payload)
	var bm *codecerr.BadMagic
	require.ErrorAs(t, err, &bm)
}

func testMultiSample(name string, groups, zonesPer int) *multisample.MultiSample {
	ms := &multisample.MultiSample{Name: name}
	for g := 0; g < groups; g++ {
		group := &multisample.Group{Name: "Group", KeyTracking: true}
		for z := 0; z < zonesPer; z++ {
			root := 36 + z*12
			group.Zones = append(group.Zones, &multisample.SampleZone{
				Name:    "Sample C" + string(rune('2'+z)),
				KeyLow:  root - 6, KeyHigh: root + 5, RootKey: root,
				VelLow: 0, VelHigh: 127,
				Gain: -3, Pan: 0.5, Tune: 0.25,
				Stop: 44100,
				Loops: []multisample.SampleLoop{
					{Type: multisample.LoopForward, Start: 1000, End: 40000, Crossfade: 16},
				},
			})
		}
		ms.Groups = append(ms.Groups, group)
	}
	return ms
}

func TestWriteNKI5EmptyMultiSample(t *testing.T) {
	// Scenario 5: an empty MultiSample still writes a valid NKI 5+ with a
	// Program chunk and zero groups.
	ms := &multisample.MultiSample{Name: "Empty"}
	base, err := NewEmptyNKI5(ms)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNKI5(base, ms, bytestream.NewWriter(&buf), notifier.Nop()))

	format, err := Detect(bytestream.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, FormatNKI5, format)

	decoded, err := DecodeNKI5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), notifier.Nop())
	require.NoError(t, err)
	require.NotNil(t, decoded.MultiSample)
	assert.Equal(t, "Empty", decoded.MultiSample.Name)
	assert.Empty(t, decoded.MultiSample.Groups)

	// The canonical template's unknown bytes survive the write: the
	// program's private data and version-dependent tail, the sibling
	// QUICK_BROWSE/SAVE_SETTINGS chunks, and the SOUNDINFO data chunk.
	template, err := DecodeNKI5(bytestream.NewReader(bytes.NewReader(nki5Template)), notifier.Nop())
	require.NoError(t, err)
	assert.Equal(t, template.Program.ChunkVersion, decoded.Program.ChunkVersion)
	assert.NotEmpty(t, decoded.Program.Trailing)
	assert.Equal(t, template.Program.Trailing, decoded.Program.Trailing)
	assert.Equal(t, template.ProgramChunk.Priv, decoded.ProgramChunk.Priv)

	var ids []chunktree.ID
	for _, c := range decoded.TopLevelChunks {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, chunktree.QuickBrowse)
	assert.Contains(t, ids, chunktree.SaveSettings)

	si, ok := nicontainer.Find(decoded.Item, nicontainer.ChunkSoundInfoItem, nil)
	require.True(t, ok)
	tsi, _ := nicontainer.Find(template.Item, nicontainer.ChunkSoundInfoItem, nil)
	assert.Equal(t, tsi.Data, si.Data)
}

func TestWriteDecodeNKI5RoundTrip(t *testing.T) {
	ms := testMultiSample("Chromatic", 1, 4)
	base, err := NewEmptyNKI5(ms)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteNKI5(base, ms, bytestream.NewWriter(&buf), nil))

	decoded, err := DecodeNKI5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	require.NoError(t, err)
	got := decoded.MultiSample
	require.NotNil(t, got)

	assert.Equal(t, "Chromatic", got.Name)
	require.Len(t, got.Groups, 1)
	require.Len(t, got.Groups[0].Zones, 4)
	assert.Equal(t, multisample.TriggerAttack, got.Groups[0].Trigger)
	assert.True(t, got.Groups[0].KeyTracking)

	z := got.Groups[0].Zones[0]
	assert.Equal(t, 30, z.KeyLow)
	assert.Equal(t, 41, z.KeyHigh)
	assert.Equal(t, 36, z.RootKey)
	assert.InDelta(t, -3, z.Gain, 1e-4)
	assert.InDelta(t, 0.5, z.Pan, 1e-6)
	assert.InDelta(t, 0.25, z.Tune, 1e-5)
	require.Len(t, z.Loops, 1)
	assert.Equal(t, 1000, z.Loops[0].Start)
	assert.Equal(t, 40000, z.Loops[0].End)
	assert.Equal(t, 16, z.Loops[0].Crossfade)
}

func TestDecodeNKI5RejectsWrongAuthoring(t *testing.T) {
	ms := &multisample.MultiSample{Name: "Foreign"}
	base, err := NewEmptyNKI5(ms)
	require.NoError(t, err)
	base.Item.DataChunks[0].Data = []byte("REAKTOR")

	var buf bytes.Buffer
	require.NoError(t, WriteNKI5(base, ms, bytestream.NewWriter(&buf), nil))

	_, err = DecodeNKI5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	var wa *codecerr.WrongAuthoringApplication
	require.ErrorAs(t, err, &wa)
	assert.Equal(t, "REAKTOR", wa.Got)
}

func TestProgramChunkVersionRejectedAboveMax(t *testing.T) {
	ms := &multisample.MultiSample{Name: "Future"}
	base, err := NewEmptyNKI5(ms)
	require.NoError(t, err)
	base.ProgramChunk.Version = MaxProgramChunkVersion + 1

	var buf bytes.Buffer
	require.NoError(t, WriteNKI5(base, ms, bytestream.NewWriter(&buf), nil))

	_, err = DecodeNKI5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	var uv *codecerr.UnsupportedVersion
	require.ErrorAs(t, err, &uv)
}

func TestTuneCombineThroughWire(t *testing.T) {
	// P6 at the codec level: unity program/group/zone tunes land at zero
	// semitones after a wire round trip.
	ms := testMultiSample("Unity", 1, 1)
	ms.Groups[0].Zones[0].Tune = 0

	base, err := NewEmptyNKI5(ms)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteNKI5(base, ms, bytestream.NewWriter(&buf), nil))

	decoded, err := DecodeNKI5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, decoded.MultiSample.Groups[0].Zones[0].Tune)
}

func TestModulatorPaddingTables(t *testing.T) {
	// The exact-match tables win over the parity fallback.
	before := PaddingFallbackCount()
	assert.Equal(t, 2, modulatorPadding("filterCutoff", "ENV_AHDSR_CUTOFF"))
	assert.Equal(t, 1, modulatorPadding("pan", "LFO_SINE_PAN"))
	assert.Equal(t, 0, modulatorPadding("volume", "ENV_AHDSR_VOLUME"))
	assert.Equal(t, before, PaddingFallbackCount())

	// Unlisted pairs take the parity fallback and bump the telemetry
	// counter: odd combined length pads 1, even pads 0.
	assert.Equal(t, 1, modulatorPadding("pitch", "LFO_SINE_PITCH"))
	assert.Equal(t, 0, modulatorPadding("xy", "zw"))
	assert.Equal(t, before+2, PaddingFallbackCount())
}

func TestK2HeaderRejects42(t *testing.T) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	// Triplet [patch, minor, release, major] for 4.2.0.0.
	require.NoError(t, w.Bytes([]byte{0, 0, 2, 4}))
	require.NoError(t, w.Tag("4noK"))
	require.NoError(t, w.Pad(4, 0))  // timestamp
	require.NoError(t, w.Pad(26, 0)) // unknown
	require.NoError(t, w.Pad(4, 0))  // icon
	require.NoError(t, w.FixedASCII(8, "someone", 0))
	require.NoError(t, w.Pad(3, 0))
	require.NoError(t, w.FixedASCII(86, "(null)", 0))
	require.NoError(t, w.Pad(7, 0))

	_, err := ParseK2Header(bytestream.NewReader(bytes.NewReader(buf.Bytes())), nil)
	var uv *codecerr.UnsupportedVersion
	require.ErrorAs(t, err, &uv)
}

func TestK2HeaderParsesFields(t *testing.T) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	require.NoError(t, w.Bytes([]byte{0xFF, 1, 3, 3})) // 3.3.1.? with patch placeholder
	require.NoError(t, w.Tag("3noK"))
	require.NoError(t, w.U32(binary.LittleEndian, 3600)) // one hour past the 1904 epoch
	require.NoError(t, w.Pad(26, 0))
	require.NoError(t, w.U32(binary.LittleEndian, 2)) // icon: Drum Kit slot
	require.NoError(t, w.FixedASCII(8, "mukunda", 0))
	require.NoError(t, w.Pad(3, 0))
	require.NoError(t, w.FixedASCII(86, "mukunda.com", 0))
	require.NoError(t, w.Pad(7, 0))
	require.NoError(t, w.Pad(4, 0))
	require.NoError(t, w.U32(binary.LittleEndian, 12)) // patch level
	require.NoError(t, w.U8(0x78))  // ZLIB marker: not a monolith

	h, err := ParseK2Header(bytestream.NewReader(bytes.NewReader(buf.Bytes())), notifier.Nop())
	require.NoError(t, err)
	assert.Equal(t, "3.3.1.12", h.Version.String())
	assert.Equal(t, "3noK", h.BlockID)
	assert.Equal(t, "mukunda", h.Author)
	assert.Equal(t, "mukunda.com", h.Website)
	assert.False(t, h.IsMonolith)
	assert.Equal(t, "01.01.1904 02:00:00", h.FormattedTimestamp())
}

func TestMonolith5SubstituteSamplesMissingFile(t *testing.T) {
	mono := &Monolith5{Payload: map[string][]byte{"present.wav": {1, 2}}}
	ms := &multisample.MultiSample{
		Name: "M",
		Groups: []*multisample.Group{{
			Zones: []*multisample.SampleZone{{Name: "missing"}},
		}},
	}
	err := mono.SubstituteSamples(ms)
	var nm *codecerr.NoMatchingInMemoryFile
	require.ErrorAs(t, err, &nm)
	assert.Equal(t, "missing", nm.ZoneName)

	ms.Groups[0].Zones[0].Name = "present"
	require.NoError(t, mono.SubstituteSamples(ms))
	assert.Equal(t, []byte{1, 2}, ms.Groups[0].Zones[0].Data.Inline)
}

func utf16Fixed(s string, size int) []byte {
	out := make([]byte, size)
	for i, r := range s {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(r))
	}
	return out
}

func TestDecodeMonolith5(t *testing.T) {
	nkiData := []byte{0xAA, 0xBB, 0xCC}
	wavData := []byte{1, 2, 3, 4, 5}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	require.NoError(t, w.Tag(monolith5Magic))
	require.NoError(t, w.Pad(248, 0))
	require.NoError(t, w.Pad(8, 0)) // end marker
	require.NoError(t, w.U64(binary.LittleEndian, 2))
	require.NoError(t, w.U64(binary.LittleEndian, uint64(len(nkiData)+len(wavData))))

	require.NoError(t, w.Tag(monolith5TOCMagic))
	require.NoError(t, w.Pad(600, 0))
	entries := []struct {
		name string
		end  uint64
	}{
		{"Inst.nki", uint64(len(nkiData))},
		{"Zone1.wav", uint64(len(nkiData) + len(wavData))},
	}
	for i, e := range entries {
		require.NoError(t, w.U64(binary.LittleEndian, uint64(i+1)))
		require.NoError(t, w.Pad(16, 0))
		require.NoError(t, w.Bytes(utf16Fixed(e.name, 600)))
		require.NoError(t, w.U64(binary.LittleEndian, 0))
		require.NoError(t, w.U64(binary.LittleEndian, e.end))
	}
	require.NoError(t, w.Pad(16, 0))  // files-end marker
	require.NoError(t, w.Pad(16, 0))  // gap before TOC-end magic
	require.NoError(t, w.Pad(16, 0))  // TOC-end magic slot
	require.NoError(t, w.Pad(592, 0)) // trailing padding
	require.NoError(t, w.Bytes(nkiData))
	require.NoError(t, w.Bytes(wavData))

	format, err := Detect(bytestream.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, FormatNKI5Monolith, format)

	mono, err := DecodeMonolith5(bytestream.NewReader(bytes.NewReader(buf.Bytes())), notifier.Nop())
	require.NoError(t, err)
	require.Len(t, mono.Files, 2)

	name, data, ok := mono.MainFile()
	require.True(t, ok)
	assert.Equal(t, "Inst.nki", name)
	assert.Equal(t, nkiData, data)

	// An in-memory lookup by zone name resolves without touching disk.
	ms := &multisample.MultiSample{
		Name: "M",
		Groups: []*multisample.Group{{
			Zones: []*multisample.SampleZone{{Name: "Zone1"}},
		}},
	}
	require.NoError(t, mono.SubstituteSamples(ms))
	assert.Equal(t, wavData, ms.Groups[0].Zones[0].Data.Inline)
}
