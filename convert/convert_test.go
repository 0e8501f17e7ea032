// sampleconv
// Licensed under MIT

package convert

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/kontakt"
	"github.com/mukunda-go/sampleconv/multisample"
	"github.com/mukunda-go/sampleconv/notifier"
	"github.com/mukunda-go/sampleconv/ysfc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFamilyForExtension(t *testing.T) {
	assert.Equal(t, FamilyKontakt, FamilyForExtension("lib/Strings.nki"))
	assert.Equal(t, FamilyKontakt, FamilyForExtension("Set.NKM"))
	assert.Equal(t, FamilyKontakt, FamilyForExtension("bank.nkr"))
	assert.Equal(t, FamilyYSFC, FamilyForExtension("User.X7U"))
	assert.Equal(t, FamilyYSFC, FamilyForExtension("moxf.x6w"))
	assert.Equal(t, FamilyUnknown, FamilyForExtension("notes.sfz"))
}

func testMS(name string) *multisample.MultiSample {
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	ms := &multisample.MultiSample{Name: name}
	ms.Groups = append(ms.Groups, &multisample.Group{
		Zones: []*multisample.SampleZone{{
			Name: name, KeyHigh: 127, VelHigh: 127, RootKey: 60,
			Stop: 16,
			Data: &multisample.SampleData{
				Meta:   multisample.AudioMetadata{Channels: 1, SampleRate: 44100, BitDepth: 16, FrameCount: 16},
				Inline: data,
			},
		}},
	})
	return ms
}

func TestDetectFamilyYSFC(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteYSFC(testMS("Detect Me"), &buf, nil))

	family, err := DetectFamily(bytestream.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, FamilyYSFC, family)
}

func TestDetectFamilyKontakt(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteKontakt(testMS("Detect Me"), &buf, nil))

	family, err := DetectFamily(bytestream.NewReader(bytes.NewReader(buf.Bytes())))
	require.NoError(t, err)
	assert.Equal(t, FamilyKontakt, family)
}

func TestDetectFamilyUnknown(t *testing.T) {
	// High leading u32 (larger than the file) rules out a Kontakt 2 ZLIB
	// size; no recognized magic anywhere.
	data := append([]byte{0xFF, 0xFF, 0xFF, 0xFF}, make([]byte, 28)...)
	family, err := DetectFamily(bytestream.NewReader(bytes.NewReader(data)))
	require.NoError(t, err)
	assert.Equal(t, FamilyUnknown, family)

	_, err = Decode(bytestream.NewReader(bytes.NewReader(data)), nil, "x")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestConvertFileYSFCRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Brass", "Section.X7U")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteYSFC(testMS("Section"), file, nil))
	require.NoError(t, file.Close())

	ms, err := ConvertFile(path, notifier.Nop())
	require.NoError(t, err)
	assert.Equal(t, "Section", ms.Name)
	assert.Equal(t, path, ms.SourcePath)
	assert.Contains(t, ms.PathParts, "Brass")
	require.Len(t, ms.Groups, 1)
	require.Len(t, ms.Groups[0].Zones, 1)
}

func TestConvertFileKontaktRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Pad.nki")

	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteKontakt(testMS("Pad"), file, nil))
	require.NoError(t, file.Close())

	ms, err := ConvertFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Pad", ms.Name)
	require.Len(t, ms.Groups, 1)
	require.Len(t, ms.Groups[0].Zones, 1)
	assert.Equal(t, 60, ms.Groups[0].Zones[0].RootKey)
}

func TestCrossFamilyConversion(t *testing.T) {
	// The full pipeline a conversion worker runs: read Kontakt, write
	// Yamaha, read that back.
	var nki bytes.Buffer
	require.NoError(t, WriteKontakt(testMS("Crossover"), &nki, nil))

	ms, err := Decode(bytestream.NewReader(bytes.NewReader(nki.Bytes())), nil, "Crossover")
	require.NoError(t, err)

	var x7u bytes.Buffer
	require.NoError(t, WriteYSFCFor(ms, ysfc.MODX, &x7u, nil))

	got, err := Decode(bytestream.NewReader(bytes.NewReader(x7u.Bytes())), nil, "Crossover")
	require.NoError(t, err)
	assert.Equal(t, "Crossover", got.Name)
	require.Len(t, got.Groups, 1)
	require.Len(t, got.Groups[0].Zones, 1)
	assert.Equal(t, 60, got.Groups[0].Zones[0].RootKey)
}

func TestConvertBatchRecoversPerFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "ok.x7u")
	bad := filepath.Join(dir, "bad.x7u")

	f, err := os.Create(good)
	require.NoError(t, err)
	require.NoError(t, WriteYSFC(testMS("OK"), f, nil))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(bad, append([]byte{0xFF, 0xFF, 0xFF, 0xFF}, make([]byte, 28)...), 0o644))

	results := ConvertBatch([]string{bad, good}, nil, nil)
	require.Len(t, results, 2)
	assert.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	assert.Equal(t, "OK", results[1].MultiSample.Name)
}

func TestConvertBatchCancellation(t *testing.T) {
	var cancel Cancel
	cancel.Set()
	results := ConvertBatch([]string{"never-opened.nki"}, &cancel, nil)
	assert.Empty(t, results)
}

func TestKontaktFormatStrings(t *testing.T) {
	assert.Equal(t, "NKI 5+", kontakt.FormatNKI5.String())
	assert.Equal(t, "NKI 2-4.1", kontakt.FormatNKI2.String())
}
