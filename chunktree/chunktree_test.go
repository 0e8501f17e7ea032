// sampleconv
// Licensed under MIT

package chunktree

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/stretchr/testify/assert"
)

func TestGenericStructuredRoundTrip(t *testing.T) {
	child := &Chunk{ID: Zone, Structured: true, Version: 0x9C, Pub: []byte{1, 2, 3}}
	c := &Chunk{ID: Group, Structured: true, Version: 5, Priv: []byte{9}, Pub: []byte{1, 2, 3, 4}, Children: []*Chunk{child}}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	assert.NoError(t, c.Write(w))

	r := bytestream.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Parse(r, "", 0)
	assert.NoError(t, err)

	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, c.Version, got.Version)
	assert.Equal(t, c.Priv, got.Priv)
	assert.Equal(t, c.Pub, got.Pub)
	assert.Len(t, got.Children, 1)
	assert.Equal(t, child.Pub, got.Children[0].Pub)
	assert.Equal(t, child.Version, got.Children[0].Version)
}

func TestOpaqueChunkRoundTrips(t *testing.T) {
	// An unrecognized structured flag of 0 should preserve bytes verbatim.
	c := &Chunk{ID: SaveSettings, Structured: false, Opaque: []byte{0, 1, 2, 3, 4}}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	assert.NoError(t, c.Write(w))

	r := bytestream.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Parse(r, "", 0)
	assert.NoError(t, err)
	assert.Equal(t, c.Opaque, got.Opaque)
}

func TestZoneListRoundTripsReferences(t *testing.T) {
	ref1 := uint32(10)
	ref2 := uint32(20)
	c := &Chunk{
		ID: ZoneList,
		Children: []*Chunk{
			{ID: Zone, Structured: true, Pub: []byte{1}, Reference: &ref1},
			{ID: Zone, Structured: true, Pub: []byte{2}, Reference: &ref2},
		},
	}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	assert.NoError(t, c.Write(w))

	r := bytestream.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Parse(r, "", 0)
	assert.NoError(t, err)
	assert.Len(t, got.Children, 2)
	assert.Equal(t, ref1, *got.Children[0].Reference)
	assert.Equal(t, ref2, *got.Children[1].Reference)
}

func TestParameterArray16RoundTrip(t *testing.T) {
	slots := &ParameterSlots{}
	slots.Slots[0] = &Chunk{ID: ParInternalMod, Structured: true, Pub: []byte{7, 7}}
	slots.Slots[5] = &Chunk{ID: ParModBase, Structured: true, Pub: []byte{1}}
	c := &Chunk{ID: ParameterArray16, ParameterSlots: slots}

	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	assert.NoError(t, c.Write(w))

	r := bytestream.NewReader(bytes.NewReader(buf.Bytes()))
	got, err := Parse(r, "", 0)
	assert.NoError(t, err)
	assert.NotNil(t, got.ParameterSlots.Slots[0])
	assert.Nil(t, got.ParameterSlots.Slots[1])
	assert.NotNil(t, got.ParameterSlots.Slots[5])
	assert.Equal(t, []byte{7, 7}, got.ParameterSlots.Slots[0].Pub)
}

func TestTruncatedChunkFails(t *testing.T) {
	// Size says 100 bytes but only 2 are available: should fail, not panic.
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	_ = w.U16(binary.LittleEndian, uint16(Zone))
	_ = w.U32(binary.LittleEndian, 100)
	_ = w.Bytes([]byte{1, 2})

	r := bytestream.NewReader(bytes.NewReader(buf.Bytes()))
	_, err := Parse(r, "", 0)
	assert.Error(t, err)
}
