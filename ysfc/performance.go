// sampleconv
// Licensed under MIT

package ysfc

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/mukunda-go/sampleconv/bytestream"
)

// elementParamBytes is the size of a performance element's fixed parameter
// block: ~140 single-byte parameters covering envelope times, filter
// cutoff, LFO depths, pan and velocity sensitivity. The
// block is preserved verbatim; only the offsets below are interpreted.
const elementParamBytes = 140

// Interpreted offsets into an Element's parameter block. Everything else in
// the block is unresolved and round-trips untouched.
const (
	elemParamAttackTime     = 20
	elemParamDecayTime      = 21
	elemParamReleaseTime    = 23
	elemParamFilterCutoff   = 40
	elemParamPitchKeyFollow = 45
	elemParamPan            = 60
	elemParamVelocitySens   = 61
)

// Element is one of a performance part's up-to-eight elements: a fixed
// parameter block plus a pointer into the waveform entry list.
type Element struct {
	Params [elementParamBytes]byte

	// Unknown holds the 3 bytes present only in the long element form;
	// preserved verbatim.
	Unknown [3]byte

	// WaveformNumber is a 1-based index into the EWFM entry list. The
	// decode path resolves it into an owned reference and drops the index
	// from the model.
	WaveformNumber uint16
}

// AttackTimeSeconds returns the element's amplitude-envelope attack time.
func (e *Element) AttackTimeSeconds() float64 {
	return EnvelopeTimeSeconds(e.Params[elemParamAttackTime])
}

// ReleaseTimeSeconds returns the element's amplitude-envelope release time.
func (e *Element) ReleaseTimeSeconds() float64 {
	return EnvelopeTimeSeconds(e.Params[elemParamReleaseTime])
}

// PitchKeyFollow returns the element's pitch key-follow in percent.
func (e *Element) PitchKeyFollow() float64 {
	return PitchKeyFollowPercent(e.Params[elemParamPitchKeyFollow])
}

// Part is one slot of a performance: a MIDI channel, a key-range clip, and
// its elements.
type Part struct {
	MidiChannel uint8
	KeyLow      uint8
	KeyHigh     uint8
	Reserved    [4]byte

	Elements []*Element
}

// PerformanceData is a decoded DPFM data item.
type PerformanceData struct {
	Parts []*Part
}

const (
	elementTailLong  = 5 // 3 unknown bytes + u16 waveform number
	elementTailShort = 2 // u16 waveform number only
)

// parsePerformance decodes a DPFM data item. The element tail length is
// version-dependent; both forms must be accepted on read,
// so the long form is tried first and the short form used if the item's
// byte count only works out for it.
func parsePerformance(body []byte) (*PerformanceData, error) {
	if p, err := parsePerformanceSized(body, elementTailLong); err == nil {
		return p, nil
	}
	return parsePerformanceSized(body, elementTailShort)
}

func parsePerformanceSized(body []byte, tailLen int) (*PerformanceData, error) {
	r := bytestream.NewReader(bytes.NewReader(body))
	partCount, err := r.U16(binary.BigEndian)
	if err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}

	perf := &PerformanceData{}
	for pi := 0; pi < int(partCount); pi++ {
		head, err := r.Bytes(8)
		if err != nil {
			return nil, err
		}
		elementCount := int(head[0])
		if elementCount > 8 {
			return nil, fmt.Errorf("ysfc: performance part %d claims %d elements", pi, elementCount)
		}
		part := &Part{MidiChannel: head[1], KeyLow: head[2], KeyHigh: head[3]}
		copy(part.Reserved[:], head[4:8])

		for ei := 0; ei < elementCount; ei++ {
			e := &Element{}
			params, err := r.Bytes(elementParamBytes)
			if err != nil {
				return nil, err
			}
			copy(e.Params[:], params)
			if tailLen == elementTailLong {
				unknown, err := r.Bytes(3)
				if err != nil {
					return nil, err
				}
				copy(e.Unknown[:], unknown)
			}
			if e.WaveformNumber, err = r.U16(binary.BigEndian); err != nil {
				return nil, err
			}
			part.Elements = append(part.Elements, e)
		}
		perf.Parts = append(perf.Parts, part)
	}

	if int(r.Offset()) != len(body) {
		return nil, fmt.Errorf("ysfc: performance item has %d trailing bytes", len(body)-int(r.Offset()))
	}
	return perf, nil
}

// encodePerformance serializes a DPFM data item, always in the long element
// form.
func encodePerformance(perf *PerformanceData) ([]byte, error) {
	var buf bytes.Buffer
	w := bytestream.NewWriter(&buf)
	if err := w.U16(binary.BigEndian, uint16(len(perf.Parts))); err != nil {
		return nil, err
	}
	if err := w.Pad(2, 0x00); err != nil {
		return nil, err
	}
	for _, part := range perf.Parts {
		head := []byte{
			uint8(len(part.Elements)), part.MidiChannel, part.KeyLow, part.KeyHigh,
			part.Reserved[0], part.Reserved[1], part.Reserved[2], part.Reserved[3],
		}
		if err := w.Bytes(head); err != nil {
			return nil, err
		}
		for _, e := range part.Elements {
			if err := w.Bytes(e.Params[:]); err != nil {
				return nil, err
			}
			if err := w.Bytes(e.Unknown[:]); err != nil {
				return nil, err
			}
			if err := w.U16(binary.BigEndian, e.WaveformNumber); err != nil {
				return nil, err
			}
		}
	}
	return buf.Bytes(), nil
}
