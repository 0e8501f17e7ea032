// sampleconv
// Licensed under MIT

package kontakt

import (
	"bytes"
	"encoding/binary"

	"github.com/mukunda-go/sampleconv/bytestream"
	"github.com/mukunda-go/sampleconv/chunktree"
	"github.com/mukunda-go/sampleconv/notifier"
)

// Recognized InternalModulator wire-tag versions.
const (
	ModulatorVersion80 uint16 = 0x80
	ModulatorVersion81 uint16 = 0x81
)

// ModulatedParameter is one entry of an InternalModulator's block 1 array:
// a named target parameter ("volume", "pan", "filterCutoff", "pitch", ...)
// with its static intensity, a driving modulator description, and an
// optional curve table.
type ModulatedParameter struct {
	Name              string
	Intensity         float32
	Flags             uint8
	Lag               int16
	Description       string // e.g. "ENV_AHDSR_VOLUME", "LFO_SINE_CUTOFF"
	CurveSteps        []float32
	CurvePoints       []CurvePoint
}

// CurvePoint is one (x, y, slope) triple of a non-uniform curve table.
type CurvePoint struct {
	X, Y, Slope float32
}

// InternalModulator is a decoded PAR_INTERNAL_MOD/PAR_MOD_BASE modulator
// (envelope or LFO) driving one or more zone/group parameters.
type InternalModulator struct {
	WireVersion uint16

	Parameters []ModulatedParameter

	ModSectionOpen bool
	Bypassed       bool
	Retrigger      bool
	UnknownFlag    bool
	FxSlot         uint32
	SourceName     string
	SourceIndex    uint32

	// Envelope is populated only when block 2 describes a supported
	// envelope (source index in {0,2} and source name in
	// {"ENV_AHDSR", "<none>", ""}); "ENV_DBD" and anything else is left
	// nil.
	Envelope *ModulatorEnvelope
}

// ModulatorEnvelope is the block-2 AHDSR payload, all times in
// milliseconds.
type ModulatorEnvelope struct {
	Curve   float32
	Attack  float32
	Hold    float32
	Decay   float32
	Release float32
	Sustain float32
	AHDOnly bool
}

// paddingExact2 and paddingExact1 are the exact-match (parameter,
// description) pairs known to need 2 and 1 bytes of variable padding
// respectively, brute-forced from observed files. Pairs not listed fall
// back to the parity rule. The tables are deliberately small rather than
// guessed: an entry here is only ever added against a real file, never
// inferred.
var paddingExact2 = map[[2]string]bool{
	{"filterCutoff", "ENV_AHDSR_CUTOFF"}: true,
}

var paddingExactNone = map[[2]string]bool{
	{"volume", "ENV_AHDSR_VOLUME"}: true,
}

var paddingExact1 = map[[2]string]bool{
	{"pan", "LFO_SINE_PAN"}: true,
}

// paddingFallbackCount is incremented every time a (parameter, description)
// pair falls through to the parity rule, so read failures can later be
// correlated to gaps in the exact-match tables.
var paddingFallbackCount int

func modulatorPadding(paramName, desc string) int {
	key := [2]string{paramName, desc}
	switch {
	case paddingExact2[key]:
		return 2
	case paddingExact1[key]:
		return 1
	case paddingExactNone[key]:
		return 0
	default:
		paddingFallbackCount++
		if (len(paramName)+len(desc))%2 != 0 {
			return 1
		}
		return 0
	}
}

// PaddingFallbackCount reports how many times the InternalModulator padding
// decoder fell back to the parity rule instead of an exact-match table hit.
func PaddingFallbackCount() int { return paddingFallbackCount }

func readLenPrefixedASCII(r *bytestream.Reader) (string, error) {
	n, err := r.U32(binary.LittleEndian)
	if err != nil {
		return "", err
	}
	b, err := r.Bytes(int(n))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeInternalModulator decodes one PARAMETER_ARRAY_16 slot whose chunk ID
// is PAR_INTERNAL_MOD or PAR_MOD_BASE.
func DecodeInternalModulator(c *chunktree.Chunk, n notifier.Notifier) (*InternalModulator, error) {
	r := bytestream.NewReader(bytes.NewReader(c.Pub))
	m := &InternalModulator{WireVersion: c.Version}

	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		p := ModulatedParameter{}
		if p.Name, err = readLenPrefixedASCII(r); err != nil {
			return nil, err
		}
		if p.Intensity, err = r.F32(); err != nil {
			return nil, err
		}
		if _, err = r.U16(binary.LittleEndian); err != nil { // sentinel 0xFFFF
			return nil, err
		}
		if p.Flags, err = r.U8(); err != nil {
			return nil, err
		}
		if p.Lag, err = r.S16(binary.LittleEndian); err != nil {
			return nil, err
		}

		if p.Flags&(1<<3) != 0 {
			if err := r.Skip(5); err != nil {
				return nil, err
			}
		} else {
			if p.Description, err = readLenPrefixedASCII(r); err != nil {
				return nil, err
			}
			pad := modulatorPadding(p.Name, p.Description)
			if pad > 0 {
				if err := r.Skip(pad); err != nil {
					return nil, err
				}
			}
			if err := decodeCurveTable(r, &p); err != nil {
				return nil, err
			}
		}

		m.Parameters = append(m.Parameters, p)
	}

	flags := make([]uint8, 4)
	for i := range flags {
		if flags[i], err = r.U8(); err != nil {
			return nil, err
		}
	}
	m.ModSectionOpen, m.Bypassed, m.Retrigger, m.UnknownFlag = flags[0] != 0, flags[1] != 0, flags[2] != 0, flags[3] != 0

	if m.FxSlot, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}
	if m.SourceName, err = readLenPrefixedASCII(r); err != nil {
		return nil, err
	}
	if m.SourceIndex, err = r.U32(binary.LittleEndian); err != nil {
		return nil, err
	}

	if isEnvelopeSource(m.SourceIndex, m.SourceName) {
		env, err := decodeEnvelopeBlock(r)
		if err != nil {
			return nil, err
		}
		m.Envelope = env
	}

	return m, nil
}

// A curve table comes in two shapes: a fixed 128-entry step array, or a
// variable-length list of (x, y, slope) triples. There is no explicit
// discriminator byte beyond the leading count, so a count of exactly 128 is
// read as the step-array form and any other count as the point-list form;
// this is recorded as an open design point in DESIGN.md.
func decodeCurveTable(r *bytestream.Reader, p *ModulatedParameter) error {
	count, err := r.U32(binary.LittleEndian)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if count == 128 {
		steps := make([]float32, 128)
		for i := range steps {
			if steps[i], err = r.F32(); err != nil {
				return err
			}
		}
		p.CurveSteps = steps
		return nil
	}
	points := make([]CurvePoint, count)
	for i := range points {
		if points[i].X, err = r.F32(); err != nil {
			return err
		}
		if points[i].Y, err = r.F32(); err != nil {
			return err
		}
		if points[i].Slope, err = r.F32(); err != nil {
			return err
		}
	}
	p.CurvePoints = points
	return nil
}

func isEnvelopeSource(sourceIndex uint32, sourceName string) bool {
	if sourceIndex != 0 && sourceIndex != 2 {
		return false
	}
	switch sourceName {
	case "ENV_AHDSR", "<none>", "":
		return true
	default:
		return false
	}
}

func decodeEnvelopeBlock(r *bytestream.Reader) (*ModulatorEnvelope, error) {
	if err := r.Skip(34); err != nil {
		return nil, err
	}
	vals := make([]float32, 6)
	for i := range vals {
		v, err := r.F32()
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	ahdOnly, err := r.U8()
	if err != nil {
		return nil, err
	}
	return &ModulatorEnvelope{
		Curve: vals[0], Attack: vals[1], Hold: vals[2],
		Decay: vals[3], Release: vals[4], Sustain: vals[5],
		AHDOnly: ahdOnly != 0,
	}, nil
}
