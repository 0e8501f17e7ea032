// sampleconv
// Licensed under MIT

// Package multisample is the shared in-memory representation (C2) that
// every codec in this module reads and writes through. It carries no codec
// logic of its own — decoders populate it, the encoders for the other
// family serialize it back out. Ownership is strictly hierarchical
// (MultiSample -> Group -> SampleZone -> SampleLoop); nothing here holds a
// back-reference to its owner, which is what makes bottom-up serialization
// trivial and rules out cycles.
package multisample

import "time"

// Metadata holds the descriptive, non-structural attributes of a
// MultiSample.
type Metadata struct {
	Creator     string
	Category    string
	Keywords    []string
	Description string
	CreationDate time.Time
}

// MultiSample is the top-level entity: a collection of Groups of Zones
// mapped across key and velocity space.
type MultiSample struct {
	Name        string
	Metadata    Metadata
	SourcePath  string
	PathParts   []string
	Groups      []*Group
	MappingName *string

	// Performance layers several MultiSamples onto MIDI channels; each part
	// points at its MultiSample. Absent when the container holds one
	// program only.
	Performance *Performance
}

// TriggerType is a Group's playback trigger semantics.
type TriggerType int

const (
	TriggerAttack TriggerType = iota
	TriggerRelease
	TriggerFirst
	TriggerLegato
)

// Group is a set of Zones sharing trigger semantics.
type Group struct {
	Name        string
	Trigger     TriggerType
	KeyTracking bool
	Reverse     bool
	TuneOffset  float64 // semitones

	// VoiceGroup is the round-robin / voice-group index. Nil when the
	// format doesn't use one.
	VoiceGroup *int

	Filter *Filter

	Zones []*SampleZone
}

// LoopType is the playback direction of a SampleLoop.
type LoopType int

const (
	LoopForward LoopType = iota
	LoopBackward
	LoopAlternating
)

// SampleLoop is a segment of a zone's sample to repeat.
//
// Invariants: 0 <= Start < End <= sample length; Crossfade <= End - Start.
type SampleLoop struct {
	Type      LoopType
	Start     int
	End       int
	Crossfade int
}

// FilterType is the kind of filter applied to a zone or group.
type FilterType int

const (
	FilterLowPass FilterType = iota
	FilterHighPass
	FilterBandPass
	FilterNotch
)

// Filter carries the cutoff/resonance pair most sampler formats attach to a
// zone or group. This is the "optional per-zone envelope & filter
// parameters" mentioned in the data model's SampleZone description; present
// on both Group and SampleZone since some formats (Kontakt) specify it at
// either level.
type Filter struct {
	Type      FilterType
	Cutoff    float64 // Hz
	Resonance float64 // 0..1
}

// Envelope is a simple AHDSR envelope, expressed in milliseconds for the
// time stages and 0..1 for levels. Optional on a SampleZone; no codec in
// this module fills it in (Kontakt envelopes stay on the decoded
// InternalModulator records).
type Envelope struct {
	AttackMs  float64
	HoldMs    float64
	DecayMs   float64
	ReleaseMs float64
	Sustain   float64 // 0..1
	CurveMs   float64
	AHDOnly   bool
}

// SampleZone is one mapped sample slice within a Group.
//
// Invariants: 0 <= KeyLow <= KeyHigh <= 127 and 0 <= VelLow <= VelHigh <= 127;
// Start <= Stop <= sample length; RootKey in [0, 127].
type SampleZone struct {
	Name string

	Data *SampleData

	Start int
	Stop  int

	KeyLow, KeyHigh     int
	RootKey             int
	VelLow, VelHigh     int
	KeyFadeLow, KeyFadeHigh int
	VelFadeLow, VelFadeHigh int

	Gain float64 // dB
	Pan  float64 // -1..+1
	Tune float64 // semitones, fractional

	KeyTrackingScalar float64

	Loops []SampleLoop

	Filter   *Filter
	Envelope *Envelope

	Reversed bool
}

// AudioMetadata describes a raw PCM payload without decoding it.
type AudioMetadata struct {
	Channels   int
	SampleRate int
	BitDepth   int
	FrameCount int
}

// AudioCodec is the opaque collaborator interface for reading
// and writing the actual sample payload. This module treats sample audio as
// an opaque byte blob with a metadata descriptor; a real implementation
// (WAV/AIFF/FLAC/NCW) is injected by the caller.
type AudioCodec interface {
	Read(descriptor any) (AudioMetadata, []byte, error)
	Write(descriptor any, destinationFormat string, data []byte) error
}

// SampleData is an opaque handle to a sample's audio payload plus its
// descriptor. It is owned by whoever created the SampleZone that first
// references it, and passed by sharing (not copied) when a zone is
// repointed at a monolith's in-memory buffer.
type SampleData struct {
	Meta    AudioMetadata
	Handle  any // codec-specific descriptor, e.g. a filename or in-memory buffer key
	Inline  []byte
	Codec   AudioCodec
}

// PerformancePart is one instrument slot within a Performance: a MultiSample
// reference clipped to a MIDI channel and key range.
type PerformancePart struct {
	Name        string
	MidiChannel int
	Program     *MultiSample
	KeyLow      int
	KeyHigh     int
}

// Performance is a layering of several MultiSamples onto MIDI channels with
// per-instrument key clipping (YSFC and Kontakt multis).
type Performance struct {
	Name  string
	Parts []PerformancePart
}
