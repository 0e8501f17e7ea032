// sampleconv
// Licensed under MIT

package sampleconv

import "github.com/mukunda-go/sampleconv/multisample"

// Export the shared model types into this package.

type MultiSample = multisample.MultiSample
type Metadata = multisample.Metadata
type Group = multisample.Group
type SampleZone = multisample.SampleZone
type SampleLoop = multisample.SampleLoop
type SampleData = multisample.SampleData
type AudioMetadata = multisample.AudioMetadata
type Performance = multisample.Performance
type PerformancePart = multisample.PerformancePart
type TriggerType = multisample.TriggerType
type LoopType = multisample.LoopType
type Filter = multisample.Filter
type Envelope = multisample.Envelope

const (
	TriggerAttack  = multisample.TriggerAttack
	TriggerRelease = multisample.TriggerRelease
	TriggerFirst   = multisample.TriggerFirst
	TriggerLegato  = multisample.TriggerLegato
)

const (
	LoopForward     = multisample.LoopForward
	LoopBackward    = multisample.LoopBackward
	LoopAlternating = multisample.LoopAlternating
)
