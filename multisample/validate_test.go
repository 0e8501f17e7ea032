// sampleconv
// Licensed under MIT

package multisample

import (
	"testing"

	"github.com/mukunda-go/sampleconv/codecerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSample() *MultiSample {
	return &MultiSample{
		Name: "Test",
		Groups: []*Group{
			{
				Name:    "Layer 1",
				Trigger: TriggerAttack,
				Zones: []*SampleZone{
					{
						Name:    "C3",
						KeyLow:  60,
						KeyHigh: 60,
						RootKey: 60,
						VelLow:  0,
						VelHigh: 127,
						Start:   0,
						Stop:    1000,
						Data:    &SampleData{Meta: AudioMetadata{FrameCount: 1000}},
						Loops: []SampleLoop{
							{Type: LoopForward, Start: 10, End: 900, Crossfade: 5},
						},
					},
				},
			},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	assert.NoError(t, validSample().Validate())
}

func TestValidateRejectsEmptyName(t *testing.T) {
	m := validSample()
	m.Name = ""
	assert.Error(t, m.Validate())
}

func TestValidateRejectsBadKeyRange(t *testing.T) {
	m := validSample()
	m.Groups[0].Zones[0].KeyHigh = 200
	err := m.Validate()
	var im *codecerr.InvalidModel
	require.ErrorAs(t, err, &im)
	assert.Contains(t, im.Path, "zone 0 (C3)")
}

func TestValidateRejectsLoopPastSampleEnd(t *testing.T) {
	m := validSample()
	m.Groups[0].Zones[0].Loops[0].End = 5000
	assert.Error(t, m.Validate())
}

func TestValidateRejectsOversizedCrossfade(t *testing.T) {
	m := validSample()
	m.Groups[0].Zones[0].Loops[0].Crossfade = 10000
	assert.Error(t, m.Validate())
}

func TestValidateAllowsEmptyGroupsOnExport(t *testing.T) {
	m := &MultiSample{Name: "Empty"}
	assert.NoError(t, m.Validate())
}
