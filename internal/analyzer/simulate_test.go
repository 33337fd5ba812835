package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatePerformance_WithinProfileBounds(t *testing.T) {
	sim := NewSimulator(42)

	for _, persona := range []string{"founders", "creatives", "operations"} {
		profile := engagementProfiles[persona]
		for i := 0; i < 50; i++ {
			rec := sim.SimulatePerformance("camp-1", persona, 1000)

			assert.Equal(t, persona, rec.Persona)
			assert.Equal(t, 1000, rec.ContactsSent)
			// opens are truncated to whole contacts, so the realized rate can
			// only sit at or below the sampled upper bound
			assert.LessOrEqual(t, rec.OpenRate, profile.openRate[1])
			assert.LessOrEqual(t, rec.ClickRate, profile.clickRate[1])
			assert.LessOrEqual(t, rec.UnsubscribeRate, profile.unsubRate[1])
		}
	}
}

func TestSimulatePerformance_UnknownPersonaFallsBack(t *testing.T) {
	sim := NewSimulator(7)
	rec := sim.SimulatePerformance("camp-2", "astronauts", 500)

	assert.Equal(t, "astronauts", rec.Persona)
	assert.LessOrEqual(t, rec.OpenRate, engagementProfiles["creatives"].openRate[1])
}

func TestSimulatePerformance_SeededDeterminism(t *testing.T) {
	a := NewSimulator(99).SimulatePerformance("c", "founders", 300)
	b := NewSimulator(99).SimulatePerformance("c", "founders", 300)
	assert.Equal(t, a, b)
}
