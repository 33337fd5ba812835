package analyzer

import (
	"math/rand"

	"github.com/dillontadeo/ai-content-pipeline/internal/types"
)

type engagementProfile struct {
	openRate  [2]float64
	clickRate [2]float64
	unsubRate [2]float64
}

// Different personas show different engagement patterns.
var engagementProfiles = map[string]engagementProfile{
	"founders": {
		openRate:  [2]float64{0.22, 0.35},
		clickRate: [2]float64{0.08, 0.15},
		unsubRate: [2]float64{0.002, 0.008},
	},
	"creatives": {
		openRate:  [2]float64{0.25, 0.40},
		clickRate: [2]float64{0.10, 0.18},
		unsubRate: [2]float64{0.001, 0.005},
	},
	"operations": {
		openRate:  [2]float64{0.18, 0.28},
		clickRate: [2]float64{0.06, 0.12},
		unsubRate: [2]float64{0.003, 0.010},
	},
}

// Simulator produces realistic campaign performance for demos and tests when
// no real CRM analytics are available.
type Simulator struct {
	rng *rand.Rand
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

// SimulatePerformance generates a plausible metrics record for one persona
// segment. Unknown personas fall back to the creatives profile.
func (s *Simulator) SimulatePerformance(campaignID, persona string, contactsSent int) types.PersonaRecord {
	profile, ok := engagementProfiles[persona]
	if !ok {
		profile = engagementProfiles["creatives"]
	}

	openRate := s.uniform(profile.openRate)
	clickRate := s.uniform(profile.clickRate)
	unsubRate := s.uniform(profile.unsubRate)

	raw := types.RawCounts{
		Sent:         contactsSent,
		Opens:        int(float64(contactsSent) * openRate),
		Clicks:       int(float64(contactsSent) * clickRate),
		Unsubscribes: int(float64(contactsSent) * unsubRate),
	}

	return types.PersonaRecord{
		CampaignMetrics: CalculateMetrics(raw),
		Persona:         persona,
		CampaignID:      campaignID,
	}
}

func (s *Simulator) uniform(bounds [2]float64) float64 {
	return bounds[0] + s.rng.Float64()*(bounds[1]-bounds[0])
}
