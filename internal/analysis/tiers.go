package analysis

import "github.com/courtedge/courtedge/internal/models"

// Tier thresholds on the 0-100 confidence scale, shared by the batch and
// live paths so the two never drift apart.
const (
	ThresholdStrongBet = 70.0
	ThresholdBet       = 58.0
	ThresholdLean      = 52.0
	ThresholdNeutral   = 45.0
	ThresholdAvoid     = 30.0
)

// TierFor maps a confidence score onto the five-tier batch recommendation
// scale. Boundaries are inclusive on the lower bound of each tier.
func TierFor(score float64) models.Tier {
	switch {
	case score >= ThresholdStrongBet:
		return models.TierStrongBet
	case score >= ThresholdBet:
		return models.TierBet
	case score >= ThresholdNeutral:
		return models.TierNeutral
	case score >= ThresholdAvoid:
		return models.TierAvoid
	default:
		return models.TierStrongAvoid
	}
}

// LiveTierFor is the live-path variant of TierFor. It shares every batch
// threshold and additionally carves a lean band out of the top of the
// neutral range, for halftime reads that are promising but not bet-grade.
func LiveTierFor(score float64) models.Tier {
	if score >= ThresholdLean && score < ThresholdBet {
		return models.TierLean
	}
	return TierFor(score)
}
