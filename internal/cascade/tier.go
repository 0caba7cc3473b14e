package cascade

import "fermata/internal/config"

// Tier is one quality profile in the ladder. Order is meaningful: the
// controller walks tiers front to back, and only the final tier is eligible
// for forced transcoding.
type Tier struct {
	Label   string
	Quality string
}

// TiersFromConfig converts the configured ladder, preserving order.
func TiersFromConfig(tiers []config.Tier) []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, Tier{Label: t.Label, Quality: t.Quality})
	}
	return out
}
