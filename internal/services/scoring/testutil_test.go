package scoring

import "METI/internal/domain/models"

// flatObservations returns a complete snapshot where every instrument has
// the given change on every timeframe.
func flatObservations(c *Catalog, change float64) map[string]models.AssetObservation {
	out := make(map[string]models.AssetObservation)
	for _, sym := range c.Symbols() {
		o := models.NewAssetObservation(sym)
		for _, tf := range c.TimeframeKeys() {
			o.Changes[tf] = change
		}
		o.Price = 100
		out[sym] = o
	}
	return out
}
