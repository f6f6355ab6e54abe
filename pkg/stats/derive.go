package stats

import "math"

// Canonical display precision per stat family.
const (
	averagePlaces = 3 // AVG, OBP, SLG, OPS
	ratioPlaces   = 2 // ERA, WHIP
)

// Quality-start thresholds: at least 6 full innings with 3 or fewer earned runs.
const (
	qualityStartMinOuts       = 18
	qualityStartMaxEarnedRuns = 3
)

// Rates is the derived rate-stat set computed from a counting bag.
// Zero denominators yield the canonical zero value for the stat's precision
// (0.000 for the average family, 0.00 for ERA/WHIP), never NaN or Inf.
type Rates struct {
	AVG  float64
	OBP  float64
	SLG  float64
	OPS  float64
	ERA  float64
	WHIP float64
}

// Derive computes the full rate-stat set from counting totals. Rounding is
// round-half-up at the stat's canonical precision, applied once at the end,
// never to intermediates. OPS is the sum of the derived OBP and SLG values
// themselves so a displayed OPS always equals displayed OBP plus SLG.
func Derive(c Counting) Rates {
	r := Rates{
		AVG: ratio(float64(c.Hits), float64(c.AtBats), averagePlaces),
		OBP: ratio(
			float64(c.Hits+c.Walks+c.HitByPitch),
			float64(c.AtBats+c.Walks+c.HitByPitch),
			averagePlaces,
		),
		SLG: ratio(float64(totalBases(c)), float64(c.AtBats), averagePlaces),
	}
	r.OPS = RoundHalfUp(r.OBP+r.SLG, averagePlaces)

	ip := c.InningsPitched()
	r.ERA = ratio(9.0*float64(c.EarnedRuns), ip, ratioPlaces)
	r.WHIP = ratio(float64(c.HitsAllowed+c.WalksAllowed), ip, ratioPlaces)

	return r
}

// IsQualityStart reports whether a single outing qualifies: IP >= 6.0 and
// ER <= 3. Only valid per game; season counts sum the per-game flags.
func IsQualityStart(outsPitched, earnedRuns uint32) bool {
	return outsPitched >= qualityStartMinOuts && earnedRuns <= qualityStartMaxEarnedRuns
}

// RoundHalfUp rounds to the given number of decimal places with halves
// rounding up. The small slack absorbs binary representation error on exact
// halves (e.g. 0.2775 arriving as 0.27749999…).
func RoundHalfUp(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Floor(v*shift+0.5+1e-9) / shift
}

func ratio(num, den float64, places int) float64 {
	if den == 0 {
		return 0
	}
	return RoundHalfUp(num/den, places)
}

// totalBases = H + 2B + 2*3B + 3*HR, i.e. singles count once, doubles twice,
// and so on; Hits already includes every extra-base hit once.
func totalBases(c Counting) uint32 {
	return c.Hits + c.Doubles + 2*c.Triples + 3*c.HomeRuns
}
