package gate

import (
	"fmt"
	"strconv"
	"strings"

	"cryptoVolumeAlert/internal/domain"
)

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	volumeHeavy       = 5.0
	volumeElevated    = 3.0
	volumeAboveMedian = 2.0

	ratingVolumeMultiplier = 3.0
)

// formatAlert renders the outbound notification text for one candidate.
// alertNo is the candidate key's ordinal for the current calendar day.
func formatAlert(cand domain.AlertCandidate, tf domain.TimeframeConfig, alertNo int) string {
	snap := cand.Snapshot

	var b strings.Builder
	fmt.Fprintf(&b, "🔔 %s %s — alert #%d today\n", snap.Symbol, snap.Interval, alertNo)

	arrow := "📈"
	word := "up"
	if cand.Direction == domain.DirectionDown {
		arrow = "📉"
		word = "down"
	}
	fmt.Fprintf(&b, "%s Price %s %.2f%% (threshold %.2f%%)%s\n",
		arrow, word, cand.PriceChange, tf.PriceThreshold, intensityBadge(cand.Tier))

	fmt.Fprintf(&b, "Price: %s\n", formatPrice(snap.ClosePrice))
	fmt.Fprintf(&b, "Candle closed: %s\n", snap.CloseTime.UTC().Format("15:04:05 MST"))
	fmt.Fprintf(&b, "Volume: x%.2f median (%s)\n", snap.VolumeMultiplier, volumeLabel(snap.VolumeMultiplier))

	if snap.HasIndicators {
		fmt.Fprintf(&b, "RSI(14): %.2f (%s)\n", snap.RSI, rsiLabel(snap.RSI))
		fmt.Fprintf(&b, "Trend: %s\n", trendLabel(snap.TrendUp))

		support, resistance := supportResistance(snap)
		fmt.Fprintf(&b, "Support: %s | Resistance: %s\n", formatPrice(support), formatPrice(resistance))

		rating, reasons := rate(cand)
		fmt.Fprintf(&b, "Rating: %s\n", rating)
		for _, r := range reasons {
			fmt.Fprintf(&b, "• %s\n", r)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func intensityBadge(tier domain.IntensityTier) string {
	switch tier {
	case domain.TierStrong:
		return " ⚡ strong"
	case domain.TierExplosive:
		return " 💥 explosive"
	default:
		return ""
	}
}

func rsiLabel(rsi float64) string {
	switch {
	case rsi >= rsiOverbought:
		return "overbought"
	case rsi <= rsiOversold:
		return "oversold"
	default:
		return "neutral"
	}
}

func trendLabel(trendUp bool) string {
	if trendUp {
		return "up (EMA7 above EMA25)"
	}
	return "down (EMA7 below EMA25)"
}

func volumeLabel(multiplier float64) string {
	switch {
	case multiplier >= volumeHeavy:
		return "heavy"
	case multiplier >= volumeElevated:
		return "elevated"
	case multiplier >= volumeAboveMedian:
		return "above median"
	default:
		return "normal"
	}
}

// supportResistance picks the level pair relative to the slow moving
// average: price above it makes the average the nearest support, price below
// makes it the nearest resistance.
func supportResistance(snap domain.InstrumentSnapshot) (support, resistance float64) {
	if snap.ClosePrice > snap.EMASlow {
		return snap.EMASlow, snap.Resistance
	}
	return snap.Support, snap.EMASlow
}

// rate grades a candidate A, B or C from three boolean signals and returns
// one justification line per signal.
func rate(cand domain.AlertCandidate) (string, []string) {
	snap := cand.Snapshot

	trendAligned := (cand.Direction == domain.DirectionUp) == snap.TrendUp
	rsiRoom := snap.RSI < rsiOverbought
	if cand.Direction == domain.DirectionDown {
		rsiRoom = snap.RSI > rsiOversold
	}
	volumeBacked := snap.VolumeMultiplier >= ratingVolumeMultiplier

	reasons := make([]string, 0, 3)
	if trendAligned {
		reasons = append(reasons, "trend aligned with the move")
	} else {
		reasons = append(reasons, "move against the prevailing trend")
	}
	if rsiRoom {
		reasons = append(reasons, "RSI leaves room to continue")
	} else {
		reasons = append(reasons, "RSI already at an extreme")
	}
	if volumeBacked {
		reasons = append(reasons, "strong volume backing (x"+strconv.FormatFloat(snap.VolumeMultiplier, 'f', 2, 64)+")")
	} else {
		reasons = append(reasons, "volume backing is modest")
	}

	score := 0
	for _, met := range []bool{trendAligned, rsiRoom, volumeBacked} {
		if met {
			score++
		}
	}

	switch score {
	case 3:
		return "A", reasons
	case 2:
		return "B", reasons
	default:
		return "C", reasons
	}
}

// formatPrice renders a price without a fixed precision so small-cap
// instruments keep their significant digits.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
