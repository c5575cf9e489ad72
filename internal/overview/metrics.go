package overview

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"ca-overview/internal/models"
)

// AgeSentinel is rendered when a creation timestamp is missing or
// unparseable. Fresh launches upstream often have no timestamp yet.
const AgeSentinel = "🔥"

// Holder tier thresholds in USD. Strict greater-than on every boundary.
const (
	tierWhale     = 100_000.0
	tierLargeFish = 50_000.0
	tierBigFish   = 10_000.0
	tierSmallFish = 1_000.0
)

const holdersPerLine = 10

// RoundDecimal rounds v to n decimal places, half away from zero.
// Idempotent: rounding an already-rounded value is a no-op.
func RoundDecimal(v float64, n int) float64 {
	pow := math.Pow(10, float64(n))
	return math.Round(v*pow) / pow
}

// Abbreviate formats a USD amount for display: above one million as
// "1.2M", above one thousand as "1.23K", otherwise with three decimals.
// Thresholds are strict, exactly 1,000,000 still renders as K. Negative
// values keep their sign and bucket by magnitude.
func Abbreviate(v float64) string {
	switch {
	case math.Abs(v) > 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case math.Abs(v) > 1_000:
		return fmt.Sprintf("%.2fK", v/1_000)
	default:
		return fmt.Sprintf("%.3f", v)
	}
}

// DisplayPrice converts a raw native-denominated price string into a USD
// display price rounded to 5 decimals. An unparseable string degrades to
// zero, never to an error.
func DisplayPrice(raw string, nativeUnitUSD float64) float64 {
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p = 0
	}
	return RoundDecimal(p*nativeUnitUSD, 5)
}

// ShiftBalance converts a raw on-chain balance string into a float
// token amount by shifting it down by the token's decimal count. The
// shift happens in decimal arithmetic before the float conversion, so
// large supplies do not lose precision in the integer parse.
func ShiftBalance(raw string, decimals int) float64 {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0
	}
	return d.Shift(int32(-decimals)).InexactFloat64()
}

// HolderValueUSD is the displayable USD value of one holder balance.
func HolderValueUSD(balance string, decimals int, unitPriceUSD float64) float64 {
	return ShiftBalance(balance, decimals) * unitPriceUSD
}

// RelativeAge renders how old a token is relative to now. The timestamp
// is tried as unix seconds first, then as a local ISO-like datetime.
// Unparseable input yields the sentinel, never an error.
func RelativeAge(timestamp string, now time.Time) string {
	var created time.Time
	if secs, err := strconv.ParseInt(timestamp, 10, 64); err == nil {
		created = time.Unix(secs, 0)
	} else if t, err := time.ParseInLocation("2006-01-02T15:04:05", timestamp, time.Local); err == nil {
		created = t
	} else {
		return AgeSentinel
	}

	days := int64(now.Sub(created).Hours() / 24)
	if days > 365 {
		return fmt.Sprintf("%.1f years", float64(days)/365.0)
	} else if days > 30 {
		return fmt.Sprintf("%.1f months", float64(days)/30.0)
	}
	return fmt.Sprintf("%d days", days)
}

// TierCounts is the per-bucket holder tally.
type TierCounts struct {
	Whale     int
	LargeFish int
	BigFish   int
	SmallFish int
	Shrimp    int
}

// Total is the number of classified holders. Every holder lands in
// exactly one tier, so this always equals the classified list length.
func (c TierCounts) Total() int {
	return c.Whale + c.LargeFish + c.BigFish + c.SmallFish + c.Shrimp
}

// HolderSummary is the derived holder view consumed by the composer.
type HolderSummary struct {
	MapText      string // glyph links, ten per line
	Counts       TierCounts
	Top10USD     float64
	Shown        int
	TotalHolders int
}

func tierGlyph(usd float64, counts *TierCounts) string {
	switch {
	case usd > tierWhale:
		counts.Whale++
		return "🐳"
	case usd > tierLargeFish:
		counts.LargeFish++
		return "🦈"
	case usd > tierBigFish:
		counts.BigFish++
		return "🐬"
	case usd > tierSmallFish:
		counts.SmallFish++
		return "🐟"
	default:
		counts.Shrimp++
		return "🦐"
	}
}

// ClassifyHolders walks the holder list in its given order, computes
// each holder's USD value via the decimal shift, buckets it into one
// tier, sums the first ten values, and builds the glyph map with a line
// break after every tenth entry. Any cap on the list (the usual 50) is
// applied by the caller before this point.
func ClassifyHolders(holders models.HolderSet, unitPriceUSD float64, decimals int, explorerBase string) HolderSummary {
	summary := HolderSummary{TotalHolders: holders.TotalHolders}

	var mapText string
	indexOnLine := 0
	for i, holder := range holders.List {
		usd := HolderValueUSD(holder.Balance, decimals, unitPriceUSD)
		if i < 10 {
			summary.Top10USD += usd
		}

		glyph := tierGlyph(usd, &summary.Counts)
		link := fmt.Sprintf("<a href=\"%s/address/%s?Amount=%s\">%s</a>", explorerBase, holder.Address, formatFloat(usd), glyph)
		if indexOnLine == holdersPerLine-1 {
			mapText += link + "\n        "
			indexOnLine = 0
		} else {
			mapText += link
			indexOnLine++
		}
	}
	summary.MapText = mapText
	summary.Shown = len(holders.List)
	return summary
}
