package overview

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"ca-overview/internal/models"
)

func TestAbbreviate(t *testing.T) {
	cases := []struct {
		input float64
		want  string
	}{
		{2_500_000, "2.5M"},
		{1_500, "1.50K"},
		{42.1, "42.100"},
		{0, "0.000"},
		// thresholds are strict: exactly one million is still K
		{1_000_000, "1000.00K"},
		{1_000, "1000.000"},
		{1_000.01, "1.00K"},
		{-2_500_000, "-2.5M"},
		{-1_500, "-1.50K"},
		{-42.1, "-42.100"},
	}

	for _, tc := range cases {
		if got := Abbreviate(tc.input); got != tc.want {
			t.Errorf("Abbreviate(%v) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestRoundDecimal(t *testing.T) {
	if got := RoundDecimal(0.123456, 3); got != 0.123 {
		t.Errorf("RoundDecimal(0.123456, 3) = %v, want 0.123", got)
	}
	// half away from zero on both sides
	if got := RoundDecimal(1.25, 1); got != 1.3 {
		t.Errorf("RoundDecimal(1.25, 1) = %v, want 1.3", got)
	}
	if got := RoundDecimal(-1.25, 1); got != -1.3 {
		t.Errorf("RoundDecimal(-1.25, 1) = %v, want -1.3", got)
	}
}

func TestRoundDecimalIdempotent(t *testing.T) {
	values := []float64{0.123456, 1.25, -98.76543, 0, 1234.5678}
	for _, v := range values {
		for n := 0; n <= 5; n++ {
			once := RoundDecimal(v, n)
			twice := RoundDecimal(once, n)
			if once != twice {
				t.Errorf("RoundDecimal not idempotent for v=%v n=%d: %v != %v", v, n, once, twice)
			}
		}
	}
}

func TestDisplayPrice(t *testing.T) {
	if got := DisplayPrice("0.5", 1.2); got != 0.6 {
		t.Errorf("DisplayPrice(0.5, 1.2) = %v, want 0.6", got)
	}
	if got := DisplayPrice("0.0000012345", 1.0); got != 0.00000 {
		t.Errorf("DisplayPrice rounds to 5 decimals, got %v", got)
	}
	// unparseable degrades to zero, never errors
	if got := DisplayPrice("not-a-price", 2.0); got != 0 {
		t.Errorf("DisplayPrice on garbage = %v, want 0", got)
	}
	if got := DisplayPrice("", 2.0); got != 0 {
		t.Errorf("DisplayPrice on empty = %v, want 0", got)
	}
}

func TestRelativeAge(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	unix := func(d time.Duration) string {
		return fmt.Sprintf("%d", now.Add(-d).Unix())
	}

	if got := RelativeAge(unix(400*24*time.Hour), now); got != "1.1 years" {
		t.Errorf("400 days = %q, want \"1.1 years\"", got)
	}
	if got := RelativeAge(unix(40*24*time.Hour), now); got != "1.3 months" {
		t.Errorf("40 days = %q, want \"1.3 months\"", got)
	}
	if got := RelativeAge(unix(10*24*time.Hour), now); got != "10 days" {
		t.Errorf("10 days = %q, want \"10 days\"", got)
	}
	if got := RelativeAge("definitely not a date", now); got != AgeSentinel {
		t.Errorf("garbage = %q, want sentinel %q", got, AgeSentinel)
	}
	if got := RelativeAge("", now); got != AgeSentinel {
		t.Errorf("empty = %q, want sentinel %q", got, AgeSentinel)
	}
}

func TestRelativeAgeISOFormat(t *testing.T) {
	now := time.Now()
	stamp := now.Add(-40 * 24 * time.Hour).In(time.Local).Format("2006-01-02T15:04:05")
	if got := RelativeAge(stamp, now); got != "1.3 months" {
		t.Errorf("ISO timestamp 40 days back = %q, want \"1.3 months\"", got)
	}
}

func TestHolderValueUSDDecimalShift(t *testing.T) {
	// 1e18 raw with 18 decimals is exactly one token
	got := HolderValueUSD("1000000000000000000", 18, 2.0)
	if got != 2.0 {
		t.Errorf("HolderValueUSD(1e18, 18, $2) = %v, want 2.0", got)
	}

	// a supply far beyond int64 must not lose the shift
	got = HolderValueUSD("123456789000000000000000000", 18, 1.0)
	if got != 123456789.0 {
		t.Errorf("HolderValueUSD(1.23e26, 18, $1) = %v, want 123456789", got)
	}

	if got := HolderValueUSD("garbage", 18, 2.0); got != 0 {
		t.Errorf("HolderValueUSD on garbage balance = %v, want 0", got)
	}
}

func holderSet(balances ...string) models.HolderSet {
	set := models.HolderSet{TotalHolders: len(balances)}
	for i, b := range balances {
		set.List = append(set.List, models.HolderRecord{
			Address: fmt.Sprintf("0x%040d", i),
			Balance: b,
		})
	}
	return set
}

func TestClassifyHoldersTiers(t *testing.T) {
	// decimals=0 and price=1 make balances equal USD values
	set := holderSet("200000", "5000", "500")
	summary := ClassifyHolders(set, 1.0, 0, "https://apescan.io")

	if summary.Counts.Whale != 1 {
		t.Errorf("whale count = %d, want 1", summary.Counts.Whale)
	}
	// 5000 is >1000 and <=10000: small fish, not big fish
	if summary.Counts.SmallFish != 1 {
		t.Errorf("small fish count = %d, want 1", summary.Counts.SmallFish)
	}
	if summary.Counts.Shrimp != 1 {
		t.Errorf("shrimp count = %d, want 1", summary.Counts.Shrimp)
	}
	if summary.Counts.Total() != len(set.List) {
		t.Errorf("tier counts sum to %d, want %d", summary.Counts.Total(), len(set.List))
	}
	if summary.Top10USD != 205500 {
		t.Errorf("top10 sum = %v, want 205500", summary.Top10USD)
	}
}

func TestClassifyHoldersBoundaries(t *testing.T) {
	// exact threshold values fall into the lower tier
	set := holderSet("100000", "50000", "10000", "1000")
	summary := ClassifyHolders(set, 1.0, 0, "https://apescan.io")

	if summary.Counts.Whale != 0 {
		t.Errorf("exactly 100k classified as whale")
	}
	if summary.Counts.LargeFish != 1 || summary.Counts.BigFish != 1 || summary.Counts.SmallFish != 1 || summary.Counts.Shrimp != 1 {
		t.Errorf("boundary classification wrong: %+v", summary.Counts)
	}
}

func TestClassifyHoldersTop10Truncation(t *testing.T) {
	var balances []string
	for i := 0; i < 12; i++ {
		balances = append(balances, "1000")
	}
	summary := ClassifyHolders(holderSet(balances...), 1.0, 0, "https://apescan.io")

	if summary.Top10USD != 10000 {
		t.Errorf("top10 sum over 12 holders = %v, want 10000 (first 10 only)", summary.Top10USD)
	}
	if summary.Counts.Shrimp != 12 {
		t.Errorf("shrimp count = %d, want 12", summary.Counts.Shrimp)
	}
	// a line break after every tenth glyph
	if got := strings.Count(summary.MapText, "\n"); got != 1 {
		t.Errorf("map text line breaks = %d, want 1", got)
	}
	if got := strings.Count(summary.MapText, "<a href="); got != 12 {
		t.Errorf("map text links = %d, want 12", got)
	}
}

func TestClassifyHoldersSmallSetTop10(t *testing.T) {
	summary := ClassifyHolders(holderSet("300", "200", "100"), 1.0, 0, "https://apescan.io")
	if summary.Top10USD != 600 {
		t.Errorf("top10 sum for 3 holders = %v, want 600 (all of them)", summary.Top10USD)
	}
}
