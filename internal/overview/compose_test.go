package overview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ca-overview/internal/models"
)

func minimalReport() Report {
	return Report{
		Identity: models.TokenIdentity{
			Address:  "0x48b62137edfa95a428d35c09e44256a739f6b557",
			Name:     "Test",
			Symbol:   "TST",
			Decimals: 18,
		},
		Socials: models.SocialLinks{},
		Price:   models.PriceSnapshot{PriceUSD: 1.0},
		Audit:   models.AuditFlags{StatusCode: 404},
		Age:     AgeSentinel,
	}
}

func TestComposeMinimalReport(t *testing.T) {
	var text string
	require.NotPanics(t, func() {
		text = Compose(minimalReport(), DefaultProfile)
	})

	assert.Contains(t, text, "Test  TST")
	assert.Contains(t, text, "💰 USD:  $1\n")
	assert.Contains(t, text, "💎 Mcap:  $0.000")
	assert.NotContains(t, text, "🔍 Audit")
	assert.NotContains(t, text, "Top Holders Map")
	assert.Contains(t, text, "🕐 Age:  "+AgeSentinel)
	// the social header keeps its trailing space even with no links
	assert.Contains(t, text, "🧰 More: \n")
	assert.Contains(t, text, "<code>0x48b62137edfa95a428d35c09e44256a739f6b557</code>")
	assert.Contains(t, text, "Search on 𝕏")
}

func TestComposeAuditBlock(t *testing.T) {
	r := minimalReport()
	r.Audit = models.AuditFlags{
		StatusCode:    200,
		OpenSource:    models.TriYes,
		Honeypot:      models.TriNo,
		Mintable:      models.TriUnknown,
		Blacklisted:   models.TriYes,
		PotentialScam: models.TriNo,
	}

	text := Compose(r, DefaultProfile)

	assert.Contains(t, text, "🔍 Audit")
	assert.Contains(t, text, "🔓 Open source: ✅")
	assert.Contains(t, text, "🍯 Honeypot: ❌")
	// unknown flags render nothing at all
	assert.NotContains(t, text, "Mintable")
	// adverse findings use the warning mark, not the check mark
	assert.Contains(t, text, "⛔ Blacklisted: ❗")
	assert.Contains(t, text, "⚠️ Potentially scam: ❌")
}

func TestComposeAuditGatedByStatus(t *testing.T) {
	r := minimalReport()
	r.Audit = models.AuditFlags{StatusCode: 500, OpenSource: models.TriYes}

	text := Compose(r, DefaultProfile)
	assert.NotContains(t, text, "🔍 Audit")
	assert.NotContains(t, text, "Open source")
}

func TestComposeSocialLine(t *testing.T) {
	r := minimalReport()
	r.Socials = models.SocialLinks{
		"twitter":  "https://twitter.com/test",
		"website":  "https://test.example",
		"telegram": "",
	}

	text := Compose(r, DefaultProfile)

	assert.Contains(t, text, `<a href="https://twitter.com/test">𝕏 </a>`)
	assert.Contains(t, text, `<a href="https://test.example">🌐 </a>`)
	// empty URL means no glyph, not a dead link
	assert.NotContains(t, text, "🕊️")
}

func TestComposeSocialGlyphOrder(t *testing.T) {
	r := minimalReport()
	r.Socials = models.SocialLinks{
		"website":  "https://w.example",
		"discord":  "https://d.example",
		"telegram": "https://t.example",
	}

	text := Compose(r, DefaultProfile)

	discord := strings.Index(text, "💭")
	telegram := strings.Index(text, "🕊️")
	website := strings.Index(text, "🌐")
	require.True(t, discord >= 0 && telegram >= 0 && website >= 0)
	assert.Less(t, discord, telegram)
	assert.Less(t, telegram, website)
}

func TestComposeProfileTogglesLiquidity(t *testing.T) {
	r := minimalReport()
	r.LiquidityUSD = 123456

	withLiquidity := Compose(r, DefaultProfile)
	assert.Contains(t, withLiquidity, "💦 Liquidity:  $123.46K")

	p := DefaultProfile
	p.IncludeLiquidity = false
	withoutLiquidity := Compose(r, p)
	assert.NotContains(t, withoutLiquidity, "💦 Liquidity")
}

func TestComposeHoldersSection(t *testing.T) {
	r := minimalReport()
	set := holderSet("200000", "5000", "500")
	r.Holders = ClassifyHolders(set, 1.0, 0, DefaultProfile.ExplorerBase)

	text := Compose(r, DefaultProfile)

	assert.Contains(t, text, "3 Top Holders Map")
	assert.Contains(t, text, "👩‍👧‍👦 Holders: 3")
	assert.Contains(t, text, "└ Top 10 Holders :  $205.50K")
	assert.Contains(t, text, "🐳 ( > $100K ) :  1")
	assert.Contains(t, text, "🐟 ( $1K - $10K ) :  1")
	assert.Contains(t, text, "🦐 ( $0 - $1K ) :  1")
}

func TestComposeHistoryRows(t *testing.T) {
	r := minimalReport()
	r.Price = models.PriceSnapshot{
		PriceUSD:     0.6,
		Price1h:      0.123,
		Price6h:      0.5,
		Price24h:     0.456,
		Variation1h:  -3.21,
		Variation6h:  0,
		Variation24h: 12.5,
	}

	text := Compose(r, DefaultProfile)

	assert.Contains(t, text, "<i>1H:</i>    $0.123 / -3.21%")
	assert.Contains(t, text, "<i>6H:</i>    $0.5 / 0%")
	assert.Contains(t, text, "<i>24H:</i>  $0.456 / 12.5%")
}

func TestParseTriState(t *testing.T) {
	assert.Equal(t, models.TriYes, models.ParseTriState("yes"))
	assert.Equal(t, models.TriNo, models.ParseTriState("no"))
	assert.Equal(t, models.TriUnknown, models.ParseTriState(""))
	assert.Equal(t, models.TriUnknown, models.ParseTriState("YES"))
	assert.Equal(t, models.TriUnknown, models.ParseTriState("maybe"))
}
