package overview

import (
	"fmt"
	"strconv"
	"strings"

	"ca-overview/internal/models"
)

// Profile selects the optional sections and chain-specific link bases
// for one rendered overview. The pipeline itself is identical for every
// upstream combination; only the profile varies.
type Profile struct {
	ChainSlug        string // dexscreener path segment
	ExplorerBase     string // block explorer, no trailing slash
	IncludeLiquidity bool
	IncludeAudit     bool
}

// DefaultProfile matches the ApeChain launchpad deployment.
var DefaultProfile = Profile{
	ChainSlug:        "apechain",
	ExplorerBase:     "https://apescan.io",
	IncludeLiquidity: true,
	IncludeAudit:     true,
}

// Report is the fully assembled input to Compose. The fetch layer is
// responsible for degrading missing upstream data to zero values here;
// Compose renders whatever it receives and never fails.
type Report struct {
	Identity     models.TokenIdentity
	Socials      models.SocialLinks
	Price        models.PriceSnapshot
	Audit        models.AuditFlags
	MarketCapUSD float64
	LiquidityUSD float64
	Age          string
	Holders      HolderSummary
}

// socialGlyphs is the fixed channel-to-glyph table. Order matters: the
// social line concatenates glyphs in this sequence. This is effectively
// a protocol with the chat renderer, extend it only deliberately.
var socialGlyphs = []struct {
	Channel string
	Glyph   string
}{
	{"discord", "💭"},
	{"telegram", "🕊️"},
	{"twitter", "𝕏"},
	{"website", "🌐"},
	{"email", "✉️"},
	{"github", "🐙"},
}

// formatFloat renders a float the way the upstream dashboards do:
// minimal digits, no exponent, no trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Compose renders one token overview into the Telegram HTML subset.
// It is a stateless single-pass transform and is total over any
// structurally valid Report.
func Compose(r Report, p Profile) string {
	addr := r.Identity.Address

	liquidityLine := ""
	if p.IncludeLiquidity {
		liquidityLine = fmt.Sprintf("💦 Liquidity:  $%s\n", Abbreviate(r.LiquidityUSD))
	}

	text := fmt.Sprintf("\n<a href=\"https://dexscreener.com/%s/%s\">🚀</a> %s  %s\n",
		p.ChainSlug, addr, r.Identity.Name, r.Identity.Symbol)
	text += fmt.Sprintf("💰 USD:  $%s\n", formatFloat(r.Price.PriceUSD))
	text += fmt.Sprintf("💎 Mcap:  $%s\n", Abbreviate(r.MarketCapUSD))
	text += liquidityLine
	text += "📈 Price history\n"
	text += fmt.Sprintf("        └ <i>1H:</i>    $%s / %s%%  \n", formatFloat(r.Price.Price1h), formatFloat(r.Price.Variation1h))
	text += fmt.Sprintf("        └ <i>6H:</i>    $%s / %s%%  \n", formatFloat(r.Price.Price6h), formatFloat(r.Price.Variation6h))
	text += fmt.Sprintf("        └ <i>24H:</i>  $%s / %s%% \n", formatFloat(r.Price.Price24h), formatFloat(r.Price.Variation24h))
	if p.IncludeAudit {
		text += auditBlock(r.Audit)
	}
	text += fmt.Sprintf("🕐 Age:  %s\n", r.Age)
	text += fmt.Sprintf("🧰 More: %s\n", socialLine(r.Socials))
	text += fmt.Sprintf("👩‍👧‍👦 Holders: %d\n", r.Holders.TotalHolders)
	text += fmt.Sprintf("        └ Top 10 Holders :  $%s\n", Abbreviate(r.Holders.Top10USD))
	text += holdersBlock(r.Holders)
	text += fmt.Sprintf("<code>%s</code>\n", addr)
	text += fmt.Sprintf("<a href=\"https://dexscreener.com/%s/%s\">DEX</a> <a href=\"%s/address/%s\">EXP</a>\n",
		p.ChainSlug, addr, p.ExplorerBase, addr)
	text += "\n"
	text += fmt.Sprintf("❎ <a href=\"https://twitter.com/search?q=%s=typed_query&f=live\"> Search on 𝕏 </a>\n", addr)
	text += fmt.Sprintf("📈 <a href=\"%s/token/%s\"> Token Explorer </a>\n", p.ExplorerBase, addr)

	return text
}

// socialLine builds the clickable glyph row. Channels without a URL
// produce nothing, not a placeholder.
func socialLine(socials models.SocialLinks) string {
	var sb strings.Builder
	for _, entry := range socialGlyphs {
		url := socials[entry.Channel]
		if url == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(" <a href=\"%s\">%s </a>", url, entry.Glyph))
	}
	return sb.String()
}

// auditLine renders one tri-state check. Unknown is silent: no line at
// all, neither a pass nor a fail mark.
func auditLine(label string, state models.TriState, yesMark string) string {
	switch state {
	case models.TriYes:
		return fmt.Sprintf("        %s: %s\n", label, yesMark)
	case models.TriNo:
		return fmt.Sprintf("        %s: ❌\n", label)
	default:
		return ""
	}
}

func auditBlock(audit models.AuditFlags) string {
	if audit.StatusCode != 200 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("🔍 Audit\n")
	sb.WriteString(auditLine("🔓 Open source", audit.OpenSource, "✅"))
	sb.WriteString(auditLine("🍯 Honeypot", audit.Honeypot, "✅"))
	sb.WriteString(auditLine("🖨 Mintable", audit.Mintable, "✅"))
	sb.WriteString(auditLine("🔄 Proxy", audit.Proxy, "✅"))
	sb.WriteString(auditLine("📊 Slippage modifiable", audit.SlippageModifiable, "✅"))
	sb.WriteString(auditLine("⛔ Blacklisted", audit.Blacklisted, "❗"))
	sb.WriteString(auditLine("📜 Contract renounced", audit.ContractRenounced, "✅"))
	sb.WriteString(auditLine("⚠️ Potentially scam", audit.PotentialScam, "❗"))
	return sb.String()
}

// holdersBlock renders the "Top Holders Map" header, the glyph map and
// the tier legend. An empty holder list renders nothing at all.
func holdersBlock(h HolderSummary) string {
	if h.Shown == 0 {
		return ""
	}

	headerCount := h.TotalHolders
	if headerCount >= 50 || headerCount < h.Shown {
		headerCount = h.Shown
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n<u><b><i>%d Top Holders Map</i></b></u>\n        ", headerCount))
	sb.WriteString(h.MapText)
	sb.WriteString(fmt.Sprintf("\n        🐳 ( > $100K ) :  %d\n", h.Counts.Whale))
	sb.WriteString(fmt.Sprintf("        🦈 ( $50K - $100K ) :  %d\n", h.Counts.LargeFish))
	sb.WriteString(fmt.Sprintf("        🐬 ( $10K - $50K ) :  %d\n", h.Counts.BigFish))
	sb.WriteString(fmt.Sprintf("        🐟 ( $1K - $10K ) :  %d\n", h.Counts.SmallFish))
	sb.WriteString(fmt.Sprintf("        🦐 ( $0 - $1K ) :  %d\n", h.Counts.Shrimp))
	return sb.String()
}
