package models

// TriState is the three-valued result of an upstream audit heuristic.
// Audit services report "yes", "no", or nothing at all for each check,
// and an absent answer must stay distinguishable from a negative one.
type TriState int

const (
	TriUnknown TriState = iota
	TriYes
	TriNo
)

// ParseTriState maps the raw upstream string onto a TriState.
// Anything other than exactly "yes" or "no" is Unknown.
func ParseTriState(raw string) TriState {
	switch raw {
	case "yes":
		return TriYes
	case "no":
		return TriNo
	default:
		return TriUnknown
	}
}

func (t TriState) String() string {
	switch t {
	case TriYes:
		return "yes"
	case TriNo:
		return "no"
	default:
		return "unknown"
	}
}

// TokenIdentity is the load-bearing record for a token query. If this
// cannot be fetched the whole overview fails; everything else degrades.
type TokenIdentity struct {
	Address     string
	Name        string
	Symbol      string
	Decimals    int
	TotalSupply string // raw on-chain integer, decimal string
	LogoURL     string
	Description string
	CreatedAt   string // unix seconds or "2006-01-02T15:04:05", may be empty
}

// SocialLinks maps a channel name (telegram, twitter, website, ...) to a
// URL. Empty or missing entries are omitted from display entirely.
type SocialLinks map[string]string

// PriceSnapshot carries the current USD price plus the 1h/6h/24h
// comparison points. Missing history stays at the zero value; the
// composer renders whatever it is given.
type PriceSnapshot struct {
	PriceUSD     float64
	Price1h      float64
	Price6h      float64
	Price24h     float64
	Variation1h  float64
	Variation6h  float64
	Variation24h float64
}

// HolderRecord is one entry of a holder list. Balance is the raw
// on-chain amount as a decimal string and must be shifted by the token's
// decimal count before any float math.
type HolderRecord struct {
	Address  string
	Balance  string
	Username string
}

// HolderSet is an ordered holder list (descending balance, as returned
// upstream) plus the total holder count, which may exceed len(List).
type HolderSet struct {
	List         []HolderRecord
	TotalHolders int
}

// AuditFlags carries the tri-state security checks for a token.
// StatusCode gates the whole block: anything other than 200 means the
// audit section is not displayed.
type AuditFlags struct {
	StatusCode         int
	OpenSource         TriState
	Honeypot           TriState
	Mintable           TriState
	Proxy              TriState
	SlippageModifiable TriState
	Blacklisted        TriState
	ContractRenounced  TriState
	PotentialScam      TriState
}
