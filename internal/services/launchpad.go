package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"ca-overview/internal/models"
	"ca-overview/shared/logger"
)

// nativePriceScale: the launchpad quotes the native coin price as an
// integer scaled by 1e8.
const nativePriceScale = 1e8

// LaunchpadClient talks to the internal token-launch API. It serves the
// load-bearing identity record plus the holder list and the native coin
// price.
type LaunchpadClient struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	log       *logger.Logger
	holderCap int
}

// NewLaunchpadClient builds a client. holderCap truncates the holder
// list before classification; zero means no cap.
func NewLaunchpadClient(baseURL string, holderCap int, appLogger *logger.Logger) *LaunchpadClient {
	return &LaunchpadClient{
		baseURL:   baseURL,
		http:      newUpstreamClient(),
		limiter:   rate.NewLimiter(rate.Limit(5), 5),
		log:       appLogger,
		holderCap: holderCap,
	}
}

type LaunchLiquidity struct {
	Pair          string `json:"pair"`
	Router        string `json:"router"`
	NativeReserve string `json:"nativeReserve"`
	TokenReserve  string `json:"tokenReserve"`
}

type LaunchDetails struct {
	Telegram *string `json:"telegram"`
	Twitter  *string `json:"twitter"`
	Website  *string `json:"website"`
	Discord  *string `json:"discord"`
}

// LaunchToken is the launchpad token record. Numeric fields arrive as
// decimal strings; they are shifted and parsed downstream, never here.
type LaunchToken struct {
	Address        string           `json:"id"`
	LaunchAt       *string          `json:"launchAt"`
	Name           string           `json:"name"`
	Symbol         string           `json:"symbol"`
	TotalSupply    string           `json:"totalSupply"`
	BlockTimestamp *string          `json:"blockTimestamp"`
	Price          string           `json:"price"`
	Liquidity      *LaunchLiquidity `json:"liquidity"`
	Details        *LaunchDetails   `json:"details"`
}

type LaunchHolder struct {
	Address  string  `json:"address"`
	Balance  string  `json:"balance"`
	Username *string `json:"username"`
}

type LaunchHolders struct {
	List         []LaunchHolder `json:"list"`
	TotalHolders string         `json:"totalHolders"`
}

type launchNativePrice struct {
	Price string `json:"price"`
}

// TokenInfo fetches the identity record for a token. This is the one
// fetch whose failure fails the whole overview.
func (c *LaunchpadClient) TokenInfo(ctx context.Context, address string) (*LaunchToken, error) {
	url := fmt.Sprintf("%s/tokens/%s", c.baseURL, address)
	var token LaunchToken
	if err := fetchJSON(ctx, c.http, c.limiter, url, nil, &token); err != nil {
		c.log.Error("Launchpad token info fetch failed", "address", address, "error", err)
		return nil, err
	}
	if token.Address == "" {
		c.log.Warn("Launchpad returned a token record without an address", "address", address)
		return nil, fmt.Errorf("launchpad returned empty token record for %s", address)
	}
	return &token, nil
}

// TopHolders fetches the holder list, already ordered by descending
// balance upstream, and applies the configured cap.
func (c *LaunchpadClient) TopHolders(ctx context.Context, address string) (models.HolderSet, error) {
	url := fmt.Sprintf("%s/tokens/%s/holders", c.baseURL, address)
	var raw LaunchHolders
	if err := fetchJSON(ctx, c.http, c.limiter, url, nil, &raw); err != nil {
		return models.HolderSet{}, err
	}

	total, err := strconv.Atoi(raw.TotalHolders)
	if err != nil {
		c.log.Warn("Launchpad holder count not numeric, treating as list length", "address", address, "totalHolders", raw.TotalHolders)
		total = len(raw.List)
	}

	list := raw.List
	if c.holderCap > 0 && len(list) > c.holderCap {
		list = list[:c.holderCap]
	}

	set := models.HolderSet{TotalHolders: total}
	for _, h := range list {
		record := models.HolderRecord{Address: h.Address, Balance: h.Balance}
		if h.Username != nil {
			record.Username = *h.Username
		}
		set.List = append(set.List, record)
	}
	return set, nil
}

// NativePriceUSD fetches the chain's native coin price in USD.
func (c *LaunchpadClient) NativePriceUSD(ctx context.Context) (float64, error) {
	url := fmt.Sprintf("%s/tokens/ape", c.baseURL)
	var raw launchNativePrice
	if err := fetchJSON(ctx, c.http, c.limiter, url, nil, &raw); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		c.log.Warn("Native price not numeric, treating as 0", "price", raw.Price)
		return 0, nil
	}
	return price / nativePriceScale, nil
}

// Identity maps the raw launchpad record onto the domain identity.
// The launchpad mints 18-decimal tokens; the aggregator overrides the
// count when the DEX provider reports real on-chain metadata.
func (t *LaunchToken) Identity() models.TokenIdentity {
	identity := models.TokenIdentity{
		Address:     t.Address,
		Name:        t.Name,
		Symbol:      t.Symbol,
		Decimals:    18,
		TotalSupply: t.TotalSupply,
	}
	if t.BlockTimestamp != nil {
		identity.CreatedAt = *t.BlockTimestamp
	} else if t.LaunchAt != nil {
		identity.CreatedAt = *t.LaunchAt
	}
	return identity
}

// Socials maps the optional details block onto the social-link table.
func (t *LaunchToken) Socials() models.SocialLinks {
	links := models.SocialLinks{}
	if t.Details == nil {
		return links
	}
	set := func(channel string, value *string) {
		if value != nil && *value != "" {
			links[channel] = *value
		}
	}
	set("discord", t.Details.Discord)
	set("telegram", t.Details.Telegram)
	set("twitter", t.Details.Twitter)
	set("website", t.Details.Website)
	return links
}
