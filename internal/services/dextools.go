package services

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"ca-overview/internal/models"
	"ca-overview/shared/logger"
)

// maxPoolPages bounds the pool pagination loop. Upstream pagination
// metadata has been seen inconsistent; without a bound a bad
// totalPages value would loop forever.
const maxPoolPages = 20

const poolPageSize = 50

// DextoolsClient talks to the DEX data provider. Every call carries the
// plan-scoped path and the X-API-KEY header.
type DextoolsClient struct {
	baseURL string
	apiKey  string
	plan    string
	chain   string
	http    *http.Client
	limiter *rate.Limiter
	log     *logger.Logger
}

func NewDextoolsClient(baseURL, apiKey, plan, chain string, appLogger *logger.Logger) *DextoolsClient {
	return &DextoolsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		plan:    plan,
		chain:   chain,
		http:    newUpstreamClient(),
		limiter: rate.NewLimiter(rate.Limit(1), 2),
		log:     appLogger,
	}
}

func (c *DextoolsClient) headers() map[string]string {
	return map[string]string{"X-API-KEY": c.apiKey}
}

func (c *DextoolsClient) tokenURL(address, suffix string) string {
	url := fmt.Sprintf("%s/%s/v2/token/%s/%s", c.baseURL, c.plan, c.chain, address)
	if suffix != "" {
		url += "/" + suffix
	}
	return url
}

type TokenOverview struct {
	StatusCode int               `json:"statusCode"`
	Data       TokenOverviewData `json:"data"`
}

type TokenOverviewData struct {
	Address     string            `json:"address"`
	Name        string            `json:"name"`
	Symbol      string            `json:"symbol"`
	LogoURL     string            `json:"logo"`
	Description string            `json:"description"`
	Decimals    int               `json:"decimals"`
	SocialInfo  map[string]string `json:"socialInfo"`
}

type PriceHistory struct {
	StatusCode int              `json:"statusCode"`
	Data       PriceHistoryData `json:"data"`
}

type PriceHistoryData struct {
	Price        float64  `json:"price"`
	Price1h      *float64 `json:"price1h"`
	Price6h      *float64 `json:"price6h"`
	Price24h     *float64 `json:"price24h"`
	Variation1h  *float64 `json:"variation1h"`
	Variation6h  *float64 `json:"variation6h"`
	Variation24h *float64 `json:"variation24h"`
}

type PriceInfo struct {
	StatusCode int           `json:"statusCode"`
	Data       PriceInfoData `json:"data"`
}

type PriceInfoData struct {
	TotalSupply float64  `json:"totalSupply"`
	Mcap        *float64 `json:"mcap"`
	FDV         float64  `json:"fdv"`
	Holders     int      `json:"holders"`
}

type TokenAudit struct {
	StatusCode int            `json:"statusCode"`
	Data       TokenAuditData `json:"data"`
}

type TokenAuditData struct {
	IsOpenSource        string `json:"isOpenSource"`
	IsHoneypot          string `json:"isHoneypot"`
	IsMintable          string `json:"isMintable"`
	IsProxy             string `json:"isProxy"`
	SlippageModifiable  string `json:"slippageModifiable"`
	IsBlacklisted       string `json:"isBlacklisted"`
	IsContractRenounced string `json:"isContractRenounced"`
	IsPotentiallyScam   string `json:"isPotentiallyScam"`
	UpdatedAt           string `json:"updatedAt"`
}

type tokenPools struct {
	StatusCode int            `json:"statusCode"`
	Data       tokenPoolsData `json:"data"`
}

type tokenPoolsData struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalPages int        `json:"totalPages"`
	Results    []poolInfo `json:"results"`
}

type poolInfo struct {
	Address string `json:"address"`
}

type poolLiquidity struct {
	StatusCode int               `json:"statusCode"`
	Data       poolLiquidityData `json:"data"`
}

type poolLiquidityData struct {
	Liquidity *float64 `json:"liquidity"`
}

// Overview fetches name/symbol/decimals/socials for a token.
func (c *DextoolsClient) Overview(ctx context.Context, address string) (*TokenOverview, error) {
	var out TokenOverview
	if err := fetchJSON(ctx, c.http, c.limiter, c.tokenURL(address, ""), c.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PriceHistory fetches the current price and the 1h/6h/24h comparison
// points. Young tokens legitimately miss any of the history fields.
func (c *DextoolsClient) PriceHistory(ctx context.Context, address string) (*PriceHistory, error) {
	var out PriceHistory
	if err := fetchJSON(ctx, c.http, c.limiter, c.tokenURL(address, "price"), c.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PriceInfo fetches supply, market cap, FDV and the holder count.
func (c *DextoolsClient) PriceInfo(ctx context.Context, address string) (*PriceInfo, error) {
	var out PriceInfo
	if err := fetchJSON(ctx, c.http, c.limiter, c.tokenURL(address, "info"), c.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Audit fetches the tri-state security flags and maps them into the
// domain record. The status code travels with the flags because it
// gates display of the whole block.
func (c *DextoolsClient) Audit(ctx context.Context, address string) (models.AuditFlags, error) {
	var raw TokenAudit
	if err := fetchJSON(ctx, c.http, c.limiter, c.tokenURL(address, "audit"), c.headers(), &raw); err != nil {
		return models.AuditFlags{}, err
	}
	return models.AuditFlags{
		StatusCode:         raw.StatusCode,
		OpenSource:         models.ParseTriState(raw.Data.IsOpenSource),
		Honeypot:           models.ParseTriState(raw.Data.IsHoneypot),
		Mintable:           models.ParseTriState(raw.Data.IsMintable),
		Proxy:              models.ParseTriState(raw.Data.IsProxy),
		SlippageModifiable: models.ParseTriState(raw.Data.SlippageModifiable),
		Blacklisted:        models.ParseTriState(raw.Data.IsBlacklisted),
		ContractRenounced:  models.ParseTriState(raw.Data.IsContractRenounced),
		PotentialScam:      models.ParseTriState(raw.Data.IsPotentiallyScam),
	}, nil
}

// PoolLiquidityUSD pages through a token's trading pools and sums each
// pool's reported liquidity. Pagination ends when the reported page
// reaches totalPages, or at maxPoolPages if the metadata never
// converges.
func (c *DextoolsClient) PoolLiquidityUSD(ctx context.Context, address string) (float64, error) {
	total := 0.0
	for page := 1; page <= maxPoolPages; page++ {
		url := fmt.Sprintf("%s?page=%d&pageSize=%d", c.tokenURL(address, "pools"), page, poolPageSize)
		var pools tokenPools
		if err := fetchJSON(ctx, c.http, c.limiter, url, c.headers(), &pools); err != nil {
			return 0, err
		}

		for _, pool := range pools.Data.Results {
			liq, err := c.poolLiquidity(ctx, pool.Address)
			if err != nil {
				c.log.Warn("Pool liquidity fetch failed, skipping pool", "pool", pool.Address, "error", err)
				continue
			}
			total += liq
		}

		if pools.Data.TotalPages <= 0 || pools.Data.Page >= pools.Data.TotalPages {
			return total, nil
		}
		if page == maxPoolPages {
			c.log.Warn("Pool pagination did not converge, stopping at bound",
				"address", address, "reportedTotalPages", pools.Data.TotalPages, "bound", maxPoolPages)
		}
	}
	return total, nil
}

func (c *DextoolsClient) poolLiquidity(ctx context.Context, poolAddress string) (float64, error) {
	url := fmt.Sprintf("%s/%s/v2/pool/%s/%s/liquidity", c.baseURL, c.plan, c.chain, poolAddress)
	var out poolLiquidity
	if err := fetchJSON(ctx, c.http, c.limiter, url, c.headers(), &out); err != nil {
		return 0, err
	}
	if out.Data.Liquidity == nil {
		return 0, nil
	}
	return *out.Data.Liquidity, nil
}
