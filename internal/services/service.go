package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"ca-overview/internal/models"
	"ca-overview/internal/overview"
	"ca-overview/shared/logger"
)

// ErrTokenNotFound marks the one fatal failure mode of an overview
// build: the identity record could not be fetched. Every other upstream
// failure degrades to defaults.
var ErrTokenNotFound = errors.New("token not found")

// Aggregator runs the validate → fetch → derive pipeline for one token
// address and produces the composer's input. It holds no state across
// queries.
type Aggregator struct {
	Launchpad *LaunchpadClient
	Dextools  *DextoolsClient
	Profile   overview.Profile
	log       *logger.Logger
}

func NewAggregator(launchpad *LaunchpadClient, dextools *DextoolsClient, profile overview.Profile, appLogger *logger.Logger) *Aggregator {
	return &Aggregator{
		Launchpad: launchpad,
		Dextools:  dextools,
		Profile:   profile,
		log:       appLogger,
	}
}

// BuildOverview fetches all upstream records for a validated address
// and derives the report. The independent fetches run concurrently;
// only the identity fetch can fail the operation.
func (a *Aggregator) BuildOverview(ctx context.Context, address string) (overview.Report, error) {
	start := time.Now()

	var (
		token     *LaunchToken
		nativeUSD float64
		history   PriceHistoryData
		holders   models.HolderSet
		audit     models.AuditFlags
		dexMeta   *TokenOverviewData
		priceInfo *PriceInfoData
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := a.Launchpad.TokenInfo(gctx, address)
		if err != nil {
			return fmt.Errorf("%w: identity fetch for %s: %v", ErrTokenNotFound, address, err)
		}
		token = t
		return nil
	})

	g.Go(func() error {
		p, err := a.Launchpad.NativePriceUSD(gctx)
		if err != nil {
			a.log.Warn("Native price fetch failed, prices degrade to $0", "error", err)
			return nil
		}
		nativeUSD = p
		return nil
	})

	g.Go(func() error {
		h, err := a.Launchpad.TopHolders(gctx, address)
		if err != nil {
			a.log.Warn("Holder list fetch failed, holder section degrades", "address", address, "error", err)
			return nil
		}
		holders = h
		return nil
	})

	if a.Dextools != nil {
		g.Go(func() error {
			ph, err := a.Dextools.PriceHistory(gctx, address)
			if err != nil {
				a.log.Warn("Price history fetch failed, history rows degrade to 0", "address", address, "error", err)
				return nil
			}
			history = ph.Data
			return nil
		})

		g.Go(func() error {
			flags, err := a.Dextools.Audit(gctx, address)
			if err != nil {
				a.log.Warn("Audit fetch failed, audit block omitted", "address", address, "error", err)
				return nil
			}
			audit = flags
			return nil
		})

		g.Go(func() error {
			ov, err := a.Dextools.Overview(gctx, address)
			if err != nil {
				a.log.Warn("Token metadata fetch failed, launchpad identity stands alone", "address", address, "error", err)
				return nil
			}
			dexMeta = &ov.Data
			return nil
		})

		g.Go(func() error {
			pi, err := a.Dextools.PriceInfo(gctx, address)
			if err != nil {
				a.log.Warn("Price info fetch failed, market cap derives from supply", "address", address, "error", err)
				return nil
			}
			priceInfo = &pi.Data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return overview.Report{}, err
	}

	identity := token.Identity()
	socials := token.Socials()
	if dexMeta != nil {
		// the DEX provider knows the real on-chain metadata; the
		// launchpad record only carries its own defaults
		if dexMeta.Decimals > 0 {
			identity.Decimals = dexMeta.Decimals
		}
		identity.LogoURL = dexMeta.LogoURL
		identity.Description = dexMeta.Description
		for channel, url := range dexMeta.SocialInfo {
			if url != "" && socials[channel] == "" {
				socials[channel] = url
			}
		}
	}

	price := overview.DisplayPrice(token.Price, nativeUSD)

	supply := overview.ShiftBalance(identity.TotalSupply, identity.Decimals)
	marketCap := supply * price
	if priceInfo != nil && priceInfo.Mcap != nil && *priceInfo.Mcap > 0 {
		marketCap = *priceInfo.Mcap
	}
	if holders.TotalHolders == 0 && priceInfo != nil {
		holders.TotalHolders = priceInfo.Holders
	}

	liquidity := a.resolveLiquidity(ctx, token, nativeUSD, address)

	age := overview.AgeSentinel
	if identity.CreatedAt != "" {
		age = overview.RelativeAge(identity.CreatedAt, time.Now())
	}

	snapshot := models.PriceSnapshot{
		PriceUSD:     price,
		Price1h:      overview.RoundDecimal(deref(history.Price1h), 3),
		Price6h:      overview.RoundDecimal(deref(history.Price6h), 3),
		Price24h:     overview.RoundDecimal(deref(history.Price24h), 3),
		Variation1h:  overview.RoundDecimal(deref(history.Variation1h), 2),
		Variation6h:  overview.RoundDecimal(deref(history.Variation6h), 2),
		Variation24h: overview.RoundDecimal(deref(history.Variation24h), 2),
	}

	report := overview.Report{
		Identity:     identity,
		Socials:      socials,
		Price:        snapshot,
		Audit:        audit,
		MarketCapUSD: marketCap,
		LiquidityUSD: liquidity,
		Age:          age,
		Holders:      overview.ClassifyHolders(holders, price, identity.Decimals, a.Profile.ExplorerBase),
	}

	a.log.Info("Token overview built",
		"address", address,
		"holders", holders.TotalHolders,
		"durationMs", time.Since(start).Milliseconds(),
	)
	return report, nil
}

// resolveLiquidity prefers the launchpad's reported pair reserves.
// Graduated tokens with no launchpad pair fall back to summing DEX pool
// liquidity. Either path degrades to zero.
func (a *Aggregator) resolveLiquidity(ctx context.Context, token *LaunchToken, nativeUSD float64, address string) float64 {
	if token.Liquidity != nil {
		reserve := overview.ShiftBalance(token.Liquidity.NativeReserve, 18)
		return reserve * nativeUSD * 2
	}
	if a.Dextools == nil {
		return 0
	}
	liq, err := a.Dextools.PoolLiquidityUSD(ctx, address)
	if err != nil {
		a.log.Warn("Pool liquidity aggregation failed, liquidity degrades to $0", "address", address, "error", err)
		return 0
	}
	return liq
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
