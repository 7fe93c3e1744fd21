package folio

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// Tier names the source a rate was resolved from. Tiers are tried in the
// declared order; the first that yields a rate wins.
type Tier string

const (
	TierIdentity     Tier = "identity"     // same currency, always 1.0
	TierOverride     Tier = "override"     // user-supplied rate on the transaction
	TierStored       Tier = "stored"       // rate recorded with the transaction
	TierCached       Tier = "cached"       // recent in-memory hit
	TierFetched      Tier = "fetched"      // direct quote from the rate source
	TierTriangulated Tier = "triangulated" // both legs quoted against USD
	TierFallback     Tier = "fallback"     // no source available, 1.0
)

// Resolution is a resolved exchange rate and the tier it came from.
type Resolution struct {
	Rate decimal.Decimal
	Tier Tier
}

// A RateStore persists resolved exchange rates across runs.
type RateStore interface {
	// Rate returns the stored from->to rate on a date, if any.
	Rate(from, to string, on Date) (decimal.Decimal, bool)
	// PutRate records a from->to rate on a date.
	PutRate(from, to string, on Date, rate decimal.Decimal) error
}

// A RateSource quotes exchange rates, live or historical.
type RateSource interface {
	// FetchRate returns the from->to rate on a date, if quoted. A zero
	// date means the latest available rate.
	FetchRate(from, to string, on Date) (decimal.Decimal, bool)
}

type cachedRate struct {
	rate  decimal.Decimal
	since time.Time
}

// Resolver resolves exchange rates through a fixed chain of sources:
// identity, override, stored, cache, source, USD triangulation, and a
// terminal 1.0 fallback. Every tier below identity is optional; the resolver
// degrades through whatever is wired.
//
// Rates obtained from the source are offered back to the store so later runs
// resolve at the stored tier.
type Resolver struct {
	store  RateStore
	source RateSource
	ttl    time.Duration
	cache  map[string]cachedRate
	now    func() time.Time
}

// NewResolver creates a Resolver over a store and a source, either of which
// may be nil. Cached rates expire after ttl.
func NewResolver(store RateStore, source RateSource, ttl time.Duration) *Resolver {
	return &Resolver{
		store:  store,
		source: source,
		ttl:    ttl,
		cache:  make(map[string]cachedRate),
		now:    time.Now,
	}
}

// Resolve returns the from->to rate on a date. When override is positive it
// wins unconditionally; when stored is positive it is used before any
// lookup. Resolve never fails: when every tier comes up empty the terminal
// fallback is 1.0, so a figure is always produced, marked by its tier.
func (r *Resolver) Resolve(from, to string, on Date, override, stored decimal.Decimal) Resolution {
	if from == to || from == "" || to == "" {
		return Resolution{Rate: decimal.NewFromInt(1), Tier: TierIdentity}
	}
	if override.IsPositive() {
		return Resolution{Rate: override, Tier: TierOverride}
	}
	if stored.IsPositive() {
		return Resolution{Rate: stored, Tier: TierStored}
	}
	if r.store != nil {
		if rate, ok := r.store.Rate(from, to, on); ok && rate.IsPositive() {
			return Resolution{Rate: rate, Tier: TierStored}
		}
	}

	key := from + "/" + to + "@" + on.String()
	if hit, ok := r.cache[key]; ok && r.now().Sub(hit.since) < r.ttl {
		return Resolution{Rate: hit.rate, Tier: TierCached}
	}

	if r.source != nil {
		if rate, ok := r.source.FetchRate(from, to, on); ok && rate.IsPositive() {
			r.keep(key, from, to, on, rate)
			return Resolution{Rate: rate, Tier: TierFetched}
		}
		// Neither leg involves USD or the direct pair is not quoted:
		// triangulate from/USD and to/USD.
		fromUSD, okFrom := r.source.FetchRate(from, "USD", on)
		toUSD, okTo := r.source.FetchRate(to, "USD", on)
		if okFrom && okTo && fromUSD.IsPositive() && toUSD.IsPositive() {
			rate := fromUSD.Div(toUSD)
			r.keep(key, from, to, on, rate)
			return Resolution{Rate: rate, Tier: TierTriangulated}
		}
	}

	return Resolution{Rate: decimal.NewFromInt(1), Tier: TierFallback}
}

func (r *Resolver) keep(key, from, to string, on Date, rate decimal.Decimal) {
	r.cache[key] = cachedRate{rate: rate, since: r.now()}
	if r.store != nil {
		if err := r.store.PutRate(from, to, on, rate); err != nil {
			log.Printf("could not store rate %s/%s on %s: %v", from, to, on, err)
		}
	}
}

// Effective returns the rate converting the transaction's native currency
// into base, honoring the transaction's own override and recorded rate.
func (r *Resolver) Effective(tx Transaction, base string) Resolution {
	return r.Resolve(tx.Currency(), base, tx.Date, tx.FXOverride, tx.FXRate)
}
