// Package catalog enumerates the routes connecting a token pair. The token
// universe is fixed and small, so the catalog is a closed policy rather than
// a graph search: every supported pair has one direct pool and one two-leg
// path bridged through the remaining third token.
package catalog

import "github.com/kaonlabs/splitswap/internal/domain"

// poolBetween returns the canonical pool identity for a token pair. Pools
// store their constituents in enumeration order so that a pair and its
// reverse reference the same pool.
func poolBetween(x, y domain.Token) domain.Pool {
	if y < x {
		x, y = y, x
	}
	return domain.Pool{TokenA: x, TokenB: y}
}

// RoutesFor returns the ordered routes from one token to another: the
// single-hop route first, then the multi-hop route via the third token.
// The result is deterministic and stable across invocations. Unsupported
// pairs (identical tokens, tokens outside the universe) yield nil.
func RoutesFor(from, to domain.Token) []domain.Route {
	if from == to || !from.Valid() || !to.Valid() {
		return nil
	}

	direct := domain.Route{
		Kind:  domain.RouteSingle,
		From:  from,
		To:    to,
		Pool1: poolBetween(from, to),
	}

	mid := bridgeToken(from, to)
	bridged := domain.Route{
		Kind:         domain.RouteMulti,
		From:         from,
		To:           to,
		Intermediate: mid,
		Pool1:        poolBetween(from, mid),
		Pool2:        poolBetween(mid, to),
	}

	return []domain.Route{direct, bridged}
}

// bridgeToken returns the one universe member that is neither from nor to.
func bridgeToken(from, to domain.Token) domain.Token {
	for _, t := range domain.AllTokens() {
		if t != from && t != to {
			return t
		}
	}
	return from // unreachable for a valid pair
}
