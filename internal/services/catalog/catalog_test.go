package catalog

import (
	"testing"

	"github.com/kaonlabs/splitswap/internal/domain"
)

func TestRoutesForOrdering(t *testing.T) {
	routes := RoutesFor(domain.TokenNX, domain.TokenNUSD)
	if len(routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(routes))
	}
	if routes[0].Kind != domain.RouteSingle {
		t.Errorf("first route must be single-hop, got %s", routes[0].Kind)
	}
	if routes[1].Kind != domain.RouteMulti {
		t.Errorf("second route must be multi-hop, got %s", routes[1].Kind)
	}
	if routes[1].Intermediate != domain.TokenNative {
		t.Errorf("NX->NUSD bridges through NOVA, got %s", routes[1].Intermediate)
	}
}

func TestRoutesForEveryPair(t *testing.T) {
	for _, from := range domain.AllTokens() {
		for _, to := range domain.AllTokens() {
			routes := RoutesFor(from, to)
			if from == to {
				if routes != nil {
					t.Errorf("RoutesFor(%s, %s) must be nil", from, to)
				}
				continue
			}
			if len(routes) != 2 {
				t.Fatalf("RoutesFor(%s, %s): expected 2 routes, got %d", from, to, len(routes))
			}
			for _, r := range routes {
				if r.From != from || r.To != to {
					t.Errorf("route %s does not connect %s->%s", r, from, to)
				}
			}
			direct := routes[0]
			if !direct.Pool1.Contains(from) || !direct.Pool1.Contains(to) {
				t.Errorf("direct pool for %s->%s does not contain both tokens", from, to)
			}
			bridged := routes[1]
			if bridged.Intermediate == from || bridged.Intermediate == to {
				t.Errorf("bridge token for %s->%s must be the third token, got %s", from, to, bridged.Intermediate)
			}
			if !bridged.Pool1.Contains(from) || !bridged.Pool1.Contains(bridged.Intermediate) {
				t.Errorf("bridged pool1 wrong for %s->%s", from, to)
			}
			if !bridged.Pool2.Contains(bridged.Intermediate) || !bridged.Pool2.Contains(to) {
				t.Errorf("bridged pool2 wrong for %s->%s", from, to)
			}
		}
	}
}

// A pair and its reverse must reference the same pool identities so quotes
// for both directions hit the same remote state.
func TestRoutesForSymmetry(t *testing.T) {
	fwd := RoutesFor(domain.TokenNative, domain.TokenNX)
	rev := RoutesFor(domain.TokenNX, domain.TokenNative)

	if fwd[0].Pool1 != rev[0].Pool1 {
		t.Errorf("direct pool differs between directions: %+v vs %+v", fwd[0].Pool1, rev[0].Pool1)
	}
	if fwd[1].Pool1 != rev[1].Pool2 || fwd[1].Pool2 != rev[1].Pool1 {
		t.Errorf("bridged pools are not mirrored between directions")
	}
	if fwd[1].Intermediate != rev[1].Intermediate {
		t.Errorf("bridge token differs between directions")
	}
}

func TestRoutesForInvalidTokens(t *testing.T) {
	if routes := RoutesFor(domain.Token(9), domain.TokenNX); routes != nil {
		t.Errorf("invalid from token must yield nil routes")
	}
	if routes := RoutesFor(domain.TokenNX, domain.Token(200)); routes != nil {
		t.Errorf("invalid to token must yield nil routes")
	}
}

func TestRoutesForDeterminism(t *testing.T) {
	a := RoutesFor(domain.TokenNUSD, domain.TokenNative)
	b := RoutesFor(domain.TokenNUSD, domain.TokenNative)
	if len(a) != len(b) {
		t.Fatalf("route count differs across invocations")
	}
	for i := range a {
		if a[i].String() != b[i].String() {
			t.Errorf("route %d differs across invocations: %s vs %s", i, a[i], b[i])
		}
	}
}
