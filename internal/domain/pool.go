package domain

// Pool is an opaque pool identity: its two constituent tokens. Pool math is
// never modeled locally; the optimizer only ever observes pools through the
// remote read surface.
type Pool struct {
	TokenA Token
	TokenB Token
}

// Contains reports whether the pool holds t on either side.
func (p Pool) Contains(t Token) bool {
	return p.TokenA == t || p.TokenB == t
}

// Other returns the pool's counter-token for t. Callers must ensure t is a
// constituent.
func (p Pool) Other(t Token) Token {
	if p.TokenA == t {
		return p.TokenB
	}
	return p.TokenA
}

type RouteKind uint8

const (
	RouteSingle RouteKind = iota
	RouteMulti
)

func (k RouteKind) String() string {
	if k == RouteSingle {
		return "single"
	}
	return "multi"
}

// Route is a one- or two-pool path between two tokens of the universe.
// Pool2 and Intermediate are meaningful only for RouteMulti; the single-hop
// case carries only the fields it needs. Zero-address wire sentinels do not
// exist in this representation; they reappear only when the executor
// normalizes a route to its wire shape.
type Route struct {
	Kind RouteKind
	From Token
	To   Token

	Pool1 Pool

	Intermediate Token
	Pool2        Pool
}

// Reverse returns the same path walked in the opposite direction.
func (r Route) Reverse() Route {
	rev := Route{
		Kind: r.Kind,
		From: r.To,
		To:   r.From,
	}
	if r.Kind == RouteSingle {
		rev.Pool1 = r.Pool1
		return rev
	}
	rev.Intermediate = r.Intermediate
	rev.Pool1 = r.Pool2
	rev.Pool2 = r.Pool1
	return rev
}

// Tokens returns the ordered token path, including the intermediate for
// multi-hop routes.
func (r Route) Tokens() []Token {
	if r.Kind == RouteSingle {
		return []Token{r.From, r.To}
	}
	return []Token{r.From, r.Intermediate, r.To}
}

func (r Route) String() string {
	if r.Kind == RouteSingle {
		return r.From.String() + "->" + r.To.String()
	}
	return r.From.String() + "->" + r.Intermediate.String() + "->" + r.To.String()
}
