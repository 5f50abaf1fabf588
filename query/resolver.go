// Package query turns a request into a commodity pair and reports the
// companies exporting both.
package query

import (
	"errors"
	"fmt"

	"competitors/graph"
)

// ErrNotImplemented is returned when a company has too few commodities to pick
// a pair from. Resolving its industry code instead is not supported.
var ErrNotImplemented = errors.New("industry code resolution not implemented")

// Mode records how a pair was chosen.
type Mode string

const (
	ModeCodes   Mode = "codes"
	ModeCompany Mode = "company"
	ModeDefault Mode = "default"
)

// Pair is the two commodity codes a query is about.
type Pair struct {
	A string `json:"a" yaml:"a" toml:"a"`
	B string `json:"b" yaml:"b" toml:"b"`
}

// Codes returns the pair as an array, A first.
func (p Pair) Codes() [2]string {
	return [2]string{p.A, p.B}
}

// Has reports whether code is one of the pair.
func (p Pair) Has(code string) bool {
	return code == p.A || code == p.B
}

// DefaultPair is used when a request names neither codes nor a company.
var DefaultPair = Pair{A: "94033019", B: "94034090"}

// Request is what a caller asks for: two codes, a company, or nothing.
type Request struct {
	Codes   []string `json:"codes,omitempty"`
	Company string   `json:"company,omitempty"`
}

// RequestFromArgs maps positional arguments onto a request: two arguments are
// codes, one is a company, anything else falls back to the default pair.
func RequestFromArgs(args []string) Request {
	switch len(args) {
	case 2:
		return Request{Codes: []string{args[0], args[1]}}
	case 1:
		return Request{Company: args[0]}
	default:
		return Request{}
	}
}

// String is a stable key for the request.
func (r Request) String() string {
	switch {
	case len(r.Codes) == 2:
		return "codes:" + r.Codes[0] + "," + r.Codes[1]
	case r.Company != "":
		return "company:" + r.Company
	default:
		return "default"
	}
}

// Resolver picks the commodity pair of a request.
type Resolver struct {
	Default Pair
}

// NewResolver returns a resolver falling back to def, or DefaultPair when def
// is incomplete.
func NewResolver(def Pair) *Resolver {
	if def.A == "" || def.B == "" {
		def = DefaultPair
	}
	return &Resolver{Default: def}
}

// Resolve returns the pair for req. Two codes are used verbatim without
// checking the graph. A company contributes its two heaviest commodities.
func (r *Resolver) Resolve(g *graph.Graph, req Request) (Pair, Mode, error) {
	switch {
	case len(req.Codes) == 2:
		return Pair{A: req.Codes[0], B: req.Codes[1]}, ModeCodes, nil

	case req.Company != "":
		tops, err := graph.TopNeighbors(g, req.Company)
		if err != nil {
			return Pair{}, ModeCompany, err
		}
		if len(tops) < 2 {
			return Pair{}, ModeCompany, fmt.Errorf("%w: %q exports %d commodities", ErrNotImplemented, req.Company, len(tops))
		}
		return Pair{A: tops[0].To, B: tops[1].To}, ModeCompany, nil

	default:
		return r.Default, ModeDefault, nil
	}
}
