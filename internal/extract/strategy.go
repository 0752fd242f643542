package extract

import (
	"errors"

	"github.com/PuerkitoBio/goquery"

	"github.com/jbalsam/patchvault/internal/record"
)

// ErrNoSections reports that no layout strategy produced any sections
// for a page. It is the one hard extraction failure.
var ErrNoSections = errors.New("no sections found")

// Strategy parses one known page layout. The boolean is the explicit
// no-match signal; a strategy that recognizes nothing returns false
// rather than an empty result.
type Strategy interface {
	Name() string
	Parse(doc *goquery.Document) (*record.Sections, bool)
}

// Chain tries strategies in a fixed priority order and keeps the first
// non-empty result. Later strategies never run once one matches, so the
// richest layout wins on pages that carry traces of several eras.
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain over the given strategies. With no arguments
// it uses the full set: modern nav list, legacy headings, archived
// snapshot TOC, then the bare heading fallback.
func NewChain(strategies ...Strategy) *Chain {
	if len(strategies) == 0 {
		strategies = []Strategy{
			ModernNav{},
			LegacyHeading{},
			WaybackTOC{},
			HeadingFallback{},
		}
	}
	return &Chain{strategies: strategies}
}

// Parse returns the sections from the first matching strategy along
// with that strategy's name. ErrNoSections means every strategy missed.
func (c *Chain) Parse(doc *goquery.Document) (*record.Sections, string, error) {
	for _, s := range c.strategies {
		if secs, ok := s.Parse(doc); ok && secs.Len() > 0 {
			return secs, s.Name(), nil
		}
	}
	return nil, "", ErrNoSections
}
