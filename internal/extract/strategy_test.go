// Package extract includes tests for the strategy chain ordering.
package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChainPrefersModernNav proves the richer layout wins when a page
// carries both the modern list and legacy headings.
func TestChainPrefersModernNav(t *testing.T) {
	t.Parallel()

	secs, name, err := NewChain().Parse(mustParse(t, `<html><body>
		<ul>
			<li><strong>Combat</strong></li>
			<li><a href="#c">From the nav</a></li>
		</ul>
		<h1><strong>Legacy Section</strong></h1>
		<h3><strong>From the headings</strong></h3>
	</body></html>`))
	require.NoError(t, err)

	assert.Equal(t, "modern-nav", name)
	assert.Equal(t, []string{"Combat"}, secs.Names())
}

// TestChainFallsThrough reaches the later strategies when earlier ones
// miss.
func TestChainFallsThrough(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		html     string
		strategy string
	}{
		{
			name: "legacy",
			html: `<html><body>
				<h1><strong>Combat Changes</strong></h1>
				<h3><strong>New Skill A</strong></h3>
			</body></html>`,
			strategy: "legacy-heading",
		},
		{
			name: "wayback",
			html: `<html><body>
				<h1>Table of Contents</h1>
				<b>Combat</b>
				<ul><li><a href="#c">New Skill A</a></li></ul>
			</body></html>`,
			strategy: "wayback-toc",
		},
		{
			name: "fallback",
			html: `<html><body>
				<h1>Title</h1>
				<h1>World Select</h1>
			</body></html>`,
			strategy: "heading-fallback",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			secs, name, err := NewChain().Parse(mustParse(t, tc.html))
			require.NoError(t, err)
			assert.Equal(t, tc.strategy, name)
			assert.Positive(t, secs.Len())
		})
	}
}

// TestChainNoSections surfaces the sentinel when every strategy misses.
func TestChainNoSections(t *testing.T) {
	t.Parallel()

	secs, name, err := NewChain().Parse(mustParse(t, `<html><body><p>nothing here</p></body></html>`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSections))
	assert.Nil(t, secs)
	assert.Empty(t, name)
}

// TestChainCustomOrder respects an explicit strategy list.
func TestChainCustomOrder(t *testing.T) {
	t.Parallel()

	chain := NewChain(HeadingFallback{})
	_, name, err := chain.Parse(mustParse(t, `<html><body>
		<h1>Title</h1>
		<h1>Events</h1>
	</body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "heading-fallback", name)
}
