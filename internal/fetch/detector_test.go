package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeuristicDetectorShouldPromote(t *testing.T) {
	signals := []string{`ul a[href^="#"]`, "h1 strong", "h1 b"}
	keywords := []string{"__NEXT_DATA__", "enable JavaScript"}
	d := NewHeuristicDetector(20, signals, keywords)

	navBody := `<html><body><ul><li><a href="#combat">Combat</a></li></ul><p>intro text</p></body></html>`
	legacyBody := `<html><body><h1><strong>v64 Update</strong></h1><h3>Combat</h3></body></html>`
	shellBody := `<html><body><div id="app"></div><script id="__NEXT_DATA__" type="application/json">{}</script></body></html>`
	noscriptBody := `<html><body><noscript>Please enable javascript to view this page.</noscript></body></html>`
	plainBody := `<html><body><p>nothing recognizable in here at all</p></body></html>`

	cases := []struct {
		name string
		page Page
		want bool
	}{
		{"nav list present", Page{Body: []byte(navBody)}, false},
		{"legacy heading present", Page{Body: []byte(legacyBody)}, false},
		{"script shell keyword", Page{Body: []byte(shellBody)}, true},
		{"keyword match ignores case", Page{Body: []byte(noscriptBody)}, true},
		{"no signals at all", Page{Body: []byte(plainBody)}, true},
		{"already rendered", Page{Body: []byte(plainBody), Rendered: true}, false},
		{"body below threshold", Page{Body: []byte("<p>x</p>")}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.ShouldPromote(tc.page))
		})
	}
}

func TestHeuristicDetectorNilReceiver(t *testing.T) {
	var d *HeuristicDetector
	assert.False(t, d.ShouldPromote(Page{Body: []byte("<html></html>")}))
}

func TestHeuristicDetectorWithoutSignalsNeverPromotesOnStructure(t *testing.T) {
	d := NewHeuristicDetector(0, nil, nil)
	assert.False(t, d.ShouldPromote(Page{Body: []byte("<html><body><p>anything</p></body></html>")}))
}
