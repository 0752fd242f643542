package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"lowercases scheme and host only",
			"HTTPS://MapleStory.Nexon.Net/News/Update",
			"https://maplestory.nexon.net/News/Update",
		},
		{
			"strips default https port",
			"https://maplestory.nexon.net:443/news",
			"https://maplestory.nexon.net/news",
		},
		{
			"strips default http port",
			"http://example.com:80/a",
			"http://example.com/a",
		},
		{
			"sorts query parameters",
			"https://example.com/p?b=2&a=1",
			"https://example.com/p?a=1&b=2",
		},
		{
			"drops fragment",
			"https://maplestory.nexon.net/news/update/v205#combat",
			"https://maplestory.nexon.net/news/update/v205",
		},
		{
			"keeps wayback target intact",
			"https://web.archive.org/web/20160820045654/http://maplestory.nexon.net/news/update",
			"https://web.archive.org/web/20160820045654/http://maplestory.nexon.net/news/update",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeURL(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeURLRejectsGarbage(t *testing.T) {
	_, err := NormalizeURL("://nope")
	require.Error(t, err)
}
