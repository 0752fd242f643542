// Package fetch retrieves patch pages over HTTP.
//
// Two fetch paths exist. The static path issues a plain GET through a
// Colly collector and covers Wayback snapshots and legacy pages whose
// markup arrives fully formed. The rendered path drives headless Chrome
// through chromedp for the current site, where the section navigation
// is built by scripts after load. A Router probes statically first and
// promotes the fetch to the renderer when the static body carries no
// usable section signals.
package fetch
