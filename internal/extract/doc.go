// Package extract turns fetched patch pages into records. It holds the
// metadata extractor with its ordered fallbacks, the layout strategies
// for each era of page markup, the chain that tries them in priority
// order, and the normalizer that binds the results into a PatchRecord.
package extract
