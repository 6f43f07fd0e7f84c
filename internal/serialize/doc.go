// Package serialize converts an asr.TranslationUnit to a byte sequence
// stable enough to cache as a `.mod`-equivalent file and reload on a later
// invocation (§4.5), and provides the on-disk module cache envelope
// (modcache.go) that wraps that payload with a content-hash key.
//
// The wire format is a simple typed stream: every node writes its variant
// tag, then its scalar fields, then its sub-nodes, in field order. Two
// encodings share this logical shape — Binary (one byte per int8, four
// big-endian bytes per int64, length-prefixed byte strings) and Text
// (space-separated decimal integers, length-prefixed strings) — chosen at
// write time and recorded in the file header so a reader never has to
// guess.
package serialize
