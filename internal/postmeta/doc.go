// Package postmeta derives display metadata for a post from its raw markdown:
// reading time, a plain-text excerpt, a normalized publication date, a title
// fallback and a content fingerprint.
//
// Every function here degrades instead of failing. A missing or unparseable
// date yields a labelled fallback, never an error.
package postmeta
