// Package language normalizes user-supplied language hints to the ISO 639
// codes the recognizers accept.
//
// Common codes, ISO 639-2 forms, and English words are resolved from a small
// table. Anything else is parsed as a BCP 47 tag with golang.org/x/text and
// reduced to its base language.
package language
