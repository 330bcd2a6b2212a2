// Package classify implements the line classification engine.
//
// It decides whether a file is readable text via a byte-prefix sniff,
// and partitions the lines of accepted files into blank, comment and
// code under extension-specific comment-syntax rules, carrying
// block-comment and triple-quoted-string state across line boundaries.
package classify
