// Package projmetrics provides project metrics collection and analysis.
//
// It walks directory trees using fastwalk for parallel traversal,
// classifies each accepted file's lines through the classify package,
// aggregates counts by extension, splits files into test and non-test
// buckets, and identifies the largest and longest files.
package projmetrics
