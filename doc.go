// Package mwdiffs computes token level diffs between consecutive
// revisions of MediaWiki pages.
//
// Input is either a MediaWiki XML dump, available from the wikimedia
// group here:
//    http://dumps.wikimedia.org/
//
// or a stream of JSON revision documents partitioned by page, such as
// the output of a previous run with text kept.  Either way, each
// revision comes out as a JSON document with a "diff" field describing
// how to get from the page's previous revision to this one.
//
// See tools/mwdiffs for the command line interface.
package mwdiffs
