// Package sitekv serves a site's static assets out of a key/value
// store. Deployed workers read from a bucket the deploy step uploaded
// fingerprinted files into; development and tests use the directory
// and in-memory stores.
//
// Lookups go through the asset manifest first, so requests for
// logical names find the fingerprinted object that actually exists in
// the store.
package sitekv
