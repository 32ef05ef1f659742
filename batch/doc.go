// Package batch provides record-level helpers on top of the arrowmap core.
// This package implements:
// - Schema conformance checks for arrow records
// - Typed decoding of single record columns through a mapping
// - A dynamic JSON to Arrow record bridge for generic row data
package batch
