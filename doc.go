// Package arrowmap maps native Go types to Apache Arrow types and converts
// values between in-memory Go form and Arrow columnar arrays without
// reflection.
// This package implements:
// - Arrow field and data-type derivation per native type (mapping tags)
// - An explicit opt-in registry of legal list element types
// - Checked adaptation of opaque arrow.Array handles to typed readers
// - Element-wise deserialization and the mirroring builder-based serialization
package arrowmap
