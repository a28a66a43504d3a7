// Package internaldefs holds the shared metric name table consumed by the
// prometheus and otel exporters. Not part of the public API.
package internaldefs
