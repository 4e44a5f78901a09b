// Package internaldefs holds the shared metric name/help tables and bucket
// helpers used by the exporter packages. It is internal to metrics/export
// and not a supported API.
package internaldefs
