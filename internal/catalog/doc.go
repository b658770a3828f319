// Package catalog provides the ordered word groups a drill session walks
// through. Groups can be loaded from JSON, YAML, plain text batch files or a
// SQLite store, and a small built-in catalog is embedded for zero-config use.
package catalog
