// Package app wires the command line to the rest of wordwalk. It resolves
// settings from flags and the config file, loads the catalog, creates the
// speech engine and the playback controller, and runs the chosen front end.
package app
