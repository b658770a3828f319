// Package playback implements the drill session controller. It walks the
// entries of one catalog group, speaking each entry's fields through a
// speech.Service, and handles play, pause, resume, stop, restart and seek
// commands issued while utterances are still in flight.
//
// Every traversal runs under a scope. Commands that supersede a traversal
// invalidate its scope, and the traversal checks its scope under the
// controller lock before each side effect, so a stale traversal can never
// speak or publish state.
package playback
