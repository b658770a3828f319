// Package speech implements the text-to-speech capability a drill session
// talks through. A Speaker turns a Source (espeak-ng, a synthesizer plus an
// audio sink, or plain console output) into a Service with a single in-flight
// utterance, a one-shot completion signal and cooperative pause, resume and
// cancel.
package speech
