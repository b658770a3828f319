package playback

import "errors"

var (
	// ErrUnsupportedCapability is returned by Play and Restart when no usable
	// speech service is configured
	ErrUnsupportedCapability = errors.New("speech is not supported")

	// ErrUnknownGroup is returned when selecting a group id the catalog lacks
	ErrUnknownGroup = errors.New("unknown group")

	// ErrUnknownRate is returned for rate labels other than slow, medium, fast and max
	ErrUnknownRate = errors.New("unknown rate")

	// ErrUnknownMode is returned for modes other than normal and revise
	ErrUnknownMode = errors.New("unknown mode")

	// ErrClosed is returned by commands issued after Close
	ErrClosed = errors.New("controller closed")
)
