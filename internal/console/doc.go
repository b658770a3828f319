// Package console is the terminal front end of the player. It reads single
// keys in raw mode (or typed commands line by line) and prints a status line
// whenever the session changes.
package console
