// Package anki exports catalog groups as an Anki import file so words
// drilled by ear can also be reviewed as flashcards.
package anki
