// Package models lists the OpenAI models available to an API key, grouped
// by what wordwalk can use them for: speech synthesis and entry enrichment.
package models
