// Package enrich fills in missing synonyms and example sentences of catalog
// entries using the OpenAI chat API.
package enrich
