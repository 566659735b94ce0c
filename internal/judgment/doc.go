// Package judgment provides the judgment record type, title and link parsing,
// and identity-based deduplication.
//
// Titles on the search results page look like "State vs Union on 10 December, 2025".
// ParseTitle splits them into case name and date parts; DocIDFromHref pulls the
// numeric document id out of result links. Parsing failures are common and never
// fatal: a record keeps whatever fields could be extracted.
package judgment
