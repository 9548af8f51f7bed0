// Package catalog turns the World Heritage List XML feed into monuments.
//
// Extraction and mapping are separate: the Extractor knows nothing about
// monument fields, it only assembles each <row> element into a Record.
// MapMonument then applies a fixed table of named-field coercions.
package catalog

// Record is the flat field bag extracted from one <row>.
type Record map[string]string

// rowTag is the repeating element that delimits one catalog entry.
const rowTag = "row"
