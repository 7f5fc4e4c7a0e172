// Package normalize coerces raw cell strings into typed values.
//
// Every function here is total: it returns a value and an ok flag and never
// panics or returns an error. A false flag means "no value"; the caller
// decides whether that drops the row.
package normalize
