// Package utils provides helpers for the loosely typed values returned by the
// tourism catalog (numbers as strings, blank strings for missing values) and for
// nullable string columns.
package utils
