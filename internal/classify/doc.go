// Package classify maps market text to a normalized sport tag.
//
// Classification is pure pattern matching over three text fields in fixed
// precedence: ticker, then category, then event ticker. The first non-empty
// field that matches any rule decides the sport; rule order within a field
// is significant and first match wins.
package classify
