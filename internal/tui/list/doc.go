// Package listview provides a scrolling list for Bubble Tea models that
// renders only the rows in view.
package listview
