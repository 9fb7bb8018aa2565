// Package xlsx reads card sheets uploaded as Excel workbooks.
//
// The first worksheet is read. Column A holds the front of a card and
// column B the back; other columns are ignored.
package xlsx
