// Package render turns prepared code states into terminal text and HTML.
//
// Both renderers take a codeview.RenderState and never fail on a state the
// pipeline produced; only writer errors are returned. Ready states are
// highlighted with chroma, shown with line numbers and soft-wrapped. Empty
// and error states render their notice.
package render
