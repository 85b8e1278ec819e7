// Package tokenizer splits delimited text into character-level tokens using
// Shape's tokenizer framework.
package tokenizer

// Token kinds emitted by the tokenizer.
//
// The tokenizer does not know whether it is inside a quoted field. It emits
// delimiter, quote and newline tokens wherever they appear and leaves their
// interpretation to the record reader in internal/parser.
const (
	TokenDelimiter = "Delimiter" // field separator, ',' by default
	TokenQuote     = "Quote"     // quote character, '"' by default
	TokenNewline   = "Newline"   // \n, \r\n or a bare \r
	TokenField     = "Field"     // run of ordinary characters
	TokenEOF       = "EOF"
)
