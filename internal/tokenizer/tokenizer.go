package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// Options configures the tokenizer behavior.
type Options struct {
	// Delimiter is the field separator. Default: ','
	Delimiter rune
	// Quote is the quote character. Zero disables quote tokens. Default: '"'
	Quote rune
}

// DefaultOptions returns default tokenizer options.
func DefaultOptions() Options {
	return Options{
		Delimiter: ',',
		Quote:     '"',
	}
}

// NewTokenizer creates a tokenizer with the default delimiter and quote.
func NewTokenizer() tokenizer.Tokenizer {
	return NewTokenizerWithOptions(DefaultOptions())
}

// NewTokenizerWithOptions creates a tokenizer with custom options.
//
// Matchers are tried in order:
// 1. Newlines (CRLF before LF and bare CR to match the longer sequence first)
// 2. Delimiter
// 3. Quote, when enabled
// 4. Field content (anything else)
func NewTokenizerWithOptions(opts Options) tokenizer.Tokenizer {
	matchers := []tokenizer.Matcher{
		tokenizer.StringMatcherFunc(TokenNewline, "\r\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\n"),
		tokenizer.StringMatcherFunc(TokenNewline, "\r"),
		tokenizer.StringMatcherFunc(TokenDelimiter, string(opts.Delimiter)),
	}
	if opts.Quote != 0 {
		matchers = append(matchers, tokenizer.StringMatcherFunc(TokenQuote, string(opts.Quote)))
	}
	matchers = append(matchers, FieldContentMatcher(opts.Delimiter, opts.Quote))
	return tokenizer.NewTokenizerWithoutWhitespace(matchers...)
}

// NewTokenizerWithStream creates a tokenizer over a pre-configured stream.
// This is how readers backed by an io.Reader are tokenized.
func NewTokenizerWithStream(stream tokenizer.Stream, opts Options) tokenizer.Tokenizer {
	tok := NewTokenizerWithOptions(opts)
	tok.InitializeFromStream(stream)
	return tok
}

// FieldContentMatcher matches runs of characters that are not the delimiter,
// the quote, CR or LF.
//
// Grammar:
//
//	Field = Character+ ;
//	Character = <any character except delimiter, quote, CR, LF> ;
//
// Uses ByteStream for fast scanning when both delimiter and quote are ASCII.
func FieldContentMatcher(delim, quote rune) tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if delim < 128 && quote < 128 {
			if byteStream, ok := stream.(tokenizer.ByteStream); ok {
				return fieldContentBytes(byteStream, byte(delim), byte(quote), quote != 0)
			}
		}
		return fieldContentRunes(stream, delim, quote)
	}
}

func fieldContentBytes(stream tokenizer.ByteStream, delim, quote byte, quoting bool) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok {
			break
		}
		if b == delim || b == '\n' || b == '\r' || (quoting && b == quote) {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenField, []rune(string(value)))
}

func fieldContentRunes(stream tokenizer.Stream, delim, quote rune) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok {
			break
		}
		if r == delim || r == '\n' || r == '\r' || (quote != 0 && r == quote) {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenField, value)
}
