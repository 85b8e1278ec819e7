package tokenizer

import (
	"strings"
	"testing"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

type expectedToken struct {
	kind  string
	value string
}

func TestTokenKinds(t *testing.T) {
	for _, kind := range []string{TokenDelimiter, TokenQuote, TokenNewline, TokenField, TokenEOF} {
		if kind == "" {
			t.Error("token kind is empty")
		}
	}
}

func TestNewTokenizer_BasicTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []expectedToken
	}{
		{
			name:     "single delimiter",
			input:    ",",
			expected: []expectedToken{{TokenDelimiter, ","}},
		},
		{
			name:     "single field",
			input:    "abc",
			expected: []expectedToken{{TokenField, "abc"}},
		},
		{
			name:     "newline LF",
			input:    "\n",
			expected: []expectedToken{{TokenNewline, "\n"}},
		},
		{
			name:     "newline CRLF",
			input:    "\r\n",
			expected: []expectedToken{{TokenNewline, "\r\n"}},
		},
		{
			name:     "bare CR",
			input:    "a\rb",
			expected: []expectedToken{{TokenField, "a"}, {TokenNewline, "\r"}, {TokenField, "b"}},
		},
		{
			name:  "simple row",
			input: "a,b,c",
			expected: []expectedToken{
				{TokenField, "a"}, {TokenDelimiter, ","},
				{TokenField, "b"}, {TokenDelimiter, ","},
				{TokenField, "c"},
			},
		},
		{
			name:  "quoted field with delimiter",
			input: `"a,b"`,
			expected: []expectedToken{
				{TokenQuote, `"`}, {TokenField, "a"}, {TokenDelimiter, ","},
				{TokenField, "b"}, {TokenQuote, `"`},
			},
		},
		{
			name:  "escaped quote",
			input: `"say ""hi"""`,
			expected: []expectedToken{
				{TokenQuote, `"`}, {TokenField, "say "}, {TokenQuote, `"`}, {TokenQuote, `"`},
				{TokenField, "hi"}, {TokenQuote, `"`}, {TokenQuote, `"`}, {TokenQuote, `"`},
			},
		},
		{
			name:  "empty fields",
			input: "a,,c",
			expected: []expectedToken{
				{TokenField, "a"}, {TokenDelimiter, ","}, {TokenDelimiter, ","}, {TokenField, "c"},
			},
		},
		{
			name:  "multiple rows",
			input: "a,b\nx,y\n",
			expected: []expectedToken{
				{TokenField, "a"}, {TokenDelimiter, ","}, {TokenField, "b"}, {TokenNewline, "\n"},
				{TokenField, "x"}, {TokenDelimiter, ","}, {TokenField, "y"}, {TokenNewline, "\n"},
			},
		},
		{
			name:  "whitespace is field content",
			input: " a , b ",
			expected: []expectedToken{
				{TokenField, " a "}, {TokenDelimiter, ","}, {TokenField, " b "},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizer()
			tok.Initialize(tt.input)
			assertTokens(t, &tok, tt.expected)
		})
	}
}

func TestNewTokenizerWithOptions(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		input    string
		expected []expectedToken
	}{
		{
			name:  "semicolon and single quote",
			opts:  Options{Delimiter: ';', Quote: '\''},
			input: `'a;b';"c"`,
			expected: []expectedToken{
				{TokenQuote, "'"}, {TokenField, "a"}, {TokenDelimiter, ";"}, {TokenField, "b"},
				{TokenQuote, "'"}, {TokenDelimiter, ";"}, {TokenField, `"c"`},
			},
		},
		{
			name:  "tab delimiter",
			opts:  Options{Delimiter: '\t', Quote: '"'},
			input: "a\tb,c",
			expected: []expectedToken{
				{TokenField, "a"}, {TokenDelimiter, "\t"}, {TokenField, "b,c"},
			},
		},
		{
			name:  "quoting disabled",
			opts:  Options{Delimiter: ',', Quote: 0},
			input: `"a",b`,
			expected: []expectedToken{
				{TokenField, `"a"`}, {TokenDelimiter, ","}, {TokenField, "b"},
			},
		},
		{
			name:  "multibyte delimiter",
			opts:  Options{Delimiter: '§', Quote: '"'},
			input: "a§b",
			expected: []expectedToken{
				{TokenField, "a"}, {TokenDelimiter, "§"}, {TokenField, "b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := NewTokenizerWithOptions(tt.opts)
			tok.Initialize(tt.input)
			assertTokens(t, &tok, tt.expected)
		})
	}
}

// TestTokenizer_LargeInput tokenizes input that crosses stream buffer boundaries.
func TestTokenizer_LargeInput(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString(`"field1","field2","field3"`)
		sb.WriteString("\n")
	}

	stream := tokenizer.NewStreamFromReader(strings.NewReader(sb.String()))
	tok := NewTokenizerWithStream(stream, DefaultOptions())

	tokenCount := 0
	for {
		_, ok := tok.NextToken()
		if !ok {
			if !stream.IsEos() {
				t.Fatalf("tokenization stopped after %d tokens before end of stream", tokenCount)
			}
			break
		}
		tokenCount++
	}

	// " field " , " field " , " field " \n
	if expected := 100 * 12; tokenCount != expected {
		t.Errorf("expected %d tokens, got %d", expected, tokenCount)
	}
}

func assertTokens(t *testing.T, tok *tokenizer.Tokenizer, expected []expectedToken) {
	t.Helper()
	for i, exp := range expected {
		token, ok := tok.NextToken()
		if !ok {
			t.Fatalf("token %d: expected %s %q, got none", i, exp.kind, exp.value)
		}
		if token.Kind() != exp.kind {
			t.Errorf("token %d: expected kind %s, got %s (value: %q)", i, exp.kind, token.Kind(), token.ValueString())
		}
		if token.ValueString() != exp.value {
			t.Errorf("token %d: expected value %q, got %q (kind: %s)", i, exp.value, token.ValueString(), token.Kind())
		}
	}
	if token, ok := tok.NextToken(); ok {
		t.Errorf("expected no more tokens, got %s: %q", token.Kind(), token.ValueString())
	}
}
