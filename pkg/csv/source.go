package csv

import (
	"context"
	"io"
	"os"

	"github.com/almaudoh/csvtools/internal/parser"
	"github.com/pkg/errors"
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
	"github.com/viant/afs"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// fileSource is an opened file with its record reader. Close must be called
// on every path once the file is open.
type fileSource struct {
	closer io.Closer
	reader *parser.Reader
}

func (s *fileSource) Close() error {
	return s.closer.Close()
}

// openFile opens URL through the parser's file system, strips a UTF-8 byte
// order mark and streams it into a record reader.
func openFile(ctx context.Context, fs afs.Service, URL string, opts parser.Options) (*fileSource, error) {
	exists, err := fs.Exists(ctx, URL)
	if err != nil {
		return nil, &SourceError{Source: URL, Err: errors.Wrapf(err, "failed to check: %v", URL)}
	}
	if !exists {
		return nil, &SourceError{Source: URL, Err: os.ErrNotExist}
	}

	rc, err := fs.OpenURL(ctx, URL)
	if err != nil {
		return nil, &SourceError{Source: URL, Err: errors.Wrapf(err, "failed to open: %v", URL)}
	}

	decoded := transform.NewReader(rc, unicode.UTF8BOM.NewDecoder())
	stream := shapetokenizer.NewStreamFromReader(decoded)
	return &fileSource{
		closer: rc,
		reader: parser.NewReaderFromStream(stream, opts),
	}, nil
}

// recordStream buffers records read ahead of the caller, so the header and
// the structure check can look at records that are later returned as rows.
type recordStream struct {
	reader   *parser.Reader
	buffered []parser.Record
	eof      bool
}

func newRecordStream(reader *parser.Reader) *recordStream {
	return &recordStream{reader: reader}
}

// next returns the next record or io.EOF.
func (s *recordStream) next() (parser.Record, error) {
	if len(s.buffered) > 0 {
		record := s.buffered[0]
		s.buffered = s.buffered[1:]
		return record, nil
	}
	if s.eof {
		return parser.Record{}, io.EOF
	}
	record, err := s.reader.Read()
	if err == io.EOF {
		s.eof = true
	}
	return record, err
}

// lookahead buffers records until n non-blank records are held or the input
// ends, and returns the non-blank ones.
func (s *recordStream) lookahead(n int) ([]parser.Record, error) {
	var nonBlank []parser.Record
	for _, record := range s.buffered {
		if len(nonBlank) == n {
			return nonBlank, nil
		}
		if !Row(record.Fields).Empty() {
			nonBlank = append(nonBlank, record)
		}
	}
	for len(nonBlank) < n && !s.eof {
		record, err := s.reader.Read()
		if err == io.EOF {
			s.eof = true
			break
		}
		if err != nil {
			return nil, err
		}
		s.buffered = append(s.buffered, record)
		if !Row(record.Fields).Empty() {
			nonBlank = append(nonBlank, record)
		}
	}
	return nonBlank, nil
}

// nextNonBlank consumes records up to and including the first non-blank one.
func (s *recordStream) nextNonBlank() (parser.Record, error) {
	for {
		record, err := s.next()
		if err != nil {
			return parser.Record{}, err
		}
		if !Row(record.Fields).Empty() {
			return record, nil
		}
	}
}
