package qc

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/sys/unix"
)

// A source is a forward byte cursor over one input with a format-dependent
// field separator. Returned slices are valid only until the next call.
type source interface {
	// Field returns the bytes up to the next field separator or newline,
	// whichever comes first, together with the terminator that ended the
	// field (0 at end of input). It returns io.EOF when no bytes remain.
	Field() ([]byte, byte, error)
	// Line returns the bytes up to the next newline, ignoring the field
	// separator. A final line without a trailing newline is returned with a
	// nil error; the call after it returns io.EOF.
	Line() ([]byte, error)
	Close() error
}

// mappedSource walks a read-only memory mapping of the whole file. The last
// byte address is fixed at open time.
type mappedSource struct {
	f    *os.File
	data []byte
	pos  int
	sep  byte
}

func openMapped(path string, sep byte) (*mappedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, errors.E(err, "stat", path)
	}
	var data []byte
	if size := info.Size(); size > 0 {
		data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
		if err != nil {
			f.Close() // nolint: errcheck
			return nil, errors.E(err, "mmap", path)
		}
	}
	return &mappedSource{f: f, data: data, sep: sep}, nil
}

func (s *mappedSource) Field() ([]byte, byte, error) {
	if s.pos >= len(s.data) {
		return nil, 0, io.EOF
	}
	rest := s.data[s.pos:]
	end, term := len(rest), byte(0)
	if i := bytes.IndexByte(rest, s.sep); i >= 0 {
		end, term = i, s.sep
	}
	if s.sep != '\n' {
		if i := bytes.IndexByte(rest[:end], '\n'); i >= 0 {
			end, term = i, '\n'
		}
	}
	s.pos += end
	if term != 0 {
		s.pos++
	}
	return rest[:end], term, nil
}

func (s *mappedSource) Line() ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}
	rest := s.data[s.pos:]
	end := len(rest)
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		end = i
		s.pos += end + 1
	} else {
		s.pos += end
	}
	return rest[:end], nil
}

func (s *mappedSource) Close() error {
	var err error
	if s.data != nil {
		err = unix.Munmap(s.data)
		s.data = nil
	}
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// streamChunkSize bounds one decompressed read, and therefore one logical
// line, of a streamed input.
const streamChunkSize = 16 << 10

// streamSource reads newline-separated records from a gzip stream in
// fixed-size decompressed chunks.
type streamSource struct {
	f  *os.File
	gz *gzip.Reader
	br *bufio.Reader
}

func openStream(path string) (*streamSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, errors.E(err, "gzip open", path)
	}
	return &streamSource{f: f, gz: gz, br: bufio.NewReaderSize(gz, streamChunkSize)}, nil
}

func (s *streamSource) Field() ([]byte, byte, error) {
	b, err := s.br.ReadSlice('\n')
	switch err {
	case nil:
		return b[:len(b)-1], '\n', nil
	case io.EOF:
		if len(b) == 0 {
			return nil, 0, io.EOF
		}
		return b, 0, nil
	case bufio.ErrBufferFull:
		return nil, 0, errors.E(ErrMalformedRecord, "line exceeds chunk size")
	}
	return nil, 0, errors.E(err, "decompress")
}

func (s *streamSource) Line() ([]byte, error) {
	b, err := s.br.ReadSlice('\n')
	switch err {
	case nil:
		return b[:len(b)-1], nil
	case io.EOF:
		if len(b) == 0 {
			return nil, io.EOF
		}
		return b, nil
	case bufio.ErrBufferFull:
		return nil, errors.E(ErrMalformedRecord, "line exceeds chunk size")
	}
	return nil, errors.E(err, "decompress")
}

func (s *streamSource) Close() error {
	err := s.gz.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}
