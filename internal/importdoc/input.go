package importdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	readChunkSize = 1024
	// Regular files above this size are rejected before reading.
	maxDocumentSize = int64(1) << 30
)

// readDocument buffers the whole document from stdin or from the configured
// file. The file handle never outlives the call.
func (imp *Importer) readDocument() ([]byte, error) {
	if imp.cfg.Filename == "" {
		data, err := bufferInput(imp.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read data from stdin: %w", err)
		}
		return data, nil
	}

	name := filepath.Clean(imp.cfg.Filename)

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open %q: %w", name, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("unable to stat %q: %w", name, err)
	}
	if info.Mode().IsRegular() && info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("%q is too big (greater than 1GB)", name)
	}

	data, err := bufferInput(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read data from %q: %w", name, err)
	}
	return data, nil
}

// bufferInput reads r in fixed-size chunks into a growable buffer until EOF.
// Buffer growth signals exhaustion by panicking with bytes.ErrTooLarge; that
// is recovered and surfaced as an out of memory error.
func bufferInput(r io.Reader) (data []byte, err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if panicErr, ok := e.(error); ok && errors.Is(panicErr, bytes.ErrTooLarge) {
			data, err = nil, errors.New("out of memory")
			return
		}
		panic(e)
	}()

	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	for {
		n, rerr := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if rerr == io.EOF {
			return buf.Bytes(), nil
		}
		if rerr != nil {
			return nil, rerr
		}
	}
}
