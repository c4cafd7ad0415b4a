package transport

import (
	"bufio"
	"bytes"
	"io"
)

// lineSource yields an event stream body one text line at a time. The
// decoder state machine is written once against this seam; the two
// implementations cover sources with native line iteration and sources
// that only deliver raw byte chunks.
type lineSource interface {
	// Next returns the next line, terminator included when present.
	// io.EOF signals exhaustion. A trailing fragment with no terminator
	// is handed out as a final line before EOF.
	Next() (string, error)
}

// readerLines iterates lines natively via a buffered reader.
type readerLines struct {
	r *bufio.Reader
}

func newReaderLines(r io.Reader) *readerLines {
	return &readerLines{r: bufio.NewReader(r)}
}

func (l *readerLines) Next() (string, error) {
	line, err := l.r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return line, nil
		}
		return "", err
	}
	return line, nil
}

// chunkLines assembles lines from fixed-size raw reads, carrying any
// partial trailing fragment forward to the next chunk.
type chunkLines struct {
	r       io.Reader
	buf     []byte
	pending []byte
	queue   []string
	err     error
}

func newChunkLines(r io.Reader, chunkSize int) *chunkLines {
	if chunkSize <= 0 {
		chunkSize = 4096
	}
	return &chunkLines{r: r, buf: make([]byte, chunkSize)}
}

func (l *chunkLines) Next() (string, error) {
	for len(l.queue) == 0 {
		if l.err != nil {
			if len(l.pending) > 0 {
				line := string(l.pending)
				l.pending = nil
				return line, nil
			}
			return "", l.err
		}
		n, err := l.r.Read(l.buf)
		if n > 0 {
			l.pending = append(l.pending, l.buf[:n]...)
			for {
				i := bytes.IndexByte(l.pending, '\n')
				if i < 0 {
					break
				}
				l.queue = append(l.queue, string(l.pending[:i+1]))
				l.pending = l.pending[i+1:]
			}
		}
		if err != nil {
			l.err = err
		}
	}
	line := l.queue[0]
	l.queue = l.queue[1:]
	return line, nil
}
