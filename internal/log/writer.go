package log

import (
	"bytes"
	"sync"

	"github.com/charmbracelet/log"
)

// Writer forwards each line written to it to a logger, e.g. to surface a subprocess's output at debug level.
// A trailing partial line is held back until the next newline or Flush.
type Writer struct {
	Log   *log.Logger
	Level log.Level

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)

	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// incomplete line, put it back
			w.buf.Write(line)

			break
		}

		w.emit(line[:len(line)-1])
	}

	return len(p), nil
}

// Flush logs any partial line still buffered.
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf.Len() > 0 {
		w.emit(w.buf.Bytes())
		w.buf.Reset()
	}
}

func (w *Writer) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}

	w.Log.Log(w.Level, string(line))
}
