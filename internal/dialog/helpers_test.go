package dialog

import "io"

// blockingReader returns a reader that never yields data until w is closed.
func blockingReader() (io.Reader, io.WriteCloser) {
	r, w := io.Pipe()
	return r, w
}
