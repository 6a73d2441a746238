// Package transport supplies the concrete byte streams over which two fync
// peers exchange protocol messages, adapted from the teacher's pkg/process
// stream wrapper: a transport is just an io.ReadWriteCloser, and different
// deployment modes (stdio child process, in-process pair for same-host
// syncing) each provide one.
package transport

import "io"

// Stream is the interface peer.Reconciler communicates over. Any
// io.ReadWriteCloser satisfies it; this alias exists purely for naming
// clarity at call sites.
type Stream = io.ReadWriteCloser

// stdioStream implements Stream around a pair of already-open reader and
// writer (typically os.Stdin and os.Stdout), mirroring the teacher's
// process.Stream: reads come from one side, writes go to the other, and
// closing tears down whatever the caller supplied as the closer.
type stdioStream struct {
	in     io.Reader
	out    io.Writer
	closer io.Closer
}

// NewStdio wraps the given reader and writer as a Stream, used for the
// "fync serve" CLI mode where a parent process has piped stdin/stdout to
// this one. closer may be nil if there's nothing to close beyond the
// reader/writer themselves.
func NewStdio(in io.Reader, out io.Writer, closer io.Closer) Stream {
	return &stdioStream{in: in, out: out, closer: closer}
}

func (s *stdioStream) Read(p []byte) (int, error) {
	return s.in.Read(p)
}

func (s *stdioStream) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *stdioStream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
