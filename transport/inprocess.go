package transport

import "io"

// pipeStream implements Stream over a pair of io.Pipe halves, one for each
// direction, so two in-process peers can exchange protocol messages without
// touching the network or filesystem. This is what the "fync sync" CLI
// command uses to reconcile two local roots within a single process.
type pipeStream struct {
	reader *io.PipeReader
	writer *io.PipeWriter
}

func (s *pipeStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *pipeStream) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *pipeStream) Close() error {
	werr := s.writer.Close()
	rerr := s.reader.Close()
	if werr != nil {
		return werr
	}
	return rerr
}

// NewInProcessPair returns two connected Streams, named after the two ends
// of the conceptual connection: whatever is written to one side's Write is
// readable from the other side's Read, and vice versa.
func NewInProcessPair() (a, b Stream) {
	aReader, bWriter := io.Pipe()
	bReader, aWriter := io.Pipe()
	return &pipeStream{reader: aReader, writer: aWriter},
		&pipeStream{reader: bReader, writer: bWriter}
}
