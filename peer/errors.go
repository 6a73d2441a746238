package peer

import "github.com/pkg/errors"

// ProtocolError indicates the peer sent a message that violated the
// sub-protocol's expected sequencing (for example a Changes message before
// the init handshake completed). It's always fatal to the connection.
type ProtocolError struct {
	reason string
}

func newProtocolError(reason string) error {
	return errors.WithStack(&ProtocolError{reason: reason})
}

func (e *ProtocolError) Error() string {
	return "protocol error: " + e.reason
}
