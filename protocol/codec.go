package protocol

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

const (
	// decoderMaximumAllowedMessageSize bounds how large a single frame the
	// decoder will attempt to read, guarding against a misbehaving or
	// malicious peer claiming an enormous length prefix.
	decoderMaximumAllowedMessageSize = 256 * 1024 * 1024

	// decoderReaderBufferSize sizes the buffered reader wrapping the
	// underlying connection.
	decoderReaderBufferSize = 32 * 1024
)

// Encoder is a stream encoder for protocol messages: each Encode call
// writes one gob-encoded payload prefixed with its length as a 64-bit
// unsigned varint, the same framing shape as the teacher's protobuf
// stream encoder.
type Encoder struct {
	writer io.Writer
}

// NewEncoder creates a new stream encoder writing to writer.
func NewEncoder(writer io.Writer) *Encoder {
	return &Encoder{writer: writer}
}

// Encode writes a single length-prefixed, gob-encoded message to the
// stream. message must be a pointer to an InitMessage or RegularMessage
// (or any other gob-encodable value agreed on by both ends).
func (e *Encoder) Encode(message interface{}) error {
	buffer := make([]byte, 0, 512)
	sink := &sliceWriter{buffer: buffer}
	if err := gob.NewEncoder(sink).Encode(message); err != nil {
		return errors.Wrap(err, "unable to encode message")
	}

	var lengthPrefix [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(lengthPrefix[:], uint64(len(sink.buffer)))
	if _, err := e.writer.Write(lengthPrefix[:n]); err != nil {
		return errors.Wrap(err, "unable to write length prefix")
	}
	if _, err := e.writer.Write(sink.buffer); err != nil {
		return errors.Wrap(err, "unable to write message")
	}

	return nil
}

// sliceWriter is a minimal io.Writer over an in-memory byte slice, used so
// the gob payload's length is known before any bytes hit the wire.
type sliceWriter struct {
	buffer []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buffer = append(w.buffer, p...)
	return len(p), nil
}

// Decoder is a stream decoder for protocol messages, pairing with Encoder.
// Like the teacher's protobuf decoder, it wraps the underlying reader in a
// buffered reader and so should persist for the lifetime of the stream.
type Decoder struct {
	reader *bufio.Reader
}

// NewDecoder creates a new stream decoder reading from reader.
func NewDecoder(reader io.Reader) *Decoder {
	return &Decoder{reader: bufio.NewReaderSize(reader, decoderReaderBufferSize)}
}

// Decode reads a single length-prefixed, gob-encoded message from the
// stream into message, which must be a pointer to the same type the
// corresponding Encode call was given.
func (d *Decoder) Decode(message interface{}) error {
	length, err := binary.ReadUvarint(d.reader)
	if err != nil {
		return errors.Wrap(err, "unable to read message length")
	}
	if length > decoderMaximumAllowedMessageSize {
		return errors.New("message size too large")
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(d.reader, payload); err != nil {
		return errors.Wrap(err, "unable to read message")
	}

	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(message); err != nil {
		return errors.Wrap(err, "unable to decode message")
	}

	return nil
}
