package serialize

import (
	"encoding/binary"
	"fmt"
	"io"
)

var magic = [4]byte{'F', 'A', 'S', 'R'}

// ProducerVersion is bumped whenever the payload format changes in a
// backward-incompatible way (§6.3: "compatibility is not guaranteed across
// producer versions; loaders must refuse mismatched headers").
const ProducerVersion uint16 = 1

// WriteHeader writes the file-level header (magic, encoding flag, producer
// version) ahead of the typed-stream payload, using raw bytes rather than
// the encoding-specific Writer — the header has to be parseable before the
// encoding it names is known.
func WriteHeader(w io.Writer, enc Encoding) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(enc)}); err != nil {
		return err
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], ProducerVersion)
	_, err := w.Write(buf[:])
	return err
}

// ReadHeader reads and validates the file-level header, returning the
// encoding the rest of the stream uses and its producer version.
func ReadHeader(r io.Reader) (Encoding, uint16, error) {
	var got [4]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return 0, 0, fmt.Errorf("serialize: read magic: %w", err)
	}
	if got != magic {
		return 0, 0, fmt.Errorf("serialize: bad magic %q, not a module file", got)
	}
	var encByte [1]byte
	if _, err := io.ReadFull(r, encByte[:]); err != nil {
		return 0, 0, fmt.Errorf("serialize: read encoding flag: %w", err)
	}
	enc := Encoding(encByte[0])
	if enc != Binary && enc != Text {
		return 0, 0, fmt.Errorf("serialize: unknown encoding flag %d", encByte[0])
	}
	var verBuf [2]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return 0, 0, fmt.Errorf("serialize: read producer version: %w", err)
	}
	version := binary.BigEndian.Uint16(verBuf[:])
	if version != ProducerVersion {
		return 0, 0, fmt.Errorf("serialize: producer version %d does not match this reader's %d", version, ProducerVersion)
	}
	return enc, version, nil
}
