package value

import (
	"bytes"
	"compress/zlib"
	"io"
)

// Compress zlib-deflates text. The keyspace engine calls this for Text
// and Bytes values once their size crosses the configured compression
// threshold; the compressed form is what actually gets stored, with the
// entry's compressed flag recording that fact for DUMP and decompress-on-read.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
