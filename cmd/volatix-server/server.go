package main

import (
	"errors"
	"io"
	"net"

	"github.com/volatixdb/volatix/internal/dispatch"
	"github.com/volatixdb/volatix/internal/wire"
	"github.com/volatixdb/volatix/pkg/log"
)

// maxFrameSize bounds how much a single connection may buffer while
// waiting for a complete frame, so a client can't OOM the server by
// streaming a length prefix and never finishing the body.
const maxFrameSize = 64 << 20

// serve accepts connections on l until it is closed, handing each one
// to its own goroutine. It returns once the listener closes, which
// Accept reports as an error — the caller is expected to close l to
// trigger a clean return during shutdown.
func serve(l net.Listener, d *dispatch.Dispatcher) {
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			log.Errorf("accept: %s", err.Error())
			return
		}
		go handleConn(conn, d)
	}
}

// handleConn reads pipelined frames off conn, dispatching each one as
// soon as it is fully buffered and writing back exactly one reply
// frame per request, in order.
func handleConn(conn net.Conn, d *dispatch.Dispatcher) {
	defer conn.Close()

	buf := make([]byte, 0, 4096)
	read := make([]byte, 4096)

	for {
		for len(buf) > 0 {
			node, consumed, err := wire.ParseFrame(buf)
			if err != nil {
				break
			}
			reply := d.Dispatch(node)
			if _, err := conn.Write(reply); err != nil {
				return
			}
			buf = buf[consumed:]
		}

		if len(buf) >= maxFrameSize {
			conn.Write(wire.EncodeBulkError("frame too large"))
			return
		}

		n, err := conn.Read(read)
		if n > 0 {
			buf = append(buf, read[:n]...)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debugf("connection closed: %s", err.Error())
			}
			return
		}
	}
}
