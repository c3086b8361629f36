package main

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/volatixdb/volatix/internal/dispatch"
	"github.com/volatixdb/volatix/internal/keyspace"
)

func TestServeHandlesPipelinedRequests(t *testing.T) {
	ks := keyspace.New(keyspace.DefaultOptions())
	d := dispatch.New(ks)

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	go serve(l, d)

	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	set := "*3\r\n$3\r\nSET\r\n$1\r\nk\r\n$1\r\nv\r\n"
	get := "*2\r\n$3\r\nGET\r\n$1\r\nk\r\n"
	if _, err := conn.Write([]byte(set + get)); err != nil {
		t.Fatalf("write: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(conn)

	replyOne, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply 1: %v", err)
	}
	if replyOne[0] != '$' && replyOne[0] != '+' {
		t.Fatalf("unexpected SET reply: %q", replyOne)
	}

	// The SET reply is a bulk string "$7\r\nSUCCESS\r\n"; read the body line too.
	if replyOne[0] == '$' {
		if _, err := r.ReadString('\n'); err != nil {
			t.Fatalf("read reply 1 body: %v", err)
		}
	}

	replyTwo, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read reply 2: %v", err)
	}
	if replyTwo[0] != '$' {
		t.Fatalf("expected bulk string GET reply, got %q", replyTwo)
	}
}
