package wire

import "testing"

func TestEncodeBulkStringRoundTrips(t *testing.T) {
	frame := EncodeBulkString([]byte("hello"))
	n, err := Parse(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(n.Bytes) != "hello" {
		t.Fatalf("got %q", n.Bytes)
	}
}

func TestEncodeNullBulkString(t *testing.T) {
	if string(EncodeNullBulkString()) != "$-1\r\n" {
		t.Fatalf("got %q", EncodeNullBulkString())
	}
}

func TestEncodeBulkError(t *testing.T) {
	frame := EncodeBulkError("bad arity")
	n, err := Parse(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindBulkError || string(n.Bytes) != "bad arity" {
		t.Fatalf("got kind=%v bytes=%q", n.Kind, n.Bytes)
	}
}

func TestEncodeArrayOfBulkStringsEmptyIsNull(t *testing.T) {
	frame := EncodeArrayOfBulkStrings(nil)
	n, err := Parse(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.IsNull() {
		t.Fatalf("expected null for empty key list, got kind=%v", n.Kind)
	}
}

func TestEncodeBatchEntries(t *testing.T) {
	frame := EncodeBatchEntries(
		[]string{"a", "b"},
		[][]byte{EncodeInteger(1), nil},
	)
	n, err := Parse(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindArray || len(n.Children) != 2 {
		t.Fatalf("got kind=%v children=%d", n.Kind, len(n.Children))
	}
	first := n.Children[0]
	if len(first.Children) != 2 || string(first.Children[0].Bytes) != "a" || string(first.Children[1].Bytes) != "1" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	second := n.Children[1]
	if !second.Children[1].IsNull() {
		t.Fatalf("expected null value for miss, got %+v", second.Children[1])
	}
}
