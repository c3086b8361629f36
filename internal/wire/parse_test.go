package wire

import "testing"

// ─── scalar frames ───

func TestParseSimpleString(t *testing.T) {
	n, err := Parse([]byte("+OK\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindSimpleString || string(n.Bytes) != "OK" {
		t.Fatalf("got kind=%v bytes=%q", n.Kind, n.Bytes)
	}
}

func TestParseInteger(t *testing.T) {
	n, err := Parse([]byte(":-42\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindInteger || string(n.Bytes) != "-42" {
		t.Fatalf("got kind=%v bytes=%q", n.Kind, n.Bytes)
	}
}

func TestParseBoolean(t *testing.T) {
	n, err := Parse([]byte("#t\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindBoolean || !n.Bool {
		t.Fatalf("got kind=%v bool=%v", n.Kind, n.Bool)
	}
}

func TestParseNull(t *testing.T) {
	n, err := Parse([]byte("_\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.IsNull() {
		t.Fatalf("expected null, got kind=%v", n.Kind)
	}
}

func TestParseDoubleSpecials(t *testing.T) {
	for _, tok := range []string{"inf", "-inf", "+inf", "nan", "3.14", "-0.5e10"} {
		n, err := Parse([]byte("," + tok + "\r\n"))
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tok, err)
		}
		if n.Kind != KindDouble || string(n.Bytes) != tok {
			t.Fatalf("%q: got kind=%v bytes=%q", tok, n.Kind, n.Bytes)
		}
	}
}

func TestParseDoubleRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte(",not-a-number\r\n")); err == nil {
		t.Fatal("expected an error for a malformed double literal")
	}
}

// ─── bulk frames ───

func TestParseBulkString(t *testing.T) {
	n, err := Parse([]byte("$5\r\nhello\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindBulkString || string(n.Bytes) != "hello" {
		t.Fatalf("got kind=%v bytes=%q", n.Kind, n.Bytes)
	}
}

func TestParseBulkStringNegativeLengthIsNull(t *testing.T) {
	n, err := Parse([]byte("$-1\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.IsNull() {
		t.Fatalf("expected null, got kind=%v", n.Kind)
	}
}

func TestParseBulkErrorRejectsNegativeLength(t *testing.T) {
	if _, err := Parse([]byte("!-1\r\n")); err == nil {
		t.Fatal("expected an error for a negative bulk error length")
	}
}

func TestParseVerbatimString(t *testing.T) {
	n, err := Parse([]byte("=15\r\ntxt:Some string\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindVerbatimString || string(n.Encoding) != "txt" || string(n.Bytes) != "Some string" {
		t.Fatalf("got kind=%v encoding=%q bytes=%q", n.Kind, n.Encoding, n.Bytes)
	}
}

// ─── composite frames ───

func TestParseArrayOfBulkStrings(t *testing.T) {
	n, err := Parse([]byte("*2\r\n$3\r\nfoo\r\n$3\r\nbar\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindArray || len(n.Children) != 2 {
		t.Fatalf("got kind=%v children=%d", n.Kind, len(n.Children))
	}
	if string(n.Children[0].Bytes) != "foo" || string(n.Children[1].Bytes) != "bar" {
		t.Fatalf("unexpected children: %+v", n.Children)
	}
}

func TestParseArrayZeroLengthIsNull(t *testing.T) {
	n, err := Parse([]byte("*0\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.IsNull() {
		t.Fatalf("expected array length 0 to decode as null, got kind=%v", n.Kind)
	}
}

func TestParseSetZeroLengthIsEmptyNotNull(t *testing.T) {
	n, err := Parse([]byte("~0\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindSet || len(n.Children) != 0 {
		t.Fatalf("expected empty set, got kind=%v children=%d", n.Kind, len(n.Children))
	}
}

func TestParseMap(t *testing.T) {
	n, err := Parse([]byte("%1\r\n$1\r\nk\r\n:7\r\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Kind != KindMap || len(n.Pairs) != 1 {
		t.Fatalf("got kind=%v pairs=%d", n.Kind, len(n.Pairs))
	}
	if string(n.Pairs[0].Key.Bytes) != "k" || string(n.Pairs[0].Value.Bytes) != "7" {
		t.Fatalf("unexpected pair: %+v", n.Pairs[0])
	}
}

func TestParseMapRejectsNonTextKey(t *testing.T) {
	if _, err := Parse([]byte("%1\r\n:1\r\n:7\r\n")); err == nil {
		t.Fatal("expected an error for a non-text map key")
	}
}

func TestParseTruncatedBulkStringIsError(t *testing.T) {
	if _, err := Parse([]byte("$5\r\nhel")); err == nil {
		t.Fatal("expected an error for a truncated bulk string")
	}
}
