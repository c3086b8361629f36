package value

import "testing"

func TestSizeInBytesScalars(t *testing.T) {
	if FromInt(5).SizeInBytes() != sizeofInt64 {
		t.Fatalf("int size mismatch")
	}
	if FromText("hello").SizeInBytes() != 5 {
		t.Fatalf("text size mismatch")
	}
	if FromBytes([]byte{1, 2, 3}).SizeInBytes() != 3 {
		t.Fatalf("bytes size mismatch")
	}
}

func TestSizeInBytesComposite(t *testing.T) {
	list := FromList([]Value{FromText("ab"), FromText("cd")})
	if list.SizeInBytes() != 4 {
		t.Fatalf("got %d", list.SizeInBytes())
	}

	m := FromMap([]MapEntry{{Key: "k", Value: FromText("vv")}})
	if m.SizeInBytes() != 3 { // len("k") + len("vv")
		t.Fatalf("got %d", m.SizeInBytes())
	}
}

func TestDisplayStringList(t *testing.T) {
	list := FromList([]Value{FromText("a"), FromText("b"), FromText("c")})
	if list.DisplayString() != "[a, b, c]" {
		t.Fatalf("got %q", list.DisplayString())
	}
}

func TestDisplayStringScalars(t *testing.T) {
	if FromInt(42).DisplayString() != "42" {
		t.Fatal("int display mismatch")
	}
	if FromBool(true).DisplayString() != "true" {
		t.Fatal("bool display mismatch")
	}
}

func TestCompressDecompressRoundTrips(t *testing.T) {
	original := []byte("a somewhat repetitive string string string string")
	compressed, err := Compress(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	restored, err := Decompress(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(restored) != string(original) {
		t.Fatalf("round trip mismatch: got %q", restored)
	}
}

func TestEncodeTypedList(t *testing.T) {
	list := FromList([]Value{FromInt(1), FromInt(2)})
	frame := EncodeTyped(list)
	if len(frame) == 0 || frame[0] != '*' {
		t.Fatalf("expected array frame, got %q", frame)
	}
}
