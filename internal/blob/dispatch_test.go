package blob

import "testing"

func TestFromBytesForWidthDispatchesNativeWords(t *testing.T) {
	b32 := FromBytesForWidth(32, []byte{1, 2, 3, 4})
	if _, ok := b32.(Blob32); !ok {
		t.Fatalf("expected Blob32, got %T", b32)
	}

	b64 := FromBytesForWidth(64, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	if _, ok := b64.(Blob64); !ok {
		t.Fatalf("expected Blob64, got %T", b64)
	}

	b160 := FromBytesForWidth(160, make([]byte, 20))
	if _, ok := b160.(Blob); !ok {
		t.Fatalf("expected Blob, got %T", b160)
	}
}

func TestFromBytesForWidthRoundTripsHighZeroBits(t *testing.T) {
	data := []byte{0, 0, 0, 0x80}
	b := FromBytesForWidth(32, data)
	if b.HighZeroBits() != 0 {
		t.Fatalf("expected 0 leading zero bits, got %d", b.HighZeroBits())
	}
}
