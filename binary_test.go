package gpkg

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

func TestWrapUnwrapRoundTrip(t *testing.T) {
	payload, err := wkb.Marshal(orb.Point{3, -1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	blob := WrapWKB(payload, 4326)

	if blob[0] != 'G' || blob[1] != 'P' {
		t.Errorf("expected GP magic, got %#02x %#02x", blob[0], blob[1])
	}
	if blob[2] != 0x00 {
		t.Errorf("expected version 0, got %d", blob[2])
	}
	if blob[3] != 0x01 {
		t.Errorf("expected flags 0x01, got %#02x", blob[3])
	}

	srsID, got, err := UnwrapWKB(blob)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if srsID != 4326 {
		t.Errorf("expected srs id 4326, got %d", srsID)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload not preserved: got %x, want %x", got, payload)
	}
}

func TestUnwrapNegativeSRSID(t *testing.T) {
	blob := WrapWKB([]byte{0x01}, -1)
	srsID, _, err := UnwrapWKB(blob)
	if err != nil {
		t.Fatalf("unwrap: %v", err)
	}
	if srsID != -1 {
		t.Errorf("expected srs id -1, got %d", srsID)
	}
}

// blobWithFlags builds a header with the given flags byte, an envelope of
// the given size, and a one-byte payload.
func blobWithFlags(flags byte, envSize int) []byte {
	blob := []byte{'G', 'P', 0x00, flags}
	blob = binary.LittleEndian.AppendUint32(blob, 4326)
	blob = append(blob, make([]byte, envSize)...)
	return append(blob, 0xab)
}

func TestUnwrapEnvelopeIndicators(t *testing.T) {
	legal := []struct {
		name    string
		flags   byte
		envSize int
	}{
		{"none", 0x01, 0},
		{"xy", 0x03, 32},
		{"xyz", 0x05, 48},
		{"xym", 0x07, 48},
		{"xyzm", 0x09, 64},
	}

	for _, tt := range legal {
		t.Run(tt.name, func(t *testing.T) {
			_, payload, err := UnwrapWKB(blobWithFlags(tt.flags, tt.envSize))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(payload) != 1 || payload[0] != 0xab {
				t.Errorf("envelope not skipped, payload %x", payload)
			}
		})
	}

	for _, flags := range []byte{0x0a, 0x0c, 0x0e} {
		_, _, err := UnwrapWKB(blobWithFlags(flags, 64))
		var invalid *InvalidFlagsError
		if !errors.As(err, &invalid) {
			t.Errorf("flags %#02x: expected InvalidFlagsError, got %v", flags, err)
		} else if invalid.Flags != flags {
			t.Errorf("expected flags %#02x in error, got %#02x", flags, invalid.Flags)
		}
	}
}

func TestUnwrapShortBlob(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"empty", nil},
		{"header only", []byte{'G', 'P', 0x00}},
		{"missing envelope", blobWithFlags(0x03, 8)[:16]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := UnwrapWKB(tt.blob)
			var short *InvalidLengthError
			if !errors.As(err, &short) {
				t.Errorf("expected InvalidLengthError, got %v", err)
			}
		})
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		geom orb.Geometry
	}{
		{"Point", orb.Point{1.5, -2}},
		{"LineString", orb.LineString{{0, 0}, {1, 1}, {2, 2}}},
		{"Polygon", orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 0}}}},
		{"MultiPoint", orb.MultiPoint{{1, 5}, {-2, 3}}},
		{"Collection", orb.Collection{orb.Point{5, -1}, orb.LineString{{-2, 2}, {1, 3}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := EncodeGeometry(tt.geom, 4326)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			geom, srsID, err := DecodeGeometry(blob)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if srsID != 4326 {
				t.Errorf("expected srs id 4326, got %d", srsID)
			}
			if !orb.Equal(geom, tt.geom) {
				t.Errorf("expected %v, got %v", tt.geom, geom)
			}
		})
	}
}

func TestEncodeNilGeometry(t *testing.T) {
	_, err := EncodeGeometry(nil, 4326)
	if !errors.Is(err, ErrNilGeometry) {
		t.Errorf("expected ErrNilGeometry, got %v", err)
	}
}

func TestDecodeMalformedPayload(t *testing.T) {
	blob := WrapWKB([]byte{0xff, 0xff, 0xff}, 4326)
	_, _, err := DecodeGeometry(blob)
	if err == nil {
		t.Fatal("expected a WKB parse error")
	}
	var invalid *InvalidFlagsError
	if errors.As(err, &invalid) {
		t.Errorf("parse error misreported as InvalidFlagsError: %v", err)
	}
}

func BenchmarkDecodeAndBounds(b *testing.B) {
	ls := make(orb.LineString, 0, 512)
	for i := 0; i < 512; i++ {
		ls = append(ls, orb.Point{float64(i), float64(i % 64)})
	}
	blob, err := EncodeGeometry(ls, 4326)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		geom, _, err := DecodeGeometry(blob)
		if err != nil {
			b.Fatal(err)
		}
		if computeBounds(geom) == nil {
			b.Fatal("unexpected empty bounds")
		}
	}
}
