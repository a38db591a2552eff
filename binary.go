package gpkg

import (
	"encoding/binary"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
)

// GeoPackage Binary header layout, cf.
// https://www.geopackage.org/spec140/index.html#gpb_format
//
//	offset 0-1: magic "GP"
//	offset 2:   version (0)
//	offset 3:   flags: bit 0 = byte order, bits 1-3 = envelope indicator
//	offset 4-7: srs_id, int32 little-endian
//	offset 8..: optional envelope, then WKB payload
const (
	magic0     = 0x47 // 'G'
	magic1     = 0x50 // 'P'
	headerSize = 8

	// flags written by this package: little-endian, no envelope.
	flagsDefault = 0x01
)

// envelopeSize maps the envelope contents indicator to the envelope's byte
// length. Only five indicator values are legal; everything else is a
// corrupt or non-conformant blob.
func envelopeSize(flags byte) (int, error) {
	switch flags & 0x0e {
	case 0x00:
		return 0, nil // no envelope
	case 0x02:
		return 32, nil // [minx, maxx, miny, maxy]
	case 0x04:
		return 48, nil // [minx, maxx, miny, maxy, minz, maxz]
	case 0x06:
		return 48, nil // [minx, maxx, miny, maxy, minm, maxm]
	case 0x08:
		return 64, nil // [minx, maxx, miny, maxy, minz, maxz, minm, maxm]
	default:
		return 0, &InvalidFlagsError{Flags: flags}
	}
}

// WrapWKB prepends the GeoPackage Binary header to a WKB payload. The
// header is always the minimal form: little-endian byte order and no
// envelope. The envelope is redundant with what the payload itself encodes,
// so readers that want it must compute it.
func WrapWKB(payload []byte, srsID int32) []byte {
	blob := make([]byte, 0, headerSize+len(payload))
	blob = append(blob, magic0, magic1, 0x00, flagsDefault)
	blob = binary.LittleEndian.AppendUint32(blob, uint32(srsID))
	return append(blob, payload...)
}

// UnwrapWKB strips the GeoPackage Binary header and any envelope from a
// geometry blob, returning the SRS id and the raw WKB payload. All five
// legal envelope indicator values are accepted; the envelope bytes are
// skipped, not parsed.
func UnwrapWKB(blob []byte) (srsID int32, payload []byte, err error) {
	if len(blob) < headerSize {
		return 0, nil, &InvalidLengthError{Len: len(blob), Min: headerSize}
	}
	envSize, err := envelopeSize(blob[3])
	if err != nil {
		return 0, nil, err
	}
	offset := headerSize + envSize
	if len(blob) < offset {
		return 0, nil, &InvalidLengthError{Len: len(blob), Min: offset}
	}
	srsID = int32(binary.LittleEndian.Uint32(blob[4:8]))
	return srsID, blob[offset:], nil
}

// EncodeGeometry marshals an orb.Geometry to WKB and wraps it in the
// GeoPackage Binary header.
func EncodeGeometry(geom orb.Geometry, srsID int32) ([]byte, error) {
	if geom == nil {
		return nil, ErrNilGeometry
	}
	payload, err := wkb.Marshal(geom)
	if err != nil {
		return nil, err
	}
	return WrapWKB(payload, srsID), nil
}

// DecodeGeometry unwraps a GeoPackage Binary blob and unmarshals the WKB
// payload into an orb.Geometry. WKB parse errors are returned unchanged.
func DecodeGeometry(blob []byte) (orb.Geometry, int32, error) {
	srsID, payload, err := UnwrapWKB(blob)
	if err != nil {
		return nil, 0, err
	}
	geom, err := wkb.Unmarshal(payload)
	if err != nil {
		return nil, 0, err
	}
	return geom, srsID, nil
}
