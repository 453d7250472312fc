package asterix

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeStreamIncompleteHeaderYieldsNoRecords(t *testing.T) {
	// Two-byte input: CAT present but LEN incomplete.
	records := DecodeStream([]byte{0x30, 0x00}, nil, 0, nil)
	require.Empty(t, records)
}

func TestDecodeStreamSingleCat48SacSic(t *testing.T) {
	// CAT=48, LEN=6 (header 3 + FSPEC 1 + DSI 2), FSPEC=0x80 (FRN1 only),
	// SAC=0x07 SIC=0x2A.
	data := []byte{0x30, 0x00, 0x06, 0x80, 0x07, 0x2A}
	records := DecodeStream(data, nil, 0, nil)
	require.Len(t, records, 1)
	r := records[0]
	require.Equal(t, KindCat48, r.Kind)
	require.Equal(t, uint8(7), *r.Cat48.SAC)
	require.Equal(t, uint8(42), *r.Cat48.SIC)
	require.Nil(t, r.Cat48.TimeOfDaySec)
	require.Nil(t, r.Cat48.FlightLevel)
}

func TestDecodeStreamCat48SlantPolar(t *testing.T) {
	// FSPEC byte: FRN4 present -> bit index 4 from MSB (FRN1..7 are bits
	// 7..1), so FRN4 is the 4th presence bit: 0b0001_0000|FX=0 = 0x10.
	fspec := byte(0x10)
	rangeRaw := uint16(0x0100) // 1 NM
	thetaRaw := uint16(0x4000) // 90 deg
	body := []byte{fspec, byte(rangeRaw >> 8), byte(rangeRaw), byte(thetaRaw >> 8), byte(thetaRaw)}
	length := 3 + len(body)
	data := append([]byte{48, byte(length >> 8), byte(length)}, body...)

	records := DecodeStream(data, nil, 0, nil)
	require.Len(t, records, 1)
	r := records[0].Cat48
	require.InDelta(t, 1852.0, *r.RangeM, 1e-9)
	require.InDelta(t, 90.0, *r.ThetaDeg, 1e-9)
}

func TestDecodeStreamMultipleRecordsRespectsLen(t *testing.T) {
	rec1 := []byte{48, 0x00, 0x06, 0x80, 0x01, 0x02}
	rec2 := []byte{48, 0x00, 0x06, 0x80, 0x03, 0x04}
	data := append(append([]byte{}, rec1...), rec2...)
	records := DecodeStream(data, nil, 0, nil)
	require.Len(t, records, 2)
	require.Equal(t, uint8(1), *records[0].Cat48.SAC)
	require.Equal(t, uint8(3), *records[1].Cat48.SAC)
}

func TestDecodeStreamLimitCountsOnlyDecoded(t *testing.T) {
	unsupported := []byte{99, 0x00, 0x04, 0xAA}
	rec1 := []byte{48, 0x00, 0x06, 0x80, 0x01, 0x02}
	rec2 := []byte{48, 0x00, 0x06, 0x80, 0x03, 0x04}
	data := append(append(append([]byte{}, unsupported...), rec1...), rec2...)

	records := DecodeStream(data, nil, 1, nil)
	// The unsupported record is framed but doesn't count against the
	// limit, so the one CAT-48 slot gets filled by rec1 and the stream
	// stops there without ever framing rec2.
	require.Len(t, records, 2)
	require.Equal(t, KindUnsupported, records[0].Kind)
	require.Equal(t, KindCat48, records[1].Kind)
	require.Equal(t, uint8(1), *records[1].Cat48.SAC)
}

func TestDecodeStreamMalformedLenTerminatesStream(t *testing.T) {
	good := []byte{48, 0x00, 0x06, 0x80, 0x01, 0x02}
	bad := []byte{48, 0x00, 0x02} // LEN < 3
	data := append(append([]byte{}, good...), bad...)
	records := DecodeStream(data, nil, 0, nil)
	require.Len(t, records, 1)
}

func TestDecodeStreamDiagnosticCallback(t *testing.T) {
	bad := []byte{48, 0x00, 0x02}
	var got *DiagnosticEvent
	DecodeStream(bad, nil, 0, func(ev DiagnosticEvent) {
		got = &ev
	})
	require.NotNil(t, got)
	require.Equal(t, ErrKindMalformedHeader, got.Kind)
}
