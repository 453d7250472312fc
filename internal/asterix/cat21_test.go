package asterix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterix-watch/decoder/internal/bitio"
)

func TestDecodeCat21GroundBitPinsAltitudeWithoutFlightLevel(t *testing.T) {
	// FSPEC: FRN2 only (target report descriptor), FX clear -> 0x40.
	// I021/040 byte0: ATP=0,ARC=0,RC=0,RAB=0,FX=1 -> 0x01.
	// Extension octet: GBS bit at index 2 (MSB) set, FX clear -> 0b001_00000 = 0x20.
	body := []byte{0x40, 0x01, 0x20}
	c := bitio.New(body)

	rec, err := decodeCat21(c)
	require.NoError(t, err)
	require.NotNil(t, rec.TargetReportDescriptor.GBS)
	require.Equal(t, uint8(1), *rec.TargetReportDescriptor.GBS)
	require.NotNil(t, rec.FlightLevel)
	require.Equal(t, 0.0, *rec.FlightLevel)
	require.Equal(t, 0.0, *rec.AltitudeFt)
	require.Equal(t, 0.0, *rec.AltitudeM)
}

func TestDecodeCat21HighResPosition(t *testing.T) {
	// FSPEC: FRN7 present -> bit index 6 from MSB, so bit1 (0x02), FX clear.
	fspec := byte(0x02)
	latRaw := uint32(0x10000000) // 2^28, LSB=180/2^30 -> 45.0 deg
	lonRaw := uint32(0x00000000)
	body := []byte{
		fspec,
		byte(latRaw >> 24), byte(latRaw >> 16), byte(latRaw >> 8), byte(latRaw),
		byte(lonRaw >> 24), byte(lonRaw >> 16), byte(lonRaw >> 8), byte(lonRaw),
	}
	c := bitio.New(body)

	rec, err := decodeCat21(c)
	require.NoError(t, err)
	require.InDelta(t, 45.0, *rec.Latitude, 1e-9)
	require.InDelta(t, 0.0, *rec.Longitude, 1e-9)
}

func TestDecodeCat21AltitudeFromFlightLevelAndPressure(t *testing.T) {
	// FSPEC: FRN21 (flight level) + FRN48 (REF). Octet 3 covers FRN
	// 15..21; FRN21 is its 7th presence bit (bit index 1, 0x02) with
	// FX set (0x03) to continue. Octet 7 covers FRN 43..49; FRN48 is
	// its 6th presence bit (bit index 2, 0x04), FX clear to terminate.
	fspecOctets := []byte{0x01, 0x01, 0x03, 0x01, 0x01, 0x01, 0x04}
	fl := int16(350 * 4) // FL350 encoded at LSB=1/4 FL
	flBytes := []byte{byte(uint16(fl) >> 8), byte(uint16(fl))}
	// REF: gate bit0x80 set (pressure present), p0=1013.25 -> raw = (1013.25-800)/0.1 = 2132.5 -> round 2133
	refGate := byte(0x80)
	pRaw := uint16(2133)
	refBytes := []byte{refGate, byte(pRaw >> 8), byte(pRaw)}

	body := append([]byte{}, fspecOctets...)
	body = append(body, flBytes...)
	body = append(body, refBytes...)
	c := bitio.New(body)

	rec, err := decodeCat21(c)
	require.NoError(t, err)
	require.NotNil(t, rec.FlightLevel)
	require.InDelta(t, 350.0, *rec.FlightLevel, 0.01)
	require.NotNil(t, rec.BarometricPressureHPa)
	require.NotNil(t, rec.AltitudeFt)
	// altitude_ft = FL*100 + (1013.25 - p0)*30, p0 ~= 1013.25 here so
	// the correction term is close to zero.
	require.InDelta(t, 35000.0, *rec.AltitudeFt, 5.0)
}

func TestDecodeCat21FRNOutOfRangeAborts(t *testing.T) {
	// FSPEC chained far enough to reach a FRN beyond maxFRNCat21 (49).
	fspecOctets := []byte{0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x80}
	c := bitio.New(fspecOctets)
	_, err := decodeCat21(c)
	require.ErrorIs(t, err, ErrFRNOutOfRange)
}
