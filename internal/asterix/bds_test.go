package asterix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterix-watch/decoder/internal/bitio"
)

func TestDecodeBDS40MCPAltitude(t *testing.T) {
	// status_mcp=1, mcp_alt raw=100 (12 bits), LSB=16ft -> 1600ft.
	buf := make([]byte, 7)
	c := bitio.New(buf)
	sub, err := c.Subview(0, 56)
	require.NoError(t, err)

	// Build the 56-bit payload by hand: bit0=status_mcp, bits1..12=mcp_alt.
	raw := uint64(1)<<63 | uint64(100)<<(63-12)
	for i := 0; i < 56; i++ {
		bitVal := (raw >> uint(63-i)) & 1
		byteIdx := i / 8
		bitIdx := uint(7 - i%8)
		if bitVal == 1 {
			buf[byteIdx] |= 1 << bitIdx
		}
	}

	got, err := decodeBDS40(sub, 0)
	require.NoError(t, err)
	require.True(t, got.StatusMCP)
	require.InDelta(t, 1600.0, got.MCPAltFt, 1e-9)
}

func TestDecodeBDS50TrackAngleElevenBits(t *testing.T) {
	buf := make([]byte, 7)
	c := bitio.New(buf)
	sub, err := c.Subview(0, 56)
	require.NoError(t, err)

	// status_track bit at index 11, track_angle_raw at [12..23) (11 bits).
	setBit(buf, 11)
	setUint(buf, 12, 11, 0x100) // 256 -> positive value, well within 11-bit range

	got, err := decodeBDS50(sub, 0)
	require.NoError(t, err)
	require.True(t, got.StatusTrack)
	require.InDelta(t, 256.0*90.0/512.0, got.TrackAngleDeg, 1e-9)
}

func TestDecodeModeSMBDataDispatchesBDS40(t *testing.T) {
	buf := make([]byte, 1+8) // REP octet + one 64-bit block
	buf[0] = 1
	// BDS1=4, BDS2=0 in the trailing 4+4 bits of the 64-bit block (bits 56..64).
	buf[1+7] = 0x40
	c := bitio.New(buf)

	mb, bits, err := decodeModeSMBData(c, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(1), mb.Repetition)
	require.NotNil(t, mb.BDS40)
	require.Equal(t, 8+64, bits)
}

func setBit(buf []byte, pos int) {
	buf[pos/8] |= 1 << uint(7-pos%8)
}

func setUint(buf []byte, pos, width int, v uint64) {
	for i := 0; i < width; i++ {
		bit := (v >> uint(width-1-i)) & 1
		if bit == 1 {
			setBit(buf, pos+i)
		}
	}
}
