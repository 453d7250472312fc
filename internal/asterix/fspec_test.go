package asterix

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asterix-watch/decoder/internal/bitio"
)

func TestReadFSPECSingleOctet(t *testing.T) {
	// FRN 1 present, FX clear.
	c := bitio.New([]byte{0x80})
	frns, used := readFSPEC(c, 0)
	require.Equal(t, []int{1}, frns)
	require.Equal(t, 8, used)
}

func TestReadFSPECTwoOctets(t *testing.T) {
	// First octet: FRN1 + FRN2 present, FX set. Second octet: FRN8 present, FX clear.
	c := bitio.New([]byte{0xC1, 0x80})
	frns, used := readFSPEC(c, 0)
	require.Equal(t, []int{1, 2, 8}, frns)
	require.Equal(t, 16, used)
}

func TestReadFSPECTruncatedGracefully(t *testing.T) {
	// A single incomplete octet: fewer than 8 bits remain.
	c := bitio.New([]byte{0x80})
	sub, err := c.Subview(0, 4)
	require.NoError(t, err)
	frns, used := readFSPEC(sub, 0)
	require.Empty(t, frns)
	require.Equal(t, 0, used)
}
