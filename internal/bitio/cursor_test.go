package bitio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadUnsigned(t *testing.T) {
	// 0xA5 0x3C = 1010 0101 0011 1100
	c := New([]byte{0xA5, 0x3C})

	v, err := c.LoadUnsigned(0, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(0xA), v)

	v, err = c.LoadUnsigned(4, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(0x53), v)

	v, err = c.LoadUnsigned(0, 16)
	require.NoError(t, err)
	require.Equal(t, uint64(0xA53C), v)
}

func TestLoadSigned(t *testing.T) {
	// 10-bit field, value 0x3FF (all ones) = -1
	c := New([]byte{0xFF, 0xC0})
	v, err := c.LoadSigned(0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)

	// 10-bit field, value 0x200 (bit 9 set only) = -512
	c2 := New([]byte{0x80, 0x00})
	v2, err := c2.LoadSigned(0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(-512), v2)

	// 4-bit positive field
	c3 := New([]byte{0x50})
	v3, err := c3.LoadSigned(0, 4)
	require.NoError(t, err)
	require.Equal(t, int64(5), v3)
}

func TestBitAndSubview(t *testing.T) {
	c := New([]byte{0b10110000})
	b, err := c.Bit(0)
	require.NoError(t, err)
	require.Equal(t, 1, b)

	b, err = c.Bit(1)
	require.NoError(t, err)
	require.Equal(t, 0, b)

	sub, err := c.Subview(4, 4)
	require.NoError(t, err)
	v, err := sub.LoadUnsigned(0, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(0), v)
}

func TestOutOfRangeErrors(t *testing.T) {
	c := New([]byte{0x01})
	_, err := c.LoadUnsigned(0, 16)
	require.Error(t, err)

	_, err = c.Bit(8)
	require.Error(t, err)

	_, err = c.Subview(0, 16)
	require.Error(t, err)
}

func TestBytes(t *testing.T) {
	c := New([]byte{0x01, 0x02, 0x03, 0x04})
	b, err := c.Bytes(8, 16)
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x03}, b)

	_, err = c.Bytes(4, 8)
	require.Error(t, err)
}

func TestRemaining(t *testing.T) {
	c := New([]byte{0x00, 0x00})
	require.Equal(t, 16, c.LenBits())
	require.Equal(t, 12, c.Remaining(4))
}
