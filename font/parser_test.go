package font

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParserPrimitives(t *testing.T) {
	data := []byte{0x00, 0x2A, 0xFF, 0x00, 0x01, 0x00, 0x01, 0x00, 0x02, 'G', 'S', 'U', 'B'}
	p := newParser(data)

	u8, err := p.u8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x00), u8)

	u16, err := p.u16()
	require.NoError(t, err)
	require.Equal(t, uint16(0x2AFF), u16)

	i16, err := p.i16()
	require.NoError(t, err)
	require.Equal(t, int16(1), i16)

	u32, err := p.u32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x00010002), u32)

	tag, err := p.tag()
	require.NoError(t, err)
	require.Equal(t, TagGSUB, tag)
}

func TestParserBoundsChecked(t *testing.T) {
	p := newParser([]byte{0x01})
	_, err := p.u16()
	require.ErrorIs(t, err, ErrInvalidOffset)

	p2 := newParser([]byte{0x01, 0x02, 0x03})
	_, err = p2.u32()
	require.ErrorIs(t, err, ErrInvalidOffset)
}

func TestParserSeekAndSub(t *testing.T) {
	data := []byte{0, 0, 0, 0, 0x00, 0x05}
	p := newParser(data)
	p.seek(4)
	v, err := p.u16()
	require.NoError(t, err)
	require.Equal(t, uint16(5), v)

	sub, err := p.sub(4)
	require.NoError(t, err)
	v2, err := sub.u16()
	require.NoError(t, err)
	require.Equal(t, uint16(5), v2)

	_, err = p.sub(-1)
	require.ErrorIs(t, err, ErrInvalidOffset)
	_, err = p.sub(len(data) + 1)
	require.ErrorIs(t, err, ErrInvalidOffset)
}

func TestParserBytesAt(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	p := newParser(data)
	b, err := p.bytesAt(1, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{2, 3, 4}, b)

	_, err = p.bytesAt(3, 10)
	require.ErrorIs(t, err, ErrInvalidOffset)
}
