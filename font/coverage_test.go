package font

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoverageFormat1(t *testing.T) {
	// format=1, count=3, glyphs 10,20,30
	data := []byte{
		0x00, 0x01, // format 1
		0x00, 0x03, // count
		0x00, 0x0A,
		0x00, 0x14,
		0x00, 0x1E,
	}
	c, err := ParseCoverage(data, 0)
	require.NoError(t, err)

	idx, ok := c.Index(20)
	require.True(t, ok)
	require.Equal(t, 1, idx)

	require.True(t, c.Contains(10))
	require.False(t, c.Contains(11))
}

func TestCoverageFormat2(t *testing.T) {
	// format=2, one range [5,7] -> startCoverageIndex 0
	data := []byte{
		0x00, 0x02, // format 2
		0x00, 0x01, // rangeCount
		0x00, 0x05, // start
		0x00, 0x07, // end
		0x00, 0x00, // startCoverageIndex
	}
	c, err := ParseCoverage(data, 0)
	require.NoError(t, err)

	idx, ok := c.Index(7)
	require.True(t, ok)
	require.Equal(t, 2, idx)
	require.False(t, c.Contains(8))
}

func TestCoverageUnsupportedFormat(t *testing.T) {
	data := []byte{0x00, 0x09}
	_, err := ParseCoverage(data, 0)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestClassDefFormat1(t *testing.T) {
	// startGlyph=100, classes [1,0,2]
	data := []byte{
		0x00, 0x01, // format 1
		0x00, 0x64, // startGlyph 100
		0x00, 0x03, // count
		0x00, 0x01,
		0x00, 0x00,
		0x00, 0x02,
	}
	cd, err := ParseClassDef(data, 0)
	require.NoError(t, err)

	require.Equal(t, uint16(1), cd.Class(100))
	require.Equal(t, uint16(0), cd.Class(101))
	require.Equal(t, uint16(2), cd.Class(102))
	require.Equal(t, uint16(0), cd.Class(999)) // uncovered glyph
}

func TestClassDefFormat2(t *testing.T) {
	data := []byte{
		0x00, 0x02, // format 2
		0x00, 0x01, // rangeCount
		0x00, 0x0A, // start
		0x00, 0x0C, // end
		0x00, 0x03, // class
	}
	cd, err := ParseClassDef(data, 0)
	require.NoError(t, err)

	require.Equal(t, uint16(3), cd.Class(10))
	require.Equal(t, uint16(3), cd.Class(12))
	require.Equal(t, uint16(0), cd.Class(13))
}
