package font

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/internal/testutil"
)

func findTestFont(name string) string {
	return testutil.FindTestFont(name)
}

func TestRealFontGDEFAndCmap(t *testing.T) {
	fontPath := findTestFont("DejaVuSans.ttf")
	if fontPath == "" {
		t.Skip("DejaVuSans.ttf not found on this system")
	}

	data, err := os.ReadFile(fontPath)
	require.NoError(t, err)

	f, err := ParseFont(data)
	require.NoError(t, err)

	cmap, err := f.Cmap()
	require.NoError(t, err)
	gid, ok := cmap.Lookup('A')
	require.True(t, ok)
	require.NotZero(t, gid)

	if f.HasTable(TagGDEF) {
		gdef, err := f.GDEF()
		require.NoError(t, err)
		require.NotNil(t, gdef)
	}
}
