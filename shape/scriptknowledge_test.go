package shape

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

func TestFeatureMaskBitArabicForms(t *testing.T) {
	m, ok := featureMaskBit(font.FeatIsol)
	require.True(t, ok)
	require.Equal(t, maskIsol, m)

	m, ok = featureMaskBit(font.FeatFina)
	require.True(t, ok)
	require.Equal(t, maskFina, m)
}

func TestFeatureMaskBitSharedAlwaysOn(t *testing.T) {
	for _, tag := range []font.Tag{font.FeatCcmp, font.FeatRlig, font.FeatLiga, font.FeatKern, font.FeatMark} {
		m, ok := featureMaskBit(tag)
		require.True(t, ok)
		require.Equal(t, maskAlwaysOn, m)
	}
}

func TestFeatureMaskBitUnknownTag(t *testing.T) {
	_, ok := featureMaskBit(font.MakeTag('z', 'z', 'z', 'z'))
	require.False(t, ok)
}

func TestFeatureKindPositioningVsSubstitution(t *testing.T) {
	require.Equal(t, Positioning, featureKind(font.FeatKern))
	require.Equal(t, Positioning, featureKind(font.FeatCurs))
	require.Equal(t, Substitution, featureKind(font.FeatLiga))
}

func TestLookupScriptKnowledgeArabic(t *testing.T) {
	sk := LookupScriptKnowledge(font.ScriptArabic)
	require.Equal(t, RightToLeft, sk.DefaultDirection)
	require.Contains(t, sk.Features, font.FeatIsol)
}

func TestLookupScriptKnowledgeUnknownFallsBackToStandard(t *testing.T) {
	sk := LookupScriptKnowledge(font.MakeTag('z', 'y', 'x', 'w'))
	require.Equal(t, LeftToRight, sk.DefaultDirection)
	require.Equal(t, standardFeatures, sk.Features)
}
