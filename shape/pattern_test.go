package shape

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/stretchr/testify/require"

	"github.com/complexscript/shaping/font"
)

func TestResolveLanguageTagKnown(t *testing.T) {
	require.Equal(t, font.MakeTag('A', 'R', 'A', ' '), ResolveLanguageTag(language.Arabic))
}

func TestResolveLanguageTagUnknownFallsBackToZero(t *testing.T) {
	require.Equal(t, font.Tag(0), ResolveLanguageTag(language.Make("zu")))
}

func buildTestHeader() *font.LayoutHeader {
	defaultLangSys := &font.LangSys{RequiredFeatureIndex: -1, FeatureIndices: []uint16{0, 1}}
	return &font.LayoutHeader{
		Scripts: map[font.Tag]*font.ScriptRecord{
			font.ScriptLatin: {Tag: font.ScriptLatin, DefaultLangSys: defaultLangSys},
		},
		Features: []font.FeatureRecord{
			{Tag: font.FeatLiga, LookupIndices: []uint16{3}},
			{Tag: font.FeatClig, LookupIndices: []uint16{4}},
			{Tag: font.FeatKern, LookupIndices: []uint16{5}},
		},
	}
}

func TestCollectLookupIndices(t *testing.T) {
	h := buildTestHeader()
	indices, err := collectLookupIndices(h, font.ScriptLatin, 0, font.FeatLiga)
	require.NoError(t, err)
	require.Equal(t, []uint16{3}, indices)
}

func TestCollectLookupIndicesUnknownScriptYieldsNil(t *testing.T) {
	h := buildTestHeader()
	indices, err := collectLookupIndices(h, font.MakeTag('z', 'y', 'x', 'w'), 0, font.FeatLiga)
	require.NoError(t, err)
	require.Nil(t, indices)
}

func TestBuildPatternLatinOmitsUnreferencedFeature(t *testing.T) {
	gsubHeader := buildTestHeader()
	gsub := &font.GSUBTable{LayoutHeader: gsubHeader}

	gposHeader := &font.LayoutHeader{
		Scripts: map[font.Tag]*font.ScriptRecord{
			font.ScriptLatin: {Tag: font.ScriptLatin, DefaultLangSys: &font.LangSys{RequiredFeatureIndex: -1, FeatureIndices: []uint16{0}}},
		},
		Features: []font.FeatureRecord{{Tag: font.FeatKern, LookupIndices: []uint16{5}}},
	}
	gpos := &font.GPOSTable{LayoutHeader: gposHeader}

	p, err := BuildPattern(gsub, gpos, font.ScriptLatin, 0)
	require.NoError(t, err)
	require.Equal(t, LeftToRight, p.DefaultDirection)

	var tags []font.Tag
	for _, u := range p.FeatureUnits {
		tags = append(tags, u.Tag)
	}
	require.Contains(t, tags, font.FeatLiga)
	require.Contains(t, tags, font.FeatKern)
	require.NotContains(t, tags, font.FeatMark) // not present in either header's feature list
}

func TestBuildPatternNilGPOSSkipsPositioningFeatures(t *testing.T) {
	gsub := &font.GSUBTable{LayoutHeader: buildTestHeader()}
	p, err := BuildPattern(gsub, nil, font.ScriptLatin, 0)
	require.NoError(t, err)
	for _, u := range p.FeatureUnits {
		require.Equal(t, Substitution, u.Kind)
	}
}
