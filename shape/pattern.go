package shape

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/complexscript/shaping/font"
)

// FeatureUnit is one entry of a compiled Pattern: the mask its lookups
// are gated on, the lookups themselves, and whether they run in the
// GSUB or GPOS pass.
type FeatureUnit struct {
	Tag           font.Tag
	Mask          uint16
	LookupIndices []uint16
	Kind          FeatureKind
}

// Pattern is a compiled per-(font,script,language) feature plan —
// component 4 of the pipeline.
type Pattern struct {
	ScriptTag        font.Tag
	LanguageTag      font.Tag
	DefaultDirection Direction
	FeatureUnits     []FeatureUnit
}

// langSysTags maps a BCP-47 base language subtag to the OpenType
// LangSys tag used by GSUB/GPOS ScriptList. This is a deliberately
// small, hand-picked subset of the full OpenType language-tag registry —
// enough to exercise the common scripts this pipeline targets; an
// unrecognised language falls back to the script's default LangSys,
// which OpenType fonts are required to provide.
var langSysTags = map[string]font.Tag{
	"ar": font.MakeTag('A', 'R', 'A', ' '),
	"fa": font.MakeTag('F', 'A', 'R', ' '),
	"ur": font.MakeTag('U', 'R', 'D', ' '),
	"en": font.MakeTag('E', 'N', 'G', ' '),
	"ru": font.MakeTag('R', 'U', 'S', ' '),
	"el": font.MakeTag('E', 'L', 'L', ' '),
	"hy": font.MakeTag('H', 'Y', 'E', ' '),
	"ka": font.MakeTag('K', 'A', 'T', ' '),
}

// ResolveLanguageTag converts a BCP-47 tag to its OpenType LangSys tag,
// or 0 if none of langSysTags' entries match (meaning "use the script's
// default language system").
func ResolveLanguageTag(lang language.Tag) font.Tag {
	base, conf := lang.Base()
	if conf == language.No {
		return 0
	}
	if tag, ok := langSysTags[base.String()]; ok {
		return tag
	}
	return 0
}

// BuildPattern compiles a Pattern for scriptTag/languageTag from the
// font's GSUB/GPOS tables, honouring the script's known feature order.
// Either table may be nil (a font lacking GSUB or GPOS simply
// contributes no feature units from that side).
func BuildPattern(gsub *font.GSUBTable, gpos *font.GPOSTable, scriptTag, languageTag font.Tag) (*Pattern, error) {
	sk := LookupScriptKnowledge(scriptTag)
	p := &Pattern{ScriptTag: scriptTag, LanguageTag: languageTag, DefaultDirection: sk.DefaultDirection}

	for _, featTag := range sk.Features {
		mask, known := featureMaskBit(featTag)
		if !known {
			continue
		}
		kind := featureKind(featTag)
		var header *font.LayoutHeader
		switch kind {
		case Substitution:
			if gsub == nil {
				continue
			}
			header = gsub.LayoutHeader
		case Positioning:
			if gpos == nil {
				continue
			}
			header = gpos.LayoutHeader
		}
		indices, err := collectLookupIndices(header, scriptTag, languageTag, featTag)
		if err != nil {
			return nil, err
		}
		if len(indices) == 0 {
			continue
		}
		p.FeatureUnits = append(p.FeatureUnits, FeatureUnit{
			Tag: featTag, Mask: mask, LookupIndices: indices, Kind: kind,
		})
	}
	return p, nil
}

func collectLookupIndices(header *font.LayoutHeader, scriptTag, languageTag, featTag font.Tag) ([]uint16, error) {
	script := header.FindScript(scriptTag)
	if script == nil {
		return nil, nil
	}
	langSys := script.FindLangSys(languageTag)
	if langSys == nil {
		return nil, nil
	}
	var indices []uint16
	for _, featIdx := range langSys.FeatureIndices {
		if int(featIdx) >= len(header.Features) {
			return nil, fmt.Errorf("langSys feature index %d out of range: %w", featIdx, ErrInvalidFontData)
		}
		feat := header.Features[featIdx]
		if feat.Tag == featTag {
			indices = append(indices, feat.LookupIndices...)
		}
	}
	if langSys.RequiredFeatureIndex >= 0 && langSys.RequiredFeatureIndex < len(header.Features) {
		feat := header.Features[langSys.RequiredFeatureIndex]
		if feat.Tag == featTag {
			indices = append(indices, feat.LookupIndices...)
		}
	}
	return indices, nil
}
