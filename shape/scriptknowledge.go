package shape

import "github.com/complexscript/shaping/font"

// Feature-mask bits, distinct from the Slot.Traits bit space: Slot.Mask
// is a separate uint16 field purely for feature selection. Only the
// Arabic joining forms need per-slot selectivity; every other feature
// this pipeline knows about is either on for a whole run or not enabled
// at all, so they share maskAlwaysOn — component 5 of the pipeline
// (ScriptKnowledge).
const (
	maskIsol     uint16 = 1 << 0
	maskInit     uint16 = 1 << 1
	maskMedi     uint16 = 1 << 2
	maskFina     uint16 = 1 << 3
	maskAlwaysOn uint16 = 1 << 4
)

// FeatureKind distinguishes GSUB from GPOS features within a Pattern.
type FeatureKind int

const (
	Substitution FeatureKind = iota
	Positioning
)

// featureMaskBit returns the Slot.Mask bit a feature tag participates
// under, and whether the tag is recognised by this engine at all.
func featureMaskBit(tag font.Tag) (uint16, bool) {
	switch tag {
	case font.FeatIsol:
		return maskIsol, true
	case font.FeatInit:
		return maskInit, true
	case font.FeatMedi:
		return maskMedi, true
	case font.FeatFina:
		return maskFina, true
	case font.FeatCcmp, font.FeatRlig, font.FeatCalt, font.FeatCurs,
		font.FeatLiga, font.FeatClig, font.FeatDist, font.FeatKern,
		font.FeatMark, font.FeatMkmk:
		return maskAlwaysOn, true
	default:
		return 0, false
	}
}

// featureKind classifies a feature tag as a GSUB or GPOS feature.
func featureKind(tag font.Tag) FeatureKind {
	switch tag {
	case font.FeatDist, font.FeatKern, font.FeatMark, font.FeatMkmk, font.FeatCurs:
		return Positioning
	default:
		return Substitution
	}
}

// ScriptKnowledge names a script's default direction and the ordered
// feature list its shaping engine drives — component 5.
type ScriptKnowledge struct {
	DefaultDirection Direction
	Features         []font.Tag
}

var standardFeatures = []font.Tag{
	font.FeatCcmp, font.FeatLiga, font.FeatClig, font.FeatDist, font.FeatKern, font.FeatMark, font.FeatMkmk,
}

var arabicFeatures = []font.Tag{
	font.FeatCcmp,
	font.FeatIsol, font.FeatInit, font.FeatMedi, font.FeatFina,
	font.FeatRlig, font.FeatCalt, font.FeatCurs,
	font.FeatDist, font.FeatKern, font.FeatMark, font.FeatMkmk,
}

var knownScripts = map[font.Tag]ScriptKnowledge{
	font.ScriptLatin:    {LeftToRight, standardFeatures},
	font.ScriptCyrillic: {LeftToRight, standardFeatures},
	font.ScriptGreek:    {LeftToRight, standardFeatures},
	font.ScriptArmenian: {LeftToRight, standardFeatures},
	font.ScriptGeorgian: {LeftToRight, standardFeatures},
	font.ScriptOgham:    {LeftToRight, standardFeatures},
	font.ScriptRunic:    {LeftToRight, standardFeatures},
	font.ScriptArabic:   {RightToLeft, arabicFeatures},
}

// LookupScriptKnowledge returns the ScriptKnowledge for tag, falling
// back to StandardEngine's feature set under LeftToRight when the
// script is unrecognised — per spec.md §7, an unsupported script is not
// an error.
func LookupScriptKnowledge(tag font.Tag) ScriptKnowledge {
	if sk, ok := knownScripts[tag]; ok {
		return sk
	}
	return ScriptKnowledge{LeftToRight, standardFeatures}
}
