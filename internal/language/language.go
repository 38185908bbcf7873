package language

import (
	"fmt"
	"strings"
)

// Language represents one side of the correction/translation pair.
type Language struct {
	Code string
	// Name is the English name used inside model prompts.
	Name string
	// SpeechTag is the BCP 47 tag handed to speech engines.
	SpeechTag string
}

var (
	Korean            = Language{Code: "ko", Name: "Korean", SpeechTag: "ko-KR"}
	ChineseSimplified = Language{Code: "zh-Hans", Name: "Chinese (Simplified)", SpeechTag: "zh-CN"}
)

// Languages is a map of supported languages code -> Language.
var Languages = map[string]Language{
	"ko":      Korean,
	"ko-KR":   Korean,
	"zh":      ChineseSimplified, // Default to Simplified
	"zh-Hans": ChineseSimplified,
	"zh-CN":   ChineseSimplified,
}

// GetLanguage returns the language configuration for the given code.
func GetLanguage(code string) (Language, bool) {
	lang, ok := Languages[strings.TrimSpace(code)]
	return lang, ok
}

// Direction selects which way the quick translator works.
type Direction string

const (
	KoToZh Direction = "kr2cn"
	ZhToKo Direction = "cn2kr"
)

// ParseDirection accepts the stored values and a few spellings a user may
// type on the command line.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kr2cn", "ko2zh", "ko-zh", "kr-cn":
		return KoToZh, nil
	case "cn2kr", "zh2ko", "zh-ko", "cn-kr":
		return ZhToKo, nil
	default:
		return "", fmt.Errorf("unknown translation direction %q (use kr2cn or cn2kr)", s)
	}
}

func (d Direction) Valid() bool {
	return d == KoToZh || d == ZhToKo
}

// Source returns the language text is written in for this direction.
func (d Direction) Source() Language {
	if d == ZhToKo {
		return ChineseSimplified
	}
	return Korean
}

func (d Direction) Target() Language {
	if d == ZhToKo {
		return Korean
	}
	return ChineseSimplified
}

func (d Direction) Swap() Direction {
	if d == ZhToKo {
		return KoToZh
	}
	return ZhToKo
}

func (d Direction) String() string {
	return string(d)
}
