package resolve

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var kanaRomaji = map[rune]string{
	'カ': "ka", 'キ': "ki", 'ク': "ku", 'ケ': "ke", 'コ': "ko",
	'サ': "sa", 'シ': "shi", 'ス': "su", 'セ': "se", 'ソ': "so",
	'タ': "ta", 'チ': "chi", 'ツ': "tsu", 'テ': "te", 'ト': "to",
	'ナ': "na", 'ニ': "ni", 'ヌ': "nu", 'ネ': "ne", 'ノ': "no",
	'ハ': "ha", 'ヒ': "hi", 'フ': "fu", 'ヘ': "he", 'ホ': "ho",
	'マ': "ma", 'ミ': "mi", 'ム': "mu", 'メ': "me", 'モ': "mo",
	'ヤ': "ya", 'ユ': "yu", 'ヨ': "yo",
	'ラ': "ra", 'リ': "ri", 'ル': "ru", 'レ': "re", 'ロ': "ro",
	'ワ': "wa", 'ヲ': "wo", 'ン': "n",
	'ガ': "ga", 'ギ': "gi", 'グ': "gu", 'ゲ': "ge", 'ゴ': "go",
	'ザ': "za", 'ジ': "ji", 'ズ': "zu", 'ゼ': "ze", 'ゾ': "zo",
	'ダ': "da", 'ヂ': "ji", 'ヅ': "zu", 'デ': "de", 'ド': "do",
	'バ': "ba", 'ビ': "bi", 'ブ': "bu", 'ベ': "be", 'ボ': "bo",
	'パ': "pa", 'ピ': "pi", 'プ': "pu", 'ペ': "pe", 'ポ': "po",
	'ア': "a", 'イ': "i", 'ウ': "u", 'エ': "e", 'オ': "o",
	'ァ': "a", 'ィ': "i", 'ゥ': "u", 'ェ': "e", 'ォ': "o",
	'ヴ': "vu",
	'ー': "", '・': " ",
}

var smallY = map[rune]string{'ャ': "a", 'ュ': "u", 'ョ': "o"}

// KanaToRomaji transliterates a kana reading to Hepburn-style romaji with the
// first letter capitalised. ッ doubles the following consonant and the small
// ャュョ form digraphs (キャ → kya, シャ → sha). Runes with no mapping pass
// through unchanged.
func KanaToRomaji(text string) string {
	rs := []rune(toKatakana(text))
	var b strings.Builder
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r == 'ッ' {
			if i+1 < len(rs) {
				if next := kanaRomaji[rs[i+1]]; next != "" {
					b.WriteByte(next[0])
				}
			}
			continue
		}
		if i+1 < len(rs) {
			if v, ok := smallY[rs[i+1]]; ok {
				b.WriteString(digraphStem(r) + v)
				i++
				continue
			}
		}
		if s, ok := kanaRomaji[r]; ok {
			b.WriteString(s)
		} else {
			b.WriteRune(r)
		}
	}
	return capitalize(b.String())
}

// digraphStem is the consonant part of a kana combined with a small ya/yu/yo.
func digraphStem(r rune) string {
	s := kanaRomaji[r]
	switch s {
	case "":
		return "y"
	case "shi", "chi":
		return s[:2]
	case "ji":
		return "j"
	}
	return s[:len(s)-1] + "y"
}

func toKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x3041 && r <= 0x3096 {
			return r + 0x60
		}
		return r
	}, s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
