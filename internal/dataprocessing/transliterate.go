package dataprocessing

import (
	"strings"
	"unicode"
)

// bgLatin is the Bulgarian Streamlined System table, lowercase only
var bgLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l",
	'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s",
	'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "sht", 'ъ': "a", 'ь': "y", 'ю': "yu", 'я': "ya",
}

// Transliterate converts Bulgarian Cyrillic to Latin letters. Word-final
// "ия" becomes "ia". A capital maps to a capitalized digraph ("Ж" -> "Zh")
// unless it sits inside an all-caps word ("ЖАНА" -> "ZHANA"). Other runes
// pass through unchanged.
func Transliterate(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		lower := unicode.ToLower(r)

		if lower == 'и' && i+1 < len(runes) && unicode.ToLower(runes[i+1]) == 'я' &&
			(i+2 == len(runes) || !unicode.IsLetter(runes[i+2])) {
			b.WriteString(applyCase("i", r, runes, i))
			b.WriteString(applyCase("a", runes[i+1], runes, i+1))
			i++
			continue
		}

		latin, ok := bgLatin[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		b.WriteString(applyCase(latin, r, runes, i))
	}

	return b.String()
}

// applyCase carries the case of the source rune over to its Latin form
func applyCase(latin string, src rune, runes []rune, i int) string {
	if !unicode.IsUpper(src) {
		return latin
	}
	if inUpperWord(runes, i) {
		return strings.ToUpper(latin)
	}
	return strings.ToUpper(latin[:1]) + latin[1:]
}

// inUpperWord reports whether a neighbouring letter is also upper case
func inUpperWord(runes []rune, i int) bool {
	if i+1 < len(runes) && unicode.IsLetter(runes[i+1]) {
		return unicode.IsUpper(runes[i+1])
	}
	if i > 0 && unicode.IsLetter(runes[i-1]) {
		return unicode.IsUpper(runes[i-1])
	}
	return false
}
