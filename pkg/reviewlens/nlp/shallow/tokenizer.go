package shallow

import (
	"strings"
	"unicode"
)

// splitSentences segments text on terminal punctuation, semicolons and line
// breaks. Decimal points ("2.5") do not end a sentence.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder
	runes := []rune(text)

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i, r := range runes {
		switch r {
		case '\n', '\r':
			flush()
		case '.', '!', '?', ';':
			current.WriteRune(r)
			if r == '.' && i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
				continue
			}
			// keep runs like "!!" or "..." together
			if i+1 < len(runes) && strings.ContainsRune(".!?", runes[i+1]) {
				continue
			}
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return sentences
}

var clitics = []string{"'s", "'re", "'m", "'ll", "'ve", "'d"}

// tokenize splits a sentence into words and punctuation symbols, preserving
// case. Hyphens and apostrophes inside a word are kept; a trailing "n't" is
// split off so negation gets its own token.
func tokenize(sentence string) []string {
	var tokens []string
	var current strings.Builder

	emit := func() {
		if current.Len() == 0 {
			return
		}
		word := strings.Trim(current.String(), "-'")
		current.Reset()
		if word == "" {
			return
		}
		lower := strings.ToLower(word)
		if strings.HasSuffix(lower, "n't") && len(word) > 3 {
			stem := word[:len(word)-3]
			switch strings.ToLower(stem) {
			case "ca":
				stem += "n"
			case "wo":
				stem = "will"
			}
			tokens = append(tokens, stem, word[len(word)-3:])
			return
		}
		for _, suffix := range clitics {
			if strings.HasSuffix(lower, suffix) && len(word) > len(suffix) {
				cut := len(word) - len(suffix)
				tokens = append(tokens, word[:cut], word[cut:])
				return
			}
		}
		tokens = append(tokens, word)
	}

	runes := []rune(sentence)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			current.WriteRune(r)
		case (r == '.' || r == ',') && i > 0 && i+1 < len(runes) &&
			unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) && current.Len() > 0:
			current.WriteRune(r)
		case (r == '-' || r == '\'' || r == '’') && current.Len() > 0:
			if r == '’' {
				r = '\''
			}
			current.WriteRune(r)
		case unicode.IsSpace(r):
			emit()
		default:
			emit()
			tokens = append(tokens, string(r))
		}
	}
	emit()

	return tokens
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if !unicode.IsDigit(r) && r != '.' && r != ',' && r != '-' {
			return false
		}
	}
	return true
}
