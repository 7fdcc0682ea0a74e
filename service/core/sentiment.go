package core

import (
	"math"
	"strings"
	"unicode"
)

const (
	boosterIncrement = 0.293
	boosterDecrement = -0.293
	capsIncrement    = 0.733
	negationScalar   = -0.74
	normalizeAlpha   = 15.0

	exclamationWeight = 0.292
	maxExclamations   = 4
	questionWeight    = 0.18
	maxQuestionBoost  = 0.96
)

// ScoreText is a lexicon and rule based compound score in [-1, 1].
// The same text always gives the same score.
func ScoreText(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	capsDifferential := hasCapsDifferential(tokens)

	sentiments := make([]float64, len(tokens))
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		if _, ok := boosters[lower]; ok {
			continue
		}

		valence, ok := lexicon[lower]
		if !ok {
			continue
		}

		if capsDifferential && isUpper(tok) {
			if valence > 0 {
				valence += capsIncrement
			} else {
				valence -= capsIncrement
			}
		}

		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := tokens[i-back]
			if _, isWord := lexicon[strings.ToLower(prev)]; !isWord {
				scalar := boosterScalar(prev, valence, capsDifferential)
				switch back {
				case 2:
					scalar *= 0.95
				case 3:
					scalar *= 0.9
				}
				valence += scalar
			}

			if negated(prev) {
				valence *= negationScalar
			}
		}

		sentiments[i] = valence
	}

	applyBut(tokens, sentiments)

	var sum float64
	for _, s := range sentiments {
		sum += s
	}
	if sum == 0 {
		return 0
	}

	emphasis := punctuationEmphasis(text)
	if sum > 0 {
		sum += emphasis
	} else {
		sum -= emphasis
	}

	return round4(clamp(sum/math.Sqrt(sum*sum+normalizeAlpha), -1, 1))
}

func tokenize(text string) []string {
	fields := strings.Fields(text)
	res := make([]string, 0, len(fields))
	for _, f := range fields {
		tok := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) && r != '\''
		})
		// single letters carry no sentiment and break the caps check
		if len([]rune(tok)) <= 1 {
			continue
		}
		res = append(res, tok)
	}
	return res
}

// hasCapsDifferential is true when some but not all words are shouted
func hasCapsDifferential(tokens []string) bool {
	upper := 0
	for _, t := range tokens {
		if isUpper(t) {
			upper++
		}
	}
	return upper > 0 && upper < len(tokens)
}

func isUpper(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func boosterScalar(word string, valence float64, capsDifferential bool) float64 {
	b, ok := boosters[strings.ToLower(word)]
	if !ok {
		return 0
	}

	scalar := b
	if valence < 0 {
		scalar = -scalar
	}
	if capsDifferential && isUpper(word) {
		if valence > 0 {
			scalar += capsIncrement
		} else {
			scalar -= capsIncrement
		}
	}
	return scalar
}

func negated(word string) bool {
	lower := strings.ToLower(word)
	if _, ok := negations[lower]; ok {
		return true
	}
	return strings.HasSuffix(lower, "n't")
}

// applyBut halves what comes before the first "but" and boosts what follows it
func applyBut(tokens []string, sentiments []float64) {
	idx := -1
	for i, t := range tokens {
		if strings.EqualFold(t, "but") {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	for i := range sentiments {
		switch {
		case i < idx:
			sentiments[i] *= 0.5
		case i > idx:
			sentiments[i] *= 1.5
		}
	}
}

func punctuationEmphasis(text string) float64 {
	exclamations := min(strings.Count(text, "!"), maxExclamations)
	emphasis := float64(exclamations) * exclamationWeight

	questions := strings.Count(text, "?")
	if questions > 1 {
		if questions <= 3 {
			emphasis += float64(questions) * questionWeight
		} else {
			emphasis += maxQuestionBoost
		}
	}

	return emphasis
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
