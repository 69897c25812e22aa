package sentiment

import (
	"math"
	"strings"
)

// valenceLexicon holds per-token valence ratings on a [-4, 4] scale. The set
// is biased toward the vocabulary of maintainer complaints since that is the
// text this system reads all day.
var valenceLexicon = map[string]float64{
	"abandoned":     -2.1,
	"abuse":         -3.2,
	"abusive":       -3.1,
	"angry":         -2.7,
	"annoying":      -1.9,
	"awful":         -3.1,
	"bad":           -2.5,
	"breaking":      -1.6,
	"broke":         -2.2,
	"broken":        -2.4,
	"bug":           -1.6,
	"buggy":         -2.3,
	"burden":        -2.0,
	"burnout":       -3.0,
	"crash":         -2.5,
	"crashes":       -2.5,
	"dead":          -2.8,
	"demanding":     -1.5,
	"depressed":     -3.2,
	"difficult":     -1.6,
	"disaster":      -3.1,
	"done":          -0.4,
	"drained":       -2.4,
	"dread":         -2.9,
	"exhausted":     -2.6,
	"exhausting":    -2.6,
	"fail":          -2.3,
	"failed":        -2.3,
	"failing":       -2.3,
	"failure":       -2.6,
	"frustrated":    -2.5,
	"frustrating":   -2.5,
	"gave":          -0.3,
	"hate":          -3.2,
	"hell":          -2.9,
	"hopeless":      -3.0,
	"horrible":      -3.0,
	"hostile":       -2.8,
	"impossible":    -2.2,
	"ignored":       -1.9,
	"insult":        -2.6,
	"lonely":        -2.3,
	"lost":          -1.7,
	"mess":          -2.0,
	"miserable":     -3.0,
	"nasty":         -2.6,
	"nightmare":     -3.0,
	"overwhelmed":   -2.5,
	"pain":          -2.4,
	"painful":       -2.5,
	"pointless":     -2.3,
	"problem":       -1.6,
	"problems":      -1.6,
	"quit":          -2.2,
	"quitting":      -2.2,
	"regret":        -2.3,
	"rude":          -2.4,
	"sad":           -2.1,
	"sick":          -2.2,
	"struggle":      -2.1,
	"struggling":    -2.1,
	"stuck":         -1.8,
	"terrible":      -3.0,
	"thankless":     -2.5,
	"threat":        -2.6,
	"threats":       -2.6,
	"tired":         -1.9,
	"toxic":         -3.0,
	"trouble":       -1.8,
	"ugly":          -2.0,
	"unfair":        -2.2,
	"unpaid":        -1.7,
	"unsustainable": -2.3,
	"useless":       -2.6,
	"waste":         -2.3,
	"wasted":        -2.3,
	"worse":         -2.1,
	"worst":         -3.1,
	"worthless":     -2.9,
	"wrong":         -1.9,

	"amazing":    2.8,
	"appreciate": 2.0,
	"awesome":    3.1,
	"beautiful":  2.7,
	"best":       3.2,
	"better":     1.9,
	"excellent":  3.0,
	"excited":    2.5,
	"fantastic":  3.0,
	"fun":        2.3,
	"glad":       2.0,
	"good":       1.9,
	"grateful":   2.3,
	"great":      2.8,
	"happy":      2.7,
	"helpful":    1.9,
	"improved":   1.8,
	"love":       3.2,
	"nice":       1.8,
	"perfect":    2.9,
	"proud":      2.2,
	"stable":     1.4,
	"success":    2.5,
	"thanks":     1.9,
	"wonderful":  2.9,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"none": {}, "nothing": {}, "cannot": {}, "cant": {}, "can't": {},
	"dont": {}, "don't": {}, "doesnt": {}, "doesn't": {}, "didnt": {},
	"didn't": {}, "isnt": {}, "isn't": {}, "wont": {}, "won't": {},
	"without": {}, "hardly": {}, "barely": {},
}

var intensifiers = map[string]float64{
	"absolutely": 0.29, "completely": 0.29, "extremely": 0.29,
	"really": 0.27, "so": 0.25, "totally": 0.27, "utterly": 0.29,
	"very": 0.27, "deeply": 0.27, "incredibly": 0.29, "truly": 0.27,
}

// ValenceEstimator scores text with a weighted lexicon, a one-token negation
// window, and intensity modifiers, then compresses the sum into [-1, 1].
type ValenceEstimator struct{}

func NewValenceEstimator() *ValenceEstimator { return &ValenceEstimator{} }

func (e *ValenceEstimator) Name() string { return "valence" }

func (e *ValenceEstimator) Score(text string) float64 {
	tokens := tokenize(text)
	sum := 0.0
	for i, tok := range tokens {
		valence, ok := valenceLexicon[tok]
		if !ok {
			continue
		}
		if i > 0 {
			prev := tokens[i-1]
			if _, negated := negations[prev]; negated {
				valence = -valence * 0.74
			} else if boost, intense := intensifiers[prev]; intense {
				if valence > 0 {
					valence += boost
				} else {
					valence -= boost
				}
			}
		}
		sum += valence
	}
	return compress(sum)
}

// compress maps an unbounded valence sum into (-1, 1), saturating slowly so
// one strong word does not dominate a long text.
func compress(sum float64) float64 {
	return sum / math.Sqrt(sum*sum+15)
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,!?;:\"'()[]{}")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
