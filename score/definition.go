package score

import (
	"strconv"
	"strings"

	"github.com/xinkaiwang/solvercore/kerror"
)

const initLabel = "init"

// Definition names the levels of a score, most significant first.
// The first HardLevelsSize levels decide feasibility.
// A Definition is immutable and shared by every Score it creates.
type Definition struct {
	labels         []string
	hardLevelsSize int
}

var (
	// Simple: one unlabeled level, formatted as "<n>".
	Simple = MustNewDefinition([]string{""}, 0)
	// HardSoft: formatted as "<n>hard/<n>soft".
	HardSoft = MustNewDefinition([]string{"hard", "soft"}, 1)
	// HardMediumSoft: formatted as "<n>hard/<n>medium/<n>soft".
	HardMediumSoft = MustNewDefinition([]string{"hard", "medium", "soft"}, 1)
)

func NewDefinition(labels []string, hardLevelsSize int) (*Definition, error) {
	if len(labels) == 0 {
		return nil, kerror.Create("InvalidScoreDefinition", "a score needs at least one level").WithErrorCode(kerror.EC_INVALID_PARAMETER)
	}
	if hardLevelsSize < 0 || hardLevelsSize > len(labels) {
		return nil, kerror.Create("InvalidScoreDefinition", "hardLevelsSize out of range").With("hardLevelsSize", hardLevelsSize).With("levelsSize", len(labels)).WithErrorCode(kerror.EC_INVALID_PARAMETER)
	}
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if len(labels) > 1 && label == "" {
			return nil, kerror.Create("InvalidScoreDefinition", "multi-level scores need a label per level").WithErrorCode(kerror.EC_INVALID_PARAMETER)
		}
		if label == initLabel || strings.ContainsAny(label, "/0123456789-+ ") {
			return nil, kerror.Create("InvalidScoreDefinition", "illegal level label").With("label", label).WithErrorCode(kerror.EC_INVALID_PARAMETER)
		}
		if seen[label] {
			return nil, kerror.Create("InvalidScoreDefinition", "duplicate level label").With("label", label).WithErrorCode(kerror.EC_INVALID_PARAMETER)
		}
		seen[label] = true
	}
	return &Definition{
		labels:         append([]string(nil), labels...),
		hardLevelsSize: hardLevelsSize,
	}, nil
}

func MustNewDefinition(labels []string, hardLevelsSize int) *Definition {
	def, err := NewDefinition(labels, hardLevelsSize)
	if err != nil {
		panic(err)
	}
	return def
}

func (def *Definition) LevelsSize() int {
	return len(def.labels)
}

func (def *Definition) HardLevelsSize() int {
	return def.hardLevelsSize
}

func (def *Definition) Labels() []string {
	return append([]string(nil), def.labels...)
}

func (def *Definition) String() string {
	return strings.Join(def.labels, "/")
}

// sameShape: two definitions with identical labels are interchangeable.
func (def *Definition) sameShape(other *Definition) bool {
	if def == other {
		return true
	}
	if def == nil || other == nil || len(def.labels) != len(other.labels) || def.hardLevelsSize != other.hardLevelsSize {
		return false
	}
	for i := range def.labels {
		if def.labels[i] != other.labels[i] {
			return false
		}
	}
	return true
}

// Of creates an initialized score. Panics if the number of levels does not match.
func (def *Definition) Of(levels ...int64) Score {
	return def.OfUninitialized(0, levels...)
}

func (def *Definition) OfUninitialized(uninitializedCount int, levels ...int64) Score {
	if len(levels) != len(def.labels) {
		panic(kerror.Create("ScoreLevelsMismatch", "wrong number of score levels").With("definition", def.String()).With("levelsSize", len(levels)).WithErrorCode(kerror.EC_INVALID_PARAMETER))
	}
	return Score{
		def:                def,
		uninitializedCount: uninitializedCount,
		levels:             append([]int64(nil), levels...),
	}
}

func (def *Definition) Zero() Score {
	return def.Of(make([]int64, len(def.labels))...)
}

// Parse is the exact inverse of Score.String for scores whose uninitialized count is not negative.
// Accepted: "[<-n>init/]<n><label>/.../<n><label>", e.g. "-2init/0hard/-15soft".
// Numbers must be written the way String writes them: no "+", no leading zeros, no "-0",
// and the init level, when present, is strictly negative.
func (def *Definition) Parse(text string) (Score, error) {
	tokens := strings.Split(text, "/")
	uninitializedCount := 0
	if len(tokens) == len(def.labels)+1 {
		initToken := tokens[0]
		numberPart, ok := strings.CutSuffix(initToken, initLabel)
		if !ok {
			return Score{}, parseError(text, initToken, "expected the \"init\" level").With("expectedLabel", initLabel)
		}
		initScore, ok := parseCanonicalInt(numberPart)
		if !ok {
			return Score{}, parseError(text, initToken, "init level is not an integer")
		}
		if initScore >= 0 {
			return Score{}, parseError(text, initToken, "init level must be negative")
		}
		uninitializedCount = -int(initScore)
		tokens = tokens[1:]
	}
	if len(tokens) != len(def.labels) {
		return Score{}, parseError(text, text, "wrong number of levels").With("expectedLevels", def.String())
	}
	levels := make([]int64, len(tokens))
	for i, token := range tokens {
		label := def.labels[i]
		numberPart, ok := strings.CutSuffix(token, label)
		if !ok {
			return Score{}, parseError(text, token, "level label mismatch").With("expectedLabel", label)
		}
		value, ok := parseCanonicalInt(numberPart)
		if !ok {
			return Score{}, parseError(text, token, "level is not an integer").With("expectedLabel", label)
		}
		levels[i] = value
	}
	return def.OfUninitialized(uninitializedCount, levels...), nil
}

func (def *Definition) MustParse(text string) Score {
	s, err := def.Parse(text)
	if err != nil {
		panic(err)
	}
	return s
}

// parseCanonicalInt accepts only the form strconv.FormatInt produces.
func parseCanonicalInt(text string) (int64, bool) {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil || strconv.FormatInt(value, 10) != text {
		return 0, false
	}
	return value, true
}

func parseError(text, token, msg string) *kerror.Kerror {
	return kerror.CreateConfigError("MalformedScore", msg+": "+strconv.Quote(token)).With("scoreString", text).With("token", token)
}
