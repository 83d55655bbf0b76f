package score

import (
	"strconv"
	"strings"

	"github.com/xinkaiwang/solvercore/kerror"
)

// Score is an immutable multi-level fitness value, the higher the better.
// Levels are compared lexicographically, most significant first.
// UninitializedCount is the number of decision variables which were unassigned when the score got calculated;
// fewer uninitialized variables always wins, whatever the levels are.
// The zero value means "no score yet" (see IsNil).
type Score struct {
	def                *Definition
	uninitializedCount int
	levels             []int64
}

func (s Score) IsNil() bool {
	return s.def == nil
}

func (s Score) Definition() *Definition {
	return s.def
}

func (s Score) UninitializedCount() int {
	return s.uninitializedCount
}

func (s Score) IsSolutionInitialized() bool {
	return s.uninitializedCount == 0
}

func (s Score) LevelsSize() int {
	return len(s.levels)
}

func (s Score) Level(i int) int64 {
	return s.levels[i]
}

func (s Score) Levels() []int64 {
	return append([]int64(nil), s.levels...)
}

// HardScore: shortcut for the first level.
func (s Score) HardScore() int64 {
	return s.levels[0]
}

// SoftScore: shortcut for the last level.
func (s Score) SoftScore() int64 {
	return s.levels[len(s.levels)-1]
}

func (s Score) WithUninitializedCount(n int) Score {
	return Score{def: s.def, uninitializedCount: n, levels: s.levels}
}

// IsFeasible: initialized and no hard level is negative.
func (s Score) IsFeasible() bool {
	if !s.IsSolutionInitialized() {
		return false
	}
	for i := 0; i < s.def.hardLevelsSize; i++ {
		if s.levels[i] < 0 {
			return false
		}
	}
	return true
}

func (s Score) mustMatch(other Score, op string) {
	if s.def == nil || other.def == nil {
		panic(kerror.Create("NilScore", "score arithmetic on a nil score").With("op", op).WithErrorCode(kerror.EC_INVALID_PARAMETER))
	}
	if !s.def.sameShape(other.def) {
		panic(kerror.Create("ScoreDefinitionMismatch", "scores have different definitions").With("op", op).With("left", s.def.String()).With("right", other.def.String()).WithErrorCode(kerror.EC_INVALID_PARAMETER))
	}
}

// Add is level-wise. A difference of two scores (Subtract) may carry a negative uninitialized count.
func (s Score) Add(other Score) Score {
	s.mustMatch(other, "add")
	levels := make([]int64, len(s.levels))
	for i := range levels {
		levels[i] = s.levels[i] + other.levels[i]
	}
	return Score{def: s.def, uninitializedCount: s.uninitializedCount + other.uninitializedCount, levels: levels}
}

func (s Score) Subtract(other Score) Score {
	return s.Add(other.Negate())
}

func (s Score) Negate() Score {
	levels := make([]int64, len(s.levels))
	for i := range levels {
		levels[i] = -s.levels[i]
	}
	return Score{def: s.def, uninitializedCount: -s.uninitializedCount, levels: levels}
}

// Compare returns a negative number if s is worse than other, 0 if equal, positive if better.
func (s Score) Compare(other Score) int {
	s.mustMatch(other, "compare")
	if s.uninitializedCount != other.uninitializedCount {
		if s.uninitializedCount > other.uninitializedCount {
			return -1
		}
		return 1
	}
	for i := range s.levels {
		if s.levels[i] < other.levels[i] {
			return -1
		}
		if s.levels[i] > other.levels[i] {
			return 1
		}
	}
	return 0
}

func (s Score) IsBetterThan(other Score) bool {
	return s.Compare(other) > 0
}

func (s Score) IsWorseThan(other Score) bool {
	return s.Compare(other) < 0
}

func (s Score) IsBetterOrEqual(other Score) bool {
	return s.Compare(other) >= 0
}

// Equal: same definition shape, same uninitialized count, same levels.
func (s Score) Equal(other Score) bool {
	if s.def == nil || other.def == nil {
		return s.def == nil && other.def == nil
	}
	if !s.def.sameShape(other.def) || s.uninitializedCount != other.uninitializedCount {
		return false
	}
	for i := range s.levels {
		if s.levels[i] != other.levels[i] {
			return false
		}
	}
	return true
}

func (s Score) String() string {
	if s.def == nil {
		return "<nil>"
	}
	var b strings.Builder
	if s.uninitializedCount != 0 {
		b.WriteString(strconv.Itoa(-s.uninitializedCount))
		b.WriteString(initLabel)
		b.WriteString("/")
	}
	for i, level := range s.levels {
		if i > 0 {
			b.WriteString("/")
		}
		b.WriteString(strconv.FormatInt(level, 10))
		b.WriteString(s.def.labels[i])
	}
	return b.String()
}

// MarshalText makes scores readable in json/yaml reports.
func (s Score) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
