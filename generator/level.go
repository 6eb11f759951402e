package generator

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-bench/common"
)

type Level int

const (
	LevelAlg Level = iota
	LevelIndep
	LevelNativeGates
	LevelMapped
)

var ErrUnsupportedLevel = errors.New("unsupported level")

var levelTokens = map[string]Level{
	"alg":               LevelAlg,
	"algorithmic":       LevelAlg,
	"0":                 LevelAlg,
	"indep":             LevelIndep,
	"targetindependent": LevelIndep,
	"1":                 LevelIndep,
	"nativegates":       LevelNativeGates,
	"2":                 LevelNativeGates,
	"mapped":            LevelMapped,
	"3":                 LevelMapped,
}

func (l Level) String() string {
	switch l {
	case LevelAlg:
		return "alg"
	case LevelIndep:
		return "indep"
	case LevelNativeGates:
		return "nativegates"
	case LevelMapped:
		return "mapped"
	default:
		return "unknown"
	}
}

// ParseLevel accepts the short and long level names and the level numbers,
// ignoring case and separators.
func ParseLevel(s string) (Level, error) {
	l, ok := levelTokens[common.NormalizeName(s)]
	if !ok {
		return 0, errors.Wrapf(ErrUnsupportedLevel, "%q, supported: %s", s, strings.Join(LevelNames(), ", "))
	}
	return l, nil
}

func LevelNames() []string {
	return []string{LevelAlg.String(), LevelIndep.String(), LevelNativeGates.String(), LevelMapped.String()}
}
