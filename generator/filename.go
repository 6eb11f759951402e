package generator

import (
	"fmt"
	"strings"

	"github.com/oqtopus-team/oqtopus-bench/core"
)

// Filename names the generated file of a request:
//
//	<bench>_alg_<n>
//	<bench>_indep_<compiler>_<n>
//	<bench>_nativegates_<provider>_<compiler>_<n>
//	<bench>_mapped_<device>_<compiler>_<n>
//
// where <compiler> is qiskit_opt<L>, tket, or tket_<placement> when mapped.
func Filename(req *Request) (string, error) {
	t, err := NewGenerator().resolve(req)
	if err != nil {
		return "", err
	}
	return t.filename(), nil
}

func (t *target) filename() string {
	parts := []string{t.benchmark.Name, t.level.String()}
	switch t.level {
	case LevelNativeGates:
		parts = append(parts, t.provider.Name())
	case LevelMapped:
		parts = append(parts, t.device.Name)
	}
	if t.level != LevelAlg {
		parts = append(parts, compilerToken(t.settings, t.level))
	}
	parts = append(parts, fmt.Sprint(t.size))
	return strings.Join(parts, "_")
}

func compilerToken(s *core.CompilerSettings, level Level) string {
	if s.TKET != nil {
		if level == LevelMapped {
			return core.CompilerTKET + "_" + s.TKET.Placement
		}
		return core.CompilerTKET
	}
	return fmt.Sprintf("%s_opt%d", core.CompilerQiskit, s.Qiskit.OptimizationLevel)
}
