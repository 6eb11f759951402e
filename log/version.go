package log

import (
	"github.com/oqtopus-team/oqtopus-bench/core"
	"go.uber.org/zap"
)

func LogVersion() {
	zap.L().Debug("oqtopus-bench version:" + core.Version)
}
