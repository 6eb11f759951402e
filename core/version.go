package core

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Version is written into QASM headers and the run info.
var Version string

const NoVersion = "no_version_info"

// SetVersion resolves Version. The build flag wins over --version and
// OQTOPUS_BENCH_VERSION; blank values are ignored.
func SetVersion(c *Conf, versionByBuildFlag string) {
	Version = NoVersion
	for _, v := range []string{versionByBuildFlag, c.Version} {
		if v = strings.TrimSpace(v); v != "" {
			Version = v
			break
		}
	}
	zap.L().Info(fmt.Sprintf("oqtopus-bench version is %s", Version))
}
