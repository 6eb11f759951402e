//go:build unit
// +build unit

package core

import (
	"testing"

	flags "github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name       string
		conf       *Conf
		buildFlag  string
		wantHeader string
	}{
		{name: "release build", conf: &Conf{}, buildFlag: "v0.3.0", wantHeader: "v0.3.0"},
		{name: "build flag beats --version", conf: &Conf{Version: "v0.2.9"}, buildFlag: "v0.3.0", wantHeader: "v0.3.0"},
		{name: "local build with --version", conf: &Conf{Version: "v0.3.0-dev"}, wantHeader: "v0.3.0-dev"},
		{name: "blank build flag", conf: &Conf{Version: "v0.3.0-dev"}, buildFlag: "  ", wantHeader: "v0.3.0-dev"},
		{name: "padded version", conf: &Conf{Version: " v0.3.0\n"}, wantHeader: "v0.3.0"},
		{name: "unversioned", conf: &Conf{}, wantHeader: NoVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.conf, tt.buildFlag)
			assert.Equal(t, tt.wantHeader, Version)
		})
	}
}

func TestSetVersionFromEnv(t *testing.T) {
	t.Setenv("OQTOPUS_BENCH_VERSION", "v0.4.0-rc1")
	conf := &Conf{}
	_, err := flags.NewParser(conf, flags.Default&^flags.PrintErrors).ParseArgs(nil)
	require.NoError(t, err)
	SetVersion(conf, "")
	assert.Equal(t, "v0.4.0-rc1", Version)

	SetInfo(conf)
	assert.Equal(t, "v0.4.0-rc1", CurrentInfo.Version)
}
