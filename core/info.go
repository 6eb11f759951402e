package core

type NonSecretConf struct {
	DevMode            bool
	DisableStdoutLog   bool
	EnableFileLog      bool
	LogDir             string
	LogLevel           string
	LogRotationMaxDays int
	MetricsDir         string
	SettingPath        string
	DatasetPath        string
	ResultsDir         string
}

type Info struct {
	Version string
	Conf    *NonSecretConf
}

var CurrentInfo *Info

func SetInfo(c *Conf) {
	conf := &NonSecretConf{
		DevMode:            c.DevMode,
		DisableStdoutLog:   c.DisableStdoutLog,
		EnableFileLog:      c.EnableFileLog,
		LogDir:             c.LogDir,
		LogLevel:           c.LogLevel,
		LogRotationMaxDays: c.LogRotationMaxDays,
		MetricsDir:         c.MetricsDir,
		SettingPath:        c.SettingPath,
		DatasetPath:        c.DatasetPath,
		ResultsDir:         c.ResultsDir,
	}

	CurrentInfo = &Info{
		Version: Version,
		Conf:    conf,
	}
}
