package core

type Conf struct {
	Version            string `long:"version" description:"version of oqtopus-bench" env:"OQTOPUS_BENCH_VERSION"`
	DevMode            bool   `long:"dev-mode" description:"run in dev mode" env:"OQTOPUS_BENCH_DEV_MODE"`
	DisableStdoutLog   bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"OQTOPUS_BENCH_DISABLE_STDOUT_LOG"`
	EnableFileLog      bool   `long:"enable-file-log" description:"enable log in file" env:"OQTOPUS_BENCH_ENABLE_FILE_LOG"`
	LogDir             string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"OQTOPUS_BENCH_LOG_DIR"`
	LogLevel           string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"OQTOPUS_BENCH_LOG_LEVEL"`
	LogRotationMaxDays int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"OQTOPUS_BENCH_LOG_ROTATION_MAX_DAYS"`
	MetricsDir         string `long:"metrics-dir" description:"directory of the daily metrics files" default:"./shares/metrics" env:"OQTOPUS_BENCH_METRICS_DIR"`
	SettingPath        string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"OQTOPUS_BENCH_SETTING_PATH"`
	DatasetPath        string `long:"dataset-path" description:"feature record dataset" default:"./evaluation_data.ndjson" env:"OQTOPUS_BENCH_DATASET_PATH"`
	ResultsDir         string `long:"results-dir" description:"directory of the chart files" default:"./results" env:"OQTOPUS_BENCH_RESULTS_DIR"`
}
