package config

// this holds the resolved configuration values from CLI
//
//nolint:lll // readablity
var (
	DataFile        string  // dataset file (.json, .js, .yaml)
	RecordPath      string  // JSONPath selecting the records within a json dataset
	DataPath        string  // preference database file, empty means the user config dir
	Store           string  // preference backend (sqlite, memory)
	Seed            int64   // RNG seed, 0 seeds from time
	Speed           float64 // scales reveal delays, 1 is the regular pace
	LogLevel        string  // sets the log level (zap log level values)
	LogFormat       string  // text vs json
	LogFilter       string  // zapfilter rules, e.g. "debug:reveal info:*"
	EnableTelemetry bool    // enable telemetry
	TelemetryOutput string  // file receiving telemetry data, empty means stderr
)

const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)
