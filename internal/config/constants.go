package config

// EnvPrefix is the prefix for all environment variable overrides.
const EnvPrefix = "PLANT"

// Data directory layout constants. The four per-site sensor logs are
// CSV; the single growth workbook is xlsx.
const (
	EnvironmentFileExt = ".csv"
	WorkbookFileExt    = ".xlsx"
)

// configFileLocations lists where a config file is searched for, in order.
var configFileLocations = []string{
	"config.yaml",
	"configs/config.yaml",
}
