// Package constants provides shared constants for the capital-advisor application.
package constants

// DateLayout is the format expected for all dates in config files and ledger
// records and is also the output date format.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Analysis defaults
const (
	// DefaultDefenderLifeMonths is assumed when a defender has no useful life set
	DefaultDefenderLifeMonths = 120

	// DefaultChallengerLifeMonths is assumed when a challenger has no useful life set
	DefaultChallengerLifeMonths = 180

	// DefaultSupplierTermsDays is the obligation due-date fallback when a
	// supplier's payment terms are unknown
	DefaultSupplierTermsDays = 30
)

// Aging bucket bounds in days. Each bucket is inclusive of its lower bound.
const (
	AgingBound30  = 30
	AgingBound60  = 60
	AgingBound90  = 90
	AgingBound120 = 120
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxRequestSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxRequestSizeBytes int64 = 256 * 1024
)
