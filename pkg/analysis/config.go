package analysis

// Thresholds carried over from operational experience; overridable, defaults
// fixed.
const (
	DefaultSigtermThreshold  = 3
	DefaultExpiryWarnDays    = 14
	DefaultShortGraceSeconds = int64(30)
)

type Config struct {
	// SigtermThreshold is the SIGTERM occurrence count above which the
	// cluster-level high-SIGTERM-rate finding fires.
	SigtermThreshold int
	// ExpiryWarnDays is the days-until-expiry boundary between valid and
	// expires-soon.
	ExpiryWarnDays int
	// ShortGraceSeconds flags termination grace periods below this value.
	ShortGraceSeconds int64
}

func DefaultConfig() Config {
	return Config{
		SigtermThreshold:  DefaultSigtermThreshold,
		ExpiryWarnDays:    DefaultExpiryWarnDays,
		ShortGraceSeconds: DefaultShortGraceSeconds,
	}
}
