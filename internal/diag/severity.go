package diag

import "fmt"

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// MarshalText renders the severity in lower case for JSON/YAML reports.
func (s Severity) MarshalText() ([]byte, error) {
	switch s {
	case SevInfo:
		return []byte("info"), nil
	case SevWarning:
		return []byte("warning"), nil
	case SevError:
		return []byte("error"), nil
	}
	return nil, fmt.Errorf("diag: unknown severity %d", s)
}
