package main

import "fmt"

// ConfigError reports an invalid, missing or out-of-domain simulation
// parameter. The simulation never starts when one is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// NumericalError reports a numerically invalid computation, such as a
// correlation matrix that is not positive semi-definite. No partial
// results are returned when one occurs.
type NumericalError struct {
	Op     string
	Reason string
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("numerical error in %s: %s", e.Op, e.Reason)
}
