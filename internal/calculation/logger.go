package calculation

// Logger is the minimal logging surface the calculators need for degraded
// paths (config fallbacks, absent collaborators). Callers plug in whatever
// backs their deployment; NopLogger keeps the engine quiet by default.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Warnf(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}
