package typeset

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'typeset'.
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

func (cfg *Config) tracer() tracing.Trace {
	if cfg.Tracer != nil {
		return cfg.Tracer
	}
	return tracer()
}
