package keydex

import (
	"github.com/hupe1980/keydex/codec"
)

// options collects the ambient configuration shared by every builder:
// the query hasher, snapshot codec, logger and metrics collector.
type options struct {
	hasher  Hasher
	codec   codec.Codec
	logger  *Logger
	metrics MetricsCollector
}

// withDefaults fills every unset option with its default.
func (o options) withDefaults() options {
	if o.hasher == nil {
		o.hasher = DefaultHasher{}
	}
	if o.codec == nil {
		o.codec = codec.Default
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metrics == nil {
		o.metrics = NoopMetricsCollector{}
	}
	return o
}
