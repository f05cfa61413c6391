package stub

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/getmockd/httpstub/internal/matching"
	"github.com/getmockd/httpstub/pkg/client"
	"github.com/getmockd/httpstub/pkg/logging"
	"github.com/getmockd/httpstub/pkg/requestlog"
	"github.com/ohler55/ojg/oj"
)

// JSONSerializer encodes a json option or response value.
type JSONSerializer func(v any) ([]byte, error)

// JSONDeserializer decodes the serializer's output back into a generic value.
type JSONDeserializer func(data []byte) (any, error)

// DefaultSupportedOptions are the request option names that take part in matching.
var DefaultSupportedOptions = []string{
	client.OptParams,
	client.OptData,
	client.OptJSON,
	client.OptCookies,
	client.OptHeaders,
}

// DefaultNearMisses is how many near misses are reported for an unmatched call.
const DefaultNearMisses = 3

// DefaultSerializer encodes v with encoding/json.
func DefaultSerializer(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DefaultDeserializer decodes data into maps, slices, strings, bools, nil,
// int64 and float64.
func DefaultDeserializer(data []byte) (any, error) {
	return oj.Parse(data)
}

type config struct {
	serializer    JSONSerializer
	deserializer  JSONDeserializer
	supported     map[string]struct{}
	logger        *slog.Logger
	maxLogEntries int
	nearMisses    int
}

// Option configures a Mock.
type Option func(*config)

// WithJSONSerializer replaces the serializer used to normalize json options
// and to derive response text. A nil function is ignored.
func WithJSONSerializer(f JSONSerializer) Option {
	return func(c *config) {
		if f != nil {
			c.serializer = f
		}
	}
}

// WithJSONDeserializer replaces the deserializer used to normalize json
// options. A nil function is ignored.
func WithJSONDeserializer(f JSONDeserializer) Option {
	return func(c *config) {
		if f != nil {
			c.deserializer = f
		}
	}
}

// WithSupportedOptions extends the option names that take part in matching.
func WithSupportedOptions(names ...string) Option {
	return func(c *config) {
		for _, n := range names {
			c.supported[n] = struct{}{}
		}
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxLogEntries bounds the call log.
func WithMaxLogEntries(n int) Option {
	return func(c *config) {
		c.maxLogEntries = n
	}
}

// WithNearMisses sets how many near misses are reported for an unmatched call.
func WithNearMisses(n int) Option {
	return func(c *config) {
		c.nearMisses = n
	}
}

func newConfig(opts ...Option) *config {
	c := &config{
		serializer:    DefaultSerializer,
		deserializer:  DefaultDeserializer,
		supported:     make(map[string]struct{}, len(DefaultSupportedOptions)),
		logger:        logging.Nop(),
		maxLogEntries: requestlog.DefaultMaxEntries,
		nearMisses:    DefaultNearMisses,
	}
	for _, n := range DefaultSupportedOptions {
		c.supported[n] = struct{}{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// normalize filters raw to the supported option names, drops nil values,
// copies the container values so later changes by the caller are not seen,
// and round-trips the json option. On error the partially normalized options
// are returned together with an error wrapping ErrConfiguration.
func (c *config) normalize(raw client.Options) (client.Options, error) {
	out := make(client.Options, len(raw))
	for name, v := range raw {
		if _, ok := c.supported[name]; !ok {
			continue
		}
		if matching.IsNil(v) {
			continue
		}
		out[name] = v
	}
	out = cloneOptions(out)

	if v, ok := out[client.OptJSON]; ok {
		normalized, err := c.roundTrip(v)
		if err != nil {
			return out, err
		}
		out[client.OptJSON] = normalized
	}
	return out, nil
}

func (c *config) roundTrip(v any) (any, error) {
	data, err := c.serializer(v)
	if err != nil {
		return nil, fmt.Errorf("%w: serialize json option: %v", ErrConfiguration, err)
	}
	out, err := c.deserializer(data)
	if err != nil {
		return nil, fmt.Errorf("%w: deserialize json option: %v", ErrConfiguration, err)
	}
	return out, nil
}
