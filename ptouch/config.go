package ptouch

import "log/slog"

// Config describes one print session: model, physical device identity,
// installed media, and the per-job formatting flags the Job Encoder turns
// into wire commands. It is immutable once NewConfig returns — every Option
// applies during construction, the way original_source/src/printer.rs's
// Config rebuilds itself on each builder call, translated into Go's
// functional-options idiom (c.f. SchawnnDev-escpos/printer.go's
// PrinterOption).
type Config struct {
	model Model
	serial string
	media Media

	highResolution bool
	cutAtEnd       bool
	halfCut        bool
	chainPrint     bool
	specialTape    bool
	twoColors      bool
	enableAutoCut  int // 0 disables; otherwise cut every N labels
	compress       bool
	feedDots       int
	blankRowShortcut bool

	logger *slog.Logger
}

// Option configures a Config during construction.
type Option func(*Config) error

// WithHighResolution doubles vertical print density.
func WithHighResolution(enabled bool) Option {
	return func(c *Config) error { c.highResolution = enabled; return nil }
}

// WithCutAtEnd controls whether the final page is cut after printing.
func WithCutAtEnd(enabled bool) Option {
	return func(c *Config) error { c.cutAtEnd = enabled; return nil }
}

// WithHalfCut enables a half-depth cut that leaves the backing paper
// intact, for peel-and-stick media.
func WithHalfCut(enabled bool) Option {
	return func(c *Config) error { c.halfCut = enabled; return nil }
}

// WithChainPrint disables the inter-label feed gap, printing pages back to
// back for later manual separation.
func WithChainPrint(enabled bool) Option {
	return func(c *Config) error { c.chainPrint = enabled; return nil }
}

// WithSpecialTape marks the job as using special (non-standard) tape stock.
func WithSpecialTape(enabled bool) Option {
	return func(c *Config) error { c.specialTape = enabled; return nil }
}

// WithTwoColors requests black+red two-color printing. Returns a
// ModelCapabilityError at NewConfig time if the model can't do it.
func WithTwoColors(enabled bool) Option {
	return func(c *Config) error { c.twoColors = enabled; return nil }
}

// WithAutoCut enables automatic cutting every n labels; n=0 disables
// auto-cut entirely.
func WithAutoCut(n int) Option {
	return func(c *Config) error {
		if n < 0 || n > 0xFF {
			return &InvalidConfigError{Reason: "auto-cut count must be in [0,255]"}
		}
		c.enableAutoCut = n
		return nil
	}
}

// WithCompression requests TIFF-packbits row compression. Silently
// downgraded to false (with a logged warning) for QL-800, which the
// Job Encoder always disables regardless of this flag; otherwise returns a
// ModelCapabilityError at NewConfig time if the model can't compress at
// all.
func WithCompression(enabled bool) Option {
	return func(c *Config) error { c.compress = enabled; return nil }
}

// WithFeedDots overrides the default feed/margin amount for the configured
// media.
func WithFeedDots(dots int) Option {
	return func(c *Config) error { c.feedDots = dots; return nil }
}

// WithBlankRowShortcut opts into emitting the bare 'Z' byte for an
// all-zero, uncompressed row instead of a full 'g'-prefixed row command.
// The device accepts either; off by default, since an all-zero page would
// otherwise emit zero 'g'/'w' row commands, which breaks row-count-based
// invariants (§8's "g-count must equal R") that assume one row command per
// row.
func WithBlankRowShortcut(enabled bool) Option {
	return func(c *Config) error { c.blankRowShortcut = enabled; return nil }
}

// WithLogger sets the logger used for open/print diagnostics. Defaults to
// slog.Default() when omitted.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) error { c.logger = logger; return nil }
}

// NewConfig builds an immutable Config for the given model, device serial,
// and installed media, applying opts in order. It validates every
// invariant in §3 before any I/O happens, per the configuration-errors-
// fail-first policy in §7.
func NewConfig(model Model, serial string, media Media, opts ...Option) (*Config, error) {
	if serial == "" {
		return nil, &InvalidConfigError{Reason: "serial must not be empty"}
	}
	if _, ok := model.spec(); !ok {
		return nil, &InvalidConfigError{Reason: "unknown model"}
	}
	if _, ok := media.spec(); !ok {
		return nil, &InvalidConfigError{Reason: "unknown media"}
	}

	c := &Config{
		model:    model,
		serial:   serial,
		media:    media,
		cutAtEnd: true,
		feedDots: media.DefaultFeedDots(),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	if c.twoColors && !model.SupportsTwoColor() {
		return nil, &ModelCapabilityError{Model: model, Feature: "two-color printing"}
	}

	if c.compress {
		if model == QL800 {
			c.logger.Warn("QL-800 does not honor compression; disabling", "model", model)
			c.compress = false
		} else if !model.SupportsCompression() {
			return nil, &ModelCapabilityError{Model: model, Feature: "row compression"}
		}
	}

	if err := media.checkFeedDots(c.feedDots); err != nil {
		return nil, err
	}

	return c, nil
}
