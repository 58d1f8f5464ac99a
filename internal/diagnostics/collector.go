package diagnostics

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/crashkeeper/internal/app"
	"github.com/hugo-lorenzo-mato/crashkeeper/internal/logging"
)

// VersionNameNotSet is recorded when the application reports no version name.
const VersionNameNotSet = "not set"

// ErrNoAppContext is logged when Collect runs without an application context.
var ErrNoAppContext = errors.New("application context unavailable")

// Collector gathers the facts recorded with a crash log.
type Collector struct {
	sources []Source
	logger  *logging.Logger
	newID   func() string
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithSources replaces the host fact table.
func WithSources(sources ...Source) CollectorOption {
	return func(c *Collector) { c.sources = sources }
}

// WithIDGenerator replaces the crash id generator.
func WithIDGenerator(fn func() string) CollectorOption {
	return func(c *Collector) { c.newID = fn }
}

// NewCollector creates a collector using DefaultSources.
func NewCollector(logger *logging.Logger, opts ...CollectorOption) *Collector {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Collector{
		sources: DefaultSources(),
		logger:  logger.WithComponent("diagnostics"),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect records the application's version facts followed by every host
// source in order. It never fails: a lookup error is logged and the facts
// gathered so far are returned.
func (c *Collector) Collect(appCtx *app.Context) *Facts {
	facts := &Facts{}
	if appCtx == nil {
		c.logger.Error("collecting version facts", "error", ErrNoAppContext)
		return facts
	}

	versionName := appCtx.VersionName
	if versionName == "" {
		versionName = VersionNameNotSet
	}
	facts.Set("versionName", versionName)
	facts.Set("versionCode", strconv.Itoa(appCtx.VersionCode))
	if appCtx.Name != "" {
		facts.Set("appName", appCtx.Name)
	}
	if c.newID != nil {
		facts.Set("crashId", c.newID())
	}

	for _, src := range c.sources {
		pairs, err := collectSource(src)
		if err != nil {
			c.logger.Error("collecting diagnostic facts",
				"source", src.Name,
				"error", err,
				"collected", facts.Len(),
			)
			return facts
		}
		for _, p := range pairs {
			facts.Set(p.Key, p.Value)
		}
	}
	return facts
}

// collectSource runs one lookup, turning a panic inside third-party probing
// code into an error.
func collectSource(src Source) (pairs []Pair, err error) {
	defer func() {
		if r := recover(); r != nil {
			pairs = nil
			err = fmt.Errorf("source %s panicked: %v", src.Name, r)
		}
	}()
	if src.Collect == nil {
		return nil, fmt.Errorf("source %s has no collector", src.Name)
	}
	return src.Collect()
}
