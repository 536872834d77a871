package captioner

import (
	"time"

	"github.com/rs/zerolog"

	"altd/internal/store"
	"altd/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxQueueDepth = 8
	defaultMaxWait       = 30 * time.Second
	defaultDrainTimeout  = 10 * time.Second
	defaultLoadTimeout   = 10 * time.Minute
	// 50 megapixels decodes to 200 MiB of RGBA.
	defaultMaxImagePixels = 50_000_000
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	Registry     []types.Model
	DefaultModel string
	// Backends maps a backend kind (registry.Backend*) to its loader.
	Backends map[string]Backend
	Cache    store.Cache
	// MaxImageSide downscales uploads whose longest side exceeds it; 0 disables.
	MaxImageSide int
	// MaxImagePixels rejects uploads declaring more pixels; 0 uses the
	// default, negative disables.
	MaxImagePixels int
	MaxQueueDepth  int
	MaxWait        time.Duration
	DrainTimeout   time.Duration
	LoadTimeout    time.Duration
	Publisher      EventPublisher
	Logger         *zerolog.Logger
}

// NewWithConfig constructs a Manager from Config.
func NewWithConfig(cfg Config) *Manager {
	m := &Manager{
		registry:     append([]types.Model(nil), cfg.Registry...),
		defaultModel: cfg.DefaultModel,
		backends:     make(map[string]Backend, len(cfg.Backends)),
		instances:    make(map[string]*Instance),
		status:       make(map[string]string),
		cache:        cfg.Cache,
		maxImageSide: cfg.MaxImageSide,
		publisher:    cfg.Publisher,
		startTime:    time.Now(),
	}
	for k, b := range cfg.Backends {
		m.backends[k] = b
	}
	m.byID = make(map[string]int, len(m.registry))
	for i, mdl := range m.registry {
		m.byID[mdl.ID] = i
	}
	if m.defaultModel == "" && len(m.registry) > 0 {
		m.defaultModel = m.registry[0].ID
	}
	if m.cache == nil {
		m.cache = store.Nop{}
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if cfg.Logger != nil {
		m.log = *cfg.Logger
	} else {
		m.log = zerolog.Nop()
	}
	// Apply defaults if unset
	if cfg.MaxQueueDepth <= 0 {
		m.maxQueueDepth = defaultMaxQueueDepth
	} else {
		m.maxQueueDepth = cfg.MaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		m.maxWait = defaultMaxWait
	} else {
		m.maxWait = cfg.MaxWait
	}
	if cfg.DrainTimeout <= 0 {
		m.drainTimeout = defaultDrainTimeout
	} else {
		m.drainTimeout = cfg.DrainTimeout
	}
	if cfg.LoadTimeout <= 0 {
		m.loadTimeout = defaultLoadTimeout
	} else {
		m.loadTimeout = cfg.LoadTimeout
	}
	switch {
	case cfg.MaxImagePixels == 0:
		m.maxImagePixels = defaultMaxImagePixels
	case cfg.MaxImagePixels > 0:
		m.maxImagePixels = cfg.MaxImagePixels
	}
	return m
}
