package constants

import "time"

// Environment variable constants
const (
	EnvSummaryURL        = "STATUS_LIGHTS_SUMMARY_URL"
	EnvPageURL           = "STATUS_LIGHTS_PAGE_URL"
	EnvAggregateName     = "STATUS_LIGHTS_AGGREGATE_NAME"
	EnvTimeout           = "STATUS_LIGHTS_TIMEOUT"
	EnvUserAgent         = "STATUS_LIGHTS_USER_AGENT"
	EnvInterval          = "STATUS_LIGHTS_INTERVAL"
	EnvSkipInFlight      = "STATUS_LIGHTS_SKIP_IN_FLIGHT"
	EnvCacheTTL          = "STATUS_LIGHTS_CACHE_TTL"
	EnvLogLevel          = "STATUS_LIGHTS_LOG_LEVEL"
	EnvLogFormat         = "STATUS_LIGHTS_LOG_FORMAT"
	EnvMetricsEnabled    = "STATUS_LIGHTS_METRICS_ENABLED"
	EnvMetricsPort       = "STATUS_LIGHTS_METRICS_PORT"
	EnvTracingEnabled    = "STATUS_LIGHTS_TRACING_ENABLED"
	EnvHotReload         = "STATUS_LIGHTS_HOT_RELOAD"
	EnvHotReloadDebounce = "STATUS_LIGHTS_HOT_RELOAD_DEBOUNCE"
)

// Status page defaults
const (
	DefaultSummaryURL    = "https://www.githubstatus.com/api/v2/summary.json"
	DefaultPageURL       = "https://www.githubstatus.com"
	DefaultAggregateName = "GitHub Status"
	DefaultUserAgent     = "status-lights/1.0"
)

// Refresh defaults
const (
	// DefaultRefreshInterval is the period of the recurring fetch.
	DefaultRefreshInterval = 300 * time.Second
	// DefaultFetchTimeout bounds a single HTTP request.
	DefaultFetchTimeout = 30 * time.Second
	// DefaultManualRate is the sustained rate of accepted manual refreshes.
	DefaultManualRate = 0.2
	// DefaultManualBurst is the number of manual refreshes accepted back to back.
	DefaultManualBurst = 3
	// DefaultCacheTTL is how long response validators are remembered.
	DefaultCacheTTL = time.Hour
	// MaxSummaryBytes caps the size of a summary response body.
	MaxSummaryBytes = 4 << 20
)

// Layout constants. The menu and the icon grid are sized for MaxServices.
const (
	MaxServices = 10
	IconColumns = 5
	IconRows    = 2
)

// Menu text
const (
	LoadingText      = "Loading..."
	MenuRefresh      = "Refresh"
	MenuOpenPage     = "Open Status Page"
	MenuQuit         = "Quit"
	TooltipTimestamp = "15:04"
)

// HTTP header constants
const (
	HeaderAccept          = "Accept"
	HeaderUserAgent       = "User-Agent"
	HeaderContentType     = "Content-Type"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
)

// Content type constants
const (
	ContentTypeJSON = "application/json"
)

// Diagnostics server paths
const (
	PathHealth   = "/health"
	PathReady    = "/ready"
	PathMetrics  = "/metrics"
	PathSnapshot = "/snapshot"
)

// Diagnostics server timeouts (internal use only - not user configurable)
const (
	ServerReadHeaderTimeout = 5 * time.Second
	ServerShutdownTimeout   = 5 * time.Second
)

// Fetch outcomes used as metric labels
const (
	OutcomeSuccess     = "success"
	OutcomeNotModified = "not_modified"
	OutcomeError       = "error"
	OutcomeSkipped     = "skipped"
	OutcomeDiscarded   = "discarded"
)
