package cleanup

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"golang.org/x/text/message"

	"github.com/aatumaykin/inlinegames/internal/games"
	"github.com/aatumaykin/inlinegames/internal/locale"
	"github.com/aatumaykin/inlinegames/internal/logger"
	"github.com/aatumaykin/inlinegames/internal/storage"
)

// DefaultThreshold applies when neither the caller nor the config set one.
const DefaultThreshold = 86400 * time.Second

// Stats is the outcome of one sweep.
type Stats struct {
	Cleaned      int // records removed from storage
	Notified     int // inline messages cleared
	NotifyErrors int // clear attempts rejected by Telegram
	TempRemoved  int // temporary files removed

	Candidates         int  // candidates processed before the loop ended
	DeleteErrors       int  // deletes that failed at the backend
	DeadlineHit        bool // loop stopped by the time limit
	StorageUnavailable bool // listing failed or was interrupted

	RunID    string
	Duration time.Duration
}

// Summary is the report sent back to the admin.
func (s Stats) Summary() string {
	return fmt.Sprintf("Cleaned %d games, edited %d messages, %d errored. Removed %d temporary files.",
		s.Cleaned, s.Notified, s.NotifyErrors, s.TempRemoved)
}

// Config holds sweep tuning.
type Config struct {
	TimeLimit        time.Duration // execution ceiling of one run
	SafetyMargin     time.Duration // subtracted from TimeLimit
	NotifyInterval   time.Duration // minimum spacing between clear notifications
	ActivityInterval time.Duration // minimum spacing between liveness signals
	TempDir          string
	TempMinAge       time.Duration
}

// Budget is the time the loop may spend before it stops taking candidates.
func (c Config) Budget() time.Duration {
	return c.TimeLimit - c.SafetyMargin
}

func (c *Config) applyDefaults() {
	if c.TimeLimit == 0 {
		c.TimeLimit = 90 * time.Second
	}
	if c.SafetyMargin == 0 {
		c.SafetyMargin = time.Second
	}
	if c.NotifyInterval == 0 {
		c.NotifyInterval = 10 * time.Second
	}
	if c.ActivityInterval == 0 {
		c.ActivityInterval = 5 * time.Second
	}
	if c.TempMinAge == 0 {
		c.TempMinAge = time.Minute
	}
}

// SessionStore is the part of storage.Store the sweep needs.
type SessionStore interface {
	ListStale(ctx context.Context, threshold time.Duration) (iter.Seq2[storage.Candidate, error], error)
	Get(ctx context.Context, id string) (*storage.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Control is one inline button.
type Control struct {
	Label string
	Data  string
}

// Notice is the rendered replacement for a stale inline message.
type Notice struct {
	Text     string // HTML
	Controls []Control
}

// NotifyResult reports the outcome of a clear attempt. Remote failures are
// reported here, never as errors.
type NotifyResult struct {
	OK          bool
	Description string
}

// Gateway delivers notifications to the chat surface.
type Gateway interface {
	// SignalActivity tells the invoking chat the job is still alive.
	SignalActivity(ctx context.Context)
	// ClearSession replaces the inline message of a session.
	ClearSession(ctx context.Context, sessionID string, notice Notice) NotifyResult
}

// GameResolver maps a session payload to its game type.
type GameResolver interface {
	Resolve(payload []byte) (games.Descriptor, bool)
}

// Recorder observes finished runs.
type Recorder interface {
	Observe(stats Stats)
}

// Expirer is the deadline seen by the loop.
type Expirer interface {
	Expired() bool
	Remaining() time.Duration
}

// Deps are the collaborators of a Runner. Store, Gateway and Games are
// required; the rest fall back to sensible defaults.
type Deps struct {
	Store    SessionStore
	Gateway  Gateway
	Games    GameResolver
	Clock    Clock
	Logger   *logger.Logger
	Recorder Recorder
	Printer  *message.Printer
}

// Runner executes maintenance sweeps. Runs on one Runner never overlap.
type Runner struct {
	config   Config
	store    SessionStore
	gateway  Gateway
	games    GameResolver
	clock    Clock
	logger   *logger.Logger
	recorder Recorder
	printer  *message.Printer
	janitor  *TempJanitor

	newDeadline func() Expirer

	mu sync.Mutex
}

// NewRunner creates a runner.
func NewRunner(config Config, deps Deps) *Runner {
	config.applyDefaults()

	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Printer == nil {
		deps.Printer = locale.Printer("en")
	}

	r := &Runner{
		config:   config,
		store:    deps.Store,
		gateway:  deps.Gateway,
		games:    deps.Games,
		clock:    deps.Clock,
		logger:   deps.Logger,
		recorder: deps.Recorder,
		printer:  deps.Printer,
		janitor:  NewTempJanitor(deps.Clock, deps.Logger),
	}
	r.newDeadline = func() Expirer {
		return NewDeadline(r.clock, r.config.Budget())
	}
	return r
}

// TimeLimit is the execution ceiling reported to the admin before a run.
func (r *Runner) TimeLimit() time.Duration {
	return r.config.Budget()
}
