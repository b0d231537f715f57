package cli

import (
	"bufio"
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/sittersafe/carelog/internal/client/cache"
	"github.com/sittersafe/carelog/internal/client/config"
	"github.com/sittersafe/carelog/internal/client/photos"
	"github.com/sittersafe/carelog/internal/client/remote"
	"github.com/sittersafe/carelog/internal/client/services"
	"github.com/sittersafe/carelog/internal/client/session"
	carelogsync "github.com/sittersafe/carelog/internal/client/sync"
	"github.com/sittersafe/carelog/internal/client/tombstones"
	"github.com/sittersafe/carelog/internal/common"
	"github.com/sittersafe/carelog/internal/filex"
	"github.com/sittersafe/carelog/internal/logging"

	_ "modernc.org/sqlite"
)

// App is the interactive carelog client. The cache store outlives sessions;
// everything session-scoped is built on login and torn down on logout.
type App struct {
	config *config.Config
	log    logging.Logger
	reader *bufio.Reader
	store  cache.Store
	db     *sql.DB // nil when running on the in-memory store

	sess     *session.Session
	pool     *remote.DB
	profiles *services.ProfileService
	events   *services.EventService
	orch     *carelogsync.Orchestrator
	stopSync context.CancelFunc
}

// NewApp opens the local cache and prepares the REPL. With an empty
// LocalDBPath the cache is in-memory and vanishes on exit.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin)}

	if c.LocalDBPath == "" {
		a.store = cache.NewMemoryStore(c.CacheQuotaBytes)
		return a, nil
	}

	if _, err := filex.EnsureParentDir(c.LocalDBPath); err != nil {
		return nil, err
	}
	db, err := cache.Open(ctx, c.LocalDBPath)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.store = cache.NewSQLiteStore(db, c.CacheQuotaBytes)
	return a, nil
}

// Run drives the REPL until the user quits, then tears the session down.
func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)

	printlnFn("Welcome to carelog (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// Close ends the session (if any) and releases the local database.
func (a *App) Close(ctx context.Context) {
	if a.isLoggedIn() {
		_ = a.Logout(ctx)
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.sess != nil
}

func (a *App) getStatus() string {
	if a.sess == nil {
		return ""
	}
	return "(" + a.sess.OwnerID + ")"
}

// startSession builds the session-scoped service graph and kicks off the
// login reconciliation pass.
func (a *App) startSession(ctx context.Context, sess *session.Session) error {
	pool, err := remote.New(ctx, a.config.RemoteDSN)
	if err != nil {
		return err
	}
	client := remote.NewPostgresClient(pool)

	graves := tombstones.NewTracker(a.store, a.log,
		tombstones.WithWindows(a.config.TombstoneRecency, a.config.TombstoneRetention))

	events := services.NewEventService(sess.OwnerID, a.store, client, a.log,
		services.WithDeleteWindow(a.config.EventDeleteWindow))

	var archiver services.PhotoArchiver
	if a.config.Photos.Enabled {
		ar, err := photos.New(ctx, sess.OwnerID, photos.Settings{
			Endpoint:  a.config.Photos.Endpoint,
			Region:    a.config.Photos.Region,
			Bucket:    a.config.Photos.Bucket,
			AccessKey: a.config.Photos.AccessKey,
			SecretKey: a.config.Photos.SecretKey,
		}, a.log)
		if err != nil {
			a.log.Warn(ctx, "photo archive unavailable, continuing without it", "error", err)
		} else {
			archiver = ar
		}
	}

	profiles := services.NewProfileService(sess.OwnerID, a.store, client, graves, events, archiver, a.log)
	orch := carelogsync.NewOrchestrator(profiles, events, a.log)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	go orch.Run(runCtx)
	go orch.WatchConnectivity(runCtx, client, a.config.OnlineCheckInterval)

	a.sess = sess
	a.pool = pool
	a.profiles = profiles
	a.events = events
	a.orch = orch
	a.stopSync = cancel

	a.orch.Notify(ctx, carelogsync.TriggerLogin)
	return nil
}

// endSession stops the sync loop, drops the cached snapshots so the next
// account cannot see them, and closes the remote pool.
func (a *App) endSession(ctx context.Context) {
	if a.stopSync != nil {
		a.stopSync()
	}
	for _, key := range cachedKeys() {
		if err := a.store.Delete(ctx, key); err != nil {
			a.log.Warn(ctx, "failed to drop cached snapshot", "key", key, "error", err)
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
	a.sess = nil
	a.pool = nil
	a.profiles = nil
	a.events = nil
	a.orch = nil
	a.stopSync = nil
}

// cachedKeys lists every snapshot the session owns.
func cachedKeys() []string {
	return []string{common.KeyProfiles, common.KeyEventsToday, common.KeyTombstones}
}

// nowFn is a test seam for the session expiry check.
var nowFn = time.Now
