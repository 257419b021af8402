package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/desabantuin/internal/client/client"
	"github.com/dmitrijs2005/desabantuin/internal/client/config"
	"github.com/dmitrijs2005/desabantuin/internal/client/repositories/requests"
	"github.com/dmitrijs2005/desabantuin/internal/client/services"
	"github.com/dmitrijs2005/desabantuin/internal/client/session"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/memory"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/redisstore"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/securefile"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/sqlite"
	"github.com/dmitrijs2005/desabantuin/internal/logging"
	"github.com/redis/go-redis/v9"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

type App struct {
	config         *config.Config
	store          *session.Store
	authService    services.AuthService
	requestService services.RequestService
	log            logging.Logger

	reader  *bufio.Reader
	out     io.Writer
	closers []io.Closer

	modeMu sync.RWMutex
	mode   Mode
}

// NewApp opens the local database, selects the session backend configured
// in c and wires the session store, API client and services.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := sqlite.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	closers := []io.Closer{db}

	backend, closer, err := openSessionBackend(c, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if closer != nil {
		closers = append(closers, closer)
	}
	log.Debug(ctx, "session backend selected", "backend", c.SessionBackend)

	store := session.NewStore(backend, log)
	api := client.NewHTTPClient(c.APIBaseURL, c.RequestTimeout)

	return &App{
		config:         c,
		store:          store,
		authService:    services.NewAuthService(api, store, log),
		requestService: services.NewRequestService(requests.NewSQLiteRepository(db), log),
		log:            log,
		reader:         bufio.NewReader(os.Stdin),
		out:            os.Stdout,
		closers:        closers,
	}, nil
}

// openSessionBackend returns the storage.Backend named by c.SessionBackend
// and, when it holds its own resources, a closer for them.
func openSessionBackend(c *config.Config, db *sql.DB) (storage.Backend, io.Closer, error) {
	switch c.SessionBackend {
	case config.BackendSQLite:
		return sqlite.New(db), nil, nil
	case config.BackendSecureFile:
		b, err := securefile.New(c.SecureFilePath, []byte(c.StoragePassphrase))
		if err != nil {
			return nil, nil, fmt.Errorf("open secure file: %w", err)
		}
		return b, nil, nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		return redisstore.New(rdb, c.RedisKeyPrefix, c.DeviceID), rdb, nil
	case config.BackendMemory:
		return memory.New(), nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, c.SessionBackend)
	}
}

// Close releases the database and backend connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.log.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) getMode() Mode {
	a.modeMu.RLock()
	defer a.modeMu.RUnlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.log.Info(context.Background(), fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Current().SignedIn()
}

func (a *App) getStatus() string {
	s := ""
	if u := a.store.Current().User; u != nil {
		s = u.Name + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores the stored session, starts the connectivity watcher and
// blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	a.store.Initialize(ctx)
	if a.store.LoadErr() != nil {
		fmt.Fprintln(a.out, "Stored session could not be read, please login again.")
	}

	fmt.Fprintln(a.out, "Welcome to Desa Bantuin (type 'help' for commands)")
	if u := a.store.Current().User; u != nil {
		fmt.Fprintf(a.out, "Signed in as %s (%s)\n", u.Name, u.PhoneNumber)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// StartOnlineStatusWatcher probes the backend immediately and then every
// interval, switching between online and offline mode. It returns when ctx
// is done. A non-positive interval disables it.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	a.probe(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
