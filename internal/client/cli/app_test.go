package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/desabantuin/internal/client/config"
	"github.com/dmitrijs2005/desabantuin/internal/client/models"
	"github.com/dmitrijs2005/desabantuin/internal/client/repositories/requests"
	"github.com/dmitrijs2005/desabantuin/internal/client/services"
	"github.com/dmitrijs2005/desabantuin/internal/client/session"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/memory"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/redisstore"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/securefile"
	"github.com/dmitrijs2005/desabantuin/internal/client/storage/sqlite"
	"github.com/dmitrijs2005/desabantuin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ana = models.User{ID: 1, Name: "Ana", Email: "a@x.com", PhoneNumber: "0811", Role: "citizen"}

// newTestApp builds an App over in-memory storage with the given auth fake.
func newTestApp(t *testing.T, auth services.AuthService, seed ...models.Request) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	store := session.NewStore(memory.New(), nil)
	store.Initialize(context.Background())
	return &App{
		config:         &config.Config{},
		store:          store,
		authService:    auth,
		requestService: services.NewRequestService(requests.NewMemoryRepository(seed...), nil),
		log:            logging.Nop(),
		reader:         bufio.NewReader(strings.NewReader("")),
		out:            &out,
	}, &out
}

func signIn(t *testing.T, a *App) {
	t.Helper()
	require.NoError(t, a.store.Login(context.Background(), "tok123", ana))
}

func TestIsLoggedIn(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{})
	assert.False(t, a.isLoggedIn())

	signIn(t, a)
	assert.True(t, a.isLoggedIn())
}

func TestSetMode_ChangesAndLogsOnce(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{})
	var buf bytes.Buffer
	a.log = logging.New(&buf, "info")

	a.setMode(ModeOnline)
	assert.Equal(t, ModeOnline, a.getMode())
	assert.Contains(t, buf.String(), "Switched to online mode")

	buf.Reset()
	a.setMode(ModeOnline)
	assert.Empty(t, buf.String(), "no log when mode does not change")

	a.setMode(ModeOffline)
	assert.Equal(t, ModeOffline, a.getMode())
	assert.Contains(t, buf.String(), "Switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	a, _ := newTestApp(t, &fakeAuth{})
	assert.Equal(t, "", a.getStatus())

	a.setMode(ModeOffline)
	assert.Equal(t, "(offline)", a.getStatus())

	signIn(t, a)
	a.setMode(ModeOnline)
	assert.Equal(t, "(Ana online)", a.getStatus())
}

type pingAuth struct {
	fakeAuth
	mu    sync.Mutex
	errs  []error
	calls int
}

func (p *pingAuth) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if len(p.errs) == 0 {
		return nil
	}
	err := p.errs[0]
	p.errs = p.errs[1:]
	return err
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	p := &pingAuth{errs: []error{errors.New("down")}}
	a, _ := newTestApp(t, p)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, 10*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.getMode() == ModeOnline }, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.GreaterOrEqual(t, p.calls, 2)
}

func TestStartOnlineStatusWatcher_Disabled(t *testing.T) {
	p := &pingAuth{}
	a, _ := newTestApp(t, p)

	a.StartOnlineStatusWatcher(context.Background(), 0)
	assert.Zero(t, p.calls)
	assert.Equal(t, Mode(""), a.getMode())
}

func TestOpenSessionBackend(t *testing.T) {
	db, err := sqlite.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	mr := miniredis.RunT(t)

	tests := []struct {
		cfg  config.Config
		want any
	}{
		{config.Config{SessionBackend: config.BackendSQLite}, &sqlite.Backend{}},
		{config.Config{SessionBackend: config.BackendMemory}, &memory.Backend{}},
		{config.Config{SessionBackend: config.BackendSecureFile, SecureFilePath: filepath.Join(t.TempDir(), "s.enc"), StoragePassphrase: "pw"}, &securefile.Backend{}},
		{config.Config{SessionBackend: config.BackendRedis, RedisAddr: mr.Addr(), RedisKeyPrefix: "p:", DeviceID: "d"}, &redisstore.Backend{}},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.SessionBackend, func(t *testing.T) {
			b, closer, err := openSessionBackend(&tt.cfg, db)
			require.NoError(t, err)
			assert.IsType(t, tt.want, b)
			if closer != nil {
				require.NoError(t, closer.Close())
			}
		})
	}

	_, _, err = openSessionBackend(&config.Config{SessionBackend: "keychain"}, db)
	assert.ErrorIs(t, err, config.ErrUnknownBackend)

	_, _, err = openSessionBackend(&config.Config{SessionBackend: config.BackendSecureFile, SecureFilePath: "x"}, db)
	assert.ErrorIs(t, err, securefile.ErrEmptyPassphrase)
}

func TestNewApp_RestoresSessionAcrossRuns(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(t.TempDir(), "desabantuin.db")
	cfg.OnlineCheckInterval = 0
	cfg.LogLevel = "error"

	a, err := NewApp(cfg)
	require.NoError(t, err)
	a.store.Initialize(context.Background())
	require.NoError(t, a.store.Login(context.Background(), "tok123", ana))
	a.Close()

	b, err := NewApp(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	b.out = &out
	b.reader = bufio.NewReader(strings.NewReader("exit\n"))
	b.Run(context.Background())

	assert.Contains(t, out.String(), "Signed in as Ana (0811)")
	assert.True(t, b.isLoggedIn())
}

func TestNewApp_CorruptSecureFileStartsSignedOut(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabasePath = filepath.Join(dir, "desabantuin.db")
	cfg.SessionBackend = config.BackendSecureFile
	cfg.SecureFilePath = filepath.Join(dir, "session.enc")
	cfg.StoragePassphrase = "pw"
	cfg.OnlineCheckInterval = 0
	cfg.LogLevel = "error"
	require.NoError(t, os.WriteFile(cfg.SecureFilePath, []byte("garbage-not-a-sealed-file"), 0o600))

	a, err := NewApp(cfg)
	require.NoError(t, err)
	var out bytes.Buffer
	a.out = &out
	a.reader = bufio.NewReader(strings.NewReader("exit\n"))
	a.Run(context.Background())

	assert.Contains(t, out.String(), "Stored session could not be read")
	assert.False(t, a.isLoggedIn())
	assert.ErrorIs(t, a.store.LoadErr(), securefile.ErrBadFormat)

	// The next login replaces the unreadable file.
	require.NoError(t, a.store.Login(context.Background(), "tok123", ana))

	b, err := NewApp(cfg)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	b.store.Initialize(context.Background())
	require.NoError(t, b.store.LoadErr())
	assert.True(t, b.isLoggedIn())
}
