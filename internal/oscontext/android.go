package oscontext

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/crossrun/crossrun/internal/android"
	"github.com/crossrun/crossrun/internal/command"
	"github.com/crossrun/crossrun/internal/config"
)

// androidScopeActive guards the single-active-scope requirement. The
// driver session is shared with the command strategy, so two concurrently
// active Android scopes would race on it.
var androidScopeActive atomic.Bool

// AndroidContext acquires a device driver session for the duration of one
// scope and installs it into its command strategy. Process listing and
// termination are inherited Default no-ops; the device owns its processes.
type AndroidContext struct {
	DefaultContext

	// newSession acquires the driver. Swappable in tests.
	newSession func(device string) (android.Session, error)

	mu      sync.Mutex
	session android.Session
}

// NewAndroid constructs the Android variant backed by the adb driver.
func NewAndroid(opts ...Option) *AndroidContext {
	c := &AndroidContext{
		newSession: func(device string) (android.Session, error) {
			return android.NewDriver(device)
		},
	}
	c.init(&command.Android{}, opts)
	return c
}

// Enter connects to the device named in opts and hands the session to the
// Android command strategy. Only one Android scope may be active at a
// time within the process.
func (c *AndroidContext) Enter(opts *config.Options) error {
	if !androidScopeActive.CompareAndSwap(false, true) {
		return errors.New("android: another scope is already active")
	}

	device := ""
	if opts != nil {
		device = opts.Device
	}
	session, err := c.newSession(device)
	if err != nil {
		androidScopeActive.Store(false)
		return fmt.Errorf("acquire driver session: %w", err)
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	c.androidStrategy().SetSession(session)
	return nil
}

// Exit tears the driver session down exactly once and releases the scope,
// even when teardown itself reports an error.
func (c *AndroidContext) Exit() error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}
	defer androidScopeActive.Store(false)

	c.androidStrategy().SetSession(nil)
	if err := session.TearDown(); err != nil {
		return fmt.Errorf("tear down driver session: %w", err)
	}
	return nil
}

func (c *AndroidContext) androidStrategy() *command.Android {
	return c.Strategy().(*command.Android)
}
