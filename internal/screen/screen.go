// Package screen implements the choose-person screen: a list of people backed
// by the local cache, refreshed from the backend, with an admin mode that
// hands a selected person to the points-assignment flow.
package screen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pkg/browser"

	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/person"
	pkgsync "github.com/filippoints/filippoints-cli/internal/sync"
)

// DefaultWebAppURL is the page behind the web-app link
const DefaultWebAppURL = "http://www.filippoints.com/all/"

var (
	// ErrNotOpen is returned when async work is requested before Open
	ErrNotOpen = errors.New("screen is not open")

	// ErrClosed is returned when async work is requested after Close
	ErrClosed = errors.New("screen is closed")
)

// View is the rendering surface. All calls arrive through the Dispatcher.
type View interface {
	// ShowNoConnection displays the transient offline notice
	ShowNoConnection()

	// SetRefreshing shows or clears the refresh indicator
	SetRefreshing(refreshing bool)

	// Invalidate asks for the visible rows to be redrawn
	Invalidate()
}

// LinkOpener opens a URL with the platform's default handler
type LinkOpener interface {
	OpenURL(url string) error
}

// BrowserOpener opens links in the default browser
type BrowserOpener struct{}

// OpenURL opens url in the default browser
func (BrowserOpener) OpenURL(url string) error {
	return browser.OpenURL(url)
}

// FetchObserver receives the outcome of every backend fetch the screen starts
type FetchObserver func(result *pkgsync.Result, err *pkgsync.Error)

type nopView struct{}

func (nopView) ShowNoConnection()  {}
func (nopView) SetRefreshing(bool) {}
func (nopView) Invalidate()        {}

// Screen is the choose-person screen controller
type Screen struct {
	mode      Mode
	manager   pkgsync.Manager
	list      *List
	view      View
	navigator Navigator
	opener    LinkOpener
	webAppURL string
	onFetch   FetchObserver

	dispatcher Dispatcher

	mu     sync.Mutex
	scope  *scope
	closed bool
}

// Option configures a Screen
type Option func(*Screen)

// WithView sets the rendering surface
func WithView(v View) Option {
	return func(s *Screen) {
		s.view = v
	}
}

// WithNavigator sets the follow-up flow used in admin mode
func WithNavigator(n Navigator) Option {
	return func(s *Screen) {
		s.navigator = n
	}
}

// WithLinkOpener overrides how the web-app link is opened
func WithLinkOpener(o LinkOpener) Option {
	return func(s *Screen) {
		s.opener = o
	}
}

// WithWebAppURL overrides the web-app link target
func WithWebAppURL(url string) Option {
	return func(s *Screen) {
		if url != "" {
			s.webAppURL = url
		}
	}
}

// WithDispatcher sets how completions reach the UI goroutine
func WithDispatcher(d Dispatcher) Option {
	return func(s *Screen) {
		s.dispatcher = d
	}
}

// WithFetchObserver lets the caller react to fetch outcomes, for example to retry
func WithFetchObserver(fn FetchObserver) Option {
	return func(s *Screen) {
		s.onFetch = fn
	}
}

// New builds a screen. Admin mode without a point value fails with
// ErrPointsNotSpecified.
func New(mode Mode, manager pkgsync.Manager, opts ...Option) (*Screen, error) {
	if err := mode.validate(); err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, fmt.Errorf("sync manager is required")
	}

	s := &Screen{
		mode:       mode,
		manager:    manager,
		view:       nopView{},
		navigator:  logNavigator{},
		opener:     BrowserOpener{},
		webAppURL:  DefaultWebAppURL,
		dispatcher: inlineDispatcher,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.list = NewList(mode.selectHandler(s.navigator))
	s.list.OnChange(s.view.Invalidate)
	return s, nil
}

// Mode returns the screen mode
func (s *Screen) Mode() Mode {
	return s.mode
}

// List returns the presented list
func (s *Screen) List() *List {
	return s.list
}

// Open shows the cached list and starts a background fetch. Background work
// lives until Close or until ctx is cancelled.
func (s *Screen) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.scope == nil {
		s.scope = newScope(ctx, s.dispatcher)
	}
	s.mu.Unlock()

	s.list.SetValues(s.manager.LoadCachedList(ctx))
	return s.Fetch()
}

// Fetch refreshes the cache from the backend in the background. On success
// the displayed list is reloaded from the cache; the outcome is always
// passed to the fetch observer.
func (s *Screen) Fetch() error {
	return s.launch(func(ctx context.Context) func() {
		result, syncErr := s.manager.RefreshFromBackend(ctx)
		var people []person.Person
		if syncErr == nil {
			people = s.manager.LoadCachedList(ctx)
		}
		return func() {
			if syncErr == nil {
				s.list.SetValues(people)
			}
			if s.onFetch != nil {
				s.onFetch(result, syncErr)
			}
		}
	})
}

// Refresh is the pull-to-refresh action: reload the cache when online,
// otherwise show the offline notice. The refresh indicator is cleared either way.
func (s *Screen) Refresh() error {
	s.view.SetRefreshing(true)
	err := s.launch(func(ctx context.Context) func() {
		res := s.manager.RefreshIfOnline(ctx)
		return func() {
			if res.Online {
				s.list.SetValues(res.People)
			} else {
				s.view.ShowNoConnection()
			}
			s.view.SetRefreshing(false)
		}
	})
	if err != nil {
		s.view.SetRefreshing(false)
	}
	return err
}

// Select handles a click on the row at position i
func (s *Screen) Select(i int) error {
	return s.list.Click(i)
}

// OpenWebApp opens the web application in the default browser
func (s *Screen) OpenWebApp() error {
	if err := s.opener.OpenURL(s.webAppURL); err != nil {
		return fmt.Errorf("failed to open %s: %w", s.webAppURL, err)
	}
	return nil
}

// Close cancels background work and waits for it to finish. Completions
// arriving after Close are dropped. Close is idempotent.
func (s *Screen) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sc := s.scope
	s.mu.Unlock()

	if sc != nil {
		sc.close()
	}
	logger.Debugf("Choose-person screen closed")
}

// launch starts work in the screen scope. Holding mu keeps launches from
// racing with Close.
func (s *Screen) launch(work func(ctx context.Context) func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.scope == nil {
		return ErrNotOpen
	}
	s.scope.launch(work)
	return nil
}
