// Package dashboard holds the per-session view state of the customer
// dashboard: the active panel, each panel's loaded data, drafts, and
// banners. Network calls run outside the dashboard lock; loaders run in
// background goroutines so a late response still lands in the state.
package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"storefront-web/internal/domain"
	"storefront-web/internal/logging"
	"storefront-web/internal/media"
)

// Options tunes a Dashboard.
type Options struct {
	// LoaderTimeout bounds each background load.
	LoaderTimeout time.Duration
	// SupportDismissAfter is how long the ticket confirmation stays visible.
	SupportDismissAfter time.Duration
	// PreviewSide is the longest edge of a local photo preview.
	PreviewSide int
	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func())
	Logger    *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.LoaderTimeout <= 0 {
		o.LoaderTimeout = 20 * time.Second
	}
	if o.SupportDismissAfter <= 0 {
		o.SupportDismissAfter = 3 * time.Second
	}
	if o.PreviewSide <= 0 {
		o.PreviewSide = media.DefaultPreviewSide
	}
	if o.AfterFunc == nil {
		o.AfterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// Dashboard is the state of one signed-in customer's dashboard.
type Dashboard struct {
	session Session
	api     API
	opts    Options
	logger  *zap.Logger

	mu       sync.Mutex
	active   Section
	orders   ordersState
	profile  profileState
	address  addressState
	support  supportState
	rejected bool

	inflight int
	idle     chan struct{}
}

// New builds a dashboard on the orders panel and starts the orders load.
func New(ctx context.Context, session Session, api API, opts Options) *Dashboard {
	opts = opts.withDefaults()
	d := &Dashboard{
		session: session,
		api:     api,
		opts:    opts,
		logger:  opts.Logger,
		active:  SectionOrders,
		support: newSupportState(),
	}
	d.profile.draft = domain.DraftFromIdentity(session.CurrentIdentity())

	d.mu.Lock()
	d.startOrdersLoadLocked(ctx)
	d.mu.Unlock()
	return d
}

// Active returns the visible panel.
func (d *Dashboard) Active() Section {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Select makes section the visible panel. Entering orders or addresses
// starts that panel's load; selecting the active panel does nothing.
func (d *Dashboard) Select(ctx context.Context, section Section) error {
	if !section.Valid() {
		return ErrUnknownSection
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == section {
		return nil
	}
	d.active = section

	switch section {
	case SectionOrders:
		d.startOrdersLoadLocked(ctx)
	case SectionAddresses:
		d.startAddressLoadLocked(ctx)
	case SectionProfile:
		if !d.profile.editing {
			d.profile.draft = domain.DraftFromIdentity(d.session.CurrentIdentity())
		}
	}
	return nil
}

// Wait blocks until no load is in flight or ctx is done.
func (d *Dashboard) Wait(ctx context.Context) error {
	d.mu.Lock()
	if d.inflight == 0 {
		d.mu.Unlock()
		return nil
	}
	idle := d.idle
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// launchLocked runs load in the background, detached from the caller's
// cancellation but bounded by the loader timeout. Callers hold d.mu.
func (d *Dashboard) launchLocked(ctx context.Context, name string, load func(context.Context)) {
	if d.inflight == 0 {
		d.idle = make(chan struct{})
	}
	d.inflight++

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.opts.LoaderTimeout)
	go func() {
		defer cancel()
		defer d.finishLoad()
		start := time.Now()
		load(loadCtx)
		d.logger.Debug("dashboard load finished",
			zap.String("loader", name),
			zap.Duration("took", time.Since(start)),
		)
	}()
}

func (d *Dashboard) finishLoad() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inflight--
	if d.inflight == 0 {
		close(d.idle)
	}
}

// noteRejectedLocked records that the API refused the session token.
func (d *Dashboard) noteRejectedLocked(err error) {
	if isUnauthorized(err) {
		d.rejected = true
	}
}

// SessionRejected reports whether any call saw the token refused.
func (d *Dashboard) SessionRejected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rejected
}

// View is a consistent copy of the dashboard state for rendering.
type View struct {
	Active          Section         `json:"activeSection"`
	Menu            []MenuItem      `json:"menu"`
	Identity        domain.Identity `json:"user"`
	Orders          OrdersView      `json:"orders"`
	Profile         ProfileView     `json:"profile"`
	Address         AddressView     `json:"address"`
	Support         SupportView     `json:"support"`
	Referral        ReferralView    `json:"referral"`
	SessionRejected bool            `json:"sessionRejected,omitempty"`
}

// Snapshot copies the current state.
func (d *Dashboard) Snapshot() View {
	identity := d.session.CurrentIdentity()

	d.mu.Lock()
	defer d.mu.Unlock()
	return View{
		Active:          d.active,
		Menu:            menuFor(d.active),
		Identity:        identity,
		Orders:          d.orders.view(),
		Profile:         d.profile.view(identity),
		Address:         d.address.view(),
		Support:         d.support.view(),
		Referral:        referralView(identity),
		SessionRejected: d.rejected,
	}
}

// LogOut ends the session. The dashboard must not be used afterwards.
func (d *Dashboard) LogOut(ctx context.Context) error {
	return d.session.EndSession(ctx)
}
