package gateway

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/stellarlinkco/taskbot/internal/bot"
	"github.com/stellarlinkco/taskbot/internal/bus"
	"github.com/stellarlinkco/taskbot/internal/channel"
	"github.com/stellarlinkco/taskbot/internal/config"
	"github.com/stellarlinkco/taskbot/internal/cron"
	"github.com/stellarlinkco/taskbot/internal/dialog"
	"github.com/stellarlinkco/taskbot/internal/task"
)

// Options for creating a Gateway
type Options struct {
	SignalChan chan os.Signal // for testing signal handling
}

// Gateway wires the store, dialog router, message bus, channels and the
// maintenance scheduler into one process.
type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	store      *task.Store
	router     *bot.Router
	channels   *channel.Manager
	cron       *cron.Service
	signalChan chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{cfg: cfg}

	g.bus = bus.NewMessageBus(config.DefaultBufSize)

	store, err := task.NewStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("create task store: %w", err)
	}
	g.store = store

	g.router = bot.NewRouter(store, dialog.NewTracker())

	g.cron = cron.NewService()
	if cfg.Maintenance.Enabled {
		if err := g.cron.AddJob("store-maintenance", cfg.Maintenance.Spec, store.Maintain); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("schedule maintenance: %w", err)
		}
	}

	chMgr, err := channel.NewManager(cfg.Telegram, g.bus)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	g.cron.Start()

	go g.processLoop(ctx)

	log.Printf("[gateway] running")

	// Use injected signal channel for testing, or create default
	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

// processLoop consumes inbound events one at a time and feeds the
// router's replies back onto the bus. The transport delivers events for
// one owner sequentially, so the router needs no further serialization.
func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound %s from %s/%d: %s", msg.Kind, msg.Channel, msg.OwnerID, truncate(msg.Content+msg.Callback, 80))

			for _, out := range g.router.Handle(msg) {
				g.bus.Outbound <- out
			}
		case <-ctx.Done():
			return
		}
	}
}

func (g *Gateway) Shutdown() error {
	g.cron.Stop()
	_ = g.channels.StopAll()
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			log.Printf("[gateway] close store warning: %v", err)
		}
	}
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
