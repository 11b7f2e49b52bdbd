// Command portal drives the EV service-center backend from a terminal:
// customers book and pay deposits, staff receive vehicles and move work
// orders, technicians fill in checklists.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/config"
	"github.com/no-solace/ev-maintenance-system/internal/db"
	"github.com/no-solace/ev-maintenance-system/internal/queueboard"
	"github.com/no-solace/ev-maintenance-system/internal/services"
	"github.com/no-solace/ev-maintenance-system/internal/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout))
}

func run(ctx context.Context, args []string, in io.Reader, out io.Writer) int {
	cfg := config.Load()
	cfg.ConfigureLogging()

	app, err := newApp(ctx, cfg, out)
	if err != nil {
		log.WithError(err).Error("Failed to start portal")
		return 1
	}
	defer app.Close()

	if len(args) == 0 || args[0] == "shell" {
		return app.shell(ctx, in)
	}
	if err := app.dispatch(ctx, args); err != nil {
		app.reportError(err)
		return 1
	}
	return 0
}

// App holds everything a command needs.
type App struct {
	cfg      *config.Config
	out      io.Writer
	local    db.KeyValue
	sessions db.KeyValue
	session  *session.Store
	client   *apiclient.Client
	svc      *services.Services
	board    *queueboard.Publisher
	closers  []func()
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer) (*App, error) {
	app := &App{cfg: cfg, out: out}

	if err := app.openStores(ctx); err != nil {
		app.Close()
		return nil, err
	}

	app.session = session.NewStore(app.local)
	if _, err := app.session.Hydrate(ctx); err != nil {
		log.WithError(err).Warn("Failed to restore session")
	}

	app.client = apiclient.NewClient(cfg.APIBaseURL, app.session, cfg.HTTPTimeout)
	app.svc = services.New(app.client)

	if cfg.QueueBoardEnabled() {
		client, err := queueboard.Connect(cfg.MQTTBroker, cfg.MQTTClientID)
		if err != nil {
			log.WithError(err).Warn("Queue board disabled")
		} else {
			app.board = queueboard.NewPublisher(client, cfg.MQTTTopic)
			app.closers = append(app.closers, app.board.Close)
		}
	}
	return app, nil
}

func (a *App) openStores(ctx context.Context) error {
	switch a.cfg.LocalStore {
	case config.StoreMongo:
		client, err := db.ConnectMongo(ctx, a.cfg.MongoURI)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.WithError(err).Warn("Failed to disconnect from MongoDB")
			}
		})
		a.local = db.NewMongoStore(client, a.cfg.MongoDB)
	case config.StoreMemory, "":
		a.local = db.NewMemoryStore()
	default:
		return fmt.Errorf("unknown LOCAL_STORE %q", a.cfg.LocalStore)
	}

	switch a.cfg.SessionStore {
	case config.StoreRedis:
		client, err := db.ConnectRedis(ctx, a.cfg.RedisURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() {
			if err := client.Close(); err != nil {
				log.WithError(err).Warn("Failed to close Redis client")
			}
		})
		a.sessions = db.NewRedisStore(client, a.cfg.SessionTTL)
	case config.StoreMemory, "":
		a.sessions = db.NewMemoryStore()
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", a.cfg.SessionStore)
	}
	return nil
}

// Close releases store and broker connections.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
