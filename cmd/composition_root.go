package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	httpin "shopdispatch/internal/adapters/in/http"
	"shopdispatch/internal/adapters/out/notify"
	"shopdispatch/internal/adapters/out/postgres"
	"shopdispatch/internal/adapters/out/push"
	"shopdispatch/internal/adapters/out/storeapi"
	"shopdispatch/internal/core/application/usecases/commands"
	"shopdispatch/internal/core/application/usecases/queries"
	"shopdispatch/internal/core/application/views"
	"shopdispatch/internal/core/ports"
	"shopdispatch/internal/jobs"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CompositionRoot owns every long-lived component and the order they are
// released in.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	store ports.Store
	sink  ports.NotificationSink
	push  ports.PushChannel

	shipments *views.ShipmentView
	issues    *views.IssueView
	responses *views.ResponseBook
	feed      *views.NotificationFeed
	board     *views.PositionBoard

	announcer *commands.Announcer
	jobs      *jobs.JobManager

	closers []io.Closer
}

func NewCompositionRoot(config Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		config:    config,
		logger:    logger,
		issues:    views.NewIssueView(),
		responses: views.NewResponseBook(),
		feed:      views.NewNotificationFeed(config.Polling.FeedSize),
		board:     views.NewPositionBoard(time.Now),
		jobs:      jobs.NewJobManager(logger),
	}

	shipments, err := views.NewShipmentView(views.DefaultDeliveredMemory)
	if err != nil {
		return nil, c.fail(err)
	}
	c.shipments = shipments

	if c.store, err = c.createStore(); err != nil {
		return nil, c.fail(err)
	}
	if c.sink, err = c.createSink(); err != nil {
		return nil, c.fail(err)
	}
	if c.push, err = c.createPushChannel(); err != nil {
		return nil, c.fail(err)
	}

	c.announcer = commands.NewAnnouncer(c.feed, c.sink, logger)
	c.registerJobs()
	return c, nil
}

func (c *CompositionRoot) fail(err error) error {
	return errors.Join(err, c.Close())
}

func (c *CompositionRoot) createStore() (ports.Store, error) {
	switch c.config.Store.Driver {
	case StoreDriverPostgres:
		db, err := gorm.Open(gormpostgres.Open(c.config.Database.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("open store database: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open store database: %w", err)
		}
		c.closers = append(c.closers, sqlDB)
		return postgres.NewStore(postgres.NewGormUnitOfWorkFactory(db), c.logger), nil
	default:
		return storeapi.NewClient(storeapi.Config{
			BaseURL: c.config.Store.BaseURL,
			Token:   c.config.Store.APIToken,
			Timeout: c.config.Store.Timeout,
		}, c.logger)
	}
}

// createSink returns nil for the log driver; the announcer logs every notification.
func (c *CompositionRoot) createSink() (ports.NotificationSink, error) {
	if c.config.Notify.Driver != NotifyDriverRabbitMQ {
		return nil, nil
	}

	sink, err := notify.NewRabbitSink(c.config.Notify.RabbitMQURL, c.config.Notify.Queue, c.logger)
	if err != nil {
		return nil, err
	}
	c.closers = append(c.closers, sink)
	return sink, nil
}

func (c *CompositionRoot) createPushChannel() (ports.PushChannel, error) {
	cfg := c.config.Push
	switch cfg.Driver {
	case PushDriverRedis:
		ch, err := push.NewRedisChannel(cfg.RedisURL, cfg.ChannelPrefix, c.logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, ch)
		return ch, nil
	case PushDriverKafka:
		return push.NewKafkaChannel(push.KafkaConfig{
			Brokers:     cfg.KafkaBrokers,
			GroupID:     cfg.ConsumerGroup,
			TopicPrefix: cfg.ChannelPrefix,
		}, c.logger)
	case PushDriverPostgres:
		return push.NewPostgresChannel(c.config.Database.DSN(), c.logger), nil
	default:
		return nil, nil
	}
}

func (c *CompositionRoot) poller(name string, interval time.Duration, task jobs.Task) *jobs.Poller {
	return jobs.NewPoller(jobs.PollerConfig{
		Name:       name,
		Interval:   interval,
		Timeout:    c.config.Store.Timeout,
		StaleAfter: c.config.Polling.StaleAfter,
	}, task, c.logger)
}

func (c *CompositionRoot) registerJobs() {
	polling := c.config.Polling

	watcher := jobs.NewResponseWatcher(
		c.CreateTrackRiderResponsesCommandHandler(),
		c.responses,
		polling.ResponseInterval,
		c.logger,
	)
	c.jobs.Register(jobs.DomainShipments,
		c.poller("shipments", polling.ShipmentInterval,
			jobs.ShipmentTask(c.CreateReconcileShipmentsCommandHandler(), watcher)),
		watcher,
	)
	c.jobs.OnClose(jobs.DomainShipments, func() {
		c.shipments.Reset()
		c.responses.Reset()
	})

	c.jobs.Register(jobs.DomainIssues,
		c.poller("issues", polling.IssueInterval,
			jobs.IssueTask(c.CreateReconcileIssuesCommandHandler(), polling.IssueWindow)),
	)
	c.jobs.OnClose(jobs.DomainIssues, c.issues.Reset)

	riders := []jobs.Job{c.poller("riders", polling.RiderInterval, jobs.RiderTask(c.store, c.board))}
	if c.push != nil {
		riders = append(riders, jobs.NewPushSubscriber(c.push, c.board, c.logger))
	}
	c.jobs.Register(jobs.DomainRiders, riders...)
}

func (c *CompositionRoot) CreateReconcileShipmentsCommandHandler() commands.ReconcileShipmentsCommandHandler {
	return commands.NewReconcileShipmentsCommandHandler(c.store, c.shipments, c.responses, c.announcer, c.logger)
}

func (c *CompositionRoot) CreateReconcileIssuesCommandHandler() commands.ReconcileIssuesCommandHandler {
	return commands.NewReconcileIssuesCommandHandler(c.store, c.issues, c.announcer, c.logger)
}

func (c *CompositionRoot) CreateTrackRiderResponsesCommandHandler() commands.TrackRiderResponsesCommandHandler {
	return commands.NewTrackRiderResponsesCommandHandler(c.store, c.responses, c.announcer, c.logger)
}

func (c *CompositionRoot) CreateRespondToIssueCommandHandler() commands.RespondToIssueCommandHandler {
	return commands.NewRespondToIssueCommandHandler(c.store, c.issues, c.logger)
}

// CreateServer builds the admin API over the views and the job manager.
func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		RespondToIssue:        c.CreateRespondToIssueCommandHandler(),
		GetActiveShipments:    queries.NewGetActiveShipmentsQueryHandler(c.shipments),
		GetCompletedShipments: queries.NewGetCompletedShipmentsQueryHandler(c.store),
		GetRiderResponses:     queries.NewGetRiderResponsesQueryHandler(c.responses),
		GetRiderPositions:     queries.NewGetRiderPositionsQueryHandler(c.board),
		GetIssues:             queries.NewGetIssuesQueryHandler(c.issues),
		GetNotifications:      queries.NewGetNotificationsQueryHandler(c.feed),
	}, c.jobs)
}

// Jobs exposes the job manager so main can open every view at startup.
func (c *CompositionRoot) Jobs() *jobs.JobManager {
	return c.jobs
}

// Close stops every loop, then releases connections in reverse order of creation.
func (c *CompositionRoot) Close() error {
	c.jobs.StopAll()
	c.board.Close()

	var errList []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			errList = append(errList, err)
		}
	}
	c.closers = nil
	return errors.Join(errList...)
}
