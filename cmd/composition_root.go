package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/gateway"
	"fulfillment/internal/adapters/out/notifier"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/s3"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB       *gorm.DB
	uowFactory   postgres.GormUnitOfWorkFactory
	blobs        *s3.BlobStore
	gateway      *gateway.Client
	notifier     *notifier.LogNotifier
	locker       jobs.Locker
	signedURLTTL time.Duration
	logger       *slog.Logger
}

func NewCompositionRoot(ctx context.Context, configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	ttl, err := configs.URLTTL()
	if err != nil {
		return CompositionRoot{}, err
	}

	blobs, err := s3.NewBlobStore(ctx, s3.Config{
		Region:          configs.S3Region,
		Bucket:          configs.S3Bucket,
		AccessKeyID:     configs.S3AccessKeyID,
		SecretAccessKey: configs.S3SecretAccessKey,
		Endpoint:        configs.S3Endpoint,
	})
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("blob store: %w", err)
	}

	gw, err := gateway.NewClient(configs.GatewayURL, configs.GatewayToken, configs.GatewayCallbackURL)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("payment gateway: %w", err)
	}

	var locker jobs.Locker = jobs.LocalLocker{}
	if configs.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: configs.RedisAddr, Password: configs.RedisPassword})
		if err = rdb.Ping(ctx).Err(); err != nil {
			return CompositionRoot{}, fmt.Errorf("redis: %w", err)
		}
		locker = jobs.NewRedisLocker(rdb)
	} else {
		logger.Warn("REDIS_ADDR is not set, scheduled jobs run without a distributed lock")
	}

	return CompositionRoot{
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		blobs:        blobs,
		gateway:      gw,
		notifier:     notifier.NewLogNotifier(logger),
		locker:       locker,
		signedURLTTL: ttl,
		logger:       logger,
	}, nil
}

// Handlers returns every use case exposed over HTTP.
func (c *CompositionRoot) Handlers() httpin.Handlers {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	var catalog commands.CatalogUoWFactory = FuncCatalogUoWFactory(func() commands.CatalogUoW {
		return c.uowFactory.Create()
	})

	return httpin.Handlers{
		CreateService:          commands.NewCreateServiceCommandHandler(catalog),
		RegisterStaff:          commands.NewRegisterStaffCommandHandler(catalog),
		CreateOrder:            commands.NewCreateOrderCommandHandler(f, c.gateway, c.logger),
		RecordPayment:          commands.NewRecordPaymentCommandHandler(f, c.gateway, c.logger),
		PendingBalance:         commands.NewCreatePendingBalanceLinkCommandHandler(f, c.gateway, c.logger),
		ConfirmPayment:         commands.NewConfirmPaymentCommandHandler(f),
		FailPayment:            commands.NewFailPaymentCommandHandler(f),
		SubmitDocument:         commands.NewSubmitDocumentCommandHandler(f),
		ReviewDocument:         commands.NewReviewDocumentCommandHandler(f),
		SubmitCustomerDocument: commands.NewSubmitCustomerDocumentCommandHandler(f),
		ReplaceCustomerDoc:     commands.NewReplaceCustomerDocumentCommandHandler(f),
		ReviewCustomerDocument: commands.NewReviewCustomerDocumentCommandHandler(f),
		ForwardOrder:           commands.NewForwardOrderCommandHandler(f),
		AssignOrder:            commands.NewAssignOrderCommandHandler(f),
		UploadDeliverable:      commands.NewUploadDeliverableCommandHandler(f),
		DecideQC:               commands.NewDecideQCCommandHandler(f),
		ApproveCompletion:      commands.NewApproveCompletionCommandHandler(f),

		GetOrder:        queries.NewGetOrderQueryHandler(c.gormDB),
		GetTimeline:     queries.NewGetTimelineQueryHandler(c.gormDB),
		GetDocumentGate: queries.NewGetDocumentGateQueryHandler(c.gormDB),
		GetDeliverable:  queries.NewGetDeliverableURLsQueryHandler(c.gormDB, c.blobs, c.signedURLTTL),
	}
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchOrderCommandHandler(f)
}

func (c *CompositionRoot) CreateDispatchNotificationsCommandHandler() commands.DispatchNotificationsCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchNotificationsCommandHandler(f, c.notifier, c.logger)
}

func (c *CompositionRoot) Server() *httpin.Server {
	return httpin.NewServer(c.Handlers(), c.blobs, c.logger)
}

func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOrderCommandHandler(),
		c.CreateDispatchNotificationsCommandHandler(),
		c.locker,
		c.logger,
	)
}

type FuncCatalogUoWFactory func() commands.CatalogUoW

func (f FuncCatalogUoWFactory) Create() commands.CatalogUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
