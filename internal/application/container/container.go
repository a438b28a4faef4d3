// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/scalerlabs/funnel-engine-go/internal/application/services"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/caching/manager"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/email"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/messaging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/logging"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/observability/performance"
	"github.com/scalerlabs/funnel-engine-go/internal/infrastructure/persistence/database"
	persistenceUser "github.com/scalerlabs/funnel-engine-go/internal/infrastructure/persistence/user"
	"github.com/scalerlabs/funnel-engine-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Funnel Services (stateless singletons)
	ProfileService      *services.ProfileService
	ScoringService      *services.ScoringService
	TierService         *services.TierService
	MessageService      *services.MessageService
	EngagementService   *services.EngagementService
	ReengagementService *services.ReengagementService
	SysOpService        *services.SysOpService

	// Infrastructure Dependencies
	Logger       *logging.ChanneledLogger
	PerfTracker  *performance.Tracker
	CacheManager *manager.Manager
	Broadcaster  *messaging.CounterBroadcaster
	DB           *database.DB
	EmailService email.Service
}

// NewContainer creates and wires all singleton services
func NewContainer(
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
	cacheManager *manager.Manager,
	db *database.DB,
) (*Container, error) {
	emailService, err := email.NewService(logger)
	if err != nil {
		return nil, fmt.Errorf("creating email service: %w", err)
	}

	leadRepo := persistenceUser.NewSQLLeadRepository(db, logger)
	queueRepo := persistenceUser.NewSQLReengagementQueueRepository(db, logger)

	broadcaster := messaging.NewCounterBroadcaster(logger)

	profileService := services.NewProfileService(logger, perfTracker)
	scoringService := services.NewScoringService(logger, perfTracker)
	tierService, err := services.NewTierService(logger)
	if err != nil {
		return nil, fmt.Errorf("creating tier service: %w", err)
	}
	messageService := services.NewMessageService(logger)
	reengagementService := services.NewReengagementService(leadRepo, queueRepo, emailService, messageService, logger)
	engagementService := services.NewEngagementService(
		cacheManager,
		profileService,
		scoringService,
		tierService,
		messageService,
		reengagementService,
		broadcaster,
		logger,
		perfTracker,
	)
	sysOpService := services.NewSysOpService(cacheManager, reengagementService, tierService, logger, perfTracker)

	return &Container{
		ProfileService:      profileService,
		ScoringService:      scoringService,
		TierService:         tierService,
		MessageService:      messageService,
		EngagementService:   engagementService,
		ReengagementService: reengagementService,
		SysOpService:        sysOpService,

		Logger:       logger,
		PerfTracker:  perfTracker,
		CacheManager: cacheManager,
		Broadcaster:  broadcaster,
		DB:           db,
		EmailService: emailService,
	}, nil
}

// CounterCapacity surfaces the configured display capacity for handlers.
func (c *Container) CounterCapacity() int64 {
	return int64(config.CounterCapacity)
}
