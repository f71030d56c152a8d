package router

import (
	"github.com/innomart/innomart-server/internal/application"
	"github.com/innomart/innomart-server/internal/container"
	"github.com/innomart/innomart-server/internal/infrastructure/postgres"
	handlers "github.com/innomart/innomart-server/internal/interface/http"
	"github.com/innomart/innomart-server/internal/router/modules"
)

type Deps struct {
	UserHandler     *handlers.UserHandler
	ListingHandler  *handlers.ListingHandler
	PurchaseHandler *handlers.PurchaseHandler
	LearningHandler *handlers.LearningHandler
}

func buildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	userRepo := postgres.NewUserRepository(pool)
	listingRepo := postgres.NewListingRepository(pool)
	purchaseRepo := postgres.NewPurchaseRepository(pool)
	learningRepo := postgres.NewLearningContentRepository(pool)

	userSvc := application.NewUserService(userRepo, container.GetJWT(), logger)
	catalogSvc := application.NewCatalogService(
		listingRepo,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESListingsIndex,
		logger,
	)
	purchaseSvc := application.NewPurchaseService(
		purchaseRepo,
		userRepo,
		container.GetRabbitPub(),
		logger,
		cfg.MailSendEnabled,
	)
	learningSvc := application.NewLearningService(learningRepo, container.GetRedis(), logger)

	return Deps{
		UserHandler:     handlers.NewUserHandler(userSvc, logger),
		ListingHandler:  handlers.NewListingHandler(catalogSvc, logger),
		PurchaseHandler: handlers.NewPurchaseHandler(purchaseSvc, logger),
		LearningHandler: handlers.NewLearningHandler(learningSvc, logger),
	}
}

// InitModules builds every feature module and registers it with the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	deps := buildDeps()
	jwt := container.GetJWT()

	r.Add(modules.NewUserModule(deps.UserHandler, jwt))
	r.Add(modules.NewMarketModule(deps.ListingHandler, deps.PurchaseHandler, jwt))
	r.Add(modules.NewLearningModule(deps.LearningHandler, jwt))
}
