package main

import (
	"context"
	"net/http"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	cron "github.com/robfig/cron/v3"
	"github.com/rs/cors"
	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/app"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/controllers"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/routes"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/services"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

func main() {
	utils.InitLogger("matching-service")

	// 1) Config
	cfg := config.LoadConfig()
	defer cfg.Close()

	// 2) Core application (DB pool, redis)
	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize matching-service:", err)
	}
	defer application.Close()

	// 3) Repositories
	requestRepo := repositories.NewRentalRequestRepository(application.DB)
	propertyRepo := repositories.NewPropertyRepository(application.DB)
	orgRepo := repositories.NewOrganizationRepository(application.DB)
	matchRepo := repositories.NewMatchRepository(application.DB)
	analyticsRepo := repositories.NewPoolAnalyticsRepository(application.DB)

	// 4) Collaborators
	twClient := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})
	sgClient := sendgrid.NewSendClient(cfg.SendGridAPIKey)
	notifier := services.NewMatchNotifier(orgRepo, sgClient, twClient, cfg.SendgridFromEmail, cfg.TwilioFromPhone, cfg.OrganizationName)
	trustClient := services.NewHTTPTrustClient(cfg.TrustAPIURL)
	statsCache := cache.NewStatsCache(application.Redis, cfg.Matching.StatsCacheTTL)

	// 5) Services
	scoring := services.NewScoringEngine(cfg.Matching, trustClient)
	discovery := services.NewCandidateDiscovery(cfg.Matching, propertyRepo)
	pipeline := services.NewMatchingPipeline(cfg.Matching, discovery, scoring, orgRepo, matchRepo, notifier)
	analytics := services.NewAnalyticsService(requestRepo, propertyRepo, matchRepo, analyticsRepo, statsCache)
	poolService := services.NewPoolService(cfg.Matching, requestRepo, matchRepo, pipeline, analytics)
	reverseMatcher := services.NewReverseMatcher(cfg.Matching, scoring, propertyRepo, requestRepo, orgRepo, matchRepo, notifier)
	engagement := services.NewEngagementService(requestRepo, matchRepo)

	// 6) Controllers
	healthCtrl := controllers.NewHealthController(application)
	poolCtrl := controllers.NewPoolController(poolService, reverseMatcher, engagement, analytics, matchRepo)

	// 7) Router
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthCtrl.HealthCheckHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PoolRequests, poolCtrl.SubmitRequestHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PoolRequestByID, poolCtrl.RemoveRequestHandler).Methods(http.MethodDelete)
	router.HandleFunc(routes.PoolRequestMatches, poolCtrl.ListMatchesHandler).Methods(http.MethodGet)
	router.HandleFunc(routes.PoolMatchesViewed, poolCtrl.MarkViewedHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PoolMatchesDecline, poolCtrl.DeclineMatchHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PoolPropertyMatch, poolCtrl.ReverseMatchHandler).Methods(http.MethodPost)
	router.HandleFunc(routes.PoolStats, poolCtrl.PoolStatsHandler).Methods(http.MethodGet)

	// 8) Background sweeps
	c := cron.New()
	if _, err := c.AddFunc("@hourly", func() {
		if _, e := poolService.CleanupExpiredRequests(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled pool cleanup failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule pool cleanup cron")
	}
	// Daily warm recompute so the first morning stats hit is not cold.
	if _, err := c.AddFunc("10 0 * * *", func() {
		if _, e := analytics.GetPoolStats(context.Background()); e != nil {
			utils.Logger.WithError(e).Error("Scheduled pool stats refresh failed")
		}
	}); err != nil {
		utils.Logger.WithError(err).Fatal("Failed to schedule pool stats cron")
	}
	c.Start()
	defer c.Stop()

	// 9) CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	utils.Logger.Infof("Starting %s on :%s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, corsHandler.Handler(router)); err != nil {
		utils.Logger.Fatal("Server error:", err)
	}
}
