package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// MatchingConfig is the scoring/threshold policy. It is built once at
// startup and passed into the services by value; nothing mutates it at
// runtime, so per-deployment tuning and deterministic tests both work.
type MatchingConfig struct {
	// Weighted-score weights; they sum to 100.
	LocationWeight    int
	BudgetWeight      int
	FeaturesWeight    int
	TimingWeight      int
	PerformanceWeight int

	// Threshold policy applied before persisting matches.
	ScoreThreshold         int // normal minimum weighted score
	NoBudgetScoreThreshold int // lowered when the request has no budget at all
	MaxMatchesPerRequest   int // top-N cap after filtering
	FallbackTopN           int // shown when every candidate is under threshold

	// Candidate discovery bounds.
	MaxCandidateProperties int     // raw fetch cap
	MaxPropertiesPerOrg    int     // per-organization scoring cap
	BudgetTolerance        float64 // strict query rent ceiling (1.2 = 120 %)
	RelaxedBudgetTolerance float64 // fallback rent ceiling (2.0 = 200 %)
	MoveInWindowDays       int     // available_from may trail move-in by this many days

	// Budget sub-score stretch bands.
	BudgetStretchNear float64 // 1.1
	BudgetStretchFar  float64 // 1.2

	// Pool lifecycle.
	DefaultPoolTTL    time.Duration // expiry when move-in date is missing/invalid
	MoveInLeadTime    time.Duration // pool closes this long before move-in
	MinPoolGrace      time.Duration // never expire sooner than this after admission
	ExpiredSweepBatch int

	// Reverse matching.
	ReverseMatchWindowDays int // only consider requests created this recently

	// Stats cache.
	StatsCacheTTL time.Duration
}

func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		LocationWeight:    40,
		BudgetWeight:      25,
		FeaturesWeight:    20,
		TimingWeight:      10,
		PerformanceWeight: 5,

		ScoreThreshold:         40,
		NoBudgetScoreThreshold: 30,
		MaxMatchesPerRequest:   20,
		FallbackTopN:           3,

		MaxCandidateProperties: 200,
		MaxPropertiesPerOrg:    20,
		BudgetTolerance:        1.2,
		RelaxedBudgetTolerance: 2.0,
		MoveInWindowDays:       30,

		BudgetStretchNear: 1.1,
		BudgetStretchFar:  1.2,

		DefaultPoolTTL:    14 * 24 * time.Hour,
		MoveInLeadTime:    3 * 24 * time.Hour,
		MinPoolGrace:      24 * time.Hour,
		ExpiredSweepBatch: 500,

		ReverseMatchWindowDays: 60,

		StatsCacheTTL: time.Minute,
	}
}

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string

	// Database
	DBUrl string

	// Redis (pool-stats cache); empty addr disables caching
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Trust-level collaborator
	TrustAPIURL string

	// SendGrid / Twilio for match notifications
	SendGridAPIKey    string
	SendgridFromEmail string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioFromPhone   string

	Matching MatchingConfig
}

// LoadConfig reads the environment (a local .env in dev). Hard
// requirements fatal out; notification and cache credentials are
// optional and only disable their collaborator when absent.
func LoadConfig() *Config {
	_ = godotenv.Load()

	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "matching-service"
	}
	utils.Logger.Info("Loading config for app: ", appName)

	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		utils.Logger.Fatal("APP_PORT env var is missing")
	}
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		utils.Logger.Fatal("DB_URL env var is missing")
	}
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:" + appPort
	}

	sgKey := os.Getenv("SENDGRID_API_KEY")
	if sgKey == "" {
		utils.Logger.Warn("SENDGRID_API_KEY missing; match emails disabled")
	}
	sgFrom := os.Getenv("SENDGRID_FROM_EMAIL")
	if sgFrom == "" {
		sgFrom = "no-reply@smart-rental-platform.com"
	}

	twilioSID := os.Getenv("TWILIO_ACCOUNT_SID")
	twilioToken := os.Getenv("TWILIO_AUTH_TOKEN")
	twilioFrom := os.Getenv("TWILIO_FROM_PHONE")
	if twilioSID == "" || twilioToken == "" {
		utils.Logger.Warn("Twilio credentials missing; match SMS disabled")
	}

	trustURL := os.Getenv("TRUST_API_URL")
	if trustURL == "" {
		utils.Logger.Warn("TRUST_API_URL missing; all members score as New")
	}

	return &Config{
		OrganizationName:  "Smart Rental Platform",
		AppName:           appName,
		AppPort:           appPort,
		AppUrl:            appURL,
		DBUrl:             dbURL,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           0,
		TrustAPIURL:       trustURL,
		SendGridAPIKey:    sgKey,
		SendgridFromEmail: sgFrom,
		TwilioAccountSID:  twilioSID,
		TwilioAuthToken:   twilioToken,
		TwilioFromPhone:   twilioFrom,
		Matching:          DefaultMatchingConfig(),
	}
}

func (c *Config) Close() {}
