package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zulqarnainhdr514/storage-management/internal/auth"
	"github.com/zulqarnainhdr514/storage-management/internal/config"
	"github.com/zulqarnainhdr514/storage-management/internal/cookie"
	"github.com/zulqarnainhdr514/storage-management/internal/directory"
	"github.com/zulqarnainhdr514/storage-management/internal/email"
	"github.com/zulqarnainhdr514/storage-management/internal/files"
	"github.com/zulqarnainhdr514/storage-management/internal/handler"
	"github.com/zulqarnainhdr514/storage-management/internal/httpserver"
	"github.com/zulqarnainhdr514/storage-management/internal/logger"
	"github.com/zulqarnainhdr514/storage-management/internal/mongodb"
	"github.com/zulqarnainhdr514/storage-management/internal/profile"
	"github.com/zulqarnainhdr514/storage-management/internal/ratelimit"
	"github.com/zulqarnainhdr514/storage-management/internal/session"
	"github.com/zulqarnainhdr514/storage-management/internal/storage"
)

type appConfig struct {
	Environment   string   `env:"APP_ENV" envDefault:"development"`
	AppName       string   `env:"APP_NAME" envDefault:"storage-management"`
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`
	RedisURL      string   `env:"REDIS_URL"`

	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"52428800"` // 50 MB
	StorageQuota  int64 `env:"STORAGE_QUOTA" envDefault:"2147483648"` // 2 GB

	// OTP initiation allows a short burst, then one request per refill
	// interval per client.
	OTPBurst          int           `env:"OTP_RATE_BURST" envDefault:"5"`
	OTPRefillInterval time.Duration `env:"OTP_RATE_REFILL_INTERVAL" envDefault:"3m"`
}

func main() {
	var (
		appCfg   appConfig
		httpCfg  httpserver.Config
		mongoCfg mongodb.Config
		dirCfg   directory.Config
		sessCfg  session.Config
		emailCfg email.Config
		s3Cfg    storage.S3Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&mongoCfg)
	config.MustLoad(&dirCfg)
	config.MustLoad(&sessCfg)
	config.MustLoad(&emailCfg)
	config.MustLoad(&s3Cfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, appCfg.AppName))
	logger.SetAsDefault(log)

	ctx := context.Background()

	db, err := mongodb.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		fatal(log, "failed to connect to mongodb", err)
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	profileStore := profile.NewStore(db, mongoCfg.UsersCollection)
	if err := profileStore.EnsureIndexes(ctx); err != nil {
		fatal(log, "failed to ensure profile indexes", err)
	}
	fileStore := files.NewMongoStore(db, mongoCfg.FilesCollection)
	if err := fileStore.EnsureIndexes(ctx); err != nil {
		fatal(log, "failed to ensure file indexes", err)
	}

	cookieMgr, err := cookie.New(appCfg.CookieSecrets)
	if err != nil {
		fatal(log, "failed to initialize cookie manager", err)
	}
	if appCfg.Environment == "production" || appCfg.Environment == "prod" {
		sessCfg.Secure = true
	}
	sessions := session.NewCarrier(cookieMgr, sessCfg)

	dirClient := directory.NewClient(dirCfg)
	authSvc := auth.NewService(dirClient, profileStore, auth.WithLogger(log))

	blob, err := storage.NewS3Storage(ctx, s3Cfg)
	if err != nil {
		fatal(log, "failed to initialize object storage", err)
	}

	var sender email.Sender
	if emailCfg.PostmarkServerToken != "" {
		sender, err = email.NewPostmarkClient(emailCfg)
		if err != nil {
			fatal(log, "failed to initialize email sender", err)
		}
	} else {
		log.Info("postmark tokens not set, writing emails to disk",
			slog.String("dir", emailCfg.DevOutputDir))
		sender = email.NewDevSender(emailCfg.DevOutputDir)
	}
	notifier := email.NewShareNotifier(sender, appCfg.AppName)

	fileSvc := files.NewService(fileStore, blob,
		files.WithLogger(log),
		files.WithNotifier(notifier),
		files.WithMaxUploadSize(appCfg.MaxUploadSize),
		files.WithQuota(appCfg.StorageQuota),
	)

	healthChecks := []func(context.Context) error{
		mongodb.Healthcheck(db.Client()),
	}

	var limiterStore ratelimit.Store = ratelimit.NewMemoryStore()
	if appCfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(appCfg.RedisURL)
		if err != nil {
			fatal(log, "failed to parse redis url", err)
		}
		redisClient := redis.NewClient(redisOpts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			fatal(log, "failed to connect to redis", err)
		}
		defer func() { _ = redisClient.Close() }()

		limiterStore = ratelimit.NewRedisStore(redisClient, "otp")
		healthChecks = append(healthChecks, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	otpLimiter, err := ratelimit.NewBucket(limiterStore, ratelimit.Config{
		Capacity:       appCfg.OTPBurst,
		RefillRate:     1,
		RefillInterval: appCfg.OTPRefillInterval,
	})
	if err != nil {
		fatal(log, "failed to initialize rate limiter", err)
	}

	router := handler.NewRouter(handler.RouterDeps{
		Auth:          authSvc,
		Files:         fileSvc,
		Sessions:      sessions,
		OTPLimiter:    otpLimiter,
		MaxUploadSize: appCfg.MaxUploadSize,
		Logger:        log,
		HealthChecks:  healthChecks,
	})

	srv := httpserver.New(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, router); err != nil {
		fatal(log, "http server exited with error", err)
	}
	log.Info("server stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, logger.Error(err))
	os.Exit(1)
}
