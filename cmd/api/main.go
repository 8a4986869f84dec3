package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caravanly/caravan-api/internal/application/auth"
	"github.com/caravanly/caravan-api/internal/application/billing"
	"github.com/caravanly/caravan-api/internal/application/match"
	"github.com/caravanly/caravan-api/internal/application/notification"
	"github.com/caravanly/caravan-api/internal/application/session"
	"github.com/caravanly/caravan-api/internal/application/user"
	"github.com/caravanly/caravan-api/internal/application/vouch"
	"github.com/caravanly/caravan-api/internal/config"
	"github.com/caravanly/caravan-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/caravanly/caravan-api/internal/infrastructure/jwt"
	s3infra "github.com/caravanly/caravan-api/internal/infrastructure/s3"
	"github.com/caravanly/caravan-api/internal/infrastructure/smtp"
	"github.com/caravanly/caravan-api/internal/infrastructure/sns"
	transporthttp "github.com/caravanly/caravan-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for profile photos.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional, notifications degrade to in-app only).
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users)
	sessionRepo := dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions)
	otpRepo := dynamo.NewOtpRepo(dynamoClient, cfg.DynamoTables.OtpCodes)
	matchRepo := dynamo.NewMatchRequestRepo(dynamoClient, cfg.DynamoTables.MatchRequests)
	vouchRepo := dynamo.NewVouchRepo(dynamoClient, cfg.DynamoTables.Vouches)
	subscriptionRepo := dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions)
	notificationRepo := dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications)

	notificationSvc := notification.NewService(notification.ServiceDeps{
		NotificationRepo: notificationRepo,
		UserRepo:         userRepo,
		SMS:              smsSender,
	})

	deps := transporthttp.Deps{
		Cfg: cfg,
		JWT: jwtProvider,
		AuthService: auth.NewService(auth.ServiceDeps{
			OtpRepo:         otpRepo,
			UserRepo:        userRepo,
			SessionRepo:     sessionRepo,
			Mailer:          mailer,
			JWTProvider:     jwtProvider,
			OTPExpiry:       cfg.OTPExpiry,
			RefreshTokenDur: cfg.RefreshTokenDur,
		}),
		SessionService: session.NewService(session.ServiceDeps{
			SessionRepo: sessionRepo,
			UserRepo:    userRepo,
			Signer:      jwtProvider,
			RefreshDur:  cfg.RefreshTokenDur,
		}),
		UserService: user.NewService(user.ServiceDeps{
			UserRepo:    userRepo,
			VouchRepo:   vouchRepo,
			SessionRepo: sessionRepo,
			PhotoStore:  s3Store,
			ContentType: s3infra.DetectContentType,
		}),
		MatchService: match.NewService(match.ServiceDeps{
			MatchRepo: matchRepo,
			UserRepo:  userRepo,
			Notifier:  notificationSvc,
		}),
		VouchService: vouch.NewService(vouch.ServiceDeps{
			VouchRepo: vouchRepo,
			UserRepo:  userRepo,
			Notifier:  notificationSvc,
		}),
		BillingService: billing.NewService(billing.ServiceDeps{
			SubscriptionRepo: subscriptionRepo,
		}),
		NotificationService: notificationSvc,
	}

	router := transporthttp.NewRouter(deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
