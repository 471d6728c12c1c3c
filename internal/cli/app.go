// Package cli implements the interactive Wayfarer shell. It is a thin
// layer over the session manager and the registration service; all
// lifecycle and upload logic lives below it.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/wayfarer-app/wayfarer/internal/config"
	"github.com/wayfarer-app/wayfarer/internal/exchange"
	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/registration"
	"github.com/wayfarer-app/wayfarer/internal/session"
	"github.com/wayfarer-app/wayfarer/internal/sessionstore"
	"github.com/wayfarer-app/wayfarer/internal/upload"

	_ "modernc.org/sqlite"
)

type App struct {
	config       *config.Config
	sessions     *session.Manager
	registration *registration.Service
	logger       logging.Logger
	reader       *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := sessionstore.OpenDatabase(ctx, cfg.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session db init error: %w", err)
	}

	store := sessionstore.NewSQLiteStore(db)
	exchangeClient := exchange.NewHTTPClient(cfg.ExchangeEndpointURL, cfg.ExchangeAPIKey, cfg.RequestTimeout)
	sessions := session.NewManager(exchangeClient, store, logger)

	uploader, err := upload.NewS3Uploader(ctx, upload.ObjectStorageConfig{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	compressor := &upload.ImageCompressor{
		MaxBytes:     cfg.MaxFileBytes,
		MaxDimension: cfg.MaxImageDimension,
	}
	pipeline := upload.NewPipeline(compressor, uploader, cfg.UploadConcurrency, logger)
	records := registration.NewHTTPRecordClient(cfg.RecordsEndpointURL, cfg.RequestTimeout)
	regService := registration.NewService(sessions, pipeline, uploader, records, logger)

	return &App{
		config:       cfg,
		sessions:     sessions,
		registration: regService,
		logger:       logger,
		reader:       bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) prompt() string {
	sess := a.sessions.Current()
	if sess.Authenticated() {
		name := sess.UserName
		if name == "" {
			name = sess.UserEmail
		}
		return fmt.Sprintf("wayfarer (%s)> ", name)
	}
	return "wayfarer> "
}

// Run rehydrates the persisted session and enters the command loop.
func (a *App) Run(ctx context.Context) error {
	if _, err := a.sessions.Rehydrate(ctx); err != nil {
		a.logger.Warn(ctx, "session rehydration failed", "error", err)
	}
	if a.sessions.Current().Authenticated() {
		fmt.Printf("Welcome back, %s.\n", a.sessions.Current().UserEmail)
	}

	fmt.Println("Wayfarer CLI (type 'help' for commands)")

	expiryAnnounced := false
	for {
		if a.sessions.DidAutoLogout() {
			if !expiryAnnounced {
				fmt.Println("Your session expired and you were signed out.")
				expiryAnnounced = true
			}
		} else {
			expiryAnnounced = false
		}

		fmt.Print(a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return nil
		}

		switch cmd := strings.TrimSpace(line); cmd {
		case "":
		case "help":
			a.Help()
		case "login":
			a.Login(ctx, exchange.IntentLogin)
		case "signup":
			a.Login(ctx, exchange.IntentSignup)
		case "register":
			a.Register(ctx)
		case "whoami":
			a.WhoAmI()
		case "logout":
			a.Logout(ctx)
		case "exit", "quit":
			return nil
		default:
			fmt.Printf("unknown command: %s\n", cmd)
		}
	}
}

func (a *App) Help() {
	fmt.Println(`Commands:
  login     sign in with email and password
  signup    create an account and sign in
  register  submit a traveller registration with photos
  whoami    show the current session
  logout    sign out
  exit      leave the shell`)
}
