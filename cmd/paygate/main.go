package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cacguide/paygate/internal/config"
	"github.com/cacguide/paygate/internal/confirm"
	"github.com/cacguide/paygate/internal/gateway"
	"github.com/cacguide/paygate/internal/http_api"
	"github.com/cacguide/paygate/internal/identity"
	"github.com/cacguide/paygate/internal/notificator"
	"github.com/cacguide/paygate/internal/repository"
	"github.com/cacguide/paygate/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "paygate",
		Usage: "Paygate confirms course-guide payments and provisions buyer accounts",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "postgres-user", Aliases: []string{"u"}, Usage: "Postgres user"},
			&cli.StringFlag{Name: "postgres-password", Aliases: []string{"p"}, Usage: "Postgres password"},
			&cli.StringFlag{Name: "postgres-host", Aliases: []string{"t"}, Usage: "Postgres host"},
			&cli.IntFlag{Name: "postgres-port", Aliases: []string{"P"}, Usage: "Postgres port"},
			&cli.StringFlag{Name: "postgres-db", Aliases: []string{"d"}, Usage: "Postgres database name"},
			&cli.StringFlag{Name: "paystack-secret-key", Aliases: []string{"k"}, Usage: "Paystack secret key"},
			&cli.StringFlag{Name: "site-url", Aliases: []string{"s"}, Usage: "Public site URL"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"a"}, Usage: "API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Override with flags if set
	if c.IsSet("postgres-user") {
		cfg.PostgresUser = c.String("postgres-user")
	}
	if c.IsSet("postgres-password") {
		cfg.PostgresPassword = c.String("postgres-password")
	}
	if c.IsSet("postgres-host") {
		cfg.PostgresHost = c.String("postgres-host")
	}
	if c.IsSet("postgres-port") {
		cfg.PostgresPort = c.Int("postgres-port")
	}
	if c.IsSet("postgres-db") {
		cfg.PostgresDB = c.String("postgres-db")
	}
	if c.IsSet("paystack-secret-key") {
		cfg.PaystackSecretKey = c.String("paystack-secret-key")
	}
	if c.IsSet("site-url") {
		cfg.SiteURL = c.String("site-url")
	}
	if c.IsSet("api-port") {
		cfg.APIPort = c.Int("api-port")
	}
	if c.IsSet("development") {
		cfg.Development = c.Bool("development")
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize database
	db, err := repository.NewPostgresDB(cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDB, cfg.PostgresHost, cfg.PostgresPort, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize payment gateway client
	callbackURL := cfg.SiteURL + "/api/v1/paystack/verify"
	paystack := gateway.NewPaystack(cfg.PaystackBaseURL, cfg.PaystackSecretKey, callbackURL, cfg.GatewayTimeout, log)

	// Initialize identity store client
	identities := identity.NewAdminClient(cfg.AuthAdminURL, cfg.AuthAdminKey, cfg.GatewayTimeout, log)

	// Initialize notification channels
	emailNotif := notificator.NewEmailNotificator(log, cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPSender)
	var telegramNotif *notificator.TelegramNotificator
	if cfg.TelegramBotToken != "" && cfg.TelegramOpsChatID != "" {
		telegramNotif, err = notificator.NewTelegramNotificator(log, cfg.TelegramBotToken, cfg.TelegramOpsChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
	} else {
		log.Warn("Telegram operator alerts are not configured")
	}
	notif := notificator.NewNotificator(log, db, emailNotif, telegramNotif)

	// Create the confirmation flow engine
	confirmer := confirm.NewConfirmer(db, identities, paystack, notif, log, cfg)

	// Start the API server
	apiServer := http_api.NewHTTPServer(confirmer, paystack, db, cfg, log)
	apiServer.Start()

	return nil
}
