package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"autoshop-backend/config"
	"autoshop-backend/controllers"
	"autoshop-backend/logger"
	"autoshop-backend/models"
	"autoshop-backend/repository"
	"autoshop-backend/routes"
	"autoshop-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API. Tables are migrated on start. When the digest is
enabled the daily SMS summary is scheduled as well.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	if err := cfg.Validate(); err != nil {
		return err
	}
	taxRate, _ := cfg.TaxRate()
	loc, _ := cfg.Location()

	db, err := openDB(log)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return err
	}

	documentRepo := repository.NewDocumentRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)

	documentService := services.NewDocumentService(
		documentRepo,
		services.NewNumberGenerator(cfg.Documents.NumberMaxAttempts),
		services.DocumentOptions{InsertRetries: cfg.Documents.InsertRetries, Location: loc},
		log,
	)
	customerService := services.NewCustomerService(customerRepo, log)
	catalogService := services.NewCatalogService(catalogRepo, log)
	authService := services.NewAuthService(repository.NewUserRepo(db), cfg.Auth.JWTSecret, cfg.TokenTTL(), log)

	view := services.NewFormatter(taxRate)
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(cfg, routes.Handlers{
		Auth:       controllers.NewAuthController(authService, log),
		Customers:  controllers.NewCustomerController(customerService, view, log),
		Catalog:    controllers.NewCatalogController(catalogService, view, log),
		Lookups:    controllers.NewLookupController(customerService, catalogService, view, log),
		Invoices:   controllers.NewDocumentController(models.KindInvoice, documentService, view, log),
		Quotations: controllers.NewDocumentController(models.KindQuotation, documentService, view, log),
	}, log)
	printRoutes(router, log)

	if cfg.Digest.Enabled {
		digest := newDigestService(db, log)
		if err := digest.StartScheduler(); err != nil {
			return err
		}
		defer digest.Stop()
	}

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: router}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDB(log zerolog.Logger) (*gorm.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("DB_URL is required")
	}
	return config.ConnectDB(cfg.Database, log)
}

func newDigestService(db *gorm.DB, log zerolog.Logger) *services.DigestService {
	taxRate, _ := cfg.TaxRate()
	loc, _ := cfg.Location()
	sender := services.NewTwilioSender(cfg.Digest.TwilioAccountSID, cfg.Digest.TwilioAuthToken, cfg.Digest.TwilioFrom)
	return services.NewDigestService(
		repository.NewDocumentRepo(db),
		repository.NewDigestLogRepo(db),
		sender,
		services.DigestOptions{
			To:       cfg.Digest.To,
			Schedule: cfg.Digest.Schedule,
			TaxRate:  taxRate,
			Location: loc,
		},
		log,
	)
}

func printRoutes(r *gin.Engine, log zerolog.Logger) {
	for _, route := range r.Routes() {
		log.Debug().Str("method", route.Method).Str("path", route.Path).Msg("route")
	}
}
