package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"enel-smeta/app/controller"
	"enel-smeta/app/router"
	"enel-smeta/config"
	"enel-smeta/db"
	"enel-smeta/metrics"
	"enel-smeta/repository"
	"enel-smeta/service"
)

// App is the wired HTTP application
type App struct {
	Engine  *gin.Engine
	closers []func() error
}

// Initialize initializes the application: Google clients, renderers, the Telegram notifier and routes.
// The notifier polls updates until ctx is cancelled.
func Initialize(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}

	a := &App{}
	rec := metrics.New(nil)

	sheetsService, err := service.NewSheetsService(ctx, cfg.Google.CredentialsPath, service.SheetsOptions{
		SpreadsheetID: cfg.Google.SpreadsheetID,
		TableRange:    cfg.Google.TableRange,
		SheetName:     cfg.Google.SheetName,
		CellMapping:   cfg.Google.CellMapping,
	}, log)
	if err != nil {
		return nil, err
	}

	var archive service.DriveServiceInterface
	if cfg.Google.ArchiveFolderID != "" {
		driveService, err := service.NewDriveService(ctx, cfg.Google.CredentialsPath, cfg.Google.ArchiveFolderID, log)
		if err != nil {
			return nil, err
		}
		archive = driveService
		log.Info().Str("folder_id", cfg.Google.ArchiveFolderID).Msg("🗄️  Quote archive enabled")
	}

	renderOpts := service.RenderOptions{
		ChromePath: cfg.PDF.ChromePath,
		Timeout:    cfg.PDF.RenderTimeout,
		FontPath:   cfg.PDF.FontPath,
	}
	pages, err := service.NewRenderService(renderOpts, log)
	if err != nil {
		return nil, err
	}

	var pdf service.PDFRenderer = pages
	if cfg.PDF.Engine == config.PDFEngineFPDF {
		fpdfRenderer, err := service.NewFPDFRenderer(cfg.PDF.FontPath)
		if err != nil {
			return nil, err
		}
		pdf = fpdfRenderer
	}
	log.Info().Str("engine", pdf.Engine()).Msg("🖨️  PDF engine selected")

	var geo service.GeoLookup
	if cfg.GeoIPPath != "" {
		lookup, err := service.NewGeoIPLookup(cfg.GeoIPPath, log)
		if err != nil {
			log.Warn().Err(err).Msg("⚠️  GeoIP disabled")
		} else {
			geo = lookup
			a.closers = append(a.closers, lookup.Close)
		}
	}
	resolver := service.NewClientInfoResolver(geo)

	var notifier *service.Notifier
	if cfg.Telegram.Token != "" {
		notifier, err = a.startNotifier(ctx, cfg, rec, log)
		if err != nil {
			a.Close()
			return nil, err
		}
	} else {
		log.Warn().Msg("⚠️  TELEGRAM_BOT_TOKEN is not set, notifications disabled")
	}

	quotes := service.NewQuoteService(service.QuoteServiceDeps{
		Source:  sheetsService,
		Company: cfg.Company,
		PDF:     pdf,
		Pages:   pages,
		Archive: archive,
		Metrics: rec,
		Log:     log,
	})

	var activity controller.ActivityNotifier
	if notifier != nil {
		activity = notifier
	}

	controllers := &router.Controllers{
		Sheet: controller.NewSheetController(sheetsService, quotes, activity, resolver, log),
		Quote: controller.NewQuoteController(quotes, activity, resolver, cfg.Telegram.NotifyOnDownload, log),
		Admin: controller.NewAdminController(activity, archive, log),
	}

	a.Engine = router.SetupRoutes(controllers, router.Options{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AdminToken:     cfg.HTTP.AdminToken,
		Metrics:        rec,
		Log:            log,
	})
	return a, nil
}

// startNotifier picks the subscriber store, loads it and starts polling bot updates
func (a *App) startNotifier(ctx context.Context, cfg *config.Config, rec *metrics.Recorder, log zerolog.Logger) (*service.Notifier, error) {
	client, err := service.NewTelegramClient(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to start telegram bot: %w", err)
	}

	var repo repository.SubscriberRepositoryInterface
	if cfg.DB.URL != "" {
		if err := db.InitDB(ctx, cfg.DB.URL, log); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.closers = append(a.closers, db.CloseDB)
		repo = repository.NewSubscriberRepository(db.DB, log)
	} else {
		repo = repository.NewSubscriberFileRepository(cfg.Telegram.ChatIDsFile, log)
	}

	notifier := service.NewNotifier(client, repo, rec, log)
	if err := notifier.Init(ctx); err != nil {
		return nil, err
	}
	go notifier.Run(ctx)
	return notifier, nil
}

// Close releases the database connection and the GeoIP reader
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
}
