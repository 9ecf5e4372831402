package container

import (
	"database/sql"
	"log"

	"prodtrack/internal/alerts"
	auditLogRepo "prodtrack/internal/auditlog"
	"prodtrack/internal/integrations/sheets"
	"prodtrack/internal/integrations/tracker"
	"prodtrack/internal/logbook"
	"prodtrack/internal/orders"
	"prodtrack/internal/production"
	"prodtrack/internal/reports"
	"prodtrack/internal/repository"
	"prodtrack/internal/revisions"
	"prodtrack/internal/users"
	"prodtrack/pkg/auditlog"
	"prodtrack/pkg/security"
)

type Container struct {
	Repository        *repository.Repository
	AuditLog          *auditlog.Auditlog
	LoginHandler      *security.LoginHandler
	OrderHandler      *orders.OrderHandler
	ProductionHandler *production.ProductionHandler
	AlertHandler      *alerts.AlertHandler
	LogbookHandler    *logbook.Handler
	RevisionHandler   *revisions.Handler
	ReportHandler     *reports.ReportHandler
	UserHandler       *users.UsersHandler
	AuditLogHandler   *auditLogRepo.Handler
}

func NewAppContainer(db *sql.DB) *Container {
	repo := repository.NewRepository(db)

	auditRepo := auditLogRepo.NewRepository(repo)
	auditLog := auditlog.NewAuditLog(auditRepo)

	loginHandler := security.NewLoginHandler(repo)

	orderRepo := orders.NewRepository(repo)
	orderService := orders.NewService(repo, orderRepo)
	orderHandler := orders.NewHandler(orderService, orderRepo, auditLog)

	alertRepo := alerts.NewRepository(repo)
	alertService := alerts.NewService(alertRepo)
	alertHandler := alerts.NewHandler(alertService, alertRepo, auditLog)

	trackerService := tracker.NewTrackerService()

	productionRepo := production.NewRepository(repo)
	productionService := production.NewService(repo, productionRepo, alertRepo, orderRepo)
	productionHandler := production.NewHandler(productionService, productionRepo, auditLog, trackerService)

	logbookHandler := logbook.NewHandler(repo)

	revisionRepo := revisions.NewRepository(repo)
	revisionService := revisions.NewService(repo, revisionRepo)
	revisionHandler := revisions.NewHandler(revisionService, revisionRepo)

	reportRepo := reports.NewRepository(repo)
	reportHandler := reports.NewHandler(reportRepo, newExporter())

	userRepo := users.NewRepository(repo)
	userHandler := users.NewHandler(userRepo)

	auditLogHandler := auditLogRepo.NewHandler(auditRepo)

	return &Container{
		Repository:        repo,
		AuditLog:          auditLog,
		LoginHandler:      loginHandler,
		OrderHandler:      orderHandler,
		ProductionHandler: productionHandler,
		AlertHandler:      alertHandler,
		LogbookHandler:    logbookHandler,
		RevisionHandler:   revisionHandler,
		ReportHandler:     reportHandler,
		UserHandler:       userHandler,
		AuditLogHandler:   auditLogHandler,
	}
}

// newExporter keeps the sheets integration optional: without credentials
// the export endpoint reports itself unconfigured instead of failing boot.
func newExporter() reports.SummaryExporter {
	exporter, err := sheets.NewExportService()
	if err != nil {
		log.Printf("Sheets export disabled: %v", err)
		return nil
	}
	return exporter
}
