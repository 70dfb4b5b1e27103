package app

import (
	"database/sql"

	"github.com/kharcha/kharcha/internal/config"
	"github.com/kharcha/kharcha/internal/event_bus"
	"github.com/kharcha/kharcha/internal/storage"
	"github.com/kharcha/kharcha/internal/utils"
	"github.com/kharcha/kharcha/pkg/expense"
	"github.com/kharcha/kharcha/pkg/monthly"
	"github.com/kharcha/kharcha/pkg/stats"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Storage storage.Store
	Bus     *event_bus.EventBus
	Clock   utils.Clock

	ExpenseStore   *expense.Store
	CsvExporter    *expense.CsvExporter
	ExpenseHandler *expense.Handler

	MonthlyService *monthly.Service

	StatsService *stats.StatsService
	StatsHandler *stats.StatsHandler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Storage = storage.NewSQLStore(db, storage.DialectFor(cfg.Database.Type))
	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.ExpenseStore = expense.NewStore(deps.Storage, deps.Bus, deps.Clock)
	deps.CsvExporter = expense.NewCsvExporter()
	deps.ExpenseHandler = expense.NewHandler(deps.ExpenseStore, deps.CsvExporter)

	deps.MonthlyService = monthly.NewService(deps.ExpenseStore, deps.Storage, deps.Clock)
	deps.MonthlyService.Register(deps.Bus)

	deps.StatsService = stats.NewStatsService(deps.ExpenseStore, deps.MonthlyService, deps.Clock)
	deps.StatsHandler = stats.NewStatsHandler(deps.StatsService)

	return deps
}
