package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "github.com/AcryCxde/shift-report/http-server/admin/get"
	saveadmin "github.com/AcryCxde/shift-report/http-server/admin/save"
	upadmin "github.com/AcryCxde/shift-report/http-server/admin/update"
	getanalytics "github.com/AcryCxde/shift-report/http-server/analytics/get"
	createblanks "github.com/AcryCxde/shift-report/http-server/blanks/create"
	getblanks "github.com/AcryCxde/shift-report/http-server/blanks/get"
	upblanks "github.com/AcryCxde/shift-report/http-server/blanks/update"
	generate_excel "github.com/AcryCxde/shift-report/http-server/generate-report/generate-excel"
	csvhandlers "github.com/AcryCxde/shift-report/http-server/import-export"
	getmeasures "github.com/AcryCxde/shift-report/http-server/measures/get"
	savemeasures "github.com/AcryCxde/shift-report/http-server/measures/save"
	getmonitoring "github.com/AcryCxde/shift-report/http-server/monitoring/get"
	uprecords "github.com/AcryCxde/shift-report/http-server/records/update"
	"github.com/AcryCxde/shift-report/internal/auth"
	"github.com/AcryCxde/shift-report/internal/config"
	mwauth "github.com/AcryCxde/shift-report/internal/middleware/auth"
	"github.com/AcryCxde/shift-report/internal/service/analytics"
	"github.com/AcryCxde/shift-report/internal/service/blank"
	"github.com/AcryCxde/shift-report/internal/service/excel"
	"github.com/AcryCxde/shift-report/internal/service/importexport"
	"github.com/AcryCxde/shift-report/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage,
	blankService *blank.Service, analyticsService *analytics.Service,
	importExportService *importexport.Service, excelService *excel.ExcelService) *chi.Mux {

	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Personnel-Number", "X-Pin"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// Просмотр бланков доступен любому сотруднику
	router.Group(func(r chi.Router) {
		r.Use(mwauth.PinAuth(log, storage, auth.CapFillActual))

		r.Get("/api/blanks", getblanks.ListBlanks(log, storage))
		r.Get("/api/blanks/{id}", getblanks.GetBlank(log, storage))
		r.Get("/api/blanks/{id}/completion", getblanks.CurrentCompletion(log, blankService))

		// Ввод факта за час
		r.Put("/api/records/{id}/actual", uprecords.ApplyActual(log, blankService))
	})

	// Создание и пересчёт бланков — мастер и выше
	router.Group(func(r chi.Router) {
		r.Use(mwauth.PinAuth(log, storage, auth.CapCreateBlank))

		r.Post("/api/blanks", createblanks.NewBlank(log, blankService))
		r.Post("/api/blanks/from-template", createblanks.FromTemplate(log, blankService))
		r.Post("/api/blanks/sector", createblanks.ForSector(log, blankService))
		r.Put("/api/blanks/{id}/recalculate", upblanks.Recalculate(log, blankService))

		// Меры, принятые по отклонениям
		r.Get("/api/deviations/{id}/measures", getmeasures.ListMeasures(log, storage))
		r.Post("/api/deviations/{id}/measures", savemeasures.SaveMeasure(log, storage))
	})

	router.With(mwauth.PinAuth(log, storage, auth.CapCloseBlank)).
		Put("/api/blanks/{id}/status", upblanks.UpdateStatus(log, storage))

	router.Group(func(r chi.Router) {
		r.Use(mwauth.PinAuth(log, storage, auth.CapViewMonitoring))

		r.Get("/api/monitoring", getmonitoring.SectorMonitoring(log, storage))
		r.Get("/api/report/excel/{id}", generate_excel.BlankReportExcel(log, excelService))
	})

	router.Group(func(r chi.Router) {
		r.Use(mwauth.PinAuth(log, storage, auth.CapViewAnalytics))

		r.Get("/api/analytics/dashboard", getanalytics.Dashboard(log, analyticsService))
		r.Get("/api/analytics/dynamics", getanalytics.DailyDynamics(log, analyticsService))
		r.Get("/api/analytics/categories", getanalytics.DeviationCategories(log, analyticsService))
		r.Get("/api/analytics/top-reasons", getanalytics.TopReasons(log, analyticsService))
		r.Get("/api/analytics/workplaces", getanalytics.WorkplaceComparison(log, analyticsService))
		r.Get("/api/analytics/shifts", getanalytics.ShiftComparison(log, analyticsService))
		r.Get("/api/analytics/hourly", getanalytics.HourlyPattern(log, analyticsService))
		r.Get("/api/analytics/pareto", getanalytics.Pareto(log, analyticsService))
	})

	// Импорт и экспорт справочников и отчётов, CSV
	router.Group(func(r chi.Router) {
		r.Use(mwauth.PinAuth(log, storage, auth.CapImportExport))

		r.Post("/api/import/{entity}", csvhandlers.ImportCSV(log, importExportService))
		r.Get("/api/export/{entity}", csvhandlers.ExportCSV(log, importExportService))
		r.Get("/api/export/reports/blanks", csvhandlers.ExportBlanksReport(log, importExportService))
		r.Get("/api/export/reports/deviations", csvhandlers.ExportDeviationsReport(log, importExportService))
	})

	// Админка: справочники и шаблоны
	adminRouter := chi.NewRouter()
	adminRouter.Use(mwauth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/workshops", getadmin.GetWorkshops(log, storage))
	adminRouter.Post("/workshops", saveadmin.SaveWorkshop(log, storage))
	adminRouter.Get("/sectors", getadmin.GetSectors(log, storage))
	adminRouter.Post("/sectors", saveadmin.SaveSector(log, storage))
	adminRouter.Get("/workplaces", getadmin.GetWorkplaces(log, storage))
	adminRouter.Post("/workplaces", saveadmin.SaveWorkplace(log, storage))
	adminRouter.Get("/products", getadmin.GetProducts(log, storage))
	adminRouter.Post("/products", saveadmin.SaveProduct(log, storage))
	adminRouter.Get("/shifts", getadmin.GetShifts(log, storage))
	adminRouter.Post("/shifts", saveadmin.SaveShift(log, storage))
	adminRouter.Get("/deviation-groups", getadmin.GetDeviationGroups(log, storage))
	adminRouter.Post("/deviation-groups", saveadmin.SaveDeviationGroup(log, storage))
	adminRouter.Get("/deviation-reasons", getadmin.GetDeviationReasons(log, storage))
	adminRouter.Post("/deviation-reasons", saveadmin.SaveDeviationReason(log, storage))
	adminRouter.Get("/employees", getadmin.GetEmployees(log, storage))
	adminRouter.Post("/employees", saveadmin.SaveEmployee(log, storage))
	adminRouter.Get("/templates", getadmin.GetTemplates(log, storage))
	adminRouter.Post("/templates", saveadmin.SaveTemplate(log, storage))
	adminRouter.Put("/templates/{id}", upadmin.UpdateTemplate(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
