package main

import (
	"flag"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"newsdesk/config"
	"newsdesk/database"
	"newsdesk/handlers"
	"newsdesk/news"
	"newsdesk/report"
	"newsdesk/tasks"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log := logrus.WithField("app", "newsdesk")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("config load failed")
	}

	if err := database.Init(cfg); err != nil {
		log.WithError(err).Fatal("database init failed")
	}
	if cfg.DevSeed {
		if err := database.SeedCreditRisk(); err != nil {
			log.WithError(err).Fatal("credit risk seed failed")
		}
	}

	// shared services
	fetcher := news.NewFetcher(cfg.NewsAPIKey, cfg.NewsCacheFile, cfg.NewsCacheTTL,
		log.WithField("component", "news"))
	store := database.CompanyStore{DB: database.GetRiskDB()}
	generator := report.NewGenerator(store, cfg.ReportDir, log.WithField("component", "report"))
	notifier := tasks.NewNotifier(cfg, log.WithField("component", "notify"))

	// background queue and schedulers
	queue := tasks.NewMemoryQueue(128, 4, log.WithField("component", "queue"))
	checker := tasks.NewAlertChecker(database.GetDB(), database.GetRiskDB(), notifier,
		log.WithField("component", "alerts"))
	runner := tasks.NewReportRunner(database.GetDB(), generator, notifier,
		log.WithField("component", "reports"))
	queue.Register(tasks.JobCheckAlert, checker.HandleCheckAlert)
	queue.Register(tasks.JobGenerateReport, runner.HandleGenerateReport)
	queue.Start()
	defer queue.Stop()

	scheduler := tasks.NewScheduler(database.GetDB(), queue, 0, log.WithField("component", "scheduler"))
	scheduler.Start()
	defer scheduler.Stop()

	handlers.Init(cfg, fetcher, generator, queue, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("newsdesk_session", sessionStore))

	r.Static("/static", "./static")
	r.LoadHTMLGlob("templates/*")

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/dashboard")
	})

	r.GET("/login", handlers.LoginPage)
	r.POST("/login", handlers.Login)
	r.GET("/register", handlers.RegisterPage)
	r.POST("/register", handlers.Register)
	r.GET("/logout", handlers.Logout)

	r.GET("/dashboard", handlers.AuthRequired, handlers.Dashboard)

	api := r.Group("/api", handlers.AuthRequired)
	{
		api.GET("/industries", handlers.GetIndustries)
		api.POST("/industries", handlers.AddIndustry)
		api.DELETE("/industries/:name", handlers.DeleteIndustry)

		api.GET("/companies", handlers.GetCompanies)
		api.GET("/companies/stats", handlers.GetCompanyStats)
		api.GET("/companies/geo", handlers.GetGeoDistribution)
		api.GET("/companies/:name", handlers.GetCompany)

		api.POST("/reports/generate", handlers.GenerateReport)
		api.GET("/reports", handlers.GetReports)
		api.GET("/reports/download/:filename", handlers.DownloadReport)
		api.POST("/reports/schedule", handlers.CreateScheduledReport)
		api.GET("/reports/schedule", handlers.GetScheduledReports)
		api.DELETE("/reports/schedule/:id", handlers.DeleteScheduledReport)
		api.GET("/reports/schedule/:id/history", handlers.GetReportHistory)

		api.POST("/alerts", handlers.CreateAlert)
		api.GET("/alerts", handlers.GetAlerts)
		api.DELETE("/alerts/:id", handlers.DeleteAlert)
		api.GET("/notifications", handlers.GetNotifications)
		api.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	}

	log.WithField("addr", cfg.Addr).Info("starting credit risk dashboard")
	if err := r.Run(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
