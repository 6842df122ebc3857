package http

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/readyz", s.handleReadyz)
	s.engine.GET("/metrics", metricsHandler())

	// Download links arrive by email and cannot carry a bearer token.
	s.engine.GET("/api/export/download/:token", s.handleExportDownload)

	api := s.engine.Group("/api")
	if s.cfg.BearerToken != "" {
		api.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}

	api.GET("/health", s.handleHealth)

	states := api.Group("/states")
	{
		states.GET("", s.handleListStates)
		states.GET("/:stateCode", s.handleGetState)
		states.GET("/:stateCode/wells", s.handleListStateWells)
	}

	sim := api.Group("/simulation")
	{
		sim.GET("/:stateCode", s.handleSnapshot)
		sim.GET("/:stateCode/daterange", s.handleDateRange)
		sim.GET("/:stateCode/timeseries", s.handleDistrictSeries)
		sim.GET("/:stateCode/:wellId", s.handleWell)
	}

	exports := api.Group("/export")
	{
		exports.POST("/request", newRateLimiter(s.cfg.ExportRatePerMinute, s.clock).middleware(s.metrics), s.handleExportRequest)
		exports.GET("/status/:token", s.handleExportStatus)
	}
}
