package main

import (
	"coach-portal-api/core/logger"
	"coach-portal-api/core/server"
)

// @title Coach Portal API
// @version 1.0
// @description Backend for the coaching portal: bookings, messaging, shared documents and calendar sync

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
