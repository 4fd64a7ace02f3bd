package main

import (
	"outreach-api/core/logger"
	"outreach-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
