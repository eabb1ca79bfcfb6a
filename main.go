package main

import (
	"DocVault/config"
	"DocVault/internal/repo"
	"DocVault/internal/storage"
	"DocVault/router"
	"log"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	repo.InitMysql()
	repo.InitRedis()
	storage.InitStorage()

	r := router.InitRouter()

	if err := r.Run(":" + config.AppConfig.Port); err != nil {
		log.Fatal("server stopped: ", err)
	}
}
