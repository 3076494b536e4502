// Package waiterapi provides the API to manage coffees and customer orders.
package main

import (
	"github.com/rs/zerolog/log"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/cmd/httpserver"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/middleware"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/configpkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	server, err := httpserver.New(db, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("WAITER API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
