package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/config"
	"github.com/bbernstein/stopfinder/internal/handler"
	"github.com/bbernstein/stopfinder/internal/lookup"

	_ "time/tzdata"
)

var (
	lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests
	stopHandler *handler.StopHandler
	setupOnce   sync.Once
)

var serviceFactory lookup.ServiceFactory = &lookup.DefaultServiceFactory{}

func setup() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		svc, err := serviceFactory.NewService(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid configuration")
		}

		stopHandler = handler.NewStopHandler(svc)
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return stopHandler.HandleRequest(ctx, request)
}

func main() {
	setup()
	lambdaStart(handleRequest)
}
