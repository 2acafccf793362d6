package main

import (
	"context"
	"os"
	"strconv"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog"

	"dataset-agent/handler"
	"dataset-agent/internal/catalog"
	"dataset-agent/internal/integrations/paramstore"
	"dataset-agent/internal/repository"
	"dataset-agent/internal/usecase"
)

func main() {
	ctx := context.Background()
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// ---- Configuration (read only here) ----
	catalogTable := os.Getenv("CATALOG_TABLE") // optional, embedded catalog otherwise
	paramPrefix := os.Getenv("PARAM_PREFIX")   // optional, built-in templates otherwise
	maxMessageLen := envInt("MAX_MESSAGE_LENGTH", 500)

	// ---- AWS SDK config, only when a remote dependency is configured ----
	var params usecase.ParamGetter
	cat, err := catalog.Embedded()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load embedded catalog")
	}

	if catalogTable != "" || paramPrefix != "" {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load AWS config")
		}

		if catalogTable != "" {
			loader, err := repository.New(awsdynamodb.NewFromConfig(cfg), catalogTable)
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create catalog loader")
			}
			records, err := loader.LoadCatalog(ctx)
			if err != nil {
				log.Fatal().Err(err).Str("table", catalogTable).Msg("failed to load catalog table")
			}
			cat, err = catalog.New(records)
			if err != nil {
				log.Fatal().Err(err).Str("table", catalogTable).Msg("catalog table holds invalid records")
			}
			log.Info().Int("records", cat.Len()).Str("table", catalogTable).Msg("catalog loaded from DynamoDB")
		}

		if paramPrefix != "" {
			ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
			if err != nil {
				log.Fatal().Err(err).Msg("failed to create SSM client")
			}
			params = ssmClient
		}
	}

	// ---- Handler ----
	chatService, err := usecase.NewChatService(cat, params, paramPrefix, maxMessageLen)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create chat service")
	}

	h, err := handler.NewHandler(chatService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create handler")
	}

	lambda.Start(h.Handle)
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
