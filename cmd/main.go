package main

import (
	"fmt"
	"os"

	"content-factory/application/ports/outbound"
	"content-factory/application/services"
	"content-factory/config"
	"content-factory/infrastructure/adapters"
	"content-factory/infrastructure/gin_interface/controllers"
	"content-factory/middleware"
	mockprovider "content-factory/mock"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	logger := adapters.NewZerologWrapper()

	pipelineConfig := config.GetPipelineConfig()

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(32, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	contentFetcher := adapters.NewContentFetcher(logger)

	mode := services.ModeConfig{
		MockPipeline:    pipelineConfig.MockPipeline,
		ForceLiveUpload: pipelineConfig.ForceLiveUpload,
	}

	live := services.ProviderSet{}

	veoConfig, err := config.GetVeoConfig()
	if err != nil {
		logger.Warn("Generation credentials missing, routing generation to mock provider: " + err.Error())
	} else {
		mode.HasGenerationCredentials = true
		live.Generator = adapters.NewVeoVideoGenerator(contentFetcher, veoConfig, logger)
	}

	youtubeConfig, err := config.GetYoutubeConfig()
	if err != nil {
		logger.Warn("Upload credentials missing, upload leg will be skipped: " + err.Error())
	} else {
		mode.HasUploadCredentials = true
		tokenSource := adapters.NewOauthTokenSource(contentFetcher, youtubeConfig, logger)
		live.Uploader = adapters.NewYoutubeUploader(contentFetcher, youtubeConfig, tokenSource, logger)
	}

	mock := services.ProviderSet{
		Generator: mockprovider.NewMockVideoGenerator(logger),
		Uploader:  mockprovider.NewMockVideoUploader(logger),
	}

	var sess *session.Session
	awsSession := func() *session.Session {
		if sess == nil {
			sess = session.Must(session.NewSessionWithOptions(session.Options{
				SharedConfigState: session.SharedConfigEnable,
			}))
		}
		return sess
	}

	var runRecorder outbound.RunRecorderPort
	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		logger.Info("Run log disabled: " + err.Error())
	} else {
		runRecorder = adapters.NewDynamoRunRecorder(logger, dynamodb.New(awsSession()), dynamoConfig)
	}

	var assetStore outbound.AssetStorePort
	s3Config, err := config.GetS3Config()
	if err != nil {
		logger.Info("Asset archive disabled: " + err.Error())
	} else {
		assetStore = adapters.NewS3AssetStore(logger, s3.New(awsSession()), s3Config)
	}

	pipeline := services.NewContentFactoryPipeline(logger, mode, live, mock, runRecorder, assetStore)

	batchRunner := services.NewBatchRunner(logger, pipeline, workerPool)

	contentFactoryController := controllers.NewContentFactoryController(logger, pipeline, batchRunner)

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if jwksUrl := os.Getenv("JWKS_URL"); jwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(jwksUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		logger.Warn("JWKS_URL not set, API authentication disabled")
	}

	contentFactoryController.RegisterRoutes(router)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
