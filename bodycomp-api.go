// @title Bodycomp API
// @version 1.0.0
// @description Data access API for body-composition measurements
// @accept json
// @produce json
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	easy "github.com/t-tomalak/logrus-easy-formatter"
	muxprom "gitlab.com/msvechla/mux-prometheus/pkg/middleware"

	"github.com/bodycomp-io/bodycomp-api/api"
	"github.com/bodycomp-io/bodycomp-api/config"
	"github.com/bodycomp-io/bodycomp-api/infrastructure"
	"github.com/bodycomp-io/bodycomp-api/usecase"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05",
		LogFormat:       "%time% [%lvl%] " + api.DataAPIPrefix + "%msg%\n",
	})

	cfg, err := config.FromEnv()
	if err != nil {
		logger.Fatal("Problem loading config: ", err)
	}
	if cfg.ExportBucket == "" {
		logger.Fatal("Env var BODYCOMP_EXPORT_BUCKET is not provided or empty")
	}

	// AWS part configuration
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if cfg.S3EndpointURL != "" {
			logger.Info("Using custom s3 endpoint: ", cfg.S3EndpointURL)
			return aws.Endpoint{
				PartitionID:       "aws",
				URL:               cfg.S3EndpointURL,
				SigningRegion:     region,
				HostnameImmutable: true,
			}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})
	awscfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithEndpointResolverWithOptions(customResolver),
		awsconfig.WithRegion(cfg.AwsRegion))
	if err != nil {
		logger.Fatal(err)
	}
	s3Client := s3.NewFromConfig(awscfg)
	uploader, err := infrastructure.NewS3Uploader(s3Client, cfg.ExportBucket)
	if err != nil {
		logger.Fatal(err)
	}

	storeClient, err := infrastructure.NewStoreClient(context.Background(), cfg.MongoURI, cfg.DatabaseName, logger)
	if err != nil {
		logger.Fatal(err)
	}
	defer storeClient.Close()

	measurementRepository, err := infrastructure.NewMeasurementMongoRepository(context.Background(), storeClient)
	if err != nil {
		logger.Fatal(err)
	}

	/*
	 * Instrumentation setup
	 */
	instrumentation := muxprom.NewCustomInstrumentation(true, "bodycomp", "api", prometheus.DefBuckets, nil, prometheus.DefaultRegisterer)

	rtr := mux.NewRouter()
	rtr.Use(instrumentation.Middleware)
	rtr.Path("/metrics").Handler(promhttp.Handler())

	/*
	 * Data-Api setup
	 */
	chartData := usecase.NewChartDataUseCase(logger, measurementRepository, cfg.WeightHigherIsBetter())
	exporter := usecase.NewExporter(logger, measurementRepository, uploader)

	bodycompAPI := api.InitAPI(chartData, exporter, storeClient, logger)
	bodycompAPI.SetHandlers("", rtr)

	// ability to return compressed (gzip/deflate) responses if client browser accepts it
	// this is interesting to minimise network traffic especially for long
	// measurement range responses
	gzipHandler := handlers.CompressHandler(rtr)

	done := make(chan bool)
	server := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: gzipHandler,
	}

	// Wait for SIGINT (Ctrl+C) or SIGTERM to stop the service
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		for {
			<-sigc
			storeClient.Close()
			server.Close()
			done <- true
		}
	}()

	logger.Info("serving on ", cfg.ListenAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(err)
	}

	<-done
}
