package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bodycomp-io/bodycomp-api/infrastructure"
	"github.com/bodycomp-io/bodycomp-api/usecase"
)

var (
	uploadFile     string
	uploadDevice   string
	uploadDateFrom string
	uploadDateTo   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Parse an export file and upsert its measurements",
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadFile, "file", "f", "", "path of the export file (required)")
	uploadCmd.Flags().StringVar(&uploadDevice, "device", "", "only ingest rows of this device id")
	uploadCmd.Flags().StringVar(&uploadDateFrom, "date-from", "", "only ingest rows on or after this date (YYYY-MM-DD)")
	uploadCmd.Flags().StringVar(&uploadDateTo, "date-to", "", "only ingest rows on or before this date (YYYY-MM-DD)")
	_ = uploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	logger := logrus.New()
	if viper.GetBool("debug") {
		logger.SetLevel(logrus.DebugLevel)
	}

	mongoURI := viper.GetString("mongo-uri")
	database := viper.GetString("database")
	if mongoURI == "" || database == "" {
		return errors.New("mongo-uri and database must be set (flags or BODYCOMP_* env)")
	}

	ctx := context.Background()
	storeClient, err := infrastructure.NewStoreClient(ctx, mongoURI, database, logger)
	if err != nil {
		return err
	}
	defer storeClient.Close()

	repo, err := infrastructure.NewMeasurementMongoRepository(ctx, storeClient)
	if err != nil {
		return err
	}

	ingester := usecase.NewIngester(logger, repo)
	result, err := ingester.IngestFile(ctx, uploadFile, usecase.NormalizeOptions{
		DeviceID: uploadDevice,
		DateFrom: uploadDateFrom,
		DateTo:   uploadDateTo,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Inserted: %d, Updated: %d\n", result.Inserted, result.Updated)
	return nil
}
