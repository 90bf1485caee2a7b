// Command import_csv loads a voucher catalogue from a CSV file into MongoDB.
//
//	go run ./cmd/scripts vouchers.csv
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zulvanavito/Plastira/internal/config"
	mongorepo "github.com/zulvanavito/Plastira/internal/repositories/mongodb"
	"github.com/zulvanavito/Plastira/internal/utils"
	"github.com/zulvanavito/Plastira/pkg/logger"
	"github.com/zulvanavito/Plastira/pkg/mongodb"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	zlog, err := logger.New(config.GetEnv("LOGLEVEL", "info"))
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	mongoURI := config.GetEnv("MONGODB_URI", "")
	if mongoURI == "" {
		zlog.Fatal("MONGODB_URI environment variable is required")
	}
	dbName := config.GetEnv("MONGODB_DATABASE", "plastira")
	timeout := time.Duration(config.GetEnvAsInt("MONGODB_CONNECTTIMEOUTSECONDS", 10)) * time.Second

	// Get CSV file path from command line arguments
	if len(os.Args) < 2 {
		zlog.Fatal("CSV file path is required as a command line argument")
	}
	csvFilePath := os.Args[1]

	file, err := os.Open(csvFilePath)
	if err != nil {
		zlog.Fatal("Failed to open CSV file", zap.String("path", csvFilePath), zap.Error(err))
	}
	defer file.Close()

	rows, rowErrs, err := utils.ReadVouchersCSV(file)
	if err != nil {
		zlog.Fatal("Failed to read CSV file", zap.String("path", csvFilePath), zap.Error(err))
	}
	for _, rowErr := range rowErrs {
		zlog.Warn("Skipping row", zap.Error(rowErr))
	}

	ctx := context.Background()
	client, err := mongodb.NewClient(ctx, mongoURI, dbName, timeout)
	if err != nil {
		zlog.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	vouchers := mongorepo.NewVoucherRepository(client.Database())

	imported := 0
	for _, row := range rows {
		if err := vouchers.Create(ctx, row.Voucher); err != nil {
			zlog.Error("Failed to insert voucher",
				zap.Int("line", row.Line),
				zap.String("name", row.Voucher.Name),
				zap.Error(err))
			continue
		}
		imported++
	}

	zlog.Info("Voucher import complete",
		zap.Int("imported", imported),
		zap.Int("skipped", len(rows)-imported+len(rowErrs)))
}
