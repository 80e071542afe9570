package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/billing"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/blobstore"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/conf"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/ingest"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/ledger"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/log"
	"github.com/JThomas404/automated-billing-csv-to-aurora-serverless/rates"
	"go.uber.org/zap"
)

// Target Aurora cluster.
var regionFlag = flag.String("region", "", "The AWS region of the Aurora cluster and the source bucket.")
var databaseFlag = flag.String("database", "", "The name of the billing database.")
var clusterArnFlag = flag.String("clusterArn", "", "The ARN of the Aurora Serverless cluster.")
var secretArnFlag = flag.String("secretArn", "", "The ARN of the Secrets Manager secret holding the database credentials.")
var secretNameFlag = flag.String("secretName", "", "The name of the credentials secret. Use instead of secretArn to have the ARN looked up.")

// Source file.
var inputFileFlag = flag.String("inputFile", "", "The local billing CSV file to import. You must pass the inputFile flag OR the bucketName and bucketKey flags.")
var bucketNameFlag = flag.String("bucketName", "", "The name of the S3 bucket containing the billing file.")
var bucketKeyFlag = flag.String("bucketKey", "", "The file within the S3 bucket that contains the billing data.")

// Local configuration.
var dryRunFlag = flag.Bool("dryRun", false, "Set to print the normalized records instead of writing them to the database.")

func printUsageAndExit(suffix ...string) {
	fmt.Println("usage: billimport [<args>]")
	fmt.Println()
	fmt.Println("Import a local billing CSV:")
	fmt.Println("  billimport -inputFile billing.csv -region us-east-1 -database billing -clusterArn arn:aws:rds:... -secretArn arn:aws:secretsmanager:...")
	fmt.Println()
	fmt.Println("Import a billing CSV from S3:")
	fmt.Println("  billimport -bucketName billing-uploads -bucketKey 2024/01/billing.csv -region us-east-1 -database billing -clusterArn arn:aws:rds:... -secretName aurora_billing_db_secret")
	fmt.Println()
	fmt.Println("Check a file without writing anything:")
	fmt.Println("  billimport -inputFile billing.csv -dryRun")
	fmt.Println()
	flag.Usage()
	for _, s := range suffix {
		fmt.Println(s)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()
	localFile := *inputFileFlag != ""
	remoteFile := *bucketNameFlag != "" || *bucketKeyFlag != ""
	if localFile && remoteFile {
		printUsageAndExit("Must pass inputFile OR bucketName and bucketKey.")
	}
	if !localFile && !remoteFile {
		printUsageAndExit("Must pass inputFile OR bucketName and bucketKey.")
	}
	if remoteFile && (*bucketNameFlag == "" || *bucketKeyFlag == "" || *regionFlag == "") {
		printUsageAndExit("Must pass values for all of the region, bucketName and bucketKey arguments when importing from S3.")
	}
	if !*dryRunFlag {
		if *regionFlag == "" || *databaseFlag == "" || *clusterArnFlag == "" {
			printUsageAndExit("Must pass the region, database and clusterArn arguments.")
		}
		if *secretArnFlag == "" && *secretNameFlag == "" {
			printUsageAndExit("Must pass secretArn or secretName.")
		}
	}

	ctx := context.Background()
	start := time.Now()

	bucket, key := *bucketNameFlag, *bucketKeyFlag
	var source ingest.BlobSource
	if localFile {
		// Local files are addressed as directory + file name.
		bucket, key = filepath.Split(*inputFileFlag)
		if bucket == "" {
			bucket = "."
		}
		source = fileSource{}
	} else {
		s3Source, err := blobstore.New(*regionFlag)
		if err != nil {
			log.Default.Fatal("failed to create blob source", zap.Error(err))
		}
		source = s3Source
	}

	var store ingest.Ledger = printLedger{}
	if !*dryRunFlag {
		secretARN := *secretArnFlag
		if secretARN == "" {
			arn, err := conf.ResolveSecretARN(ctx, *regionFlag, *secretNameFlag)
			if err != nil {
				log.Default.Fatal("failed to resolve secret", zap.Error(err))
			}
			secretARN = arn
		}
		l, err := ledger.New(*regionFlag, ledger.Config{
			Database:   *databaseFlag,
			ClusterARN: *clusterArnFlag,
			SecretARN:  secretARN,
		})
		if err != nil {
			log.Default.Fatal("failed to create ledger", zap.Error(err))
		}
		store = l
	}

	logger := log.Default.With(zap.String("bucket", bucket), zap.String("key", key))
	logger.Info("starting import")

	outcome, err := ingest.New(source, store, rates.Default, logger).Ingest(ctx, bucket, key)
	if err != nil {
		logger.Fatal("import failed", zap.Error(err))
	}
	logger.Info("complete",
		zap.Int("stored", outcome.Stored),
		zap.Int("skipped", len(outcome.Skipped)),
		zap.Duration("duration", time.Since(start)))
}

// fileSource reads billing files from the local filesystem, with the bucket
// acting as the directory.
type fileSource struct{}

func (fileSource) Fetch(_ context.Context, dir, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(dir, name))
}

// printLedger writes records to stdout instead of the database.
type printLedger struct{}

func (printLedger) Store(_ context.Context, r billing.Record) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
