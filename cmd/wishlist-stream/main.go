// Command wishlist-stream consumes the wishlist table's DynamoDB stream and
// logs every change. Deploy it as a Lambda function with the table's stream as
// event source and ReportBatchItemFailures enabled.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/morgaesis/wishapp/internal/config"
	"github.com/morgaesis/wishapp/internal/logging"
	"github.com/morgaesis/wishapp/stream"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "wishlist-stream: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wishlist-stream: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	h := stream.NewHandler(stream.LogSink{Logger: logger}, logger)
	lambda.Start(h.HandleEvent)
}
