// Command report loads the produce price table, asks which products, dates
// and locations to compare, and charts the mean price of each pair.
//
// Usage:
//
//	go run ./cmd/report
//	go run ./cmd/report -products "0 3 5" -dates "0 12" -locations "1 2"
//
// Without flags the selection is read interactively from stdin.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/produce-price-report/internal/adapter/chart"
	"github.com/couchcryptid/produce-price-report/internal/adapter/excel"
	kafkaadapter "github.com/couchcryptid/produce-price-report/internal/adapter/kafka"
	"github.com/couchcryptid/produce-price-report/internal/adapter/prompt"
	"github.com/couchcryptid/produce-price-report/internal/adapter/tablefile"
	"github.com/couchcryptid/produce-price-report/internal/config"
	"github.com/couchcryptid/produce-price-report/internal/observability"
	"github.com/couchcryptid/produce-price-report/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr, observability.NewMetrics()))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer, metrics *observability.Metrics) int {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	products := fs.String("products", "", "product numbers separated by spaces")
	dates := fs.String("dates", "", "start and end date numbers separated by a space")
	locations := fs.String("locations", "", "location numbers separated by spaces")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	interactive := true
	fs.Visit(func(*flag.Flag) { interactive = false })

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	logger := observability.NewLogger(cfg)

	src, err := tablefile.New(cfg.InputPath, cfg.InputSheet, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	sinks, closeSinks := buildSinks(cfg, logger)
	defer closeSinks()

	var provider pipeline.SelectionProvider
	if interactive {
		prompt.WriteBanner(stdout)
		provider = prompt.New(stdin, stdout)
	} else {
		provider = pipeline.StaticSelection{Commodities: *products, Dates: *dates, Locations: *locations}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(src, provider, sinks, logger, metrics, cfg.PublishTimeout)
	res, runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := observability.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(stderr, "error: %v\n", runErr)
		return 1
	}
	if !interactive {
		fmt.Fprintf(stdout, "%d records have been selected.\n", res.Records)
	}
	fmt.Fprintln(stdout, res.Chart.Title)
	return 0
}

// buildSinks wires every enabled series consumer. The returned func releases
// their resources.
func buildSinks(cfg *config.Config, logger *slog.Logger) ([]pipeline.Sink, func()) {
	var sinks []pipeline.Sink
	closers := []func() error{}

	if cfg.ChartPath != "" {
		sinks = append(sinks, chart.NewRenderer(cfg, logger))
		logger.Info("chart renderer enabled", "path", cfg.ChartPath)
	}
	if cfg.XLSXPath != "" {
		sinks = append(sinks, excel.NewWorkbook(cfg, logger))
		logger.Info("workbook writer enabled", "path", cfg.XLSXPath)
	}
	if cfg.KafkaEnabled {
		w := kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, w)
		closers = append(closers, w.Close)
		logger.Info("kafka publisher enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	return sinks, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Error("close sink failed", "error", err)
			}
		}
	}
}
