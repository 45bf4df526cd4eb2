// Command pipeline runs a bounded producer/consumer pipeline demo.
//
// Usage:
//
//	go run ./cmd/pipeline -n 1000000 -producers 4 -consumers 2 -cap 64
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Thyrister/concurrency/pkg/logger"
	"github.com/Thyrister/concurrency/pkg/pipeline"
	"github.com/Thyrister/concurrency/pkg/settings"
)

func main() {
	n := flag.Int("n", 1_000_000, "number of items to produce")
	producers := flag.Int("producers", 4, "producer goroutines")
	consumers := flag.Int("consumers", 2, "consumer goroutines")
	capacity := flag.Int("cap", 64, "queue capacity")
	batch := flag.Int("batch", 32, "sink batch size")
	rateLimit := flag.Float64("rate", 0, "items per second, 0 = unlimited")
	logLevel := flag.String("log-level", "info", "log level")
	flag.Parse()

	log := logger.NewLogger(settings.Logger{LogLevel: *logLevel})
	defer func() { _ = log.Sync() }()

	items := make([]int, *n)
	for i := range items {
		items[i] = i
	}
	src := pipeline.NewSliceSource(items)
	sink := pipeline.NewCollectSink[int]()

	p, err := pipeline.New[int](src, sink, pipeline.Config{
		Producers:     *producers,
		Consumers:     *consumers,
		QueueCapacity: *capacity,
		BatchSize:     *batch,
		RateLimit:     *rateLimit,
	}, log)
	if err != nil {
		log.Fatal("create pipeline", zap.Error(err))
	}

	start := time.Now()
	if err := p.Run(context.Background()); err != nil {
		log.Fatal("run pipeline", zap.Error(err))
	}
	dur := time.Since(start)

	got := len(sink.Items())
	fmt.Printf("Pipeline finished: %d/%d items in %v\n", got, *n, dur)
	fmt.Printf("Throughput: %.2f M items/sec\n", float64(got)/dur.Seconds()/1e6)

	if got != *n {
		fmt.Fprintln(os.Stderr, "item count mismatch")
		os.Exit(1)
	}
}
