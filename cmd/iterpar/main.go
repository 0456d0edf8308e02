// Command iterpar reads whitespace-separated integers from the named
// files, or from standard input, and runs one parallel operation over
// them.
//
//	iterpar -op count -pred even -threads 4 numbers.txt
package main

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/exascience/iterpar"
	"github.com/exascience/iterpar/internal"
	"github.com/exascience/iterpar/internal/tracer"
	"github.com/exascience/iterpar/parallel"
)

type config struct {
	op       string
	threads  int
	pred     string
	logLevel string
	logJSON  bool
	otlp     string
	files    []string
}

var predicates = map[string]iterpar.Predicate[int]{
	"even":     func(x int) bool { return x%2 == 0 },
	"odd":      func(x int) bool { return x%2 != 0 },
	"positive": func(x int) bool { return x > 0 },
	"negative": func(x int) bool { return x < 0 },
}

func parseFlags(args []string, stderr io.Writer) (cfg config, err error) {
	threads := 4
	if s, ok := os.LookupEnv("ITERPAR_THREADS"); ok {
		if threads, err = strconv.Atoi(s); err != nil {
			return cfg, fmt.Errorf("invalid ITERPAR_THREADS %q: %w", s, err)
		}
	}

	fs := flag.NewFlagSet("iterpar", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.op, "op", "", "operation: max, min, all, any, count, join, filter, map, sum")
	fs.IntVar(&cfg.threads, "threads", threads, "maximum number of workers")
	fs.StringVar(&cfg.pred, "pred", "even", "predicate for all, any, count, filter: even, odd, positive, negative")
	fs.StringVar(&cfg.logLevel, "log-level", "warning", "log level")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "log as JSON")
	fs.StringVar(&cfg.otlp, "otlp", os.Getenv("ITERPAR_OTLP_ENDPOINT"), "OTLP/HTTP collector endpoint (host:port), tracing is off when empty")
	if err = fs.Parse(args); err != nil {
		return
	}
	cfg.files = fs.Args()
	if cfg.op == "" {
		return cfg, errors.New("missing -op")
	}
	return cfg, nil
}

func readInts(r io.Reader) ([]int, error) {
	var result []int
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		x, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", scanner.Text(), err)
		}
		result = append(result, x)
	}
	return result, scanner.Err()
}

func readFiles(files []string, stdin io.Reader) ([]int, error) {
	if len(files) == 0 {
		return readInts(stdin)
	}
	var result []int
	for _, name := range files {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("cannot open %s: %w", name, err)
		}
		items, err := readInts(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", name, err)
		}
		result = append(result, items...)
	}
	return result, nil
}

// readInputs reads the integers of all files, or of stdin if there are
// none. It returns as soon as ctx is done, leaving the reader behind
// until its input ends.
func readInputs(ctx context.Context, files []string, stdin io.Reader) ([]int, error) {
	type result struct {
		items []int
		err   error
	}
	done := make(chan result, 1)
	go func() {
		items, err := readFiles(files, stdin)
		done <- result{items, err}
	}()
	select {
	case r := <-done:
		return r.items, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("reading input: %w", internal.Canceled(ctx))
	}
}

func joinInts(xs []int) string {
	s := make([]string, len(xs))
	for i, x := range xs {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, " ")
}

// apply runs the operation named by cfg.op and formats its result.
func apply(ctx context.Context, cfg config, items []int) (string, error) {
	pred, ok := predicates[cfg.pred]
	if !ok {
		return "", fmt.Errorf("unknown predicate %q", cfg.pred)
	}
	n := cfg.threads

	switch cfg.op {
	case "max":
		x, err := parallel.Maximum(ctx, n, items, cmp.Compare[int])
		return strconv.Itoa(x), err
	case "min":
		x, err := parallel.Minimum(ctx, n, items, cmp.Compare[int])
		return strconv.Itoa(x), err
	case "all":
		b, err := parallel.All(ctx, n, items, pred)
		return strconv.FormatBool(b), err
	case "any":
		b, err := parallel.Any(ctx, n, items, pred)
		return strconv.FormatBool(b), err
	case "count":
		c, err := parallel.Count(ctx, n, items, pred)
		return strconv.Itoa(c), err
	case "join":
		return parallel.Join(ctx, n, items)
	case "filter":
		xs, err := parallel.Filter(ctx, n, items, pred)
		return joinInts(xs), err
	case "map":
		xs, err := parallel.Map(ctx, n, items, func(x int) int { return x * x })
		return joinInts(xs), err
	case "sum":
		x, err := parallel.Reduce(ctx, n, items, 0, func(x, y int) int { return x + y })
		return strconv.Itoa(x), err
	}
	return "", fmt.Errorf("unknown operation %q", cfg.op)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level, err := log.ParseLevel(cfg.logLevel)
	if err != nil {
		return err
	}
	logger := log.New()
	logger.SetOutput(stderr)
	logger.SetLevel(level)
	if cfg.logJSON {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	entry := logger.WithField("run", uuid.NewString())
	parallel.SetLogger(entry)

	if cfg.otlp != "" {
		shutdown, err := tracer.Init(ctx, cfg.otlp)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				entry.WithError(err).Warn("failed to flush traces")
			}
		}()
	}

	items, err := readInputs(ctx, cfg.files, stdin)
	if err != nil {
		return err
	}
	entry.WithFields(log.Fields{
		"op":      cfg.op,
		"items":   len(items),
		"threads": cfg.threads,
	}).Info("starting")

	ctx, span := tracer.Start(ctx, "iterpar."+cfg.op)
	defer span.End()

	start := time.Now()
	result, err := apply(ctx, cfg, items)
	if err != nil {
		return err
	}
	entry.WithField("elapsed", time.Since(start)).Info("done")

	_, err = fmt.Fprintln(stdout, result)
	return err
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "iterpar: %v\n", err)
		}
		cancel()
		os.Exit(1)
	}
}
