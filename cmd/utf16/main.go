package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/wasm-utf16/transcoder"
)

func main() {
	var (
		mode        = flag.String("mode", "decode", "Operation: decode, encode, length, check")
		strategy    = flag.String("strategy", "manual", "UTF-8 decoder: manual or dfa")
		from        = flag.String("from", "utf8", "Input form for encode/length/check: utf8, utf16le, utf16be")
		verify      = flag.Bool("verify", false, "Cross-check output against golang.org/x/text")
		interactive = flag.Bool("i", false, "Interactive inspector with TUI")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: utf16 [-mode decode|encode|length|check] [-strategy manual|dfa] [-from utf8|utf16le|utf16be] [-verify] [file ...]")
		fmt.Fprintln(os.Stderr, "       utf16 -i  (interactive mode)")
		flag.PrintDefaults()
	}
	flag.Parse()

	log, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	transcoder.SetLogger(log)

	s, err := transcoder.ParseDecoderStrategy(*strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if *interactive {
		if err := runInteractive(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := options{
		mode:   *mode,
		from:   *from,
		verify: *verify,
		tty:    term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	tc := transcoder.New(transcoder.WithDecoder(s))
	if err := run(context.Background(), log, tc, opts, flag.Args(), os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// run processes stdin when files is empty, otherwise every file
// concurrently. Output is written in argument order once all succeed.
func run(ctx context.Context, log *zap.Logger, tc *transcoder.Transcoder, opts options, files []string, stdin io.Reader, w io.Writer) error {
	if len(files) == 0 {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		out, err := process(tc, opts, data)
		if err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		_, err = w.Write(out)
		return err
	}

	outputs := make([][]byte, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(name)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}
			out, err := process(tc, opts, data)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			log.Debug("processed",
				zap.String("file", name),
				zap.String("mode", opts.mode),
				zap.Int("in", len(data)),
				zap.Int("out", len(out)))
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, out := range outputs {
		if len(files) > 1 && opts.tty {
			if _, err := fmt.Fprintf(w, "==> %s <==\n", files[i]); err != nil {
				return err
			}
		}
		if _, err := w.Write(out); err != nil {
			return err
		}
	}
	return nil
}
