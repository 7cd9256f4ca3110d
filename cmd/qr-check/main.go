package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mikey/qr-guard/internal/adapters/frontend"
	"github.com/mikey/qr-guard/internal/core"
	"github.com/mikey/qr-guard/internal/di"
	"go.uber.org/zap"
)

const usage = `Usage:
  qr-check scan [flags] [-image file [-pick n]] [content...]
  qr-check generate [flags] [-out file.png] [-yes] text...

Run "qr-check <command> -h" for the flags of a command.
`

func main() {
	// QR_GUARD_* variables may come from a .env file
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "scan":
		err = scanCommand(os.Args[2:])
	case "generate":
		err = generateCommand(os.Args[2:])
	case "-h", "-help", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withCLI builds the container and hands the CLI frontend to fn
func withCLI(flags *di.CLIFlags, fn func(*zap.Logger, *frontend.CliFrontend) error) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	var runErr error
	err = container.Invoke(func(logger *zap.Logger, cli *frontend.CliFrontend, advisor core.Advisor) {
		defer logger.Sync()

		runErr = fn(logger, cli)

		// Close any resources that need closing
		if closer, ok := advisor.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close LLM client", zap.Error(err))
			}
		}
	})
	if err != nil {
		return err
	}
	return runErr
}

func scanCommand(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	flags := di.RegisterFlags(fs)
	imageFile := fs.String("image", "", "Image file holding QR codes (- for stdin)")
	pick := fs.Int("pick", 0, "Show only the n-th code of an image holding several")
	fs.Parse(args)

	return withCLI(flags, func(logger *zap.Logger, cli *frontend.CliFrontend) error {
		ctx := context.Background()

		if *imageFile != "" {
			var r io.Reader = os.Stdin
			if *imageFile != "-" {
				file, err := os.Open(*imageFile)
				if err != nil {
					return fmt.Errorf("failed to open image: %w", err)
				}
				defer file.Close()
				r = file
				logger.Info("Reading QR code from file", zap.String("file", *imageFile))
			}

			_, err := cli.ScanImage(ctx, r, *pick)
			return err
		}

		content := strings.Join(fs.Args(), " ")
		if content == "" {
			// Read content from stdin
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			content = strings.TrimRight(string(data), "\r\n")
		}

		cli.Scan(ctx, content)
		return nil
	})
}

func generateCommand(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	flags := di.RegisterFlags(fs)
	outFile := fs.String("out", "qr.png", "Output PNG file")
	assumeYes := fs.Bool("yes", false, "Encode sensitive data without asking")
	fs.Parse(args)

	text := strings.Join(fs.Args(), " ")

	return withCLI(flags, func(logger *zap.Logger, cli *frontend.CliFrontend) error {
		png, err := cli.Generate(context.Background(), text, *assumeYes)
		if err != nil {
			var rejection *core.RejectionError
			if errors.As(err, &rejection) {
				return errors.New(rejection.Reason)
			}
			return err
		}

		if err := os.WriteFile(*outFile, png, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", *outFile, err)
		}

		fmt.Printf("Wrote %s (%d bytes)\n", *outFile, len(png))
		return nil
	})
}
