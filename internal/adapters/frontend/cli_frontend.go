package frontend

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mikey/qr-guard/internal/core"
	"go.uber.org/zap"
)

// CliFrontend implements a command-line interface for QR safety checks
type CliFrontend struct {
	service *core.SafetyService
	logger  *zap.Logger
	out     io.Writer
	in      *bufio.Reader
	verbose bool
}

// NewCliFrontend creates a new CLI frontend writing to out and prompting on in
func NewCliFrontend(service *core.SafetyService, logger *zap.Logger, out io.Writer, in io.Reader, verbose bool) *CliFrontend {
	return &CliFrontend{
		service: service,
		logger:  logger,
		out:     out,
		in:      bufio.NewReader(in),
		verbose: verbose,
	}
}

// Scan classifies content and prints the results
func (f *CliFrontend) Scan(ctx context.Context, content string) *core.ScanReport {
	f.logger.Debug("Scanning content", zap.String("content", core.Preview(content)))

	startTime := time.Now()
	report := f.service.Scan(ctx, content)
	f.printReport(report, time.Since(startTime))

	return report
}

// ScanImage decodes the QR codes in an image and prints the results. When
// the image holds several codes they are listed first. pick selects one of
// them (1-based); zero prints every code.
func (f *CliFrontend) ScanImage(ctx context.Context, r io.Reader, pick int) ([]*core.ScanReport, error) {
	startTime := time.Now()
	reports, err := f.service.ScanImage(ctx, r)
	if err != nil {
		f.logger.Error("Failed to scan image", zap.Error(err))
		fmt.Fprintf(f.out, "Error: %v\n", err)
		return nil, err
	}
	duration := time.Since(startTime)

	if pick < 0 || pick > len(reports) {
		return nil, fmt.Errorf("no QR #%d in image, it holds %d code(s)", pick, len(reports))
	}

	if len(reports) > 1 {
		fmt.Fprintf(f.out, "Found %d QR codes:\n", len(reports))
		for i, report := range reports {
			fmt.Fprintf(f.out, "  %s\n", core.ResultLabel(i+1, report.Content))
		}
	}

	if pick > 0 {
		report := reports[pick-1]
		f.printReport(report, duration)
		return []*core.ScanReport{report}, nil
	}

	for i, report := range reports {
		if len(reports) > 1 {
			fmt.Fprintf(f.out, "\n--- QR #%d ---\n", i+1)
		}
		f.printReport(report, duration)
	}

	return reports, nil
}

// Generate encodes text as a QR code, asking before encoding sensitive data
// unless assumeYes is set
func (f *CliFrontend) Generate(ctx context.Context, text string, assumeYes bool) ([]byte, error) {
	png, err := f.service.Generate(ctx, text, assumeYes)
	if !errors.Is(err, core.ErrConfirmationRequired) {
		return png, err
	}

	fmt.Fprintf(f.out, "Warning: the text may contain sensitive data such as a password or key.\n")
	fmt.Fprintf(f.out, "Do you want to continue? [y/N] ")

	answer, readErr := f.in.ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return nil, fmt.Errorf("failed to read confirmation: %w", readErr)
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return f.service.Generate(ctx, text, true)
	default:
		return nil, err
	}
}

func (f *CliFrontend) printReport(report *core.ScanReport, duration time.Duration) {
	content := report.Content
	if !f.verbose {
		content = core.Preview(content)
	}

	fmt.Fprintf(f.out, "\n=== Scan Summary ===\n")
	fmt.Fprintf(f.out, "Scan ID: %s\n", report.ID)
	fmt.Fprintf(f.out, "Content: %s\n", content)
	fmt.Fprintf(f.out, "Length: %d characters\n", len([]rune(report.Content)))

	fmt.Fprintf(f.out, "\n=== Results ===\n")
	fmt.Fprintf(f.out, "Action type: %s\n", report.Verdict.ActionType)
	fmt.Fprintf(f.out, "Safe: %t\n", report.Verdict.IsSafe)
	if warning := report.Verdict.Warning(); warning != "" {
		fmt.Fprintf(f.out, "Warnings:\n")
		for _, line := range strings.Split(warning, "\n") {
			fmt.Fprintf(f.out, "  - %s\n", line)
		}
	}
	if report.OpenAction.Visible {
		fmt.Fprintf(f.out, "Open action: %s (%s)\n", report.OpenAction.Label, report.OpenAction.Intent)
	} else {
		fmt.Fprintf(f.out, "Open action: none\n")
	}

	if report.Advice != nil {
		fmt.Fprintf(f.out, "\n=== Advisor ===\n")
		fmt.Fprintf(f.out, "Suspicious: %t\n", report.Advice.Suspicious)
		fmt.Fprintf(f.out, "Score: %.4f\n", report.Advice.Score)
		fmt.Fprintf(f.out, "Confidence: %.4f\n", report.Advice.Confidence)
		fmt.Fprintf(f.out, "Explanation: %s\n", report.Advice.Explanation)
		fmt.Fprintf(f.out, "Model used: %s\n", report.Advice.ModelUsed)
	}

	fmt.Fprintf(f.out, "Processing time: %v\n", duration)
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}
