// Package dxctl implements the dxctl command line: inspecting the loaded
// models and running one-off predictions without the HTTP server.
package dxctl

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	app "github.com/okian/dxpredict/internal/app"
	"github.com/okian/dxpredict/internal/config"
	"github.com/okian/dxpredict/internal/domain/disease"
	"github.com/okian/dxpredict/internal/domain/inference"
	"github.com/okian/dxpredict/pkg/logger"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitUsage      = 2
	ExitValidation = 3
)

const usage = `usage: dxctl <command> [flags]

commands:
  models                      load and list every model artifact
  schema  -disease <key>      print the ordered fields of a disease
  predict -disease <key> [-json] [--] v1 v2 ...
                              run one prediction with values in schema order;
                              put -- before the values when one is negative
`

// Run executes one dxctl command and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return ExitUsage
	}
	switch args[0] {
	case "models":
		return runModels(ctx, args[1:], stdout, stderr)
	case "schema":
		return runSchema(args[1:], stdout, stderr)
	case "predict":
		return runPredict(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return ExitOK
	default:
		fmt.Fprintf(stderr, "dxctl: unknown command %q\n\n%s", args[0], usage)
		return ExitUsage
	}
}

type common struct {
	dir     string
	verbose bool
}

func (c *common) bind(fs *flag.FlagSet) {
	fs.StringVar(&c.dir, "dir", "", "model directory (default: model_dir from config)")
	fs.BoolVar(&c.verbose, "v", false, "log at debug level")
}

// start loads configuration and models. Logs go to stderr so stdout stays
// machine readable.
func (c *common) start(ctx context.Context, stderr io.Writer) (*app.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(
		logger.WithFormat(cfg.LogFormat),
		logger.WithFile(cfg.LogFile),
		logger.WithOutput(stderr),
	); err != nil {
		return nil, err
	}
	level := "warn"
	if c.verbose {
		level = "debug"
	}
	_ = logger.SetLevelString(level)

	dir := cfg.ModelDir
	if c.dir != "" {
		dir = c.dir
	}
	svc := app.New(
		app.WithLogger(logger.Named("dxctl")),
		app.WithModelDir(dir),
		app.WithModelFiles(cfg.ModelFiles),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

func runModels(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("models", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.bind(fs)
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	svc, err := c.start(ctx, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitFailure
	}
	defer svc.Stop()

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DISEASE\tKIND\tFEATURES\tSHA256\tPATH")
	for _, d := range svc.Diseases() {
		if d.Model == nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%.12s\t%s\n", d.Key, d.Model.Kind, d.Model.Features, d.Model.SHA256, d.Model.Path)
	}
	if err := tw.Flush(); err != nil {
		return ExitFailure
	}
	return ExitOK
}

func runSchema(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	key := fs.String("disease", "", "disease key")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	d, err := app.New().Disease(*key)
	if err != nil {
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitUsage
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFIELD\tKIND\tLABEL")
	for i, f := range d.Fields {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, f.Name, f.Kind, f.Label)
	}
	if err := tw.Flush(); err != nil {
		return ExitFailure
	}
	return ExitOK
}

func runPredict(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.bind(fs)
	key := fs.String("disease", "", "disease key")
	asJSON := fs.Bool("json", false, "print the prediction as JSON")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if *key == "" {
		fmt.Fprintln(stderr, "dxctl: -disease is required")
		return ExitUsage
	}
	if _, err := disease.Parse(*key); err != nil {
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitUsage
	}

	svc, err := c.start(ctx, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitFailure
	}
	defer svc.Stop()

	p, err := svc.Predict(ctx, *key, fs.Args())
	switch {
	case errors.Is(err, disease.ErrUnknownDisease):
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitUsage
	case errors.Is(err, inference.ErrValidation):
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitValidation
	case err != nil:
		fmt.Fprintf(stderr, "dxctl: %v\n", err)
		return ExitFailure
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return ExitFailure
		}
		return ExitOK
	}
	fmt.Fprintln(stdout, p.Verdict)
	return ExitOK
}
