package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"kakeistat/internal/catalog"
	"kakeistat/internal/config"
	"kakeistat/internal/download"
	"kakeistat/internal/platform/estat"
	"kakeistat/internal/prompt"
)

func main() {
	config.LoadEnvFiles()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the app and reports a returned error on errOut. Errors built
// with cli.Exit are printed and exited by the app itself.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	app := newApp(in, out)
	app.ErrWriter = errOut
	if err := app.RunContext(ctx, args); err != nil {
		fmt.Fprintf(errOut, "エラー: %v\n", err)
		return 1
	}
	return 0
}

func newApp(in io.Reader, out io.Writer) *cli.App {
	var logOutput io.Writer
	return &cli.App{
		Name:  "kakei",
		Usage: "家計調査の月次支出データを e-Stat から取得して CSV に保存する",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "catalog", Usage: "catalog snapshot path", EnvVars: []string{"CATALOG_PATH"}},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "directory CSV files are saved to", EnvVars: []string{"DATA_SAVE_DIR"}},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log API paging"},
		},
		Before: func(c *cli.Context) error {
			logOutput = log.Writer()
			if !c.Bool("verbose") {
				log.SetOutput(io.Discard)
			}
			return nil
		},
		After: func(*cli.Context) error {
			if logOutput != nil {
				log.SetOutput(logOutput)
			}
			return nil
		},
		Writer: out,
		Reader: in,
		Action: func(c *cli.Context) error {
			return runInteractive(c, in, out)
		},
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "list items whose name contains KEYWORD",
				ArgsUsage: "KEYWORD",
				Action:    runSearch,
			},
			{
				Name:      "count",
				Usage:     "show how many rows an item would download",
				ArgsUsage: "CODE",
				Action:    runCount,
			},
			{
				Name:      "fetch",
				Usage:     "download one or more items as CSV",
				ArgsUsage: "CODE...",
				Action:    runFetch,
			},
			{
				Name:  "interactive",
				Usage: "search, confirm and download items one by one",
				Action: func(c *cli.Context) error {
					return runInteractive(c, in, out)
				},
			},
		},
	}
}

func newService(c *cli.Context) (*download.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := c.String("catalog"); v != "" {
		cfg.CatalogPath = v
	}
	if v := c.String("out"); v != "" {
		cfg.SaveDir = v
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("エラー: キャッシュファイルが見つかりません (%v)", err), 1)
	}
	return download.NewService(estat.NewClient(cfg.Client()), cat, cfg.SaveDir), nil
}

func runSearch(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: kakei search KEYWORD", 2)
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}
	for _, item := range svc.Search(c.Args().First()) {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", item.Code, item.Label())
	}
	return nil
}

func runCount(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: kakei count CODE", 2)
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}
	n, err := svc.Count(c.Context, c.Args().First())
	if err != nil {
		return cli.Exit(fmt.Sprintf("エラー: %v", err), 1)
	}
	fmt.Fprintln(c.App.Writer, n)
	return nil
}

func runFetch(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("usage: kakei fetch CODE...", 2)
	}
	svc, err := newService(c)
	if err != nil {
		return err
	}

	batch := svc.DownloadSelection(c.Context, c.Args().Slice())
	for _, res := range batch.Results {
		switch {
		case res.Error != "":
			fmt.Fprintf(c.App.Writer, "%s\terror\t%s\n", res.Code, res.Error)
		case res.Empty:
			fmt.Fprintf(c.App.Writer, "%s\tempty\n", res.Code)
		default:
			fmt.Fprintf(c.App.Writer, "%s\t%d\t%s\n", res.Code, res.Rows, res.Path)
		}
	}
	if batch.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d items failed", batch.Failed, len(batch.Results)), 1)
	}
	return nil
}

func runInteractive(c *cli.Context, in io.Reader, out io.Writer) error {
	svc, err := newService(c)
	if err != nil {
		return err
	}
	return prompt.NewSession(prompt.NewPrompter(in, out), svc).Run(c.Context)
}
