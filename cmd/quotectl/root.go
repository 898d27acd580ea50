package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"enel-smeta/config"
	"enel-smeta/service"
)

type globalOptions struct {
	xlsxPath   string
	sheet      string
	tableRange string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:          "quotectl",
		Short:        "Build ENEL construction quotes from a price workbook",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.xlsxPath, "xlsx", "", "workbook exported from the price sheet (required)")
	flags.StringVar(&opts.sheet, "sheet", "", "sheet name, defaults to the active sheet")
	flags.StringVar(&opts.tableRange, "range", "B1:F50", "cell range holding the price table")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	_ = root.MarkPersistentFlagRequired("xlsx")

	root.AddCommand(
		newBuildCmd(opts),
		newRenderCmd(opts),
		newExportCmd(opts),
	)
	return root
}

func (o *globalOptions) logger(cmd *cobra.Command) zerolog.Logger {
	level := zerolog.InfoLevel
	if o.verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// quoteService wires the workbook source with the company details from the environment
func (o *globalOptions) quoteService(cmd *cobra.Command, pdf service.PDFRenderer, pages service.RenderServiceInterface) (*service.QuoteService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return service.NewQuoteService(service.QuoteServiceDeps{
		Source:  service.NewExcelGridSource(o.xlsxPath, o.sheet, o.tableRange),
		Company: cfg.Company,
		PDF:     pdf,
		Pages:   pages,
		Log:     o.logger(cmd),
	}), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
