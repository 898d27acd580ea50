package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"enel-smeta/config"
	"enel-smeta/service"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var (
		outPath    string
		engine     string
		fontPath   string
		chromePath string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the quote to a PDF file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := opts.logger(cmd)

			var pdf service.PDFRenderer
			switch engine {
			case config.PDFEngineFPDF:
				renderer, err := service.NewFPDFRenderer(fontPath)
				if err != nil {
					return err
				}
				pdf = renderer
			case config.PDFEngineChrome:
				renderOpts := service.RenderOptions{ChromePath: chromePath, FontPath: fontPath}
				renderer, err := service.NewRenderService(renderOpts, log)
				if err != nil {
					return err
				}
				pdf = renderer
			default:
				return fmt.Errorf("unknown engine %q, use %s or %s", engine, config.PDFEngineFPDF, config.PDFEngineChrome)
			}

			quotes, err := opts.quoteService(cmd, pdf, nil)
			if err != nil {
				return err
			}
			doc, err := quotes.RenderDocument(commandContext(cmd), service.FormatPDF)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, doc)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, defaults to enel-spb.ru_YYYY-MM-DD.pdf")
	cmd.Flags().StringVar(&engine, "engine", config.PDFEngineFPDF, "pdf engine: fpdf or chrome")
	cmd.Flags().StringVar(&fontPath, "font", "", "TrueType font with Cyrillic glyphs")
	cmd.Flags().StringVar(&chromePath, "chrome", "", "path to the Chrome binary")
	return cmd
}

func writeOutput(cmd *cobra.Command, outPath string, doc *service.Document) error {
	if outPath == "" {
		outPath = doc.FileName
	}
	if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s (%d bytes)\n", outPath, len(doc.Data))
	return nil
}
