package main

import (
	"github.com/spf13/cobra"

	"enel-smeta/service"
)

func newExportCmd(opts *globalOptions) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the formatted quote workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			quotes, err := opts.quoteService(cmd, nil, nil)
			if err != nil {
				return err
			}
			doc, err := quotes.RenderDocument(commandContext(cmd), service.FormatXLSX)
			if err != nil {
				return err
			}
			return writeOutput(cmd, outPath, doc)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, defaults to enel-spb.ru_YYYY-MM-DD.xlsx")
	return cmd
}
