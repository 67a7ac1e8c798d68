package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mayankmishra0403/printhub/internal/domain/pricing"
	"github.com/mayankmishra0403/printhub/internal/usecase"
)

func newQuoteCmd() *cobra.Command {
	var (
		service   string
		pages     int
		paper     string
		emergency bool
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an order from the built-in catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := usecase.NewCatalogUsecase(pricing.Default())

			in := usecase.QuoteInput{ServiceType: service, PaperType: paper, IsEmergency: emergency}
			if cmd.Flags().Changed("pages") {
				in.NumberOfPages = &pages
			}
			out := uc.Quote(in)

			if out.Pending {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: quote pending\n", service)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "INR %s\n", out.Amount.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&service, "service", "", "service name, e.g. \"Color Printing\"")
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages")
	cmd.Flags().StringVar(&paper, "paper", pricing.DefaultPaperType, "paper type id")
	cmd.Flags().BoolVar(&emergency, "emergency", false, "emergency (1.5x) order")
	_ = cmd.MarkFlagRequired("service")
	return cmd
}
