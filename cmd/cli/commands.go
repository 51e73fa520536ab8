package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/adapters/handler"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/app"
	"github.com/wadjakorntonsri/portfolio-admin/pkg/config"
)

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// NewTypesCommand lists the registered content types.
func NewTypesCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List content types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCOLLECTION\tSECTION\tFIELDS")
			for _, ct := range a.Registry.ContentTypes() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", ct.Name, ct.Collection, ct.Section, len(ct.Fields))
			}
			return tw.Flush()
		},
	}
}

// NewListCommand prints the records of a content type in display order.
func NewListCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "list <type>",
		Short: "List records of a content type as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			records, err := a.Collections.ListOrdered(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), records)
		},
	}
}

func NewNextOrderCommand(open opener) *cobra.Command {
	return &cobra.Command{
		Use:   "next-order <type>",
		Short: "Print the order a new record would receive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			next, err := a.Collections.NextOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), next)
			return nil
		},
	}
}

// NewExportCommand dumps every collection and stored settings section.
func NewExportCommand(open opener) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all content and settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			if output == "" || output == "-" {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()
			return writeJSON(file, snap)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// NewImportCommand merge-writes a snapshot produced by export.
func NewImportCommand(open opener) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import content and settings from an export file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer in.Close()

			var snap app.Snapshot
			if err := json.NewDecoder(in).Decode(&snap); err != nil {
				return fmt.Errorf("decode failed: %w", err)
			}

			a, err := open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.Import(cmd.Context(), &snap)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d records and %d settings sections\n", stats.Records, stats.Sections)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// NewTokenCommand signs a session token for scripted API access.
func NewTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Sign an API session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			token, expires, err := handler.SignToken([]byte(cfg.JWTSecret), args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
