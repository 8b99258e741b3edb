package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/soaringjerry/Persona/internal/models"
	"github.com/soaringjerry/Persona/internal/services"
)

var (
	resultsLimit int
	exportFormat string
	exportOut    string
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List stored results, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		hist, err := rt.results.History(cmd.Context())
		if err != nil {
			return err
		}
		if resultsLimit > 0 && len(hist) > resultsLimit {
			hist = hist[:resultsLimit]
		}
		printHistory(cmd.OutOrStdout(), hist)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored results as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := openRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		res, err := services.NewExportService(rt.results).ExportCSV(cmd.Context(), exportFormat)
		if err != nil {
			return err
		}
		if exportOut == "" || exportOut == "-" {
			_, err = cmd.OutOrStdout().Write(res.Data)
			return err
		}
		if err := os.WriteFile(exportOut, res.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", exportOut)
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print a bcrypt hash for auth.admin_password_hash",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var pw string
		if len(args) == 1 {
			pw = args[0]
		} else {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			pw = strings.TrimRight(string(b), "\r\n")
		}
		h, err := services.HashPassword(pw)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), h)
		return nil
	},
}

func init() {
	resultsCmd.Flags().IntVarP(&resultsLimit, "limit", "n", 20, "Show at most n results (0 for all)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", services.ExportFormatSummary, "CSV layout: long or summary")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default stdout)")
}

// temperament colors group the 16 types by their middle letters.
var temperament = map[string]*color.Color{
	"NT": color.New(color.FgMagenta, color.Bold),
	"NF": color.New(color.FgGreen, color.Bold),
	"SJ": color.New(color.FgBlue, color.Bold),
	"SP": color.New(color.FgYellow, color.Bold),
}

func typeColor(t models.PersonalityType) *color.Color {
	s := string(t)
	if len(s) != 4 {
		return color.New(color.Reset)
	}
	key := s[1:3]
	if s[1] == 'S' {
		key = string(s[1]) + string(s[3])
	}
	if c, ok := temperament[key]; ok {
		return c
	}
	return color.New(color.Reset)
}

func printHistory(w io.Writer, hist []services.HistoryEntry) {
	// color already detects a terminal on stdout; anything else gets plain text
	if w != io.Writer(os.Stdout) {
		color.NoColor = true
	}
	if len(hist) == 0 {
		fmt.Fprintln(w, color.HiBlackString("no results stored"))
		return
	}
	for _, h := range hist {
		fmt.Fprintf(w, "%s  %s  %s\n",
			color.CyanString("%d", h.Timestamp),
			h.SubmittedAt.Format("2006-01-02 15:04:05Z"),
			typeColor(h.Type).Sprint(h.Type))
	}
	fmt.Fprintln(w, color.HiBlackString("%d result(s)", len(hist)))
}
