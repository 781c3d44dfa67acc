package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arturoeanton/codeguard/internal/app"
	"github.com/arturoeanton/codeguard/internal/domain"
	"github.com/arturoeanton/codeguard/internal/port"
	"github.com/arturoeanton/codeguard/internal/service"
	"github.com/arturoeanton/codeguard/pkg/config"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	errColor  = color.New(color.FgRed, color.Bold)
	infoColor = color.New(color.FgCyan)
)

// SetupCLI registers the audit, stats and languages commands on rootCmd.
func SetupCLI(rootCmd *cobra.Command) {
	auditCmd := &cobra.Command{
		Use:   "audit [file]",
		Short: "Audit a code file (or stdin when no file or \"-\" is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := cmd.Flags().GetString("lang")
			if err != nil {
				return err
			}
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			code, err := readCode(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAudit(cmd.Context(), cmd.OutOrStdout(), config.Load(), code, lang)
		},
	}
	auditCmd.Flags().StringP("lang", "l", "1", "report language: label, name (e.g. Spanish) or 1-8")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show clients served and the most recent audits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := cmd.Flags().GetInt("limit")
			if err != nil {
				return err
			}
			return showStats(cmd.Context(), cmd.OutOrStdout(), config.Load(), limit)
		},
	}
	statsCmd.Flags().IntP("limit", "n", 10, "number of recent records to show")

	languagesCmd := &cobra.Command{
		Use:   "languages",
		Short: "List the available report languages",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for i, l := range domain.TargetLanguages {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, l)
			}
		},
	}

	rootCmd.AddCommand(auditCmd, statsCmd, languagesCmd)
}

func readCode(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read code: %w", err)
	}
	return string(data), nil
}

func runAudit(ctx context.Context, w io.Writer, cfg *config.Config, code, langInput string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Online() {
		errColor.Fprintln(w, "❌ Server Status: OFFLINE (API Key Missing)")
		return port.ErrNotConfigured
	}
	lang, ok := domain.ResolveLanguage(langInput)
	if !ok {
		return fmt.Errorf("%w: %q (run `codeguard languages`)", port.ErrUnknownLanguage, langInput)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	infoColor.Fprintf(w, "⚡ Processing logic in %s...\n", lang)
	out, err := a.Audit.Run(ctx, domain.AuditRequest{Code: code, Language: lang})
	if err != nil {
		errColor.Fprintln(w, service.UserMessage(err))
		if errors.Is(err, port.ErrEmptyCode) {
			return port.ErrEmptyCode
		}
		return errors.New("audit failed")
	}

	okColor.Fprintf(w, "✅ Audit Complete in %s seconds!\n\n", out.Seconds())
	fmt.Fprintln(w, out.Markdown)
	return nil
}

func showStats(ctx context.Context, w io.Writer, cfg *config.Config, limit int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.Online() {
		okColor.Fprintln(w, "✅ Server Status: ONLINE")
	} else {
		errColor.Fprintln(w, "❌ Server Status: OFFLINE (API Key Missing)")
	}

	served, err := a.Activity.Served(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "📊 Clients Served: %d\n", served)

	records, err := a.Activity.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(domain.ActivityHeader, "\t"))
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			r.Time.Format(domain.ActivityTimeLayout), r.Language, r.CodeLength, domain.FormatSeconds(r.Duration), r.Status)
	}
	return tw.Flush()
}
