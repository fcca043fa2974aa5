package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"

	"github.com/soaringjerry/kuesioner/internal/config"
	"github.com/soaringjerry/kuesioner/internal/db"
	"github.com/soaringjerry/kuesioner/internal/logging"
	"github.com/soaringjerry/kuesioner/internal/services"
	"github.com/soaringjerry/kuesioner/internal/sheet"
)

// app carries what PersistentPreRunE resolves for the subcommands.
type app struct {
	configPath string
	dataPath   string
	sheetName  string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
	store  *db.SQLiteStore
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "kuesioner",
		Short: "Answer fixed questions about a Likert survey spreadsheet",
		Long: `kuesioner reads a survey spreadsheet (first column respondent id, one column
per question, answers on the SS/S/CS/CTS/TS/STS scale) and answers one of the
fixed queries q1..q13.

Run without a subcommand to read the query identifier from stdin.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.answer(cmd, id)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&a.dataPath, "data", "d", "", "survey file (.xlsx or .csv)")
	pf.StringVar(&a.sheetName, "sheet", "", "worksheet name for xlsx input (default: first sheet)")
	pf.StringVar(&a.dbPath, "db", "", "SQLite file for query history (empty disables history)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		a.queryCmd(),
		a.queriesCmd(),
		a.summaryCmd(),
		a.exportCmd(),
		a.historyCmd(),
		a.serveCmd(),
		hashPasswordCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataPath != "" {
		cfg.DataPath = a.dataPath
	}
	if a.sheetName != "" {
		cfg.Sheet = a.sheetName
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	fallback := zapcore.WarnLevel
	if cmd.Name() == "serve" {
		fallback = zapcore.InfoLevel
	}
	a.logger, err = logging.New(cfg.LogLevel, fallback, a.verbose)
	if err != nil {
		return err
	}
	if cfg.DBPath != "" {
		a.store, err = db.Open(cmd.Context(), cfg.DBPath, cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
	}
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Warn("close history", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) source() *sheet.FileSource {
	return &sheet.FileSource{
		Path:      a.cfg.DataPath,
		Sheet:     a.cfg.Sheet,
		Questions: a.cfg.Expected,
		Log:       a.logger,
	}
}

// recorder avoids handing a typed nil store to the services.
func (a *app) recorder() services.RunRecorder {
	if a.store == nil {
		return nil
	}
	return a.store
}

func (a *app) answer(cmd *cobra.Command, id string) error {
	svc := services.NewQueryService(a.source(), a.recorder(), a.logger)
	out, err := svc.Answer(cmd.Context(), id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (a *app) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [id]",
		Short: "Answer one query, e.g. q10",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.answer(cmd, args[0])
		},
	}
}

func (a *app) queriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "queries",
		Short: "List the query identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, q := range services.Queries() {
				if _, err := fmt.Fprintf(w, "%-4s %s\n", q.ID, q.Description); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard summary as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := services.NewSummaryService(a.source()).Summary(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}
}

func (a *app) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the responses as CSV (wide scores or long cells)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.source().LoadTable(cmd.Context())
			if err != nil {
				return err
			}
			data, err := services.ExportCSV(table, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", services.ExportWide, "wide or long")
	return cmd
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently answered queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return errors.New("history is disabled; set --db or KUESIONER_DB_PATH")
			}
			runs, err := a.store.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range runs {
				result := r.Answer
				if r.Error != "" {
					result = "error: " + r.Error
				}
				if _, err := fmt.Fprintf(w, "%s  %s  %-4s %s\n", r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Query, result); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Read a password from stdin and print its bcrypt hash for admin_password_hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readLine(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if pw == "" {
				return errors.New("empty password")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
}

// run executes the CLI with the given arguments and streams. Resources opened
// by the commands are released even when a command fails.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
