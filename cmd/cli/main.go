package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sankopay/agencyledger/internal/infrastructure/config"
	"github.com/sankopay/agencyledger/internal/infrastructure/postgres"
)

var (
	baseURL string
	timeout time.Duration
	userID  string
	role    string
	branch  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agencyledger-cli",
		Short: "Agency ledger CLI tool",
		Long:  `A command line interface for operating the agency ledger service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&userID, "user", "cli", "User ID sent with each request")
	rootCmd.PersistentFlags().StringVar(&role, "role", "admin", "Role sent with each request")
	rootCmd.PersistentFlags().StringVar(&branch, "branch", "", "Branch ID sent with each request")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(coaCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(statementsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	var migrationsPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	cmd.PersistentFlags().StringVar(&migrationsPath, "path", "migrations", "Path to migration files")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fatal("failed to load configuration: %v", err)
			}
			if err := postgres.RunMigrations(cfg.DatabaseURL, migrationsPath); err != nil {
				fatal("migration failed: %v", err)
			}
			fmt.Println("migrations applied")
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load()
			if err != nil {
				fatal("failed to load configuration: %v", err)
			}
			if err := postgres.RunMigrationsDown(cfg.DatabaseURL, migrationsPath); err != nil {
				fatal("rollback failed: %v", err)
			}
			fmt.Println("migrations rolled back")
		},
	})

	return cmd
}

func coaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coa",
		Short: "Chart of accounts operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Seed the default chart of accounts",
		Run: func(cmd *cobra.Command, args []string) {
			result := doRequest(http.MethodPost, "/api/v1/gl/accounts/seed", nil)
			printJSON(result)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List active accounts",
		Run: func(cmd *cobra.Command, args []string) {
			result := doRequest(http.MethodGet, "/api/v1/gl/accounts/", nil)
			printJSON(result)
		},
	})

	return cmd
}

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile [floatAccountID]",
		Short: "Reconcile float accounts against the GL",
		Long:  `Without arguments, reconciles every float account and prints the report. With a float account ID, reconciles just that account.`,
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				result := doRequest(http.MethodGet, "/api/v1/reconciliation/report", nil)
				printJSON(result)
				return
			}
			result := doRequest(http.MethodPost, "/api/v1/reconciliation/"+args[0], nil)
			printJSON(result)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "repair <floatAccountID>",
		Short: "Post a catch-up entry against suspense for a drifted account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			result := doRequest(http.MethodPost, "/api/v1/reconciliation/"+args[0]+"/repair", nil)
			printJSON(result)
		},
	})

	return cmd
}

func statementsCmd() *cobra.Command {
	var from, to, asOf string

	cmd := &cobra.Command{
		Use:   "statements",
		Short: "Financial statements",
	}
	cmd.PersistentFlags().StringVar(&from, "from", "", "Period start (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&to, "to", "", "Period end (YYYY-MM-DD)")
	cmd.PersistentFlags().StringVar(&asOf, "as-of", "", "Point-in-time date (YYYY-MM-DD)")

	rangeQuery := func() string {
		q := ""
		if from != "" {
			q = "?from=" + from
			if to != "" {
				q += "&to=" + to
			}
		} else if to != "" {
			q = "?to=" + to
		}
		return q
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "balance-sheet",
		Short: "Balance sheet as of a date",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/statements/balance-sheet"
			if asOf != "" {
				path += "?as_of=" + asOf
			}
			printJSON(doRequest(http.MethodGet, path, nil))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "profit-and-loss",
		Short: "Profit and loss for a period",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(doRequest(http.MethodGet, "/api/v1/statements/profit-and-loss"+rangeQuery(), nil))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "equity",
		Short: "Statement of changes in equity for a period",
		Run: func(cmd *cobra.Command, args []string) {
			printJSON(doRequest(http.MethodGet, "/api/v1/statements/equity"+rangeQuery(), nil))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "trial-balance",
		Short: "Trial balance as of a date",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/statements/trial-balance"
			if asOf != "" {
				path += "?as_of=" + asOf
			}
			printJSON(doRequest(http.MethodGet, path, nil))
		},
	})

	return cmd
}

func doRequest(method, path string, body any) map[string]any {
	client := &http.Client{Timeout: timeout}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			fatal("failed to encode request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	if err != nil {
		fatal("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	req.Header.Set("X-User-Role", role)
	if branch != "" {
		req.Header.Set("X-Branch-ID", branch)
	}

	resp, err := client.Do(req)
	if err != nil {
		fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		fatal("request failed (status %d): %s", resp.StatusCode, string(data))
	}

	var result map[string]any
	if len(data) > 0 {
		if err := json.Unmarshal(data, &result); err != nil {
			// Some endpoints return arrays; fall back to raw output.
			fmt.Println(string(data))
			return nil
		}
	}
	return result
}

func printJSON(v map[string]any) {
	if v == nil {
		return
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal("failed to render response: %v", err)
	}
	fmt.Println(string(out))
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
