package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/auth"
	"github.com/iho/cashbox/internal/infrastructure/logger"
	"github.com/iho/cashbox/internal/infrastructure/postgres"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "cashbox-cli",
		Short:         "Cashbox CLI tool",
		Long:          `A command line interface for administering the cashbox API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the cashbox API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CASHBOX_TOKEN"), "Bearer token sent with API calls")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		boxIDCmd(),
		requestsCmd(opts),
		boxesCmd(opts),
		ledgerCmd(opts),
		tokenCmd(),
		migrateCmd(),
	)

	return rootCmd
}

func boxIDCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxid",
		Short: "Cash box id helpers",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "parse <box-id>",
		Short: "Split a box id into service type, work date and collector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseBoxID(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"service_type": key.ServiceType,
				"work_date":    domain.FormatWorkDate(key.WorkDate),
				"collector_id": key.CollectorID,
			})
		},
	})

	return cmd
}

func requestsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Opening request operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List pending opening requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListRequestsResponse
			if err := newClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/cashbox-requests/pending", nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-28s %-12s %-10s %s\n", "ID", "COLLECTOR", "DATE", "NOTES")
			for _, r := range resp.Requests {
				fmt.Fprintf(out, "%-28s %-12s %-10s %s\n", r.ID, truncate(r.CollectorID, 12), r.WorkDate, truncate(r.Notes, 40))
			}
			fmt.Fprintf(out, "%d pending\n", resp.Total)
			return nil
		},
	})

	var approvedBy string
	approveCmd := &cobra.Command{
		Use:   "approve <request-id>",
		Short: "Approve a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RequestResponse
			body := dto.ApproveRequestRequest{ApprovedBy: approvedBy}
			if err := newClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/cashbox-requests/"+url.PathEscape(args[0])+"/approve", body, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	approveCmd.Flags().StringVar(&approvedBy, "by", "", "Supervisor id, used when the API runs without authentication")
	cmd.AddCommand(approveCmd)

	var reason, rejectedBy string
	rejectCmd := &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a pending request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.RequestResponse
			body := dto.RejectRequestRequest{Reason: reason, RejectedBy: rejectedBy}
			if err := newClient(opts).do(cmd.Context(), http.MethodPost, "/api/v1/cashbox-requests/"+url.PathEscape(args[0])+"/reject", body, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	rejectCmd.Flags().StringVar(&reason, "reason", "", "Rejection reason")
	rejectCmd.Flags().StringVar(&rejectedBy, "by", "", "Supervisor id, used when the API runs without authentication")
	cmd.AddCommand(rejectCmd)

	return cmd
}

func boxesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxes",
		Short: "Cash box operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "totals <box-id>",
		Short: "Show a box's theoretical totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.TotalsResponse
			if err := newClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/cashboxes/"+url.PathEscape(args[0])+"/totals", nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	})

	var from, to string
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List closed boxes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if from != "" {
				q.Set("from", from)
			}
			if to != "" {
				q.Set("to", to)
			}
			path := "/api/v1/supervisor/boxes/history"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp dto.ListCashBoxesResponse
			if err := newClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s %-10s %-8s %s\n", "BOX", "DATE", "STATUS", "CLOSED BY")
			for _, b := range resp.Boxes {
				fmt.Fprintf(out, "%-36s %-10s %-8s %s\n", truncate(b.ID, 36), b.WorkDate, b.Status, b.ClosedBy)
			}
			fmt.Fprintf(out, "%d boxes\n", resp.Total)
			return nil
		},
	}
	historyCmd.Flags().StringVar(&from, "from", "", "First work date (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&to, "to", "", "Last work date (YYYY-MM-DD)")
	cmd.AddCommand(historyCmd)

	return cmd
}

func ledgerCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ConsistencyResponse
			err := newClient(opts).do(cmd.Context(), http.MethodGet, "/api/v1/ledger/consistency", nil, &resp)
			if err != nil && resp.Status == "" {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Consistent {
				fmt.Fprintln(out, "Consistency check PASSED")
			} else {
				fmt.Fprintln(out, "Consistency check FAILED")
			}
			fmt.Fprintf(out, "Boxes checked: %d\n", resp.BoxesChecked)
			fmt.Fprintf(out, "Open boxes with counts: %d\n", resp.OpenWithCounts)
			fmt.Fprintf(out, "Closed boxes without counts: %d\n", resp.ClosedWithoutCounts)
			fmt.Fprintf(out, "Non-positive entries: %d\n", resp.NonPositiveEntries)
			if !resp.Consistent {
				return fmt.Errorf("ledger is inconsistent")
			}
			return nil
		},
	})

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		secret   string
		name     string
		role     string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <actor-id>",
		Short: "Mint a bearer token for an actor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return fmt.Errorf("a signing secret is required (--secret or JWT_SECRET)")
			}
			token, err := auth.NewJWTManager(secret, duration).Generate(domain.Actor{
				ID:   args[0],
				Name: name,
				Role: domain.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "JWT signing secret")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleCollector), "Role: collector, supervisor or admin")
	cmd.Flags().DurationVar(&duration, "ttl", 24*time.Hour, "Token lifetime")

	return cmd
}

func migrateCmd() *cobra.Command {
	var databaseURL, path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", "migrations", "Migrations directory")

	log := logger.New(logger.Config{Level: "info", Format: "console", Output: os.Stderr})

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrations(databaseURL, path, log)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}
			return postgres.RunMigrationsDown(databaseURL, path, log)
		},
	})

	return cmd
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newClient(opts *options) *apiClient {
	return &apiClient{
		baseURL: opts.baseURL,
		token:   opts.token,
		http:    &http.Client{Timeout: opts.timeout},
	}
}

// do sends the request and decodes the response into out. Error responses
// are still decoded into out when their body fits it.
func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		if out != nil {
			_ = json.Unmarshal(raw, out)
		}
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d, code %s)", apiErr.Error, resp.StatusCode, apiErr.Code)
		}
		return fmt.Errorf("request failed (status %d): %s", resp.StatusCode, truncate(string(raw), 200))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
