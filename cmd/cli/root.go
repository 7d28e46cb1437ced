package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/fleetstatus/internal/domain"
)

type statusOptions struct {
	api      string
	asJSON   bool
	category string
	downOnly bool
	timeout  time.Duration
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "fleetctl",
		Short:        "Query the fleet status API",
		SilenceUsage: true,
	}
	root.AddCommand(newStatusCmd(http.DefaultClient))
	return root
}

func newStatusCmd(client *http.Client) *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show live/down status of every deployed project",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()
			rep, raw, err := fetchStatus(ctx, client, opts.api)
			if err != nil {
				return err
			}
			if opts.asJSON {
				_, err := cmd.OutOrStdout().Write(raw)
				return err
			}
			return printTable(cmd.OutOrStdout(), rep, opts)
		},
	}

	apiDefault := os.Getenv("API_BASE")
	if apiDefault == "" {
		apiDefault = "http://localhost:8080"
	}
	f := cmd.Flags()
	f.StringVar(&opts.api, "api", apiDefault, "base URL of the fleet status API")
	f.BoolVar(&opts.asJSON, "json", false, "print the raw JSON response")
	f.StringVar(&opts.category, "category", "", "only show projects of this category")
	f.BoolVar(&opts.downOnly, "down", false, "only show projects that are down")
	f.DurationVar(&opts.timeout, "timeout", 2*time.Minute, "how long to wait for the cycle")
	return cmd
}

type statusResponse struct {
	Projects []domain.Project `json:"projects"`
	Summary  domain.Summary   `json:"summary"`
	Error    string           `json:"error"`
}

func fetchStatus(ctx context.Context, client *http.Client, base string) (*statusResponse, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/api/health", nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("contact API: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("read response: %w", err)
	}
	var out statusResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil, fmt.Errorf("API returned status %s: %w", resp.Status, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error == "" {
			out.Error = resp.Status
		}
		return nil, nil, fmt.Errorf("API error: %s", out.Error)
	}
	return &out, raw, nil
}

func printTable(w io.Writer, rep *statusResponse, opts statusOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCATEGORY\tNAME\tDOMAIN\tUPDATED")
	for _, p := range rep.Projects {
		if opts.category != "" && string(p.Category) != opts.category {
			continue
		}
		if opts.downOnly && p.Status == domain.StatusLive {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Status, p.Category, p.Name, dash(p.PrimaryDomain), dash(p.UpdatedAt))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := rep.Summary
	parts := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		parts = append(parts, fmt.Sprintf("%s=%d", c, s.ByCategory[c]))
	}
	_, err := fmt.Fprintf(w, "\n%d projects, %d live, %d down (%s)\n", s.Total, s.Live, s.Down, strings.Join(parts, " "))
	return err
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
