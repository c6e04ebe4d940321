package main

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/spf13/cobra"

	"github.com/joestump/joe-tasks/internal/toggle"
)

func newToggleCmd() *cobra.Command {
	var (
		server  string
		cookies []string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Click a task's toggle button on a running server",
		Long: "Loads the task list from --server, clicks the toggle button of the given task " +
			"and waits for the outcome. The page reloads only when the server confirms the toggle.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			client, err := newBrowserClient(server, cookies, timeout)
			if err != nil {
				return err
			}

			page := toggle.NewPage(strings.TrimSuffix(server, "/")+"/", client)
			ctrl := toggle.New(server, page, toggle.WithClient(client))
			ctrl.Attach(page)

			if err := page.Load(cmd.Context()); err != nil {
				return err
			}
			btn := page.Find(toggle.DefaultDataKey, id)
			if btn == nil {
				return fmt.Errorf("no toggle for task %s on %s", id, server)
			}

			btn.Click()
			ctrl.Wait()

			if page.Loads() < 2 {
				return fmt.Errorf("task %s was not toggled", id)
			}
			log.Printf("[DEBUG] page reloaded %d times", page.Loads())
			fmt.Fprintf(cmd.OutOrStdout(), "toggled task %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "http://localhost:8080", "joe-tasks base URL")
	cmd.Flags().StringArrayVar(&cookies, "cookie", nil, "cookie to send, name=value (e.g. tasks_session=...)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	return cmd
}

// newBrowserClient returns a client that keeps cookies across requests the
// way a browser tab does, seeded with the given name=value pairs.
func newBrowserClient(server string, cookies []string, timeout time.Duration) (*http.Client, error) {
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q", server)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	seed := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		name, value, ok := strings.Cut(c, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid cookie %q, want name=value", c)
		}
		seed = append(seed, &http.Cookie{Name: name, Value: value})
	}
	jar.SetCookies(u, seed)

	return &http.Client{Jar: jar, Timeout: timeout}, nil
}
