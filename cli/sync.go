// ABOUTME: ServiceM8 sync CLI commands
// ABOUTME: Handles OAuth setup, job imports, and sync status reporting
package cli

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/oauth2"
	"golang.org/x/term"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
	"github.com/Vonnie2507/probuild-command/servicem8"
	syncer "github.com/Vonnie2507/probuild-command/sync"
)

// SyncInitCommand handles the ServiceM8 OAuth setup.
func SyncInitCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	_ = fs.Parse(args)

	ctx := context.Background()

	if os.Getenv("SERVICEM8_APP_ID") == "" || os.Getenv("SERVICEM8_APP_SECRET") == "" {
		if err := promptAppCredentials(); err != nil {
			return err
		}
	}

	config, err := servicem8.GetConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to get OAuth config: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token)
	errChan := make(chan error)

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := config.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: ":8484", Handler: mux}
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	authURL := config.AuthCodeURL("state", oauth2.AccessTypeOffline)

	fmt.Println("Opening browser for ServiceM8 OAuth...")
	fmt.Printf("\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	_ = openBrowser(authURL)

	select {
	case token := <-callbackChan:
		_ = server.Shutdown(ctx)

		if err := servicem8.SaveToken(token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		fmt.Printf("\n✓ Authenticated successfully\n")
		fmt.Printf("✓ Tokens saved to %s\n\n", servicem8.TokenPath())
		fmt.Println("Ready to sync! Run 'probuild sync jobs --full' to import the pipeline.")

		return nil

	case err := <-errChan:
		_ = server.Shutdown(ctx)
		return fmt.Errorf("OAuth flow failed: %w", err)
	}
}

// promptAppCredentials reads the ServiceM8 app credentials interactively.
// The secret is read without echo.
func promptAppCredentials() error {
	fmt.Println("ServiceM8 app credentials not found in the environment.")
	fmt.Println("Register an app at https://developer.servicem8.com to get them.")

	fmt.Print("App ID: ")
	var appID string
	if _, err := fmt.Scanln(&appID); err != nil {
		return fmt.Errorf("failed to read app ID: %w", err)
	}

	fmt.Print("App secret: ")
	secretBytes, err := term.ReadPassword(syscall.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read app secret: %w", err)
	}
	fmt.Println()

	if err := os.Setenv("SERVICEM8_APP_ID", strings.TrimSpace(appID)); err != nil {
		return err
	}
	return os.Setenv("SERVICEM8_APP_SECRET", strings.TrimSpace(string(secretBytes)))
}

// SyncJobsCommand imports jobs from ServiceM8.
func SyncJobsCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	full := fs.Bool("full", false, "Full import instead of incremental")
	_ = fs.Parse(args)

	client, err := connectedClient()
	if err != nil {
		return err
	}

	run, err := syncer.ImportJobs(database, client, *full)
	if err != nil {
		return wrapAPIError("sync failed", err)
	}

	if run.Status == models.SyncRunPartial {
		fmt.Printf("⚠ Sync finished with errors: %s\n", run.ErrorMessage)
	}
	return nil
}

// SyncStatusCommand prints the sync state and recent runs.
func SyncStatusCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	limit := fs.Int("limit", 10, "Number of recent runs to show")
	_ = fs.Parse(args)

	state, err := db.GetSyncState(database, "servicem8")
	if err != nil {
		return fmt.Errorf("failed to get sync state: %w", err)
	}

	if state == nil {
		fmt.Println("No sync has run yet. Run 'probuild sync init' then 'probuild sync jobs --full'.")
		return nil
	}

	fmt.Printf("ServiceM8 sync: %s\n", state.Status)
	if state.LastSyncToken != nil && *state.LastSyncToken != "" {
		fmt.Printf("  Watermark: %s\n", *state.LastSyncToken)
	}
	if state.ErrorMessage != nil && *state.ErrorMessage != "" {
		fmt.Printf("  ✗ Last error: %s\n", *state.ErrorMessage)
	}

	runs, err := db.ListSyncRuns(database, *limit)
	if err != nil {
		return fmt.Errorf("failed to list sync runs: %w", err)
	}

	if len(runs) > 0 {
		fmt.Println("\nRecent runs:")
		for _, run := range runs {
			line := fmt.Sprintf("  %s  %-11s %-7s %d job(s)",
				run.StartedAt.Format("2006-01-02 15:04:05"), run.SyncType, run.Status, run.JobsProcessed)
			if run.ErrorMessage != "" {
				line += " — " + run.ErrorMessage
			}
			fmt.Println(line)
		}
	}

	return nil
}

// wrapAPIError adds the reconnect hint when the API rejected the stored token.
func wrapAPIError(action string, err error) error {
	if apiErr, ok := err.(*servicem8.APIError); ok && apiErr.NeedsReconnect() {
		return fmt.Errorf("ServiceM8 token expired, run 'probuild sync init' to reconnect: %w", err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// connectedClient loads the saved token and builds an API client.
func connectedClient() (*servicem8.Client, error) {
	token, err := servicem8.LoadToken()
	if err != nil {
		return nil, fmt.Errorf("no authentication token found. Run 'probuild sync init' first: %w", err)
	}

	client, err := servicem8.NewClient(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create ServiceM8 client: %w", err)
	}

	return client, nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	command := exec.Command(cmd, args...)
	return command.Start()
}
