package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify GLPI connectivity and credentials",
		RunE:  runCheck,
	}
}

// runCheck opens a session against the configured backend and tears it
// down again. A success proves the URL, app token, and credentials all work.
func runCheck(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	client, err := buildGLPIClient(ctx, loadedCfg, logger)
	if err != nil {
		return err
	}

	// Any authenticated endpoint forces session initialization.
	if _, err := client.Get(ctx, "getActiveProfile", nil); err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}

	client.KillSession(ctx)

	fmt.Fprintf(os.Stderr, "OK: authenticated against %s\n", loadedCfg.GLPI.APIURL)

	return nil
}
