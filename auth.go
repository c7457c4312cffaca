package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"glpimcp/internal/config"
	"glpimcp/internal/glpi"
	"glpimcp/internal/tokenfile"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the OAuth provider using the browser flow",
		RunE:  runLogin,
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved authentication token",
		RunE:  runLogout,
	}
}

func runLogin(_ *cobra.Command, _ []string) error {
	logger := buildLogger()
	ctx := context.Background()

	if loadedCfg.AuthMode() != config.AuthModeOAuth {
		return fmt.Errorf("login is only needed in oauth mode; glpi.user_token is configured")
	}

	_, err := glpi.Login(ctx, loadedCfg.OAuth2Config(), loadedCfg.OAuth.TokenPath, openBrowser, logger)
	if err != nil {
		return err
	}

	logger.Info("login successful")
	fmt.Fprintln(os.Stderr, "Login successful.")

	return nil
}

func runLogout(_ *cobra.Command, _ []string) error {
	logger := buildLogger()

	if err := tokenfile.Remove(loadedCfg.OAuth.TokenPath); err != nil {
		return err
	}

	logger.Info("logout successful")
	fmt.Fprintln(os.Stderr, "Logged out.")

	return nil
}

// openBrowser opens url in the default browser.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
