package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"planline/internal/db"
	"planline/internal/models"
)

// EnvGitHubToken takes precedence over the keyring
const EnvGitHubToken = "PLN_GITHUB_TOKEN"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage project and tool configuration",
}

var configGitHubCmd = &cobra.Command{
	Use:   "github",
	Short: "Configure publishing to GitHub Issues",
	Long: `Configure where 'pln sync push' publishes tasks.

Without flags you are prompted for:
  - GitHub repository (owner/repo)
  - Issue title prefix (default: "[Plan]")
  - Personal access token, stored in the system keyring

The token needs Issues: Read and Write on the repository. PLN_GITHUB_TOKEN
overrides the keyring, which is useful in CI.`,
	RunE: runConfigGitHub,
}

var (
	configGitHubRepo   string
	configGitHubPrefix string
	configGitHubToken  string
	configGitHubShow   bool
	configGitHubClear  bool
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGitHubCmd)

	configGitHubCmd.Flags().StringVar(&configGitHubRepo, "repo", "", "GitHub repository (owner/repo)")
	configGitHubCmd.Flags().StringVar(&configGitHubPrefix, "prefix", "", "Issue title prefix")
	configGitHubCmd.Flags().StringVar(&configGitHubToken, "token", "", "GitHub token (prefer the prompt or PLN_GITHUB_TOKEN)")
	configGitHubCmd.Flags().BoolVar(&configGitHubShow, "show", false, "Show current configuration")
	configGitHubCmd.Flags().BoolVar(&configGitHubClear, "clear", false, "Clear GitHub configuration")
}

// githubSettings is what 'pln config github' edits
type githubSettings struct {
	Repo   string
	Prefix string
	Token  string // empty keeps the stored token
}

func runConfigGitHub(cmd *cobra.Command, args []string) error {
	switch {
	case configGitHubShow:
		return showGitHubConfig()
	case configGitHubClear:
		return clearGitHubConfig()
	}

	var s githubSettings
	var err error
	if configGitHubRepo != "" || configGitHubToken != "" || configGitHubPrefix != "" {
		s = githubSettings{Repo: configGitHubRepo, Prefix: configGitHubPrefix, Token: configGitHubToken}
	} else if s, err = promptGitHubSettings(); err != nil {
		return err
	}
	if err := saveGitHubSettings(s); err != nil {
		return err
	}

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "message": "GitHub configuration updated"})
		return nil
	}
	fmt.Println("GitHub configuration updated")
	return showGitHubConfig()
}

func validRepo(repo string) bool {
	owner, name, ok := strings.Cut(repo, "/")
	return ok && owner != "" && name != "" && !strings.Contains(name, "/")
}

// saveGitHubSettings stores the non-empty fields of s
func saveGitHubSettings(s githubSettings) error {
	if s.Repo != "" {
		if !validRepo(s.Repo) {
			return fmt.Errorf("repository must be in owner/repo format, got '%s'", s.Repo)
		}
		if err := db.SetConfig(models.ConfigGitHubRepo, s.Repo); err != nil {
			return fmt.Errorf("failed to save repository: %w", err)
		}
	}
	if s.Prefix != "" {
		if err := db.SetConfig(models.ConfigGitHubIssuePrefix, s.Prefix); err != nil {
			return fmt.Errorf("failed to save prefix: %w", err)
		}
	}
	if s.Token != "" {
		if err := keyring.Set(models.KeyringServiceName, models.KeyringGitHubTokenKey, s.Token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w (set %s instead)", err, EnvGitHubToken)
		}
		if err := db.SetConfig(models.ConfigGitHubTokenSet, "true"); err != nil {
			return fmt.Errorf("failed to save token flag: %w", err)
		}
	}
	return nil
}

func promptGitHubSettings() (githubSettings, error) {
	reader := bufio.NewReader(os.Stdin)
	ask := func(label, current string) string {
		if current != "" {
			fmt.Printf("%s [%s]: ", label, current)
		} else {
			fmt.Printf("%s: ", label)
		}
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
		return current
	}

	fmt.Println("GitHub Integration Setup")
	fmt.Println("========================")
	fmt.Println()

	var s githubSettings
	s.Repo = ask("Repository (owner/repo)", db.GetConfigOr(models.ConfigGitHubRepo, ""))
	if s.Repo == "" {
		return s, fmt.Errorf("repository is required")
	}
	s.Prefix = ask("Issue prefix", db.GetConfigOr(models.ConfigGitHubIssuePrefix, models.DefaultGitHubIssuePrefix))

	fmt.Println()
	fmt.Println("Personal access token (Issues: Read and Write)")
	fmt.Print("Token (input hidden, Enter keeps the stored one): ")
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return s, fmt.Errorf("failed to read token: %w", err)
		}
		s.Token = strings.TrimSpace(string(raw))
	} else {
		line, _ := reader.ReadString('\n')
		s.Token = strings.TrimSpace(line)
	}

	if s.Token == "" {
		if _, err := GetGitHubToken(); err != nil {
			return s, fmt.Errorf("token is required")
		}
	}
	return s, nil
}

func showGitHubConfig() error {
	repo := db.GetConfigOr(models.ConfigGitHubRepo, "")
	prefix := db.GetConfigOr(models.ConfigGitHubIssuePrefix, models.DefaultGitHubIssuePrefix)
	tokenSet := db.GetConfigOr(models.ConfigGitHubTokenSet, "") == "true"
	tokenFromEnv := os.Getenv(EnvGitHubToken) != ""

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{
			"repository":   repo,
			"issue_prefix": prefix,
			"token_set":    tokenSet,
			"token_env":    tokenFromEnv,
		})
		return nil
	}

	if repo == "" {
		repo = "(not configured)"
	}
	token := "(not configured)"
	switch {
	case tokenFromEnv:
		token = "(from " + EnvGitHubToken + ")"
	case tokenSet:
		token = "(stored in system keyring)"
	}
	fmt.Println("GitHub Configuration:")
	fmt.Printf("  Repository:   %s\n", repo)
	fmt.Printf("  Issue Prefix: %s\n", prefix)
	fmt.Printf("  Token:        %s\n", token)
	return nil
}

func clearGitHubConfig() error {
	for _, key := range []string{models.ConfigGitHubRepo, models.ConfigGitHubIssuePrefix, models.ConfigGitHubTokenSet} {
		if err := db.GetDB().Where("key = ?", key).Delete(&models.Config{}).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	// a missing keyring entry is fine
	keyring.Delete(models.KeyringServiceName, models.KeyringGitHubTokenKey)

	if IsJSONOutput() {
		OutputJSON(map[string]interface{}{"success": true, "message": "GitHub configuration cleared"})
	} else {
		fmt.Println("GitHub configuration cleared")
	}
	return nil
}

// GetGitHubToken retrieves the GitHub token from the environment or keyring
func GetGitHubToken() (string, error) {
	if token := os.Getenv(EnvGitHubToken); token != "" {
		return token, nil
	}
	token, err := keyring.Get(models.KeyringServiceName, models.KeyringGitHubTokenKey)
	if err != nil {
		return "", fmt.Errorf("GitHub token not found. Run 'pln config github' or set %s", EnvGitHubToken)
	}
	return token, nil
}
