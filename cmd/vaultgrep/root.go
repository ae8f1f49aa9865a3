package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vaultgrep/vaultgrep/internal/config"
	"github.com/vaultgrep/vaultgrep/internal/engine"
	"github.com/vaultgrep/vaultgrep/internal/report"
	"github.com/vaultgrep/vaultgrep/internal/search"
	"github.com/vaultgrep/vaultgrep/internal/types"
	"github.com/vaultgrep/vaultgrep/internal/vault"
)

var version = "0.1.0"

type rootOptions struct {
	passwordFiles []string
	vaultIDs      []string
	exclude       string
	maxBytes      int64
	noColor       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "vaultgrep <pattern> [start-path]",
		Short: "Grep through Ansible vault encrypted files",
		Long: `vaultgrep recursively searches a directory tree for Ansible vault
encrypted files, decrypts them with your configured vault secrets, and
prints the files and lines matching a regular expression.

Examples:
  vaultgrep "searchterm"
  vaultgrep "searchterm|anotherterm" group_vars/all
  vaultgrep --vault-password-file ~/.vault_pass "db_password" host_vars`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return fmt.Errorf("search pattern required\n\nUsage: %s", cmd.UseLine())
			}
			if len(args) > 2 {
				return fmt.Errorf("too many arguments\n\nUsage: %s", cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, args)
		},
	}

	cmd.Flags().StringArrayVar(&opts.passwordFiles, "vault-password-file", nil, "vault password file (repeatable)")
	cmd.Flags().StringArrayVar(&opts.vaultIDs, "vault-id", nil, "vault identity label@source; source is a file or 'prompt' (repeatable)")
	cmd.Flags().StringVar(&opts.exclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&opts.maxBytes, "max-bytes", 0, "skip candidate files larger than this (0 = no limit)")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colorized output")
	return cmd
}

// Execute runs the vaultgrep CLI. Fatal errors print a single explanatory
// line to stderr and exit non-zero.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func runSearch(cmd *cobra.Command, opts *rootOptions, args []string) error {
	matcher, err := search.New(args[0])
	if err != nil {
		return fmt.Errorf("invalid regex pattern: %w", err)
	}

	root := "."
	if len(args) == 2 {
		root = args[1]
	}
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path does not exist: %s", root)
		}
		return fmt.Errorf("cannot access path %s: %w", root, err)
	}

	// Load configs: CLI > local > global
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}

	noColor := opts.noColor || color.NoColor
	if !noColor && pickBool(false, lcfg.NoColor, gcfg.NoColor) {
		noColor = true
	}
	printer := report.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor)

	secrets, err := vault.ResolveSecrets(vault.ResolveOptions{
		VaultIDs:      pickStrings(opts.vaultIDs, lcfg.VaultIDs, gcfg.VaultIDs),
		PasswordFiles: passwordFiles(opts, lcfg, gcfg),
		AllowPrompt:   true,
	})
	if err != nil {
		return fmt.Errorf("failed to set up vault secrets: %w", err)
	}

	eng := engine.New(engine.Config{
		Root:      root,
		Excludes:  splitGlobs(pickString(opts.exclude, lcfg.Exclude, gcfg.Exclude)),
		MaxBytes:  pickInt64(opts.maxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Warnf:     printer.Warnf,
		Highlight: printer.Highlight,
	}, vault.NewCodec(secrets), matcher)

	found := false
	eng.Scan(func(m types.FileMatch) {
		found = true
		printer.FileMatch(m)
	})
	if !found {
		printer.NoMatches(matcher.Pattern())
	}
	return nil
}

func passwordFiles(opts *rootOptions, lcfg, gcfg config.FileConfig) []string {
	if len(opts.passwordFiles) > 0 {
		return opts.passwordFiles
	}
	if f := pickString("", lcfg.VaultPasswordFile, gcfg.VaultPasswordFile); f != "" {
		return []string{f}
	}
	return nil
}
