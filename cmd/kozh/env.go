package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oukeidos/kozh/internal/auth"
	"github.com/oukeidos/kozh/internal/config"
)

type envOptions struct {
	service string
}

func newEnvCmd(global *globalOptions) *cobra.Command {
	opts := envOptions{}
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Manage API keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvStatus(cmd, global, &opts)
		},
	}
	cmd.SetUsageTemplate(subcommandUsageTemplate)
	cmd.PersistentFlags().StringVar(&opts.service, "service", "", "Service to manage: gemini or openai (default follows --backend)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Save an API key (prompt only)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEnvSetup(cmd, global, &opts)
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Delete the saved API key",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEnvDelete(cmd, global, &opts)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show key status (default if no action given)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runEnvStatus(cmd, global, &opts)
			},
		},
	)
	for _, sub := range cmd.Commands() {
		sub.SetUsageTemplate(subcommandUsageTemplate)
	}
	return cmd
}

func (o *envOptions) resolve(cfg config.Config) (string, error) {
	svc := strings.ToLower(strings.TrimSpace(o.service))
	if svc == "" {
		return serviceFor(cfg), nil
	}
	if svc != auth.ServiceGemini && svc != auth.ServiceOpenAI {
		return "", fmt.Errorf("invalid service. Must be 'gemini' or 'openai'")
	}
	return svc, nil
}

func serviceLabel(svc string) string {
	if svc == auth.ServiceOpenAI {
		return "OpenAI"
	}
	return "Gemini"
}

func locationLabel(cfg config.Config) string {
	if cfg.Credential == config.CredentialKeyring {
		return "keychain"
	}
	return "local storage"
}

// credentialsFor opens the configured key location without the
// environment fallback, which env commands report separately.
func credentialsFor(cfg config.Config) (auth.Credentials, error) {
	cfg.AllowEnv = false
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return newCredentials(cfg, st), nil
}

func runEnvSetup(cmd *cobra.Command, global *globalOptions, opts *envOptions) error {
	svc, err := opts.resolve(global.cfg)
	if err != nil {
		return err
	}
	creds, err := credentialsFor(global.cfg)
	if err != nil {
		return err
	}
	entered, err := promptForKey(fmt.Sprintf("%s API Key: ", serviceLabel(svc)))
	if err != nil {
		return fmt.Errorf("error reading key: %w", err)
	}
	key := strings.TrimSpace(entered)
	if key == "" {
		return fmt.Errorf("API key is required for setup")
	}
	if err := creds.Save(context.Background(), svc, key); err != nil {
		return fmt.Errorf("error saving key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s API key to %s.\n", svc, locationLabel(global.cfg))
	return nil
}

func runEnvDelete(cmd *cobra.Command, global *globalOptions, opts *envOptions) error {
	svc, err := opts.resolve(global.cfg)
	if err != nil {
		return err
	}
	creds, err := credentialsFor(global.cfg)
	if err != nil {
		return err
	}
	if err := creds.Delete(context.Background(), svc); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s API key from %s.\n", svc, locationLabel(global.cfg))
	return nil
}

func runEnvStatus(cmd *cobra.Command, global *globalOptions, opts *envOptions) error {
	svc, err := opts.resolve(global.cfg)
	if err != nil {
		return err
	}
	creds, err := credentialsFor(global.cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if auth.GetStatus(context.Background(), creds, svc) {
		fmt.Fprintf(out, "%s API Key: Found (source=%s)\n", svc, locationLabel(global.cfg))
		return nil
	}
	if envKey, ok := getEnvKey(svc); ok && envKey != "" {
		if global.cfg.AllowEnv {
			fmt.Fprintf(out, "%s API Key: Found (source=Environment Variable)\n", svc)
		} else {
			fmt.Fprintf(out, "%s API Key: Found (source=Environment Variable; disabled by default, use --allow-env)\n", svc)
		}
		return nil
	}
	fmt.Fprintf(out, "%s API Key: Not Found (%s empty, env not set)\n", svc, locationLabel(global.cfg))
	return nil
}
