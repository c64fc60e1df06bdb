package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/config"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid          bool             `json:"valid"`
	Path           string           `json:"path"`
	DefaultNetwork string           `json:"default_network,omitempty"`
	Networks       []NetworkSummary `json:"networks,omitempty"`
}

// NetworkSummary describes one configured network.
type NetworkSummary struct {
	Name     string `json:"name"`
	BaseURL  string `json:"base_url"`
	Binding  string `json:"binding"`
	Contract string `json:"contract"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [config.yaml]",
		Short: "Validate a configuration file",
		Long: `Validate an arwiki configuration file against the embedded CUE schema.

Also checks rules the schema cannot express: unique network names, a
configured default network, and a dev_database for every loopback network.
Defaults to --config, then ./arwiki.yaml.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.Config
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = config.DefaultFile
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := config.Load(path)
	if err != nil {
		return formatter.Fail(ExitFailure, fmt.Sprintf("invalid configuration %s", path), err)
	}
	formatter.VerboseLog("Loaded %d network(s) from %s", len(cfg.Networks), path)

	result := ValidationResult{Valid: true, Path: path, DefaultNetwork: cfg.DefaultNetwork}
	for _, n := range cfg.Networks {
		binding := "gateway"
		switch {
		case n.IsLoopback():
			binding = "local:" + n.DevDatabase
		case !n.UseGateway:
			binding = "evaluator:" + n.EvaluatorURL
		}
		result.Networks = append(result.Networks, NetworkSummary{
			Name:     n.Name,
			BaseURL:  n.BaseURL(),
			Binding:  binding,
			Contract: n.ContractAddress,
		})
	}

	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "✓ %s is valid\n", path)
		for _, n := range result.Networks {
			marker := " "
			if n.Name == result.DefaultNetwork {
				marker = "*"
			}
			fmt.Fprintf(w, "%s %s  %s  (%s)\n", marker, n.Name, n.BaseURL, n.Binding)
		}
	})
}
