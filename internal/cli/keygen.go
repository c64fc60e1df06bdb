package cli

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/arwiki/internal/keys"
	"github.com/roach88/arwiki/internal/ledger"
)

// KeygenOptions holds flags for the keygen command.
type KeygenOptions struct {
	*RootOptions
	Out    string
	Type   string
	Digest string
}

// KeygenResult is the JSON payload of the keygen command.
type KeygenResult struct {
	Path    string `json:"path"`
	Type    string `json:"type"`
	Address string `json:"address"`
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeygenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key file",
		Long: `Generate a signing key file and print its owner address.

Examples:
  arwiki keygen --out mod.key
  arwiki keygen --out pq.key --type dilithium3 --digest sha3-256`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output key file path (required)")
	_ = cmd.MarkFlagRequired("out")
	cmd.Flags().StringVar(&opts.Type, "type", keys.TypeEd25519, "key type (ed25519|dilithium3)")
	cmd.Flags().StringVar(&opts.Digest, "digest", ledger.DigestSHA256, "signing digest (sha256|sha3-256)")

	return cmd
}

func runKeygen(opts *KeygenOptions, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd)

	if _, err := ledger.Digest(opts.Digest, nil); err != nil {
		return out.Fail(ExitCommandError, "invalid digest", err)
	}
	f, err := keys.Generate(opts.Type, opts.Digest, rand.Reader)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to generate key", err)
	}
	signer, err := keys.FromFile(f)
	if err != nil {
		return out.Fail(ExitCommandError, "failed to derive key", err)
	}
	if err := keys.Save(opts.Out, f); err != nil {
		return out.Fail(ExitCommandError, "failed to write key file", err)
	}

	result := KeygenResult{Path: opts.Out, Type: f.Type, Address: ledger.Address(signer.PublicKey())}
	return out.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Wrote %s key to %s\n", result.Type, result.Path)
		fmt.Fprintf(w, "Address: %s\n", result.Address)
	})
}
