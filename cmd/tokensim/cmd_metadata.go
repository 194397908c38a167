package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rovshanmuradov/tokensim/internal/token"
)

var cmdMetadata = &cobra.Command{
	Use:   "metadata",
	Short: "Print the off-chain metadata document for the configured token",
	Args:  cobra.NoArgs,
	RunE:  runMetadata,
}

var cmdValidate = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and token fields",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runMetadata(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc, err := token.Validate(cfg.Scenario.Token)
	if err != nil {
		return err
	}

	data, err := tc.MetadataDocument().MarshalIndent()
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	addr, err := tc.MetadataAddress()
	switch {
	case errors.Is(err, token.ErrNoMintAddress):
		cmd.PrintErrln("No mint_address configured: metadata account address not derived")
	case err != nil:
		return err
	default:
		cmd.PrintErrf("Metadata account: %s\n", addr)
	}
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tc, err := token.Validate(cfg.Scenario.Token)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s): %d base units, %d step(s), cluster %s\n",
		tc.Name, tc.Symbol, tc.BaseUnitSupply(), len(cfg.Scenario.Steps), cfg.Network.Name)
	return nil
}
