package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wakuchat/core/internal/identity"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "generate a new identity and write its encrypted export",
	RunE:  runKeygen,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "print the local identity's user id and public key",
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	if identityPass == "" {
		return fmt.Errorf("--identity-password is required")
	}
	id, err := identity.Create()
	if err != nil {
		return fmt.Errorf("generate identity: %w", err)
	}
	export, err := id.Export(identityPass)
	if err != nil {
		return fmt.Errorf("export identity: %w", err)
	}
	if err := os.WriteFile(identityPath, export, 0o600); err != nil {
		return fmt.Errorf("write identity file: %w", err)
	}
	fmt.Printf("user_id: %s\n", id.UserID())
	fmt.Printf("public_key: %s\n", hex.EncodeToString(id.PublicKey()))
	fmt.Printf("wrote %s\n", identityPath)
	return nil
}

func loadIdentity() (*identity.Identity, error) {
	if identityPass == "" {
		return nil, fmt.Errorf("--identity-password is required")
	}
	raw, err := os.ReadFile(identityPath)
	if err != nil {
		return nil, fmt.Errorf("read identity file: %w", err)
	}
	id, err := identity.Import(raw, identityPass)
	if err != nil {
		return nil, fmt.Errorf("import identity: %w", err)
	}
	return id, nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	id, err := loadIdentity()
	if err != nil {
		return err
	}
	fmt.Printf("user_id: %s\n", id.UserID())
	fmt.Printf("public_key: %s\n", hex.EncodeToString(id.PublicKey()))
	return nil
}
