package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const minAPIKeyLength = 16

func newHashKeyCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-key [api-key]",
		Short: "Print the bcrypt hash to use as AUTH_API_KEY_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readAlertInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			hash, err := hashAPIKey(string(raw), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func hashAPIKey(key string, cost int) (string, error) {
	key = strings.TrimSpace(key)
	if len(key) < minAPIKeyLength {
		return "", fmt.Errorf("api key must be at least %d characters", minAPIKeyLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}
