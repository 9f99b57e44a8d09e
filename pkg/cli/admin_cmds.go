package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"github.com/lumapress/luma/pkg/server"
)

// NewTokenCmd returns `luma token`: mint an admin bearer token for the
// server's /api/admin routes.
func NewTokenCmd(deps *Deps) *cobra.Command {
	var ttl time.Duration
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "mint an admin bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.Config()
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("auth.jwt_secret is not configured")
			}
			now := time.Now()
			token, err := server.AdminToken(cfg.Auth.JWTSecret, jwt.MapClaims{
				"sub": subject,
				"iat": now.Unix(),
				"exp": now.Add(ttl).Unix(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject claim")
	return cmd
}

// NewPasswordCmd returns `luma password`: set or clear a gallery's
// access password. The plaintext is hashed before it touches storage.
func NewPasswordCmd(deps *Deps) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "password SLUG [PASSWORD]",
		Short: "set or clear a gallery password",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]
			plaintext := ""
			if len(args) == 2 {
				plaintext = args[1]
			}
			if !clear && plaintext == "" {
				return errors.New("PASSWORD is required unless --clear is set")
			}
			if clear {
				plaintext = ""
			}

			engine, err := deps.Engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := engine.SetGalleryPassword(cmd.Context(), slug, plaintext); err != nil {
				return err
			}
			if clear {
				fmt.Fprintf(cmd.OutOrStdout(), "gallery %s password cleared\n", slug)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "gallery %s password set\n", slug)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "remove password protection")
	return cmd
}
