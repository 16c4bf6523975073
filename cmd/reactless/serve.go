package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/reactless/internal/cli"
)

// encryptionKeyEnv holds the hex-encoded key for stored trees. A flag would leak it to ps.
const encryptionKeyEnv = "REACTLESS_ENCRYPTION_KEY"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP render server",
	Long: `Starts the engine on a frame loop and exposes render sessions over HTTP.
Committed trees are kept in memory, or in Redis with --redis. Set
REACTLESS_ENCRYPTION_KEY (64 hex digits) to store them encrypted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.ServeOptions{GlobalOptions: globalOptions(cmd)}
		opts.Port, _ = cmd.Flags().GetString("port")
		opts.RedisAddr, _ = cmd.Flags().GetString("redis")
		opts.RedisDB, _ = cmd.Flags().GetInt("redis-db")
		opts.SnapshotTTL, _ = cmd.Flags().GetDuration("ttl")
		opts.Frame, _ = cmd.Flags().GetDuration("frame")
		opts.FrameBudget, _ = cmd.Flags().GetDuration("frame-budget")
		opts.MaskAttrs, _ = cmd.Flags().GetStringSlice("mask-attr")
		opts.EncryptionKey = os.Getenv(encryptionKeyEnv)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.RunServe(sigCtx, opts)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for snapshots (memory when empty)")
	serveCmd.Flags().Int("redis-db", 0, "Redis database")
	serveCmd.Flags().Duration("ttl", 0, "Expire stored snapshots after this long (0 keeps them)")
	serveCmd.Flags().Duration("frame", 16*time.Millisecond, "Interval between scheduler grants")
	serveCmd.Flags().Duration("frame-budget", 8*time.Millisecond, "Longest render slice per frame")
	serveCmd.Flags().StringSlice("mask-attr", nil, "Regexp of attribute names masked in stored trees (repeatable)")
}
