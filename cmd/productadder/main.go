package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"productadder/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	root := &cobra.Command{
		Use:           "productadder",
		Short:         "Add products with their images to the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("db-driver", "", "document store: sqlite or mongo")
	pf.String("db-dsn", "", "sqlite database file")
	pf.String("storage", "", "object store: fs or minio")
	pf.String("media-dir", "", "directory for the fs object store")
	pf.String("log-file", "", "rotated log file, empty for stdout only")
	bind(v, pf.Lookup("db-driver"), "DB_DRIVER")
	bind(v, pf.Lookup("db-dsn"), "DB_DSN")
	bind(v, pf.Lookup("storage"), "STORAGE_DRIVER")
	bind(v, pf.Lookup("media-dir"), "MEDIA_DIR")
	bind(v, pf.Lookup("log-file"), "LOG_FILE")

	root.AddCommand(newServeCmd(v), newAddCmd(v))
	return root
}

// bind lets a flag override its environment key when it was set.
func bind(v *viper.Viper, f *pflag.Flag, key string) {
	_ = v.BindPFlag(key, f)
}
