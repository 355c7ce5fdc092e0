package main

import (
	"context"
	"log"
	"os"
	"time"

	html "github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"productadder/internal/codec"
	"productadder/internal/config"
	"productadder/internal/http/handlers"
	applog "productadder/internal/log"
	"productadder/internal/services"
	"productadder/internal/uploader"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the product form and its API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.FromViper(v))
		},
	}
	cmd.Flags().String("port", "", "listen port")
	_ = v.BindPFlag("PORT", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, cfg config.Config) error {
	applog.Setup(cfg.LogFile)

	if (cfg.StorageDriver == "" || cfg.StorageDriver == "fs") && cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port + "/media"
	}
	docs, closeDocs, err := openDocs(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDocs()
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	staging := absDir(cfg.StagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return err
	}
	svc := services.NewProductService(codec.NewJPEG(codec.FileResolver{Root: staging}), uploader.New(store), docs)
	deps, err := handlers.NewDeps(svc, staging, cfg.DraftCapacity)
	if err != nil {
		return err
	}
	if cfg.StorageDriver == "" || cfg.StorageDriver == "fs" {
		deps.MediaDir = cfg.MediaDir
	}

	engine := html.New("./web/templates", ".html")
	engine.Reload(true)
	app := handlers.NewApp(deps, engine)

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()
	log.Printf("[serve] listening on :%s", cfg.Port)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}
