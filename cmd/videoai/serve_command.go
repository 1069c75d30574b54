package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"videoai/internal/api"
	"videoai/internal/daemon"
	"videoai/internal/generation"
	"videoai/internal/jobs"
	"videoai/internal/logging"
	"videoai/internal/segmentation"
	"videoai/internal/services/mediaai"
	"videoai/internal/services/platform"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the job engine daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			logger, err := logging.New(logging.Options{
				Level:       cfg.Logging.Level,
				Format:      cfg.Logging.Format,
				OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "videoai.log")},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := jobs.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job store: %w", err)
			}

			media := mediaai.FromConfig(cfg)
			gateway := platform.FromConfig(cfg)

			d, err := daemon.New(cfg, store, logger, daemon.Options{
				Collaborators: api.Collaborators{
					Generation: generation.Collaborators{
						Scripts:  media,
						Voices:   media,
						Captions: media,
						Renderer: media,
					},
					Segmentation: segmentation.Collaborators{
						Frames:      media,
						Scenes:      media,
						Transcriber: media,
					},
					Publishing: gateway.Collaborators(),
				},
				Users: gateway,
			})
			if err != nil {
				store.Close()
				return fmt.Errorf("create daemon: %w", err)
			}
			defer d.Close()

			runCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := d.Start(runCtx); err != nil {
				return err
			}

			<-runCtx.Done()
			logger.Info("videoai shutting down")
			return nil
		},
	}
}
