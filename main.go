package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/moosack/internal/app"
	"github.com/llehouerou/moosack/internal/backend"
	"github.com/llehouerou/moosack/internal/config"
	"github.com/llehouerou/moosack/internal/errmsg"
	"github.com/llehouerou/moosack/internal/library"
	"github.com/llehouerou/moosack/internal/loader"
	"github.com/llehouerou/moosack/internal/logging"
	"github.com/llehouerou/moosack/internal/mpris"
	"github.com/llehouerou/moosack/internal/notify"
	"github.com/llehouerou/moosack/internal/playback"
	"github.com/llehouerou/moosack/internal/state"
)

type rootFlags struct {
	configPath string
	logLevel   string
	noScan     bool
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "moosack [files|urls|dirs|playlists...]",
		Short: "A queue-based terminal music player",
		Long: `Moosack plays the given files, URLs, directories and playlists in order.

With no argument it scans the configured libraries and plays them.
Keys: space play/pause, p play, n or → next, s stop, q quit.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return run(flags, args)
		},
	}
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file loaded after the default ones")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.noScan, "no-scan", false, "do not scan the libraries when no argument is given")

	cmd.AddCommand(lastfmCmd(flags))
	return cmd
}

// setup loads the configuration and starts logging to the log file.
func setup(flags *rootFlags) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, nil, errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}

	logPath, err := logging.DefaultPath()
	if err != nil {
		return nil, nil, err
	}
	closer, err := logging.Setup(cfg.LogLevel, logPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, closer, nil
}

func run(flags *rootFlags, args []string) error {
	cfg, logCloser, err := setup(flags)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Audio libraries write to stderr, which would corrupt the TUI.
	if restore, err := logging.CaptureStderr(); err != nil {
		log.WithError(err).Warn("capture stderr")
	} else {
		defer restore()
	}

	store, err := state.Open()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	defer store.Close()

	speaker := backend.NewSpeaker()
	defer speaker.Close()

	fetcher := loader.NewHTTPFetcher(loader.DefaultFetchDir(), store, cfg.FetchTimeoutDuration())
	ld := loader.New(speaker, fetcher)
	service := playback.NewService(playback.New(speaker, ld))

	opts := app.Options{Service: service, Media: ld}

	if len(args) > 0 {
		sources, err := library.Collect(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, errmsg.Format(errmsg.OpCollect, err))
			log.WithError(err).Warn("collect arguments")
		}
		if len(sources) == 0 {
			return errors.New("nothing to play")
		}
		opts.Initial = sources
	} else if cfg.ScanOnStart && !flags.noScan {
		opts.Library = library.New(store.DB())
		opts.Libraries = cfg.Libraries
	}

	if cfg.MPRIS {
		adapter, err := mpris.New(service)
		if err != nil {
			log.WithError(err).Warn("start mpris")
		} else {
			defer adapter.Close()
		}
	}

	if cfg.Notifications {
		notifier, err := notify.New()
		if err != nil {
			log.WithError(err).Warn("start notifications")
		} else {
			opts.Notifier = notifier
		}
	}

	if client := lastfmClient(cfg, store); client != nil {
		opts.Scrobbler = client
		opts.Pending = store
		if err := store.DeleteOldPendingScrobbles(pendingScrobbleMaxAge); err != nil {
			log.WithError(err).Warn("prune pending scrobbles")
		}
	}

	log.Infof("starting with %d sources, libraries %v", len(opts.Initial), opts.Libraries)

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}

	// The model normally stops on quit; make sure nothing keeps playing.
	return service.Stop()
}
