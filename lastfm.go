package main

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llehouerou/moosack/internal/config"
	"github.com/llehouerou/moosack/internal/lastfm"
	"github.com/llehouerou/moosack/internal/state"
)

// Last.fm rejects scrobbles older than two weeks.
const pendingScrobbleMaxAge = 14 * 24 * time.Hour

var errLastfmNotConfigured = errors.New("last.fm is not configured: set lastfm.api_key and lastfm.api_secret")

// lastfmClient returns an authenticated client, or nil when scrobbling is
// not configured or no account is linked.
func lastfmClient(cfg *config.Config, store *state.Store) *lastfm.Client {
	if !cfg.HasLastfmConfig() {
		return nil
	}
	session, err := store.LastfmSession()
	if err != nil {
		log.WithError(err).Warn("read lastfm session")
		return nil
	}
	if session == nil {
		log.Info("lastfm configured but not linked, run `moosack lastfm login`")
		return nil
	}
	client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
	client.SetSessionKey(session.SessionKey)
	return client
}

func lastfmCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lastfm",
		Short: "Manage the Last.fm account used for scrobbling",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Link a Last.fm account through the browser",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(flags, func(cfg *config.Config, store *state.Store) error {
					if !cfg.HasLastfmConfig() {
						return errLastfmNotConfigured
					}
					client := lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
					username, err := lastfm.Link(client, store, lastfm.LinkOptions{
						Prompt: func(authURL string) {
							cmd.Printf("Authorize Moosack in your browser:\n  %s\n", authURL)
						},
					})
					if err != nil {
						return fmt.Errorf("link lastfm account: %w", err)
					}
					cmd.Printf("Linked Last.fm account %s\n", username)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Forget the linked Last.fm account",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(flags, func(_ *config.Config, store *state.Store) error {
					if err := store.DeleteLastfmSession(); err != nil {
						return err
					}
					cmd.Println("Last.fm account unlinked")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the linked Last.fm account and pending scrobbles",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(flags, func(_ *config.Config, store *state.Store) error {
					session, err := store.LastfmSession()
					if err != nil {
						return err
					}
					if session == nil {
						cmd.Println("No Last.fm account linked")
					} else {
						cmd.Printf("Linked to %s since %s\n", session.Username, session.LinkedAt.Format(time.DateOnly))
					}
					pending, err := store.PendingScrobbles()
					if err != nil {
						return err
					}
					cmd.Printf("%d pending scrobbles\n", len(pending))
					return nil
				})
			},
		},
	)
	return cmd
}

func withStore(flags *rootFlags, fn func(*config.Config, *state.Store) error) error {
	cfg, closer, err := setup(flags)
	if err != nil {
		return err
	}
	defer closer.Close()

	store, err := state.Open()
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(cfg, store)
}
