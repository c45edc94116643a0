package main

import (
	"fmt"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/rook-computer/badge/internal/config"
	"github.com/rook-computer/badge/internal/render"
	"github.com/rook-computer/badge/internal/slides"
	"github.com/rook-computer/badge/internal/state"
)

func newPreviewCmd() *cobra.Command {
	var slide int
	var out string
	var samplePosts int

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one slide to a PNG without touching hardware",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fonts, err := render.LoadFonts()
			if err != nil {
				return err
			}
			sink := render.NewMemorySink(render.PanelWidth, render.PanelHeight)
			renderer := render.NewRenderer(sink, fonts, nil)

			snap := state.State{CurrentSlide: slide, Posts: previewPosts(samplePosts)}
			content := slides.Content{
				FirstName:  cfg.Badge.FirstName,
				LastName:   cfg.Badge.LastName,
				ProfileURL: cfg.Badge.ProfileURL,
				Tag:        cfg.Feed.SearchTag,
			}
			if err := renderer.Paint(slides.Build(slide, snap, content)); err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, sink.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "slide %d written to %s\n", slide, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&slide, "slide", 0, "slide index (0-6)")
	cmd.Flags().StringVar(&out, "out", "slide.png", "output PNG path")
	cmd.Flags().IntVar(&samplePosts, "posts", 3, "number of sample posts for the post slides (0-3)")
	return cmd
}

func previewPosts(n int) []state.Post {
	sample := []state.Post{
		{Author: "@attendee.bsky.social", Text: "Great keynote this morning! Grabbing coffee before the next track."},
		{Author: "@speaker.bsky.social", Text: "Slides from my talk are up. Thanks to everyone who came by."},
		{Author: "@volunteer.bsky.social", Text: "Lunch is served on the second floor."},
	}
	if n < 0 {
		n = 0
	}
	if n > len(sample) {
		n = len(sample)
	}
	return sample[:n]
}
