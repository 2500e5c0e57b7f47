package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/localmaps/internal/domain/geo"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	"github.com/kailas-cloud/localmaps/internal/logger"
)

type searchOutput struct {
	Query          string        `json:"query"`
	Count          int           `json:"count"`
	Candidates     int           `json:"candidates"`
	Classification string        `json:"classification"`
	Results        []placeOutput `json:"results"`
}

type placeOutput struct {
	PlaceID string   `json:"place_id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Rating  *float64 `json:"rating,omitempty"`
	OpenNow *bool    `json:"open_now,omitempty"`
}

func newSearchCmd() *cobra.Command {
	var (
		lat, lng  float64
		radius    int
		minRating float64
		openNow   bool
	)

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Run one search and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, env, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(env, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if !cmd.Flags().Changed("radius") {
				radius = cfg.Places.DefaultRadiusMeters
			} else if radius <= 0 {
				return fmt.Errorf("--radius must be positive, got %d", radius)
			}
			var rating *float64
			if cmd.Flags().Changed("min-rating") {
				rating = &minRating
			}
			origin := geo.Coordinates{Latitude: lat, Longitude: lng}

			req, err := request.New(args[0], &origin, radius, rating, openNow)
			if err != nil {
				return err
			}

			svc := newSearchService(cfg, newProviders(cfg, nil, log), nil, nil, log)
			ctx := logger.ContextWithLogger(cmd.Context(), log)
			res, err := svc.Run(ctx, req)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			out := searchOutput{
				Query:          req.Text(),
				Count:          res.Count(),
				Candidates:     res.CandidateCount(),
				Classification: string(res.Classification()),
				Results:        make([]placeOutput, 0, res.Count()),
			}
			for _, p := range res.Places() {
				out.Results = append(out.Results, toPlaceOutput(p))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude of the search origin")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude of the search origin")
	cmd.Flags().IntVar(&radius, "radius", 0, "Search radius in meters (default from config)")
	cmd.Flags().Float64Var(&minRating, "min-rating", 0, "Drop places rated below this (0-5)")
	cmd.Flags().BoolVar(&openNow, "open-now", false, "Only places open right now")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}

func toPlaceOutput(p place.Candidate) placeOutput {
	out := placeOutput{PlaceID: p.ExternalID(), Name: p.Name(), Address: p.Address()}
	if r, ok := p.Rating(); ok {
		out.Rating = &r
	}
	if open, ok := p.OpenNow(); ok {
		out.OpenNow = &open
	}
	return out
}
