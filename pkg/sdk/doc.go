// Package localmaps runs the independent-business search pipeline in process,
// without the HTTP server.
//
// A Client wires the places provider, the LLM classifier and an optional
// Valkey or Redis classification cache:
//
//	client, _ := localmaps.New(ctx,
//	    localmaps.WithPlaces(os.Getenv("GOOGLE_PLACES_API_KEY")),
//	    localmaps.WithClassifier(os.Getenv("GEMINI_API_KEY"), ""),
//	    localmaps.WithValkeyCache("localhost:6379", "", time.Hour),
//	)
//	defer client.Close()
//
//	res, err := client.Search(ctx, "coffee", 37.7749, -122.4194,
//	    localmaps.WithRadius(2000),
//	    localmaps.WithMinRating(4.2),
//	)
//
// A classifier outage never fails Search: the unfiltered candidates are
// returned and Classification reports "fallback". Places provider failures
// are returned as errors matching ErrSearchProvider.
package localmaps
