// Package quarry provides an embedded Go client for the quarry business
// knowledge retrieval pipeline, backed by Valkey or Redis with search modules.
//
// Every question runs through the full pipeline: intent classification,
// query expansion, concurrent multi-strategy retrieval, relevance ranking,
// and citation packaging.
//
//	client, _ := quarry.New(ctx,
//	    quarry.WithValkey("localhost:6379", ""),
//	    quarry.WithEmbedder(myEmbedder),
//	)
//	defer client.Close()
//
//	answer, _ := client.Ask(ctx, quarry.Question{
//	    Text: "how do i reduce churn for my saas",
//	})
//	for _, r := range answer.Results {
//	    fmt.Println(r.Score, r.Content)
//	}
//
// Passages are indexed through the same client:
//
//	_ = client.Passages().Ingest(ctx, quarry.Passage{
//	    ID:      "churn-101",
//	    Content: "Negative churn happens when expansion revenue...",
//	    Phase:   "growth",
//	})
package quarry
