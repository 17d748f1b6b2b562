// Package resilience bounds concurrent access to a shared resource.
//
// Bulkhead caps how many callers run at once. Callers beyond the cap either
// fail fast, wait up to MaxWait, or queue until their context ends:
//
//	bh := resilience.NewBulkhead(resilience.BulkheadConfig{
//	    Name:          "inference",
//	    MaxConcurrent: 6,
//	    MaxWait:       resilience.WaitForever,
//	})
//	out, err := resilience.ExecuteWithResult(bh, ctx, func() (Result, error) {
//	    return model.Generate(ctx, path)
//	})
package resilience
