package wav2phh

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// AnalyzeFiles analyzes several WAV files concurrently, one analyzer per
// file, at most GOMAXPROCS at a time. Results are returned in the order of
// paths. The first error cancels the remaining files and is returned.
func AnalyzeFiles(ctx context.Context, paths []string, config *Config) ([]*Result, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*Result, len(paths))
	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	var processErr error
	var errMu sync.Mutex

	for i, path := range paths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			res, err := AnalyzeFile(ctx, path, config, nil)
			if err != nil {
				errMu.Lock()
				if processErr == nil {
					processErr = fmt.Errorf("analysis failed on %s: %w", path, err)
					cancel()
				}
				errMu.Unlock()
				return
			}
			results[index] = res
		}(i, path)
	}
	wg.Wait()

	if processErr != nil {
		return nil, processErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
