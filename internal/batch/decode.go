package batch

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ironsheep/texpack/internal/atlas"
	"github.com/ironsheep/texpack/internal/imaging"
)

// ProgressInterval is how often Decode logs its progress.
var ProgressInterval = 2 * time.Second

// Result holds the outcome of decoding one file.
type Result struct {
	Path    string
	Name    string
	Success bool
	Error   string
}

// Decode reads and decodes every path on a pool of workers. Sources are
// returned in path order; the slice holds only the files that decoded.
// The returned error joins every failure.
func Decode(paths []string, opts imaging.DecodeOptions, workers int) ([]atlas.Source, []Result, error) {
	if workers <= 0 {
		workers = 1
	}

	total := len(paths)
	images := make([]atlas.Source, total)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(ProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Printf("decoded [%d/%d] %.1f images/sec", p, total, float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	pathChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range pathChan {
				images[idx], results[idx] = decodeFile(paths[idx], opts)
				processed.Add(1)
			}
		}()
	}

	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	wg.Wait()
	close(done)

	var (
		sources []atlas.Source
		errs    []error
	)
	for i, r := range results {
		if !r.Success {
			errs = append(errs, fmt.Errorf("%s: %s", r.Path, r.Error))
			continue
		}
		sources = append(sources, images[i])
	}
	return sources, results, errors.Join(errs...)
}

func decodeFile(path string, opts imaging.DecodeOptions) (atlas.Source, Result) {
	name := FrameName(path)
	img, err := imaging.LoadFile(path, opts)
	if err != nil {
		return atlas.Source{}, Result{Path: path, Name: name, Error: err.Error()}
	}
	return atlas.Source{Name: name, Image: img}, Result{Path: path, Name: name, Success: true}
}
