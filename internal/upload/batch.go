package upload

import (
	"context"
	"sync"

	"github.com/wayfarer-app/wayfarer/internal/logging"
	"github.com/wayfarer-app/wayfarer/internal/models"
)

// Pipeline drains a batch of source files through compression and upload
// under a fixed concurrency bound.
//
// Files are processed in consecutive windows of at most Concurrency
// tasks. Tasks within a window run concurrently; the next window starts
// only once every task of the previous one has reached a terminal state,
// so at most Concurrency tasks are ever in flight. A task failure never
// aborts its siblings: the pipeline always drains the whole batch and
// reports one terminal outcome per input, in input order. Policy over
// those outcomes belongs to the caller.
type Pipeline struct {
	compressor  Compressor
	uploader    Uploader
	concurrency int
	logger      logging.Logger
}

func NewPipeline(compressor Compressor, uploader Uploader, concurrency int, logger logging.Logger) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{
		compressor:  compressor,
		uploader:    uploader,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run processes files and returns one outcome per file, index-aligned
// with the input regardless of completion order.
func (p *Pipeline) Run(ctx context.Context, files []models.SourceFile) []models.TaskOutcome {
	outcomes := make([]models.TaskOutcome, len(files))

	for start := 0; start < len(files); start += p.concurrency {
		end := start + p.concurrency
		if end > len(files) {
			end = len(files)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = p.runTask(ctx, i, files[i])
			}(i)
		}
		wg.Wait()
	}

	return outcomes
}

// runTask drives one file to a terminal state.
func (p *Pipeline) runTask(ctx context.Context, index int, file models.SourceFile) models.TaskOutcome {
	outcome := models.TaskOutcome{
		Index:    index,
		Filename: file.Name,
		State:    models.TaskCompressing,
	}

	blob, err := p.compressor.Compress(ctx, file)
	if err != nil {
		p.logger.Warn(ctx, "compression failed", "file", file.Name, "error", err)
		outcome.State = models.TaskFailed
		outcome.Err = err
		return outcome
	}

	outcome.State = models.TaskUploading
	outcome.Key = StorageKey()

	url, err := p.uploader.Upload(ctx, outcome.Key, blob, map[string]string{"filename": file.Name})
	if err != nil {
		p.logger.Warn(ctx, "upload failed", "file", file.Name, "error", err)
		outcome.State = models.TaskFailed
		outcome.Err = &UploadError{Filename: file.Name, Err: err}
		return outcome
	}

	outcome.State = models.TaskSucceeded
	outcome.URL = url
	return outcome
}
