package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/unfoldingWord-dev/tools-sub000/internal/pipeline"
)

// Generator produces one document
type Generator interface {
	Generate(ctx context.Context, job pipeline.Job) (*pipeline.Result, error)
}

// GenerateJob generates the document of one book
type GenerateJob struct {
	Job       pipeline.Job
	Generator Generator
}

// Execute executes the generation job
func (j *GenerateJob) Execute(ctx context.Context) Result {
	result, err := j.Generator.Generate(ctx, j.Job)
	return &GenerateResult{
		Book:   j.Job.Book,
		Result: result,
		Error:  err,
	}
}

// GenerateResult represents the result of a generation job
type GenerateResult struct {
	Book   string
	Result *pipeline.Result
	Error  error
}

// GetError returns the error from the generation result
func (r *GenerateResult) GetError() error {
	return r.Error
}

// BatchProcessor generates many books concurrently. Every job runs its own
// resolution context; only the converter and its cache are shared.
type BatchProcessor struct {
	generator   Generator
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(generator Generator, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		generator:   generator,
		concurrency: concurrency,
	}
}

// ProcessBooks runs base once per book and returns the results sorted by book
func (b *BatchProcessor) ProcessBooks(ctx context.Context, base pipeline.Job, books []string) []*GenerateResult {
	if len(books) == 0 {
		return []*GenerateResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, book := range books {
		job := base
		job.Book = book
		pool.Submit(&GenerateJob{Job: job, Generator: b.generator})
	}

	results := pool.Wait()

	out := make([]*GenerateResult, len(results))
	for i, result := range results {
		out[i] = result.(*GenerateResult)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Book < out[j].Book })
	return out
}

// ProcessFile reads book identifiers from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, base pipeline.Job, filePath string) ([]*GenerateResult, error) {
	books, err := ReadBooksFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read books: %w", err)
	}

	return b.ProcessBooks(ctx, base, books), nil
}

// ReadBooksFromFile reads book identifiers from a file. Identifiers may be
// separated by newlines, spaces or commas; # starts a comment.
func ReadBooksFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var books []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		for _, f := range fields {
			book := strings.ToLower(strings.TrimSpace(f))
			if book != "" && !seen[book] {
				seen[book] = true
				books = append(books, book)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return books, nil
}
