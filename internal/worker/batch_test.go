package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/unfoldingWord-dev/tools-sub000/internal/model"
	"github.com/unfoldingWord-dev/tools-sub000/internal/pipeline"
)

// MockGenerator implements Generator
type MockGenerator struct {
	FailBook string

	mu   sync.Mutex
	jobs []pipeline.Job
}

func (m *MockGenerator) Generate(ctx context.Context, job pipeline.Job) (*pipeline.Result, error) {
	time.Sleep(5 * time.Millisecond) // Simulate work
	m.mu.Lock()
	m.jobs = append(m.jobs, job)
	m.mu.Unlock()

	if job.Book == m.FailBook {
		return nil, errors.New("generate error")
	}
	return &pipeline.Result{
		Report: &model.Report{Book: job.Book, Tag: job.Tag},
	}, nil
}

func writeBooksFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessBooks(t *testing.T) {
	gen := &MockGenerator{}
	processor := NewBatchProcessor(gen, 2)

	base := pipeline.Job{PrimaryDir: "/content/en_tn", Tag: "v80"}
	results := processor.ProcessBooks(context.Background(), base, []string{"rev", "gen", "mat"})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := []string{"gen", "mat", "rev"}
	for i, res := range results {
		if res.Book != want[i] {
			t.Errorf("result %d is %s, want %s", i, res.Book, want[i])
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Book, res.Error)
		}
		if res.Result == nil || res.Result.Report.Tag != "v80" {
			t.Errorf("base job not carried into %s", res.Book)
		}
	}

	for _, job := range gen.jobs {
		if job.PrimaryDir != base.PrimaryDir {
			t.Errorf("job for %s lost PrimaryDir", job.Book)
		}
	}
}

func TestBatchProcessor_ProcessBooks_Error(t *testing.T) {
	gen := &MockGenerator{FailBook: "exo"}
	processor := NewBatchProcessor(gen, 2)

	results := processor.ProcessBooks(context.Background(), pipeline.Job{}, []string{"gen", "exo"})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Book != "exo" || results[0].Error == nil {
		t.Errorf("expected exo to fail, got %+v", results[0])
	}
	if results[0].Result != nil {
		t.Error("expected nil result on error")
	}
	if results[1].Error != nil {
		t.Errorf("unexpected error for gen: %v", results[1].Error)
	}
}

func TestBatchProcessor_ProcessBooks_Empty(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{}, 2)

	results := processor.ProcessBooks(context.Background(), pipeline.Job{}, nil)
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestReadBooksFromFile(t *testing.T) {
	path := writeBooksFile(t, "gen\n# old testament done\nEXO, lev\n\n  num deu # trailing\ngen\n")

	books, err := ReadBooksFromFile(path)
	if err != nil {
		t.Fatalf("ReadBooksFromFile failed: %v", err)
	}

	expected := []string{"gen", "exo", "lev", "num", "deu"}
	if len(books) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, books)
	}
	for i, book := range books {
		if book != expected[i] {
			t.Errorf("expected %s at index %d, got %s", expected[i], i, book)
		}
	}
}

func TestReadBooksFromFile_NonExistent(t *testing.T) {
	_, err := ReadBooksFromFile("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestGenerateResult_GetError(t *testing.T) {
	r1 := &GenerateResult{Book: "gen"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("generate failed")
	r2 := &GenerateResult{Book: "gen", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeBooksFile(t, "gen\nexo\n# comment\n\nlev\n")

	processor := NewBatchProcessor(&MockGenerator{}, 2)
	results, err := processor.ProcessFile(context.Background(), pipeline.Job{}, path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}

	if len(results) != 3 {
		t.Errorf("expected 3 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&MockGenerator{}, 2)

	_, err := processor.ProcessFile(context.Background(), pipeline.Job{}, "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile_Empty(t *testing.T) {
	path := writeBooksFile(t, "")

	processor := NewBatchProcessor(&MockGenerator{}, 2)
	results, err := processor.ProcessFile(context.Background(), pipeline.Job{}, path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results for empty file, got %d", len(results))
	}
}
