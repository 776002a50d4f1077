package assets

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogJSONIsEmbedded(t *testing.T) {
	b, err := CatalogJSON()
	if err != nil {
		t.Fatalf("CatalogJSON: %v", err)
	}
	var doc struct {
		Categories []struct {
			ID string `json:"id"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Categories) == 0 {
		t.Fatal("expected at least one category")
	}
}

func TestDirPreloader(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "cat.png"), []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := DirPreloader{Root: dir}

	if err := p.Preload(context.Background(), []string{"images/cat.png", ""}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Preload(context.Background(), []string{"images/cat.png", "images/dog.png"}); err == nil {
		t.Fatal("expected error for missing image")
	}
	if err := (DirPreloader{}).Preload(context.Background(), []string{"nope.png"}); err != nil {
		t.Fatalf("disabled preloader returned %v", err)
	}
}
