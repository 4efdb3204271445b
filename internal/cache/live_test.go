package cache

import (
	"fmt"
	"os"
	"testing"
)

// TestLiveCache opens the real cache database and lists its entries.
// Skipped if the database doesn't exist.
func TestLiveCache(t *testing.T) {
	dbPath := DefaultDBPath(os.Getenv("AVIM_CACHE_DIR"))
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Skip("cache not found at", dbPath)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	entries, err := store.Entries()
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	fmt.Printf("Cached transcriptions: %d\n", len(entries))
	for i, e := range entries {
		fmt.Printf("  %d. %s (%d clips, cached %s)\n", i+1, e.AudioPath,
			len(e.Clips), e.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}
