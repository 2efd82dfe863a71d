package storage

import (
	"context"
	"testing"

	"github.com/kreuzbergo/kreuzbergo/internal/model"
)

func TestStorageManagerStoreResultRequiresJobID(t *testing.T) {
	sm := &StorageManager{}
	_, err := sm.StoreResult(context.Background(), "", &model.ExtractionResult{})
	if err == nil {
		t.Fatal("expected error for empty job ID")
	}
}
