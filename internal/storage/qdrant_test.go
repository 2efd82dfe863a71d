package storage

import "testing"

func TestNewQdrantClientRequiresAddress(t *testing.T) {
	_, err := NewQdrantClient("", "chunks", 0)
	if err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestNewQdrantClientRequiresCollectionName(t *testing.T) {
	_, err := NewQdrantClient("localhost:6334", "", 0)
	if err == nil {
		t.Fatal("expected error for empty collection name")
	}
}
