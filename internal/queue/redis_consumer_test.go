package queue

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestJobPayloadUnmarshalJSONBase64Format(t *testing.T) {
	raw := []byte("hello world")
	encoded := base64.StdEncoding.EncodeToString(raw)

	body, err := json.Marshal(map[string]interface{}{
		"jobId":      "job-1",
		"userId":     "user-1",
		"filename":   "a.txt",
		"fileBuffer": encoded,
	})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	var p JobPayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	if string(p.FileBuffer) != "hello world" {
		t.Errorf("FileBuffer = %q, want %q", p.FileBuffer, "hello world")
	}
	if p.JobID != "job-1" || p.Filename != "a.txt" {
		t.Errorf("unexpected scalar fields: %+v", p)
	}
}

func TestJobPayloadUnmarshalJSONLegacyBufferFormat(t *testing.T) {
	body := []byte(`{
		"jobId": "job-2",
		"filename": "b.bin",
		"fileBuffer": {"type": "Buffer", "data": [104, 105]}
	}`)

	var p JobPayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}

	if string(p.FileBuffer) != "hi" {
		t.Errorf("FileBuffer = %q, want %q", p.FileBuffer, "hi")
	}
}

func TestJobPayloadUnmarshalJSONNoBuffer(t *testing.T) {
	body := []byte(`{"jobId": "job-3", "fileUrl": "https://example.com/f.pdf"}`)

	var p JobPayload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if p.FileBuffer != nil {
		t.Errorf("expected nil FileBuffer, got %v", p.FileBuffer)
	}
	if p.FileURL != "https://example.com/f.pdf" {
		t.Errorf("FileURL = %q", p.FileURL)
	}
}

func TestJobPayloadUnmarshalJSONInvalidBase64(t *testing.T) {
	body := []byte(`{"jobId": "job-4", "fileBuffer": "not-valid-base64!!"}`)

	var p JobPayload
	if err := json.Unmarshal(body, &p); err == nil {
		t.Fatal("expected error for invalid base64 fileBuffer")
	}
}

func TestJobPayloadUnmarshalJSONMalformedBufferObject(t *testing.T) {
	body := []byte(`{"jobId": "job-5", "fileBuffer": {"type": "NotBuffer"}}`)

	var p JobPayload
	if err := json.Unmarshal(body, &p); err == nil {
		t.Fatal("expected error for Buffer object missing type=Buffer")
	}
}

func TestNewRedisConsumerRequiresDriver(t *testing.T) {
	_, err := NewRedisConsumer(&RedisConsumerConfig{RedisURL: "redis://localhost:6379"})
	if err == nil {
		t.Fatal("expected error when Driver is nil")
	}
}

func TestNewRedisConsumerRequiresRedisURL(t *testing.T) {
	_, err := NewRedisConsumer(&RedisConsumerConfig{})
	if err == nil {
		t.Fatal("expected error when RedisURL is empty")
	}
}
