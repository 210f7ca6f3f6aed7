package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func uploadTestBlob(t *testing.T, store BlobStore, userID, fileName, content string) *BlobMetadata {
	t.Helper()
	meta, err := store.Upload(context.Background(), BlobMetadata{
		FileName:    fileName,
		ContentType: "image/png",
		UserID:      userID,
		Category:    "prescription",
	}, strings.NewReader(content))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	return meta
}

func TestInMemory_UploadDownloadRoundTrip(t *testing.T) {
	store := NewInMemoryBlobStore()
	meta := uploadTestBlob(t, store, "user-1", "rx.png", "fake image bytes")

	if meta.ID == "" || meta.Hash == "" {
		t.Error("expected ID and hash to be set")
	}
	if meta.Size != int64(len("fake image bytes")) {
		t.Errorf("unexpected size: %d", meta.Size)
	}

	rc, got, err := store.Download(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "fake image bytes" {
		t.Errorf("unexpected content: %q", data)
	}
	if got.FileName != "rx.png" {
		t.Errorf("unexpected file name: %q", got.FileName)
	}
}

func TestInMemory_UploadValidation(t *testing.T) {
	store := NewInMemoryBlobStore()

	_, err := store.Upload(context.Background(), BlobMetadata{}, strings.NewReader("x"))
	if !errors.Is(err, ErrMissingFileName) {
		t.Errorf("expected ErrMissingFileName, got %v", err)
	}

	_, err = store.Upload(context.Background(), BlobMetadata{
		FileName:    "notes.exe",
		ContentType: "application/x-msdownload",
	}, strings.NewReader("x"))
	if !errors.Is(err, ErrInvalidContentType) {
		t.Errorf("expected ErrInvalidContentType, got %v", err)
	}
}

func TestInMemory_DeleteAndNotFound(t *testing.T) {
	store := NewInMemoryBlobStore()
	meta := uploadTestBlob(t, store, "user-1", "rx.png", "content")

	if err := store.Delete(context.Background(), meta.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetMetadata(context.Background(), meta.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}
	if err := store.Delete(context.Background(), meta.ID); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound on second delete, got %v", err)
	}
}

func TestInMemory_ListByUser(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploadTestBlob(t, store, "user-1", "a.png", "a")
	uploadTestBlob(t, store, "user-1", "b.png", "b")
	uploadTestBlob(t, store, "user-2", "c.png", "c")

	items, total, err := store.ListByUser(context.Background(), "user-1", "", 20, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Errorf("expected 2 blobs for user-1, got total=%d len=%d", total, len(items))
	}
}

func TestInMemory_SearchByFileName(t *testing.T) {
	store := NewInMemoryBlobStore()
	uploadTestBlob(t, store, "user-1", "amoxicillin-rx.png", "a")
	uploadTestBlob(t, store, "user-1", "insurance-card.png", "b")

	items, total, err := store.Search(context.Background(), SearchParams{FileName: "amoxicillin"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || items[0].FileName != "amoxicillin-rx.png" {
		t.Errorf("unexpected search result: total=%d", total)
	}
}

func TestHandler_UploadMultipart(t *testing.T) {
	store := NewInMemoryBlobStore()
	h := NewBlobHandler(store)
	e := echo.New()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("file", "rx.png")
	_, _ = part.Write([]byte("image bytes"))
	_ = w.WriteField("user_id", "user-1")
	_ = w.WriteField("category", "prescription")
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/prescriptions/upload", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.handleUpload(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"file_name":"rx.png"`) {
		t.Errorf("response missing file name: %s", rec.Body.String())
	}
}

func TestHandler_DownloadNotFound(t *testing.T) {
	h := NewBlobHandler(NewInMemoryBlobStore())
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/prescriptions/missing", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := h.handleDownload(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
