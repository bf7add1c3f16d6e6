package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, fieldName, fileName, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(fieldName, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	w.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req.MultipartForm.File[fieldName][0]
}

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "http://localhost:8080")

	fh := multipartFile(t, "file", "bank transfer.jpg", "fake-image-bytes")
	url, err := store.Save(fh, "payment-proofs")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasPrefix(url, "http://localhost:8080/uploads/payment-proofs/") {
		t.Fatalf("url = %q", url)
	}
	if strings.Contains(url, " ") {
		t.Fatalf("unsafe chars survived in url %q", url)
	}

	name := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, "payment-proofs", name))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "fake-image-bytes" {
		t.Fatalf("content = %q", data)
	}
}
