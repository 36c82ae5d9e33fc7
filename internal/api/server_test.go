package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blobkit/pkg/blob"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	NewServer(nil).Register(e)
	return e
}

func doOctet(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEOctetStream)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func buildTestBlob(t *testing.T, payloads ...[]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := blob.NewWriter(&buf)
	w.Align = 1
	for i, p := range payloads {
		typ := blob.ChunkType{'t', 's', 't', byte('0' + i)}
		if _, err := w.WriteChunk(typ, uint16(i), p); err != nil {
			t.Fatalf("write chunk %d: %v", i, err)
		}
	}
	return buf.Bytes()
}

func TestBlobLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	data := buildTestBlob(t, []byte("hello"), []byte("world!!!"))

	createRec := doOctet(t, e, http.MethodPost, "/v1/blobs?name=test.blob", data)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}

	var created BlobSummary
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if !strings.HasPrefix(created.ID, "blob_") {
		t.Fatalf("unexpected blob id: %q", created.ID)
	}
	if created.Name != "test.blob" {
		t.Fatalf("unexpected name: %q", created.Name)
	}
	if created.Size != int64(len(data)) {
		t.Fatalf("size: got %d, want %d", created.Size, len(data))
	}
	if len(created.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(created.Chunks))
	}
	if created.Chunks[1].PayloadSize != 8 {
		t.Fatalf("chunk 1 payload size: got %d", created.Chunks[1].PayloadSize)
	}

	getRec := doOctet(t, e, http.MethodGet, "/v1/blobs/"+created.ID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d body=%s", getRec.Code, getRec.Body.String())
	}

	listRec := doOctet(t, e, http.MethodGet, "/v1/blobs", nil)
	if listRec.Code != http.StatusOK {
		t.Fatalf("list status: got %d body=%s", listRec.Code, listRec.Body.String())
	}
	var list BlobList
	if err := json.Unmarshal(listRec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(list.Data) != 1 || list.FirstID != created.ID || list.LastID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	delRec := doOctet(t, e, http.MethodDelete, "/v1/blobs/"+created.ID, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d body=%s", delRec.Code, delRec.Body.String())
	}
	if !strings.Contains(delRec.Body.String(), `"deleted":true`) {
		t.Fatalf("delete response missing deleted=true: %s", delRec.Body.String())
	}

	getDeletedRec := doOctet(t, e, http.MethodGet, "/v1/blobs/"+created.ID, nil)
	if getDeletedRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", getDeletedRec.Code, getDeletedRec.Body.String())
	}
}

func TestCreateBlobInvalidData(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	garbage := bytes.Repeat([]byte{'x'}, blob.HeaderSize)

	rec := doOctet(t, e, http.MethodPost, "/v1/blobs", garbage)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "expected version 128") {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestCreateBlobEmptyBody(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	rec := doOctet(t, e, http.MethodPost, "/v1/blobs", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 for empty container, got %d body=%s", rec.Code, rec.Body.String())
	}
	var created BlobSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.Chunks) != 0 || created.Size != 0 {
		t.Fatalf("expected empty blob, got %+v", created)
	}
}

func TestChunkEndpoints(t *testing.T) {
	t.Parallel()

	e := newTestEcho()
	payload := []byte("payload bytes")
	data := buildTestBlob(t, []byte("first"), payload)

	createRec := doOctet(t, e, http.MethodPost, "/v1/blobs", data)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	var created BlobSummary
	if err := json.Unmarshal(createRec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}

	chunkRec := doOctet(t, e, http.MethodGet, "/v1/blobs/"+created.ID+"/chunks/1", nil)
	if chunkRec.Code != http.StatusOK {
		t.Fatalf("chunk status: got %d body=%s", chunkRec.Code, chunkRec.Body.String())
	}
	var info ChunkInfo
	if err := json.Unmarshal(chunkRec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode chunk response: %v", err)
	}
	if info.Index != 1 || info.Extra != 1 || info.PayloadSize != uint64(len(payload)) {
		t.Fatalf("unexpected chunk info: %+v", info)
	}

	payloadRec := doOctet(t, e, http.MethodGet, "/v1/blobs/"+created.ID+"/chunks/1/payload", nil)
	if payloadRec.Code != http.StatusOK {
		t.Fatalf("payload status: got %d body=%s", payloadRec.Code, payloadRec.Body.String())
	}
	if got := payloadRec.Header().Get(echo.HeaderContentType); got != echo.MIMEOctetStream {
		t.Fatalf("payload content type: got %q", got)
	}
	if !bytes.Equal(payloadRec.Body.Bytes(), payload) {
		t.Fatalf("payload: got %q, want %q", payloadRec.Body.Bytes(), payload)
	}

	for _, idx := range []string{"2", "-1", "abc"} {
		rec := doOctet(t, e, http.MethodGet, "/v1/blobs/"+created.ID+"/chunks/"+idx, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("chunk %q: expected 404, got %d", idx, rec.Code)
		}
	}
}

func TestHealthzAndVersion(t *testing.T) {
	t.Parallel()

	e := newTestEcho()

	healthRec := doOctet(t, e, http.MethodGet, "/v1/healthz", nil)
	if healthRec.Code != http.StatusOK {
		t.Fatalf("healthz status: got %d", healthRec.Code)
	}
	if !strings.Contains(healthRec.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected healthz body: %s", healthRec.Body.String())
	}

	versionRec := doOctet(t, e, http.MethodGet, "/v1/version", nil)
	if versionRec.Code != http.StatusOK {
		t.Fatalf("version status: got %d", versionRec.Code)
	}
	var v VersionResp
	if err := json.Unmarshal(versionRec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode version response: %v", err)
	}
	if v.Version == "" {
		t.Fatalf("expected non-empty version")
	}
}
