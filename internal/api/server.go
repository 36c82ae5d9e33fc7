package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/blobkit/internal/version"
)

// maxUploadBytes caps the request body accepted by handleCreateBlob.
const maxUploadBytes = 64 << 20

type Server struct {
	store *BlobStore
}

func NewServer(store *BlobStore) *Server {
	if store == nil {
		store = NewBlobStore()
	}
	return &Server{store: store}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/healthz", s.handleHealthz)
	e.GET("/v1/version", s.handleVersion)

	// Blob inspection API
	e.POST("/v1/blobs", s.handleCreateBlob)
	e.GET("/v1/blobs", s.handleListBlobs)
	e.GET("/v1/blobs/:id", s.handleGetBlob)
	e.DELETE("/v1/blobs/:id", s.handleDeleteBlob)
	e.GET("/v1/blobs/:id/chunks/:index", s.handleGetChunk)
	e.GET("/v1/blobs/:id/chunks/:index/payload", s.handleGetChunkPayload)
}

func (s *Server) handleHealthz(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(c *echo.Context) error {
	info := version.Resolve()
	return c.JSON(http.StatusOK, VersionResp{
		Version:   info.Version,
		Commit:    info.Commit,
		BuildTime: info.BuildTime,
	})
}

func (s *Server) handleCreateBlob(c *echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxUploadBytes+1))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if len(body) > maxUploadBytes {
		return writeError(c, http.StatusRequestEntityTooLarge, "invalid_request_error", "request body exceeds upload limit")
	}
	summary, err := s.store.Add(c.QueryParam("name"), body)
	if err != nil {
		return writeUnprocessable(c, err.Error())
	}
	return c.JSON(http.StatusCreated, summary)
}

func (s *Server) handleListBlobs(c *echo.Context) error {
	list := s.store.List()
	out := BlobList{
		Object: "list",
		Data:   list,
	}
	if len(list) > 0 {
		out.FirstID = list[0].ID
		out.LastID = list[len(list)-1].ID
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetBlob(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "blob not found")
	}
	return c.JSON(http.StatusOK, rec.Summary)
}

func (s *Server) handleDeleteBlob(c *echo.Context) error {
	id := c.Param("id")
	if id == "" || !s.store.Remove(id) {
		return writeNotFound(c, "blob not found")
	}
	return c.JSON(http.StatusOK, DeleteBlobResp{
		ID:      id,
		Object:  "blob",
		Deleted: true,
	})
}

func (s *Server) handleGetChunk(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "blob not found")
	}
	idx, err := chunkIndex(c, rec)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.JSON(http.StatusOK, rec.Summary.Chunks[idx])
}

func (s *Server) handleGetChunkPayload(c *echo.Context) error {
	rec, ok := s.lookup(c)
	if !ok {
		return writeNotFound(c, "blob not found")
	}
	idx, err := chunkIndex(c, rec)
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, rec.File.Chunks()[idx].Payload())
}

func (s *Server) lookup(c *echo.Context) (*blobRecord, bool) {
	id := c.Param("id")
	if id == "" {
		return nil, false
	}
	return s.store.Get(id)
}

func chunkIndex(c *echo.Context, rec *blobRecord) (int, error) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(rec.Summary.Chunks) {
		return 0, errors.New("chunk not found")
	}
	return idx, nil
}
