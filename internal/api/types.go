package api

// BlobSummary describes a stored blob container and the chunks found in it.
type BlobSummary struct {
	ID     string      `json:"id"`
	Object string      `json:"object"`
	Name   string      `json:"name,omitempty"`
	Size   int64       `json:"size"`
	Flags  string      `json:"flags"`
	Chunks []ChunkInfo `json:"chunks"`
}

// ChunkInfo describes a single chunk inside a blob container.
type ChunkInfo struct {
	Index       int    `json:"index"`
	Offset      int64  `json:"offset"`
	Type        string `json:"type"`
	Extra       uint16 `json:"extra"`
	Size        uint64 `json:"size"`
	PayloadSize uint64 `json:"payload_size"`
}

type BlobList struct {
	Object  string        `json:"object"`
	Data    []BlobSummary `json:"data"`
	FirstID string        `json:"first_id"`
	LastID  string        `json:"last_id"`
}

type DeleteBlobResp struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

type VersionResp struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
}

type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
