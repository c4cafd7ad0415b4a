package skiff

import (
	"context"

	"github.com/skiff-ai/skiff/core"
	"github.com/skiff-ai/skiff/transport"
)

// File purposes accepted by the upload endpoint.
const (
	FilePurposeAssistants = "assistants"
	FilePurposeBatch      = "batch"
	FilePurposeFineTune   = "fine-tune"
	FilePurposeVision     = "vision"
)

// File describes one uploaded file.
type File struct {
	ID        string         `json:"id"`
	Object    string         `json:"object"`
	Bytes     int64          `json:"bytes"`
	CreatedAt core.Timestamp `json:"created_at"`
	Filename  string         `json:"filename"`
	Purpose   string         `json:"purpose"`
}

// FileList is the response of the file listing endpoint.
type FileList struct {
	Object string `json:"object"`
	Data   []File `json:"data"`
}

// FileDeletion reports the outcome of deleting a file.
type FileDeletion struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// FileUploadRequest describes one file upload. It doubles as the upload
// descriptor: given a boundary it renders itself as a multipart payload
// with the purpose field first and the file part second.
type FileUploadRequest struct {
	// Filename is the name reported to the service.
	Filename string

	// Data is the raw file content. Must not be empty.
	Data []byte

	// Purpose tells the service what the file will be used for. See the
	// FilePurpose constants.
	Purpose string
}

// Path implements the upload descriptor.
func (r *FileUploadRequest) Path() string { return "/files" }

// MultipartBody implements the upload descriptor.
func (r *FileUploadRequest) MultipartBody(boundary string) ([]byte, error) {
	form := &transport.Form{}
	form.AddField("purpose", r.Purpose)
	form.AddFile("file", r.Filename, r.Data)
	return form.Encode(boundary)
}

// UploadFile uploads a file for later use by other endpoints.
func (c *Client) UploadFile(ctx context.Context, req *FileUploadRequest) (*File, error) {
	resp, err := transport.Upload[File](ctx, c.engine, req)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListFiles lists the files owned by the credential.
func (c *Client) ListFiles(ctx context.Context) (*FileList, error) {
	resp, err := transport.Execute[FileList](ctx, c.engine, getRequest{path: "/files"})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetFile retrieves one file's metadata by ID.
func (c *Client) GetFile(ctx context.Context, id string) (*File, error) {
	if id == "" {
		return nil, &core.Error{Kind: core.KindInvalidRequestTarget, Message: "file id is required"}
	}
	resp, err := transport.Execute[File](ctx, c.engine, getRequest{path: "/files/" + id})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteFile deletes an uploaded file.
func (c *Client) DeleteFile(ctx context.Context, id string) (*FileDeletion, error) {
	if id == "" {
		return nil, &core.Error{Kind: core.KindInvalidRequestTarget, Message: "file id is required"}
	}
	resp, err := transport.Execute[FileDeletion](ctx, c.engine, deleteRequest{path: "/files/" + id})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
