package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/skiff-ai/skiff/core"
)

// Form accumulates named text fields and binary file parts for a
// multipart/form-data payload. Parts are emitted in insertion order, so
// identical inputs encoded with an identical boundary produce
// byte-identical payloads.
//
// The zero value is an empty form ready for use.
type Form struct {
	parts []formPart
}

type formPart struct {
	name     string
	value    string
	filename string
	data     []byte
	file     bool
}

// AddField appends a text field.
func (f *Form) AddField(name, value string) *Form {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

// AddFile appends a binary file part. File parts must carry a filename
// and at least one byte of content; Encode rejects anything else.
func (f *Form) AddFile(name, filename string, data []byte) *Form {
	f.parts = append(f.parts, formPart{name: name, filename: filename, data: data, file: true})
	return f
}

// Encode renders the form using the supplied boundary token.
func (f *Form) Encode(boundary string) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.SetBoundary(boundary); err != nil {
		return nil, &core.Error{Kind: core.KindEncode, Message: "set multipart boundary", Err: err}
	}

	for _, part := range f.parts {
		if !part.file {
			if err := w.WriteField(part.name, part.value); err != nil {
				return nil, &core.Error{Kind: core.KindEncode, Message: fmt.Sprintf("write field %q", part.name), Err: err}
			}
			continue
		}
		if len(part.data) == 0 {
			return nil, &core.Error{Kind: core.KindInvalidBinaryPayload, Message: fmt.Sprintf("file %q has no content", part.filename)}
		}
		if part.filename == "" {
			return nil, &core.Error{Kind: core.KindInvalidBinaryPayload, Message: fmt.Sprintf("file part %q has no filename", part.name)}
		}
		fw, err := w.CreateFormFile(part.name, part.filename)
		if err != nil {
			return nil, &core.Error{Kind: core.KindEncode, Message: fmt.Sprintf("create file part %q", part.name), Err: err}
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, &core.Error{Kind: core.KindEncode, Message: fmt.Sprintf("write file part %q", part.name), Err: err}
		}
	}

	if err := w.Close(); err != nil {
		return nil, &core.Error{Kind: core.KindEncode, Message: "finalize multipart body", Err: err}
	}
	return buf.Bytes(), nil
}

// newBoundary returns a fresh boundary token for one upload call.
// Uniqueness comes from a random UUID; part content is not scanned for
// collisions.
func newBoundary() string {
	return "skiff-" + uuid.NewString()
}
