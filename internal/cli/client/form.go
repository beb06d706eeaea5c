package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// Attachment is a file sent in a multipart body
type Attachment struct {
	Name   string
	Reader io.Reader
}

// OpenAttachment reads the file at path into an Attachment named after its
// base name
func OpenAttachment(path string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Attachment{Name: filepath.Base(path), Reader: bytes.NewReader(data)}, nil
}

type formPart struct {
	name  string
	value string
	file  *Attachment
}

// formBody is an ordered multipart body. Field order and repeated names are
// preserved on the wire.
type formBody struct {
	parts []formPart
}

func (f *formBody) field(name, value string) *formBody {
	f.parts = append(f.parts, formPart{name: name, value: value})
	return f
}

func (f *formBody) file(name string, a Attachment) *formBody {
	f.parts = append(f.parts, formPart{name: name, file: &a})
	return f
}

// has reports whether a part with the given name was added
func (f *formBody) has(name string) bool {
	for _, p := range f.parts {
		if p.name == name {
			return true
		}
	}
	return false
}

func (f *formBody) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range f.parts {
		if p.file == nil {
			if err := w.WriteField(p.name, p.value); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", p.name, err)
			}
			continue
		}
		fw, err := w.CreateFormFile(p.name, p.file.Name)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part %s: %w", p.name, err)
		}
		if p.file.Reader != nil {
			if _, err := io.Copy(fw, p.file.Reader); err != nil {
				return nil, "", fmt.Errorf("failed to read %s: %w", p.file.Name, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
