package test

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
)

// Small but valid file headers, enough for content type detection.
var (
	PNG  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	PDF  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	Text = []byte("not a photo")
)

// File is a file in a multipart form.
type File struct {
	Name    string
	Content []byte
}

// Multipart encodes fields and files as a multipart form.
//
// The form is returned as a buffer and a map for the HTTP request headers.
func Multipart(t *testing.T, fields map[string]string, files map[string]File) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)

	for name, value := range fields {
		require.Nil(t, mw.WriteField(name, value))
	}

	for field, file := range files {
		w, err := mw.CreateFormFile(field, file.Name)
		require.Nil(t, err)

		_, err = w.Write(file.Content)
		require.Nil(t, err)
	}

	require.Nil(t, mw.Close())

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}
