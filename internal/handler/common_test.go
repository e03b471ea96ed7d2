package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperr"
)

func multipartContext(t *testing.T, field, filename string, content []byte) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/", &body)
	c.Request.Header.Set("Content-Type", w.FormDataContentType())
	return c
}

func TestReadUploadReturnsFieldContents(t *testing.T) {
	c := multipartContext(t, "archivo", "adjunto.pdf", []byte("hola"))

	name, data, err := readUpload(c, "archivo", 64)
	require.NoError(t, err)
	assert.Equal(t, "adjunto.pdf", name)
	assert.Equal(t, []byte("hola"), data)
}

func TestReadUploadRejectsOversizedFile(t *testing.T) {
	c := multipartContext(t, "archivo", "grande.pdf", bytes.Repeat([]byte{'a'}, 65))

	_, _, err := readUpload(c, "archivo", 64)
	assert.True(t, apperr.IsValidation(err))
}

func TestReadUploadRejectsMissingField(t *testing.T) {
	c := multipartContext(t, "otro", "adjunto.pdf", []byte("hola"))

	_, _, err := readUpload(c, "archivo", 64)
	assert.True(t, apperr.IsValidation(err))
}
