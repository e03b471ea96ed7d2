package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/apperr"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n%fake document body")
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, make([]byte, 32)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, make([]byte, 32)...)
)

func TestSaveInvoiceAttachmentPDF(t *testing.T) {
	dir := t.TempDir()
	svc := NewAttachmentService(dir)

	stored, err := svc.SaveInvoiceAttachment("factura proveedor.pdf", pdfBytes)
	require.NoError(t, err)
	assert.Equal(t, "factura proveedor.pdf", stored.Nombre)
	assert.Equal(t, "application/pdf", stored.Tipo)
	assert.True(t, strings.HasPrefix(stored.URL, "/uploads/"))

	onDisk, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(stored.URL, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, onDisk)
}

func TestSaveInvoiceAttachmentRejectsOtherTypes(t *testing.T) {
	svc := NewAttachmentService(t.TempDir())

	_, err := svc.SaveInvoiceAttachment("nota.txt", []byte("solo texto plano"))
	assert.True(t, apperr.IsValidation(err))

	// PNG is fine for images but not for invoice attachments.
	_, err = svc.SaveInvoiceAttachment("captura.png", pngBytes)
	assert.True(t, apperr.IsValidation(err))
}

func TestSaveImageAcceptsJPEGAndPNG(t *testing.T) {
	svc := NewAttachmentService(t.TempDir())

	jpg, err := svc.SaveImage("logo.jpg", jpegBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", jpg.Tipo)

	png, err := svc.SaveImage("logo.png", pngBytes)
	require.NoError(t, err)
	assert.Equal(t, "image/png", png.Tipo)

	_, err = svc.SaveImage("doc.pdf", pdfBytes)
	assert.True(t, apperr.IsValidation(err))
}

func TestSaveRejectsEmptyAndOversized(t *testing.T) {
	svc := NewAttachmentService(t.TempDir())

	_, err := svc.SaveInvoiceAttachment("vacio.pdf", nil)
	assert.True(t, apperr.IsValidation(err))

	big := make([]byte, MaxAttachmentSize+1)
	copy(big, pdfBytes)
	_, err = svc.SaveInvoiceAttachment("grande.pdf", big)
	assert.True(t, apperr.IsValidation(err))
}
