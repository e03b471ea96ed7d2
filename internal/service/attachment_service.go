package service

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"backend/internal/apperr"
)

// MaxAttachmentSize caps uploaded files at 5 MB.
const MaxAttachmentSize = 5 << 20

// StoredFile describes a file persisted on local disk.
type StoredFile struct {
	Nombre string `json:"nombre"` // original file name
	URL    string `json:"url"`    // public path under /uploads
	Tipo   string `json:"tipo"`   // detected MIME type
}

type AttachmentService interface {
	// SaveInvoiceAttachment stores a purchase invoice document (PDF or JPEG).
	SaveInvoiceAttachment(originalName string, data []byte) (*StoredFile, error)
	// SaveImage stores a logo or product image (JPEG or PNG).
	SaveImage(originalName string, data []byte) (*StoredFile, error)
}

type attachmentService struct {
	dir string
}

func NewAttachmentService(dir string) AttachmentService {
	if dir == "" {
		dir = "./uploads"
	}
	return &attachmentService{dir: dir}
}

var invoiceAttachmentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
}

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

func (s *attachmentService) SaveInvoiceAttachment(originalName string, data []byte) (*StoredFile, error) {
	return s.save(originalName, data, invoiceAttachmentTypes)
}

func (s *attachmentService) SaveImage(originalName string, data []byte) (*StoredFile, error) {
	return s.save(originalName, data, imageTypes)
}

func (s *attachmentService) save(originalName string, data []byte, allowed map[string]bool) (*StoredFile, error) {
	if len(data) == 0 {
		return nil, apperr.Validationf("el archivo esta vacio")
	}
	if len(data) > MaxAttachmentSize {
		return nil, apperr.Validationf("el archivo supera el limite de 5MB")
	}

	// Sniff the content instead of trusting the extension.
	mime := http.DetectContentType(data)
	if i := strings.Index(mime, ";"); i >= 0 {
		mime = mime[:i]
	}
	if !allowed[mime] {
		return nil, apperr.Validationf("tipo de archivo no permitido: %s", mime)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		switch mime {
		case "application/pdf":
			ext = ".pdf"
		case "image/png":
			ext = ".png"
		default:
			ext = ".jpg"
		}
	}
	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New().String()[:8], ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	base := filepath.Base(originalName)
	if base == "." || base == string(filepath.Separator) {
		base = name
	}
	return &StoredFile{Nombre: base, URL: "/uploads/" + name, Tipo: mime}, nil
}
