package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/apperr"
	"backend/pkg/response"
)

// fail writes err as a JSON error response, mapping the error kind to a
// status code: validation 422, not found 404, conflict 409, illegal state 400.
// Anything unclassified is a 500.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperr.IsValidation(err):
		status = http.StatusUnprocessableEntity
	case apperr.IsNotFound(err):
		status = http.StatusNotFound
	case apperr.IsConflict(err):
		status = http.StatusConflict
	case apperr.IsState(err):
		status = http.StatusBadRequest
	}
	c.JSON(status, response.Error(status, err.Error()))
}

// readUpload pulls a multipart file field into memory, bounded to maxSize.
func readUpload(c *gin.Context, field string, maxSize int64) (string, []byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperr.Validationf("archivo no recibido en el campo %q", field)
	}
	if fileHeader.Size > maxSize {
		return "", nil, apperr.Validationf("el archivo supera el limite de 5MB")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, apperr.Validationf("no se pudo leer el archivo")
	}
	defer f.Close()

	// Read one byte past the limit so an understated header size still trips it.
	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return "", nil, apperr.Validationf("no se pudo leer el archivo")
	}
	if int64(len(data)) > maxSize {
		return "", nil, apperr.Validationf("el archivo supera el limite de 5MB")
	}
	return fileHeader.Filename, data, nil
}
