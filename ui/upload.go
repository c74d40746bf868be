package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"solarweb/internal/errors"
	"solarweb/ports"
)

// consumptionFileField is the multipart field the analysis service expects
const consumptionFileField = "consumption_file"

// multipartMemory is how much of a form is kept in memory before spilling to disk
const multipartMemory = 8 << 20

type upload struct {
	ports.Upload
	Size    int64
	cleanup func()
}

func (u *upload) Close() {
	if u.cleanup != nil {
		u.cleanup()
	}
}

// readUpload parses the multipart form and opens the consumption file
func (a *App) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.InvalidInput(fmt.Sprintf("the file exceeds the %s upload limit", formatBytes(a.config.MaxUploadBytes)))
		}
		return nil, errors.InvalidInput("the form could not be read")
	}

	file, header, err := r.FormFile(consumptionFileField)
	if err != nil {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
		return nil, errors.InvalidInput("a consumption file is required")
	}

	return &upload{
		Upload: ports.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		},
		Size: header.Size,
		cleanup: func() {
			file.Close()
			r.MultipartForm.RemoveAll()
		},
	}, nil
}
