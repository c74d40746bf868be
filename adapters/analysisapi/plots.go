package analysisapi

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/klauspost/compress/zip"

	"solarweb/domain/analysis"
)

const maxImageBytes = 16 << 20

var imageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// DataURI encodes data as a base64 data URI
func DataURI(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func pngImage(name string, data []byte) analysis.PlotImage {
	return analysis.PlotImage{Name: name, MediaType: "image/png", DataURI: DataURI("image/png", data)}
}

// ExtractImages decodes every png/jpg/jpeg/gif entry of a zip archive into
// inline images, in archive order. Directories and other files are skipped.
func ExtractImages(archive []byte) ([]analysis.PlotImage, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, fmt.Errorf("failed to open plot archive: %w", err)
	}

	var images []analysis.PlotImage
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		mediaType, ok := imageTypes[strings.ToLower(path.Ext(f.Name))]
		if !ok {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		images = append(images, analysis.PlotImage{
			Name:      path.Base(f.Name),
			MediaType: mediaType,
			DataURI:   DataURI(mediaType, data),
		})
	}
	return images, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}
