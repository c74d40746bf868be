package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"solarweb/adapters/excel"
	"solarweb/domain/core"
	"solarweb/domain/table"
	"solarweb/internal"
	"solarweb/internal/errors"
	"solarweb/ports"

	"github.com/gin-gonic/gin"
)

const (
	defaultUploadLimit = 20
	maxUploadLimit     = 200
	xlsxContentType    = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	textContentType    = "text/plain; charset=utf-8"
)

// TableHandler serves energy result tables as JSON, clipboard payloads and
// workbooks.
type TableHandler struct {
	analysisAPI ports.AnalysisAPI
	uploads     ports.UploadRepository
	groups      []table.CopyGroup
	exporter    *excel.Exporter
	logger      *internal.Logger
}

// NewTableHandler creates a new table handler
func NewTableHandler(
	analysisAPI ports.AnalysisAPI,
	uploads ports.UploadRepository,
	groups []table.CopyGroup,
	logger *internal.Logger,
) *TableHandler {
	if len(groups) == 0 {
		groups = table.DefaultCopyGroups()
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &TableHandler{
		analysisAPI: analysisAPI,
		uploads:     uploads,
		groups:      groups,
		exporter:    excel.NewExporter(),
		logger:      logger.With("TableAPI"),
	}
}

type rowResponse struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

type tableResponse struct {
	ID             core.AnalysisID       `json:"id"`
	CommaSeparator bool                  `json:"comma_separator"`
	Header         []string              `json:"header"`
	Rows           []rowResponse         `json:"rows"`
	Groups         []table.CopyGroup     `json:"groups"`
	Clipboard      string                `json:"clipboard"`
	Summary        []table.ColumnSummary `json:"summary"`
}

// GetTable returns the rendered table of an energy analysis
func (h *TableHandler) GetTable(c *gin.Context) {
	id, r, ok := h.loadRenderer(c)
	if !ok {
		return
	}

	body := r.Body()
	rows := make([]rowResponse, len(body))
	for i, row := range body {
		rows[i] = rowResponse{Label: row.Label, Values: row.Values}
	}
	summary := table.Summarize(r)
	if summary == nil {
		summary = []table.ColumnSummary{}
	}

	payload, err := json.Marshal(tableResponse{
		ID:             id,
		CommaSeparator: r.CommaSeparator(),
		Header:         r.Header(),
		Rows:           rows,
		Groups:         r.Groups(),
		Clipboard:      r.CopyAll(),
		Summary:        summary,
	})
	if err != nil {
		h.respondError(c, errors.Wrap(err, "failed to encode table"))
		return
	}
	h.writeCached(c, "application/json; charset=utf-8", payload)
}

// GetClipboard returns the clipboard payload for all rows or a start/end range
func (h *TableHandler) GetClipboard(c *gin.Context) {
	start, hasStart, err := queryInt(c, "start")
	if err != nil {
		h.respondError(c, err)
		return
	}
	end, hasEnd, err := queryInt(c, "end")
	if err != nil {
		h.respondError(c, err)
		return
	}

	_, r, ok := h.loadRenderer(c)
	if !ok {
		return
	}

	payload := r.CopyAll()
	if hasStart || hasEnd {
		if !hasEnd {
			end = len(r.Rows())
		}
		payload = r.CopyRange(start, end)
	}
	h.writeCached(c, textContentType, []byte(payload))
}

// GetClipboardGroup returns the payload of one named copy group
func (h *TableHandler) GetClipboardGroup(c *gin.Context) {
	name := c.Param("group")
	_, r, ok := h.loadRenderer(c)
	if !ok {
		return
	}

	payload, found := r.CopyGroup(name)
	if !found {
		h.respondError(c, errors.NotFound(fmt.Sprintf("copy group %q", name)))
		return
	}
	h.writeCached(c, textContentType, []byte(payload))
}

// ExportXLSX streams the display table as a workbook
func (h *TableHandler) ExportXLSX(c *gin.Context) {
	id, r, ok := h.loadRenderer(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.Write(&buf, r); err != nil {
		h.respondError(c, errors.Wrap(err, "failed to export workbook"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, id))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ListUploads returns the local upload history
func (h *TableHandler) ListUploads(c *gin.Context) {
	limit, has, err := queryInt(c, "limit")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !has {
		limit = defaultUploadLimit
	}
	if limit < 0 || limit > maxUploadLimit {
		h.respondError(c, errors.InvalidInput(fmt.Sprintf("limit must be between 0 and %d", maxUploadLimit)))
		return
	}

	records, err := h.uploads.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": records, "count": len(records)})
}

// Health reports that the front-end is serving
func (h *TableHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *TableHandler) loadRenderer(c *gin.Context) (core.AnalysisID, *table.Renderer, bool) {
	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		h.respondError(c, errors.InvalidInput(err.Error()))
		return "", nil, false
	}
	comma, err := ParseSeparator(c.Query("sep"))
	if err != nil {
		h.respondError(c, err)
		return "", nil, false
	}

	raw, err := h.analysisAPI.EnergyByTimeSlot(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return "", nil, false
	}
	return id, table.New(raw, table.WithCommaSeparator(comma), table.WithCopyGroups(h.groups)), true
}

// writeCached writes body with a content hash ETag and answers 304 when the
// client already holds the same representation
func (h *TableHandler) writeCached(c *gin.Context, contentType string, body []byte) {
	etag := core.NewHash(body).ETag()
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, contentType, body)
}

func (h *TableHandler) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		h.logger.Debug("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

// ParseSeparator maps the sep query value to the comma display mode.
// Empty and "dot" select the dot display.
func ParseSeparator(value string) (bool, error) {
	switch value {
	case "", "dot":
		return false, nil
	case "comma":
		return true, nil
	default:
		return false, errors.InvalidInput(fmt.Sprintf("sep must be \"comma\" or \"dot\", got %q", value))
	}
}

func queryInt(c *gin.Context, key string) (int, bool, error) {
	value, ok := c.GetQuery(key)
	if !ok || value == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, errors.InvalidInput(fmt.Sprintf("%s must be an integer", key))
	}
	return n, true, nil
}
