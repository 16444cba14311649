package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/azihell/properties-dashboard/models"
	"github.com/azihell/properties-dashboard/services"
	"github.com/azihell/properties-dashboard/storage"
	"github.com/azihell/properties-dashboard/utils"
)

// SessionGauge receives the live session count. metrics.Recorder
// implements it.
type SessionGauge interface {
	SetSessions(n int)
}

// Handler serves the dashboard API.
type Handler struct {
	pipeline  *services.Pipeline
	sessions  *services.SessionStore
	view      services.ViewOptions
	maxUpload int64
	gauge     SessionGauge
	logger    *utils.Logger
}

// HandlerConfig collects the Handler dependencies. Gauge may be nil.
type HandlerConfig struct {
	Pipeline  *services.Pipeline
	Sessions  *services.SessionStore
	View      services.ViewOptions
	MaxUpload int64
	Gauge     SessionGauge
	Logger    *utils.Logger
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.MaxUpload <= 0 {
		cfg.MaxUpload = 32 << 20
	}
	return &Handler{
		pipeline:  cfg.Pipeline,
		sessions:  cfg.Sessions,
		view:      cfg.View,
		maxUpload: cfg.MaxUpload,
		gauge:     cfg.Gauge,
		logger:    cfg.Logger,
	}
}

// RegisterRoutes mounts the API on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.health)

	g := e.Group("/api")
	g.POST("/sessions", h.createSession)
	g.GET("/sessions/:id", h.getSession)
	g.DELETE("/sessions/:id", h.deleteSession)
	g.GET("/sessions/:id/properties", h.listProperties)
	g.PUT("/sessions/:id/window", h.setWindow)
	g.GET("/sessions/:id/histogram", h.histogram)
	g.GET("/sessions/:id/export.csv", h.exportCSV)
}

func (h *Handler) health(c echo.Context) error {
	return SuccessResponse(c, map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Size(),
	})
}

func (h *Handler) createSession(c echo.Context) error {
	data, err := h.readUpload(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	ds, err := h.pipeline.Run(data)
	if err != nil {
		h.logger.Warn("[api] Upload rejected: %v", err)
		return AppErrorResponse(c, FromPipelineError(err))
	}

	sess := h.sessions.Create(ds)
	h.publishSessions()
	h.logger.Info("[api] Session %s created with %d properties", sess.ID, len(ds.Properties))
	return CreatedResponse(c, h.sessionResponse(sess))
}

// readUpload accepts a multipart "file" field or a raw CSV body.
func (h *Handler) readUpload(c echo.Context) ([]byte, error) {
	req := c.Request()
	if req.ContentLength > h.maxUpload {
		return nil, h.tooLarge()
	}
	// The multipart parser spools to disk, so the limit goes on before it reads.
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUpload)
	mediaType, _, _ := mime.ParseMediaType(req.Header.Get(echo.HeaderContentType))

	if mediaType == echo.MIMEMultipartForm {
		fh, err := c.FormFile("file")
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, h.tooLarge()
			}
			return nil, BadRequestError("multipart upload needs a \"file\" field").WithError(err)
		}
		if fh.Size > h.maxUpload {
			return nil, h.tooLarge()
		}
		f, err := fh.Open()
		if err != nil {
			return nil, FromPipelineError(err)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, FromPipelineError(err)
		}
		return data, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, FromPipelineError(err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, BadRequestError("request body is empty")
	}
	return data, nil
}

func (h *Handler) tooLarge() *AppError {
	return NewAppError(CodeTooLarge, "file", fmt.Sprintf("upload exceeds %d bytes", h.maxUpload), http.StatusRequestEntityTooLarge)
}

func (h *Handler) getSession(c echo.Context) error {
	sess, err := h.lookup(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, h.sessionResponse(sess))
}

func (h *Handler) deleteSession(c echo.Context) error {
	id := c.Param("id")
	if !h.sessions.Delete(id) {
		return AppErrorResponse(c, SessionNotFound(id))
	}
	h.publishSessions()
	return NoContentResponse(c)
}

func (h *Handler) listProperties(c echo.Context) error {
	sess, err := h.lookup(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	var q PropertiesQuery
	if errs := ReadAndValidateRequest(c, &q); errs != nil {
		return BadRequestResponse(c, errs)
	}
	w, err := queryWindow(c, sess.Window())
	if err != nil {
		return AppErrorResponse(c, err)
	}

	visible := services.Filter(sess.Dataset.Properties, w)
	return SuccessResponse(c, visibleResponse(w, visible, q.Offset, q.Limit))
}

func (h *Handler) setWindow(c echo.Context) error {
	sess, err := h.lookup(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	var req WindowRequest
	if errs := ReadAndValidateRequest(c, &req); errs != nil {
		return BadRequestResponse(c, errs)
	}

	w := models.Window{Lo: *req.Lo, Hi: *req.Hi}
	visible := sess.SetWindow(w)
	h.logger.Debug("[api] Session %s window %.2f..%.2f shows %d properties", sess.ID, w.Lo, w.Hi, len(visible))
	return SuccessResponse(c, visibleResponse(w, visible, 0, len(visible)))
}

func (h *Handler) histogram(c echo.Context) error {
	sess, err := h.lookup(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return SuccessResponse(c, toHistogramDTOs(sess.Dataset.Histogram))
}

func (h *Handler) exportCSV(c echo.Context) error {
	sess, err := h.lookup(c)
	if err != nil {
		return AppErrorResponse(c, err)
	}
	w, err := queryWindow(c, sess.Window())
	if err != nil {
		return AppErrorResponse(c, err)
	}

	var buf bytes.Buffer
	out, err := storage.NewCSVWriter(&buf)
	if err != nil {
		return AppErrorResponse(c, FromPipelineError(err))
	}
	if err := out.Write(services.Filter(sess.Dataset.Properties, w)); err != nil {
		return AppErrorResponse(c, FromPipelineError(err))
	}
	if err := out.Close(); err != nil {
		return AppErrorResponse(c, FromPipelineError(err))
	}

	name := fmt.Sprintf("properties-%s.csv", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *Handler) lookup(c echo.Context) (*services.Session, error) {
	id := c.Param("id")
	sess, ok := h.sessions.Get(id)
	if !ok {
		return nil, SessionNotFound(id)
	}
	return sess, nil
}

func (h *Handler) publishSessions() {
	if h.gauge != nil {
		h.gauge.SetSessions(h.sessions.Size())
	}
}

func (h *Handler) sessionResponse(sess *services.Session) SessionResponse {
	ds := sess.Dataset
	view := services.MapView(ds.Summary, h.view)
	slider := services.Slider(ds, sess.Window(), h.view.SliderStep)

	return SessionResponse{
		ID:              sess.ID,
		CreatedAt:       sess.CreatedAt,
		Loaded:          ds.Loaded,
		DroppedMissing:  ds.Clean.DroppedMissing,
		DroppedOutliers: ds.Clean.DroppedOutliers,
		Strategy:        ds.Binning.Strategy,
		Summary:         toSummaryDTO(ds.Summary),
		Slider: SliderDTO{
			Min:    slider.Min,
			Max:    slider.Max,
			Step:   slider.Step,
			Window: toWindowDTO(slider.Window),
		},
		View: ViewDTO{
			Latitude:       view.Latitude,
			Longitude:      view.Longitude,
			Zoom:           view.Zoom,
			MinZoom:        view.MinZoom,
			MaxZoom:        view.MaxZoom,
			Pitch:          view.Pitch,
			Bearing:        view.Bearing,
			Radius:         view.Radius,
			ElevationScale: view.ElevationScale,
		},
		Bins: toBinDTOs(ds, h.pipeline.Mapper()),
	}
}

// queryWindow reads optional lo/hi query params over the fallback window.
func queryWindow(c echo.Context, fallback models.Window) (models.Window, error) {
	w := fallback
	err := echo.QueryParamsBinder(c).
		Float64("lo", &w.Lo).
		Float64("hi", &w.Hi).
		BindError()
	if err != nil {
		return w, BadRequestError("lo and hi must be numbers").WithError(err)
	}
	return w, nil
}

func visibleResponse(w models.Window, visible []*models.ColoredProperty, offset, limit int) VisibleResponse {
	total := len(visible)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}

	rows := make([]PropertyDTO, 0, end-offset)
	for _, p := range visible[offset:end] {
		rows = append(rows, toPropertyDTO(p))
	}
	return VisibleResponse{
		Window:           toWindowDTO(w),
		ListDataResponse: ListDataResponse{Rows: rows, Total: total},
	}
}
