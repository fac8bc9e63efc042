package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/linear-intake/backend/internal/directory"
	"github.com/linear-intake/backend/internal/models"
	"github.com/linear-intake/backend/internal/service"
)

type Handler struct {
	Pipeline  *service.Pipeline
	Validator *validator.Validate
	Logger    zerolog.Logger
	AdminKey  string
}

// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /healthz [get]
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Submit a bug or request
// @Description Free text plus optional image/audio/video attachments; triaged into a tracker issue
// @Tags submit
// @Accept multipart/form-data
// @Produce json
// @Param reporterName formData string false "Reporter display name"
// @Param title formData string false "Short summary"
// @Param details formData string false "Free-text description"
// @Param category formData string false "bug|feature|question|task"
// @Param severity formData string false "critical|high|medium|low"
// @Param files formData file false "Attachments"
// @Success 200 {object} models.DispatchOutcome
// @Failure 500 {object} map[string]string
// @Router /api/submit [post]
func (h *Handler) Submit(c *gin.Context) {
	sub, err := parseSubmission(c)
	if err != nil {
		writeError(c, err.Error())
		return
	}
	if err := h.Validator.Struct(sub); err != nil {
		writeError(c, err.Error())
		return
	}

	outcome, err := h.Pipeline.Run(c.Request.Context(), sub)
	if err != nil {
		h.Logger.Error().Err(err).Msg("triage run failed")
		writeError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// @Summary Employee directory
// @Tags directory
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/directory [get]
func (h *Handler) Directory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"teams":     directory.Teams,
		"employees": directory.Employees,
	})
}

// @Summary Preview deterministic routing
// @Description Runs only the keyword router over a submission, no model calls
// @Tags debug
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Router /api/debug/routing [post]
func (h *Handler) DebugRouting(c *gin.Context) {
	var sub models.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decision := service.DetermineRouting(sub)
	resp := gin.H{"decision": decision}
	if emp, ok := directory.FindByName(decision.AssigneeName); ok {
		resp["assignee"] = emp
	}
	c.JSON(http.StatusOK, resp)
}

func parseSubmission(c *gin.Context) (models.Submission, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return models.Submission{}, err
	}

	sub := models.Submission{
		Title:        formValue(form.Value, "title"),
		ReporterName: formValue(form.Value, "reporterName"),
		Details:      formValue(form.Value, "details"),
		Category:     formValue(form.Value, "category"),
		Severity:     formValue(form.Value, "severity"),
	}

	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return models.Submission{}, err
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return models.Submission{}, err
		}
		sub.Attachments = append(sub.Attachments, models.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return sub, nil
}

func formValue(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// writeError reports every submit failure the same way: one message, 500.
// The caller's only recovery is resubmitting the form.
func writeError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
