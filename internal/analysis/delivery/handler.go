package delivery

import (
	"io"
	"net/http"
	"strings"

	"calotrack-backend/internal/analysis/usecase"
	"calotrack-backend/internal/common"

	"github.com/gin-gonic/gin"
)

// MaxImageSize is the upload limit for food photos
const MaxImageSize = 5 << 20

const imageField = "foodImage"

type AnalysisHandler struct {
	analysisUsecase usecase.AnalysisUsecase
}

func NewAnalysisHandler(analysisUsecase usecase.AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{analysisUsecase: analysisUsecase}
}

// readImage validates the multipart upload: present, at most 5MB, image/*
func readImage(c *gin.Context) (usecase.ImageUpload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxImageSize+1<<20)

	fh, err := c.FormFile(imageField)
	if err != nil {
		if strings.Contains(err.Error(), "too large") {
			return usecase.ImageUpload{}, common.Validation("image must be at most 5MB")
		}
		return usecase.ImageUpload{}, common.Validation("no image uploaded")
	}
	if fh.Size > MaxImageSize {
		return usecase.ImageUpload{}, common.Validation("image must be at most 5MB")
	}

	f, err := fh.Open()
	if err != nil {
		return usecase.ImageUpload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return usecase.ImageUpload{}, err
	}
	if len(data) > MaxImageSize {
		return usecase.ImageUpload{}, common.Validation("image must be at most 5MB")
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return usecase.ImageUpload{}, common.Validation("only image files are allowed")
	}

	return usecase.ImageUpload{
		Data:        data,
		ContentType: contentType,
		ClientTime:  c.PostForm("client_time"),
	}, nil
}

// AnalyzeImage identifies the food and saves it as a meal
// POST /api/ai/analyze-image (multipart: foodImage, client_time?)
func (h *AnalysisHandler) AnalyzeImage(c *gin.Context) {
	upload, err := readImage(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	meal, analysis, err := h.analysisUsecase.AnalyzeAndSave(c.Request.Context(), c.GetString("userID"), upload)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Image analysed and meal saved",
		"meal":     meal,
		"analysis": analysis,
	})
}

// IdentifyOnly returns the analysis without saving so the user can review it
// POST /api/ai/identify-only
func (h *AnalysisHandler) IdentifyOnly(c *gin.Context) {
	upload, err := readImage(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	analysis, err := h.analysisUsecase.Identify(c.Request.Context(), upload)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

// Confirm saves a reviewed analysis
// POST /api/ai/confirm
func (h *AnalysisHandler) Confirm(c *gin.Context) {
	var req usecase.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("meal name and calories are required"))
		return
	}

	meal, err := h.analysisUsecase.Confirm(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "meal": meal})
}
