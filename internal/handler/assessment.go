package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AssessmentHandler interface {
	GetAll(c *gin.Context)
	GetOne(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
}

type assessmentHandler struct {
	assessments service.AssessmentService
	log         *logrus.Logger
}

func NewAssessmentHandler(assessments service.AssessmentService, log *logrus.Logger) AssessmentHandler {
	return &assessmentHandler{assessments: assessments, log: log}
}

func (h *assessmentHandler) GetAll(c *gin.Context) {
	userID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assessments, err := h.assessments.GetAll(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Failed to list assessments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, assessments)
}

func (h *assessmentHandler) GetOne(c *gin.Context) {
	userID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assessmentID, err := strconv.ParseInt(c.Param("assessment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	assessment, err := h.assessments.GetOne(c.Request.Context(), assessmentID, userID)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		h.log.Errorf("Failed to load assessment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

func (h *assessmentHandler) Create(c *gin.Context) {
	userID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assessment, err := h.assessments.Create(c.Request.Context(), userID)
	if err != nil {
		h.log.Errorf("Failed to create assessment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, assessment)
}

type AssessmentUpdateRequest struct {
	Started  *bool `json:"started"`
	Finished *bool `json:"finished"`
}

// Update stamps the assessment's start or finish time. Either flag may be
// sent; each time is only ever written once.
func (h *assessmentHandler) Update(c *gin.Context) {
	userID, ok := middleware.AccountID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	assessmentID, err := strconv.ParseInt(c.Param("assessment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	var req AssessmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Started == nil && req.Finished == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()
	switch {
	case req.Started != nil:
		err = h.assessments.MarkStarted(ctx, assessmentID, userID)
	case req.Finished != nil:
		err = h.assessments.MarkFinished(ctx, assessmentID, userID)
	}
	if err != nil {
		h.log.Errorf("Failed to update assessment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusCreated)
}
