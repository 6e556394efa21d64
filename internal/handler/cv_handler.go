package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Emna-bentorkia/Pfe-Projet-final/internal/domain"
)

type CVHandler struct {
	cvService domain.CVService
}

func NewCVHandler(cvService domain.CVService) *CVHandler {
	return &CVHandler{cvService: cvService}
}

func (h *CVHandler) CreateOrUpdate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req domain.CVUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Malformed request body"})
		return
	}

	cv, err := h.cvService.CreateOrUpdate(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

// Get serves the caller's own CV always, and another account's CV only when
// its owner marked it public.
func (h *CVHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	cv, err := h.cvService.Get(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	if targetID != userID && !cv.IsPublic {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

func (h *CVHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		Section string          `json:"section"`
		Item    json.RawMessage `json:"item"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Section == "" || len(req.Item) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Section and item are required"})
		return
	}

	cv, err := h.cvService.AddItem(c.Request.Context(), userID, req.Section, req.Item)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

// AddToSection backs the section-specific routes; the section name comes from
// the route instead of the body.
func (h *CVHandler) AddToSection(section domain.Section) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
			return
		}

		var req struct {
			Item json.RawMessage `json:"item"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || len(req.Item) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Item is required"})
			return
		}

		cv, err := h.cvService.AddItem(c.Request.Context(), userID, string(section), req.Item)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
	}
}

func (h *CVHandler) UpdateItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		Section     string          `json:"section"`
		ItemID      uuid.UUID       `json:"itemId"`
		UpdatedItem json.RawMessage `json:"updatedItem"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Section == "" ||
		req.ItemID == uuid.Nil || len(req.UpdatedItem) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	cv, err := h.cvService.UpdateItem(c.Request.Context(), userID, req.Section, req.ItemID, req.UpdatedItem)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

func (h *CVHandler) RemoveItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req struct {
		Section string    `json:"section"`
		ItemID  uuid.UUID `json:"itemId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Section == "" || req.ItemID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "All fields are required"})
		return
	}

	cv, err := h.cvService.RemoveItem(c.Request.Context(), userID, req.Section, req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

func (h *CVHandler) UpdateInfo(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	var req domain.CVUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Malformed request body"})
		return
	}

	cv, err := h.cvService.UpdateInfo(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "cv": cv})
}

func (h *CVHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	if err := h.cvService.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, "CV deleted successfully")
}

// Export streams the rendered PDF. Same visibility rule as Get.
func (h *CVHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Unauthorized"})
		return
	}

	targetID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	if targetID != userID {
		cv, err := h.cvService.Get(c.Request.Context(), targetID)
		if err != nil {
			respondError(c, err)
			return
		}
		if !cv.IsPublic {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}
	}

	pdfBytes, err := h.cvService.Export(c.Request.Context(), targetID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "cv.pdf"))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
