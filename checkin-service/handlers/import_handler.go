package handlers

import (
	"errors"
	"log"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"rollcall-backend/checkin-service/services"
)

// ImportHandler handles roster spreadsheet uploads
type ImportHandler struct {
	archive *services.ArchiveService // nil when object storage is unavailable
}

// NewImportHandler creates a new import handler
func NewImportHandler(archive *services.ArchiveService) *ImportHandler {
	return &ImportHandler{archive: archive}
}

// ImportContacts godoc
// @Summary Import contacts from a spreadsheet
// @Description Parse the "Main Roster" sheet of an uploaded workbook into {name, phone} contacts
// @Tags contacts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Roster workbook (.xlsx)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /contacts/import [post]
func (h *ImportHandler) ImportContacts(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No file uploaded",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("❌ Error opening uploaded roster: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error parsing Excel file",
		})
		return
	}
	defer file.Close()

	contacts, err := services.ParseRoster(file)
	if err != nil {
		h.respondParseError(c, err)
		return
	}

	h.archiveUpload(c, fileHeader)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"contacts": contacts,
	})
}

// respondParseError maps parser failures to the 400 envelopes the UI shows
func (h *ImportHandler) respondParseError(c *gin.Context, err error) {
	var sheetErr *services.SheetNotFoundError

	switch {
	case errors.Is(err, services.ErrInvalidWorkbook):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid Excel file. Please ensure it is a valid .xlsx file.",
		})
	case errors.As(err, &sheetErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": sheetErr.Error(),
		})
	case errors.Is(err, services.ErrNoContacts):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No valid contacts found in the Excel file",
		})
	default:
		log.Printf("❌ Error parsing roster upload: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Error parsing Excel file",
		})
	}
}

// archiveUpload stores the original workbook in object storage, best-effort
func (h *ImportHandler) archiveUpload(c *gin.Context, fileHeader *multipart.FileHeader) {
	if h.archive == nil {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("⚠️ Could not reopen roster upload for archiving: %v", err)
		return
	}
	defer file.Close()

	if _, err := h.archive.ArchiveRoster(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size); err != nil {
		log.Printf("⚠️ %v", err)
	}
}
