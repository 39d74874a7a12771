package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"creation-server/internal/models"
	"creation-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type generateArticleRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Length int    `json:"length"`
}

type generateBlogTitleRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type generateImageRequest struct {
	Prompt  string `json:"prompt" binding:"required"`
	Publish bool   `json:"publish"`
}

// generateArticle обрабатывает запрос генерации статьи.
func (h *Handler) generateArticle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	var req generateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid request body: "+err.Error()))
		return
	}

	creation, err := h.generation.GenerateArticle(c.Request.Context(), userID, req.Prompt, req.Length)
	if err != nil {
		h.logServiceError(c, "generateArticle", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Success: true, Content: creation.Content})
}

// generateBlogTitle обрабатывает запрос генерации заголовка блога.
func (h *Handler) generateBlogTitle(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	var req generateBlogTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid request body: "+err.Error()))
		return
	}

	creation, err := h.generation.GenerateBlogTitle(c.Request.Context(), userID, req.Prompt)
	if err != nil {
		h.logServiceError(c, "generateBlogTitle", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Success: true, Content: creation.Content})
}

// generateImage обрабатывает запрос генерации изображения.
func (h *Handler) generateImage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	var req generateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Invalid request body: "+err.Error()))
		return
	}

	creation, err := h.generation.GenerateImage(c.Request.Context(), userID, req.Prompt, req.Publish)
	if err != nil {
		h.logServiceError(c, "generateImage", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"content": creation.Content,
		"message": "Image generated and saved to community!",
	})
}

// removeImageBackground обрабатывает запрос удаления фона изображения.
func (h *Handler) removeImageBackground(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	image, fileName, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Image file is required"))
		return
	}

	creation, err := h.generation.RemoveBackground(c.Request.Context(), userID, image, fileName)
	if err != nil {
		h.logServiceError(c, "removeImageBackground", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Success: true, Content: creation.Content})
}

// removeImageObject обрабатывает запрос удаления объекта с изображения.
func (h *Handler) removeImageObject(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	image, fileName, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Image file is required"))
		return
	}
	object := c.PostForm("object")

	creation, err := h.generation.RemoveObject(c.Request.Context(), userID, image, fileName, object)
	if err != nil {
		h.logServiceError(c, "removeImageObject", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Success: true, Content: creation.Content})
}

// reviewResume обрабатывает запрос AI-ревью резюме.
func (h *Handler) reviewResume(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.NewAPIError("Unauthorized"))
		return
	}

	resume, _, err := readFormFile(c, "resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewAPIError("Resume file is required"))
		return
	}

	creation, err := h.generation.ReviewResume(c.Request.Context(), userID, resume)
	if err != nil {
		h.logServiceError(c, "reviewResume", userID, err)
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ContentResponse{Success: true, Content: creation.Content})
}

// logServiceError логирует только неожиданные ошибки сервисного слоя.
func (h *Handler) logServiceError(c *gin.Context, op, userID string, err error) {
	if errors.Is(err, service.ErrQuotaExceeded) ||
		errors.Is(err, service.ErrPremiumRequired) ||
		errors.Is(err, service.ErrResumeTooLarge) ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidInput) {
		return
	}
	h.logger.Error("Service operation failed",
		zap.String("op", op),
		zap.String("userID", userID),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
}

// readFormFile читает загруженный файл из multipart формы.
func readFormFile(c *gin.Context, field string) (data []byte, fileName string, err error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, "", err
	}

	var file multipart.File
	file, err = fileHeader.Open()
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}
	return data, fileHeader.Filename, nil
}
