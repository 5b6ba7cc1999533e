package handlers

import (
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/quorumdesk/quorumdesk-backend/internal/services"
)

type DocumentHandler struct {
  documentService   services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
  return &DocumentHandler{documentService: documentService}
}

// Upload expects multipart form data: a "file" part plus optional
// "title" and comma-separated "tags" fields.
func (dh *DocumentHandler) Upload(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  fileHeader, err := c.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  defer file.Close()

  title := c.PostForm("title")
  if title == "" {
    title = fileHeader.Filename
  }
  var tags []string
  if raw := c.PostForm("tags"); raw != "" {
    for _, t := range strings.Split(raw, ",") {
      if t = strings.TrimSpace(t); t != "" {
        tags = append(tags, t)
      }
    }
  }

  document, err := dh.documentService.UploadDocument(c.Request.Context(), orgID, services.UploadDocumentInput{
    Title:       title,
    ContentType: fileHeader.Header.Get("Content-Type"),
    SizeBytes:   fileHeader.Size,
    Tags:        tags,
    Body:        file,
  })
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, document)
}

func (dh *DocumentHandler) List(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  documents, err := dh.documentService.ListDocuments(c.Request.Context(), orgID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, documents)
}

func (dh *DocumentHandler) Download(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  documentID, ok := parseUUIDParam(c, "documentID")
  if !ok {
    return
  }
  url, err := dh.documentService.GetDownloadURL(c.Request.Context(), orgID, documentID)
  if err != nil {
    respondServiceError(c, err)
    return
  }
  RespondOK(c, gin.H{"url": url})
}

func (dh *DocumentHandler) Delete(c *gin.Context) {
  orgID, ok := parseUUIDParam(c, "orgID")
  if !ok {
    return
  }
  documentID, ok := parseUUIDParam(c, "documentID")
  if !ok {
    return
  }
  if err := dh.documentService.DeleteDocument(c.Request.Context(), orgID, documentID); err != nil {
    respondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
}
