package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/raki03031/edushare/internal/auth"
	"github.com/raki03031/edushare/internal/fileinfo"
	"github.com/raki03031/edushare/internal/models"
	"github.com/raki03031/edushare/internal/storage"
)

// Handler wires the HTTP surface to its storage backends. Meta and Blob
// are nil when the remote side is not configured; every flow degrades to
// the local store, which is always present.
type Handler struct {
	Local  *storage.LocalStore
	Meta   storage.MetadataStore
	Blob   storage.BlobStore
	Issuer *auth.Issuer
	Logger *slog.Logger

	// RemoteTimeout bounds each remote attempt so a hanging backend does
	// not hold up the local fast path.
	RemoteTimeout time.Duration
}

func NewHandler(local *storage.LocalStore, meta storage.MetadataStore, blob storage.BlobStore, issuer *auth.Issuer, logger *slog.Logger, remoteTimeout time.Duration) *Handler {
	return &Handler{
		Local:         local,
		Meta:          meta,
		Blob:          blob,
		Issuer:        issuer,
		Logger:        logger,
		RemoteTimeout: remoteTimeout,
	}
}

func (h *Handler) remoteCtx(parent context.Context) (context.Context, context.CancelFunc) {
	timeout := h.RemoteTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(parent, timeout)
}

func (h *Handler) HomeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "EduShare API is running"})
}

type credentialsRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginHandler returns a synthesized identity. No credential check happens.
func (h *Handler) LoginHandler(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	user, err := h.Issuer.Synthesize(req.Email, "")
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create session"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// RegisterHandler mirrors login but honors an explicit display name.
func (h *Handler) RegisterHandler(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	user, err := h.Issuer.Synthesize(req.Email, req.DisplayName)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not create session"})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "user": user})
}

// UploadHandler runs the upload flow: local save first, then best-effort
// remote blob and metadata writes.
func (h *Handler) UploadHandler(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file provided"})
	}
	if file.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No file selected"})
	}
	ownerID := c.FormValue("userId")

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Could not open file"})
	}
	defer src.Close()

	id := fileinfo.NewID()
	storedName := id + fileinfo.Ext(file.Filename)

	// Local save is the durability floor; only its failure aborts the
	// request.
	localPath, size, err := h.Local.Save(src, storedName)
	if err != nil {
		h.Logger.Error("local save failed", slog.String("name", storedName), slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save file"})
	}

	record := models.FileRecord{
		ID:            id,
		Name:          file.Filename,
		Type:          fileinfo.TypeOf(file.Filename),
		Size:          size,
		FormattedSize: fileinfo.FormatSize(size),
		UploadDate:    time.Now(),
		OwnerID:       ownerID,
	}

	if url, ok := h.uploadRemote(c.Request().Context(), storedName, localPath); ok {
		record.DownloadURL = url
	} else {
		record.DownloadURL = "/api/download/" + id
		record.LocalPath = localPath
	}

	if h.Meta != nil {
		ctx, cancel := h.remoteCtx(c.Request().Context())
		defer cancel()
		if err := h.Meta.SaveFile(ctx, &record); err != nil {
			h.Logger.Warn("metadata write failed, record kept local only",
				slog.String("id", id), slog.String("error", err.Error()))
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "file": record})
}

// uploadRemote pushes the saved file to the blob store and issues a signed
// download URL. Any failure is logged and reported as a miss, never as an
// error: the local save already happened.
func (h *Handler) uploadRemote(parent context.Context, storedName, localPath string) (string, bool) {
	if h.Blob == nil {
		return "", false
	}
	ctx, cancel := h.remoteCtx(parent)
	defer cancel()

	f, err := os.Open(localPath)
	if err != nil {
		h.Logger.Warn("could not reopen local file for blob upload",
			slog.String("path", localPath), slog.String("error", err.Error()))
		return "", false
	}
	defer f.Close()

	key := "files/" + storedName
	if err := h.Blob.Upload(ctx, key, f); err != nil {
		h.Logger.Warn("blob upload failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}

	url, err := h.Blob.SignedURL(ctx, key)
	if err != nil {
		h.Logger.Warn("signed URL issuance failed", slog.String("key", key), slog.String("error", err.Error()))
		return "", false
	}
	return url, true
}

// DownloadHandler resolves a file id to either a remote URL or a local
// byte stream, scanning the upload directory as a last resort.
func (h *Handler) DownloadHandler(c echo.Context) error {
	id := c.Param("id")

	if h.Meta != nil {
		ctx, cancel := h.remoteCtx(c.Request().Context())
		rec, err := h.Meta.GetFile(ctx, id)
		cancel()
		switch {
		case err == nil:
			if isRemoteURL(rec.DownloadURL) {
				// The caller transfers against remote storage; no proxying.
				return c.JSON(http.StatusOK, map[string]string{"url": rec.DownloadURL})
			}
			if rec.LocalPath != "" {
				if _, statErr := os.Stat(rec.LocalPath); statErr == nil {
					return c.Attachment(rec.LocalPath, rec.Name)
				}
			}
		case errors.Is(err, storage.ErrNotFound):
			// Fall through to the directory scan.
		default:
			h.Logger.Warn("metadata lookup failed", slog.String("id", id), slog.String("error", err.Error()))
		}
	}

	if path, ok, err := h.Local.FindByID(id); err == nil && ok {
		return c.Attachment(path, filepath.Base(path))
	}

	return c.JSON(http.StatusNotFound, map[string]string{"error": "File not found"})
}

// isRemoteURL reports whether a recorded download URL points at remote
// storage rather than this service's own download path.
func isRemoteURL(url string) bool {
	return strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")
}

// FilesHandler lists every known file record, reconstructing records from
// the local directory when the metadata store yields nothing.
func (h *Handler) FilesHandler(c echo.Context) error {
	var files []models.FileRecord

	if h.Meta != nil {
		ctx, cancel := h.remoteCtx(c.Request().Context())
		recs, err := h.Meta.ListFiles(ctx)
		cancel()
		if err != nil {
			h.Logger.Warn("metadata scan failed, listing local files", slog.String("error", err.Error()))
		} else {
			files = recs
		}
	}

	if len(files) == 0 {
		local, err := h.Local.List()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list files"})
		}
		for _, lf := range local {
			// Stored names are <id><ext>; owner and type are not
			// recoverable from the directory alone.
			id := strings.TrimSuffix(lf.Name, filepath.Ext(lf.Name))
			files = append(files, models.FileRecord{
				ID:            id,
				Name:          lf.Name,
				Type:          "other",
				Size:          lf.Size,
				FormattedSize: fileinfo.FormatSize(lf.Size),
				UploadDate:    lf.ModTime,
				OwnerID:       "unknown",
				DownloadURL:   "/api/download/" + id,
				LocalPath:     lf.Path,
			})
		}
	}

	if files == nil {
		files = []models.FileRecord{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"files": files})
}

type reviewRequest struct {
	UserID  string  `json:"userId"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// AddReviewHandler validates and persists a review for a file id. The
// file itself is not required to exist.
func (h *Handler) AddReviewHandler(c echo.Context) error {
	var req reviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	// A zero rating counts as missing; no range check beyond that.
	if req.UserID == "" || req.Rating == 0 || req.Comment == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing required fields"})
	}

	review := models.ReviewRecord{
		ID:      uuid.NewString(),
		FileID:  c.Param("id"),
		UserID:  req.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
		Date:    time.Now(),
	}

	if h.Meta != nil {
		ctx, cancel := h.remoteCtx(c.Request().Context())
		defer cancel()
		if err := h.Meta.SaveReview(ctx, &review); err != nil {
			h.Logger.Error("review write failed",
				slog.String("fileId", review.FileID), slog.String("error", err.Error()))
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save review"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "review": review})
}

// ReviewsHandler lists reviews for a file id. No store means no reviews,
// never an error.
func (h *Handler) ReviewsHandler(c echo.Context) error {
	reviews := []models.ReviewRecord{}

	if h.Meta != nil {
		ctx, cancel := h.remoteCtx(c.Request().Context())
		defer cancel()
		recs, err := h.Meta.ListReviews(ctx, c.Param("id"))
		if err != nil {
			h.Logger.Warn("review scan failed", slog.String("fileId", c.Param("id")), slog.String("error", err.Error()))
		} else if recs != nil {
			reviews = recs
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}
