package controllers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cppla/wemake/utils"
)

// image types accepted for avatars and product icons, keyed by sniffed content type
var uploadExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadController stores images under a local directory served at /static/uploads.
type UploadController struct {
	dir     string
	maxSize int64
}

// NewUploadController creates an UploadController writing into dir with a size cap in megabytes.
func NewUploadController(dir string, maxSizeMB int) *UploadController {
	if maxSizeMB <= 0 {
		maxSizeMB = 5
	}
	return &UploadController{dir: dir, maxSize: int64(maxSizeMB) << 20}
}

// UploadImage saves one image from the "file" form field and returns its public URL.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	profileID, ok := requireProfile(ctx)
	if !ok {
		return
	}
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40080, "no file uploaded")
		return
	}
	defer file.Close()

	if header.Size > u.maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40081, fmt.Sprintf("file size exceeds %dMB", u.maxSize>>20))
		return
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		utils.Error(ctx, http.StatusBadRequest, 40082, "failed to read file")
		return
	}
	head = head[:n]
	ext, ok := uploadExtensions[http.DetectContentType(head)]
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40083, "only png, jpeg, gif and webp images are allowed")
		return
	}

	now := time.Now().UTC()
	sub := filepath.Join(now.Format("2006"), now.Format("01"), now.Format("02"))
	baseDir := filepath.Join(u.dir, sub)
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50110, "failed to create upload directory")
		return
	}
	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50111, "failed to save file")
		return
	}
	defer out.Close()

	// header.Size can be missing; the limited reader is the real cap
	lr := &io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), file), N: u.maxSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil || written > u.maxSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50112, "failed to write file")
			return
		}
		utils.Error(ctx, http.StatusBadRequest, 40081, fmt.Sprintf("file size exceeds %dMB", u.maxSize>>20))
		return
	}

	utils.Sugar.Infow("image uploaded", "profile_id", profileID, "bytes", written, "path", dstPath)
	url := fmt.Sprintf("/static/uploads/%s/%s", filepath.ToSlash(sub), name)
	utils.Success(ctx, gin.H{"url": url})
}
