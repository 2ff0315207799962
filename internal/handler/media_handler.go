package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/service"
)

// maxUploadBytes caps mockup and visit photo uploads at 10 MiB.
const maxUploadBytes = 10 << 20

func uploadHandler(svc *service.Media, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/uploads")
		defer span.End()

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "expected a multipart form with a file field")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		url, err := svc.Upload(ctx, header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"url": url})
	}
}
