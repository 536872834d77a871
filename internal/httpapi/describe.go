package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"altd/internal/captioner"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// describeHandler serves POST /describe: a multipart upload with a "file"
// part and an optional "model" field.
func describeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Content-Type check
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !strings.EqualFold(mt, "multipart/form-data") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be multipart/form-data")
			return
		}
		// Limit body size (configurable, default 20MiB)
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", mbe.Limit))
				return
			}
			writeJSONError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "file is required")
			return
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		model := strings.TrimSpace(r.FormValue("model"))

		start := time.Now()
		lvl := requestLogLevel(r)
		uploadBytes.Observe(float64(len(data)))
		logEvent(r, LevelInfo, "describe start", map[string]any{"model": model, "bytes": len(data)})
		if lvl >= LevelDebug {
			logEvent(r, LevelDebug, "describe upload", map[string]any{"filename": hdr.Filename, "content_type": hdr.Header.Get("Content-Type")})
		}

		ctx, cancel := captionContext(r)
		defer cancel()

		resp, err := svc.Describe(ctx, captioner.DescribeRequest{Model: model, Data: data})
		if err != nil {
			// Nobody is left to read the reply.
			if aborted(r) {
				return
			}
			status := writeServiceError(w, err)
			logEnd(r, status, start, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
		logEnd(r, http.StatusOK, start, nil)
	}
}
