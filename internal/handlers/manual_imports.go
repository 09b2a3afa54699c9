package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"franchiseops/internal/ai"
	applog "franchiseops/internal/log"
	"franchiseops/internal/manual"
	"franchiseops/internal/matching"
)

// ManualExtractor reads ingredient lines from manuals the local parser cannot
// handle, such as photographed pages.
type ManualExtractor interface {
	ExtractManualLines(ctx context.Context, input ai.ManualInput) ([]manual.Line, error)
}

var manualExtractor ManualExtractor

// SetManualExtractor installs the extractor used for image uploads. Nil
// restores the default of rejecting images.
func SetManualExtractor(extractor ManualExtractor) {
	manualExtractor = extractor
}

type manualImportLine struct {
	manual.Line
	Match matching.Result `json:"match"`
}

type manualImportResponse struct {
	FileName string             `json:"file_name,omitempty"`
	Lines    []manualImportLine `json:"lines"`
}

// ManualImport parses an uploaded recipe manual (manual_file) or pasted text
// (manual_text) into ingredient lines with match suggestions. Nothing is persisted.
func ManualImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	tenantID, ok := apiTenant(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, manual.MaxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(manual.MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		applog.Debug(ctx, "failed to parse manual upload form", "error", err)
		writeJSONError(w, http.StatusBadRequest, "upload is too large or invalid")
		return
	}

	text := strings.TrimSpace(r.FormValue("manual_text"))
	fileName, data, mime, err := readManualUpload(r)
	if err != nil {
		applog.Debug(ctx, "manual upload read failed", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to read the uploaded file")
		return
	}
	var extractedLines []manual.Line
	if len(data) > 0 {
		extracted, err := manual.ExtractText(data, mime)
		switch {
		case errors.Is(err, manual.ErrUnsupportedType) && manualExtractor != nil:
			extractedLines, err = manualExtractor.ExtractManualLines(ctx, ai.ManualInput{
				Image:    data,
				MimeType: mime,
				FileName: fileName,
			})
			if err != nil {
				applog.Error(ctx, "manual extraction failed", "error", err, "file", fileName)
				writeJSONError(w, http.StatusBadGateway, "unable to read the uploaded image")
				return
			}
		case err != nil:
			applog.Debug(ctx, "failed to extract manual text", "error", err, "mime", mime)
			if errors.Is(err, manual.ErrUnsupportedType) {
				writeJSONError(w, http.StatusUnsupportedMediaType, err.Error())
				return
			}
			writeJSONError(w, http.StatusBadRequest, "unable to read the uploaded document")
			return
		default:
			if text != "" {
				text += "\n"
			}
			text += extracted
		}
	}
	if strings.TrimSpace(text) == "" && len(extractedLines) == 0 {
		writeJSONError(w, http.StatusBadRequest, "provide manual_text or upload manual_file")
		return
	}

	lines := append(manual.ParseLines(text), extractedLines...)
	results, err := costService.Match(ctx, tenantID, manual.Names(lines))
	if err != nil {
		writeServiceError(w, r, err, "unable to match manual ingredients")
		return
	}

	response := manualImportResponse{FileName: fileName, Lines: make([]manualImportLine, 0, len(lines))}
	for i, line := range lines {
		response.Lines = append(response.Lines, manualImportLine{Line: line, Match: results[i]})
	}
	applog.Info(ctx, "parsed recipe manual", "file", fileName, "lines", len(lines))
	writeJSON(w, http.StatusOK, response)
}

func readManualUpload(r *http.Request) (string, []byte, string, error) {
	file, header, err := r.FormFile("manual_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil, "", nil
		}
		return "", nil, "", err
	}
	defer file.Close()

	if header.Size > manual.MaxUploadSize {
		return "", nil, "", fmt.Errorf("file exceeds %d bytes", manual.MaxUploadSize)
	}

	buf := bytes.NewBuffer(make([]byte, 0, header.Size))
	if _, err := io.Copy(buf, file); err != nil {
		return "", nil, "", err
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" || mime == "application/octet-stream" {
		mime = manual.MimeTypeFromName(header.Filename)
	}
	return header.Filename, buf.Bytes(), mime, nil
}
