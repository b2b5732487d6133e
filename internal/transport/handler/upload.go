package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/pep299/review-summarizer/internal/model"
	"github.com/pep299/review-summarizer/internal/review"
	"github.com/pep299/review-summarizer/internal/transport/response"
)

// FileField is the multipart field holding the review CSV.
const FileField = "file"

// multipartMemory is how much of an upload is kept in memory before the
// rest spills to temporary files.
const multipartMemory = 8 << 20

type uploadError struct {
	status  int
	message string
}

func (e *uploadError) Error() string {
	return e.message
}

// readUpload parses the multipart request and returns the CSV file and the
// slider values. The caller closes the file.
func readUpload(w http.ResponseWriter, r *http.Request, maxBytes int64) (multipart.File, model.Preference, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, &uploadError{
				status:  http.StatusRequestEntityTooLarge,
				message: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			}
		}
		return nil, nil, &uploadError{status: http.StatusBadRequest, message: "invalid multipart form: " + err.Error()}
	}

	pref, err := parsePreference(r)
	if err != nil {
		return nil, nil, err
	}

	file, _, err := r.FormFile(FileField)
	if err != nil {
		return nil, nil, &uploadError{status: http.StatusBadRequest, message: "a CSV file is required in field \"file\""}
	}
	return file, pref, nil
}

func parsePreference(r *http.Request) (model.Preference, error) {
	pref := model.DefaultPreference()
	for _, a := range model.Aspects() {
		raw := strings.TrimSpace(r.FormValue(string(a)))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &model.ValidationError{Field: string(a), Message: fmt.Sprintf("%q is not a number", raw)}
		}
		pref[a] = v
	}
	return pref, pref.Validate()
}

// writeError maps an error to its HTTP status.
func writeError(w http.ResponseWriter, err error) {
	var (
		upErr    *uploadError
		valErr   *model.ValidationError
		colErr   *review.ColumnError
		fmtErr   *review.FormatError
		modelErr *model.ModelError
	)
	switch {
	case errors.As(err, &upErr) && upErr.status == http.StatusRequestEntityTooLarge:
		response.WriteTooLarge(w, upErr.message)
	case errors.As(err, &upErr):
		response.WriteError(w, upErr.status, upErr.message)
	case errors.As(err, &valErr):
		response.WriteBadRequest(w, valErr.Error())
	case errors.As(err, &colErr):
		response.WriteBadRequest(w, colErr.Error())
	case errors.As(err, &fmtErr):
		response.WriteBadRequest(w, fmtErr.Error())
	case errors.As(err, &modelErr):
		response.WriteBadGateway(w, modelErr.Error())
	default:
		response.WriteInternalError(w, err.Error())
	}
}
