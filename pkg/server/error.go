package server

import (
	"html/template"
	"net/http"

	"github.com/matzehuels/datasprout/pkg/errors"
)

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>DataSprout - Error</title>
</head>
<body>
<h1>An error occurred</h1>
<p>{{.Message}}</p>
{{if .Code}}<p><small>{{.Code}}</small></p>{{end}}
</body>
</html>
`))

type errorData struct {
	Message string
	Code    string
}

// status maps an error to an HTTP status: request and configuration
// problems are client errors, everything else is a server error.
func status(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidMode, errors.ErrCodeNotFound,
		errors.ErrCodeUnsupportedLocale:
		return http.StatusBadRequest
	}
	if errors.IsConfiguration(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	code := status(err)
	if code >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	} else {
		s.Logger.Debug("bad request", "err", err)
	}
	s.writePage(w, code, errorData{Message: errors.UserMessage(err), Code: string(errors.GetCode(err))})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writePage(w, code, errorData{Message: msg})
}

func (s *Server) writePage(w http.ResponseWriter, code int, data errorData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := errorPage.Execute(w, data); err != nil {
		s.Logger.Warn("writing error page failed", "err", err)
	}
}
