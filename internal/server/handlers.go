package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"memoir/internal/logging"
	"memoir/internal/services"
	"memoir/internal/session"
)

// maxAudioBytes bounds a single recording upload.
const maxAudioBytes = 25 << 20

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token   string `json:"token,omitempty"`
	OwnerID string `json:"ownerId"`
	Email   string `json:"email"`
}

type ingestResponse struct {
	Session    any    `json:"session"`
	NewSegment string `json:"newSegment"`
	Duplicate  bool   `json:"duplicate"`
}

// Text is a pointer so an explicit empty block is distinguishable from an
// absent field: replacing with "" clears the transcript.
type replaceRequest struct {
	Segments []string `json:"segments"`
	Text     *string  `json:"text"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.Wrap(services.ErrValidation, "server", "register", "invalid json body", nil))
		return
	}

	ident, err := s.identity.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{OwnerID: ident.OwnerID, Email: ident.Email})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.Wrap(services.ErrValidation, "server", "login", "invalid json body", nil))
		return
	}

	token, ident, err := s.identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, authResponse{Token: token, OwnerID: ident.OwnerID, Email: ident.Email})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIngestSegment(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "ingest", "missing identity", nil))
		return
	}

	audio, mediaType, err := readAudioPayload(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.sessions.Ingest(r.Context(), ownerID, audio, mediaType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{
		Session:    result.Session,
		NewSegment: result.NewSegment,
		Duplicate:  result.Duplicate,
	})
}

// readAudioPayload accepts either a multipart form with an "audio" part, the
// shape browsers produce, or a raw request body with an audio content type.
func readAudioPayload(r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxAudioBytes)

	contentType := r.Header.Get("Content-Type")
	baseType, _, _ := mime.ParseMediaType(contentType)

	if strings.HasPrefix(baseType, "multipart/") {
		file, header, err := r.FormFile("audio")
		if err != nil {
			return nil, "", services.Wrap(services.ErrValidation, "server", "ingest", `multipart field "audio" is required`, nil)
		}
		defer file.Close()
		audio, err := io.ReadAll(file)
		if err != nil {
			return nil, "", services.Wrap(services.ErrValidation, "server", "ingest", "read audio part", err)
		}
		mediaType := header.Header.Get("Content-Type")
		if mediaType == "" {
			mediaType = "application/octet-stream"
		}
		return audio, mediaType, nil
	}

	audio, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, "", services.Wrap(services.ErrValidation, "server", "ingest", "audio payload too large", nil)
		}
		return nil, "", services.Wrap(services.ErrValidation, "server", "ingest", "read request body", err)
	}
	if len(audio) == 0 {
		return nil, "", services.Wrap(services.ErrValidation, "server", "ingest", "audio payload is required", nil)
	}
	if baseType == "" {
		baseType = "application/octet-stream"
	}
	return audio, baseType, nil
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "session", "missing identity", nil))
		return
	}

	sess, err := s.sessions.Read(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleReplaceSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "session", "missing identity", nil))
		return
	}

	var req replaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, services.Wrap(services.ErrValidation, "server", "session", "invalid json body", nil))
		return
	}

	segments := req.Segments
	switch {
	case segments != nil:
	case req.Text != nil:
		segments = session.SplitBlock(*req.Text)
	default:
		writeError(w, services.Wrap(services.ErrValidation, "server", "session", `either "segments" or "text" is required`, nil))
		return
	}

	sess, err := s.sessions.Replace(r.Context(), ownerID, segments)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleResetSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "session", "missing identity", nil))
		return
	}

	if err := s.sessions.Reset(r.Context(), ownerID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCleanupSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "cleanup", "missing identity", nil))
		return
	}

	result, err := s.sessions.Cleanup(r.Context(), ownerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGenerateStory(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := services.OwnerIDFromContext(r.Context())
	if !ok {
		writeError(w, services.Wrap(services.ErrUnauthorized, "server", "story", "missing identity", nil))
		return
	}

	result, err := s.stories.Generate(r.Context(), ownerID)
	if err != nil {
		logging.WithContext(r.Context(), s.logger).Error("story generation failed", logging.Error(err))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
