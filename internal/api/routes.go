package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lumina/iris-studio/internal/auth"
	"github.com/lumina/iris-studio/internal/export"
	"github.com/lumina/iris-studio/internal/generate"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/timeline"
)

const maxUploadBytes = 512 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))

	r.Post("/auth/register", registerHandler(cfg))
	r.Post("/auth/login", loginHandler(cfg))
	r.Post("/auth/logout", logoutHandler(cfg))
	r.Get("/auth/session", sessionHandler(cfg))

	r.Get("/project", getProjectHandler(cfg))
	r.Get("/moderation/state", banStateHandler(cfg))

	r.Get("/media", listMediaHandler(cfg))
	r.Get("/media/{id}/stream", streamMediaHandler(cfg))

	r.Get("/generate/jobs", listJobsHandler(cfg))
	r.Get("/generate/jobs/{id}", getJobHandler(cfg))

	if cfg.Events != nil {
		r.Get("/events", cfg.Events.Handler())
	}

	// Editing surface. Banned identities are locked out of everything
	// below.
	r.Group(func(r chi.Router) {
		r.Use(ModerationMiddleware(cfg.Gate))

		r.Post("/project/clips", addClipHandler(cfg))
		r.Patch("/project/clips/{id}", updateClipHandler(cfg))
		r.Delete("/project/clips/{id}", removeClipHandler(cfg))
		r.Post("/project/audio", addAudioHandler(cfg))
		r.Post("/project/text", addTextHandler(cfg))
		r.Post("/project/seek", seekHandler(cfg))
		r.Post("/project/playing", setPlayingHandler(cfg))
		r.Post("/project/select", selectHandler(cfg))

		r.Post("/generate/jobs", submitJobHandler(cfg))
		r.Delete("/generate/jobs/{id}", cancelJobHandler(cfg))

		r.Post("/media", uploadMediaHandler(cfg))
		r.Delete("/media/{id}", deleteMediaHandler(cfg))

		r.Post("/export", exportHandler(cfg))
	})

	r.Group(func(r chi.Router) {
		r.Use(OwnerMiddleware(cfg.Gate))

		r.Get("/admin/users", listUsersHandler(cfg))
		r.Post("/admin/users/{email}/ban", banUserHandler(cfg))
		r.Post("/admin/users/{email}/unban", unbanUserHandler(cfg))
		r.Delete("/admin/users/{email}", deleteUserHandler(cfg))
		r.Post("/admin/warn", warnHandler(cfg))
		r.Delete("/admin/warn", cancelWarnHandler(cfg))
	})

	return r
}

func decodeRequest(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return validate.Struct(dst)
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: int64(time.Since(cfg.StartTime).Seconds()),
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := cfg.Project.Snapshot()

		state := "paused"
		if snap.IsPlaying {
			state = "playing"
		}

		pending := 0
		if jobs, err := cfg.Jobs.ListJobs(r.Context(), 50); err == nil {
			for _, j := range jobs {
				if j.Status == generate.StatusPending || j.Status == generate.StatusRunning {
					pending++
				}
			}
		}

		blocked, _ := cfg.Gate.Blocked()
		WriteJSON(w, http.StatusOK, StatusResponse{
			State:         state,
			ClipCount:     len(snap.Clips),
			TotalDuration: snap.TotalDuration(),
			CurrentTime:   snap.CurrentTime,
			Identity:      cfg.Gate.Identity(),
			Banned:        blocked,
			JobsPending:   pending,
		})
	}
}

func registerHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		session, err := cfg.Auth.Register(r.Context(), req.Email, req.Name, req.Password)
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			WriteError(w, http.StatusConflict, "email already registered", "EMAIL_TAKEN")
			return
		case errors.Is(err, auth.ErrWeakPassword):
			WriteError(w, http.StatusBadRequest, "password too short", "WEAK_PASSWORD")
			return
		case err != nil:
			WriteError(w, http.StatusInternalServerError, "registration failed", "INTERNAL_ERROR")
			return
		}

		cfg.Gate.SetIdentity(session.Email)
		WriteJSON(w, http.StatusCreated, SessionToResponse(session))
	}
}

func loginHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		session, err := cfg.Auth.Login(r.Context(), req.Email, req.Password)
		if errors.Is(err, auth.ErrUnknownIdentity) || errors.Is(err, auth.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "invalid email or password", "UNAUTHORIZED")
			return
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "login failed", "INTERNAL_ERROR")
			return
		}

		cfg.Gate.SetIdentity(session.Email)
		WriteJSON(w, http.StatusOK, SessionToResponse(session))
	}
}

func logoutHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Auth.Logout(r.Context()); err != nil {
			WriteError(w, http.StatusInternalServerError, "logout failed", "INTERNAL_ERROR")
			return
		}
		cfg.Gate.ClearIdentity()
		w.WriteHeader(http.StatusNoContent)
	}
}

func sessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := cfg.Auth.CurrentSession(r.Context())
		if session == nil {
			WriteError(w, http.StatusNotFound, "no active session", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, SessionToResponse(session))
	}
}

func getProjectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Project.Snapshot()))
	}
}

func addClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddClipRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		source := timeline.SourceKind(req.Source)
		if source == "" {
			source = timeline.SourceLocal
		}
		mediaKind := timeline.MediaKind(req.Media)
		if mediaKind == "" {
			mediaKind = timeline.MediaVideo
		}
		title := req.Title
		if title == "" {
			title = "Untitled Clip"
		}

		clip := timeline.NewVideoClip(source, mediaKind, req.URL, title, req.Duration)
		WriteJSON(w, http.StatusCreated, SnapshotToResponse(cfg.Project.AddClip(clip)))
	}
}

func updateClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch timeline.ClipPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Project.UpdateClip(chi.URLParam(r, "id"), patch)))
	}
}

func removeClipHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Project.RemoveClip(chi.URLParam(r, "id"))))
	}
}

func addAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddAudioRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		track := timeline.NewAudioTrack(req.URL, req.Title, req.Duration)
		WriteJSON(w, http.StatusCreated, SnapshotToResponse(cfg.Project.AddAudio(track)))
	}
}

func addTextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTextRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		style := timeline.OverlayStyle(req.Style)
		if style == "" {
			style = timeline.StyleMinimal
		}
		WriteJSON(w, http.StatusCreated, SnapshotToResponse(cfg.Project.AddText(req.Content, style)))
	}
}

func seekHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SeekRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Project.Seek(req.Time)))
	}
}

func setPlayingHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetPlayingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}
		WriteJSON(w, http.StatusOK, SnapshotToResponse(cfg.Project.SetPlaying(req.Playing)))
	}
}

func selectHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		var snap project.Snapshot
		switch {
		case req.ClipID != "":
			snap = cfg.Project.SelectClip(req.ClipID)
		case req.TextID != "":
			snap = cfg.Project.SelectText(req.TextID)
		default:
			snap = cfg.Project.DeselectAll()
		}
		WriteJSON(w, http.StatusOK, SnapshotToResponse(snap))
	}
}

func submitJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateSubmitRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		job := generate.NewJob(req.Kind, req.Prompt)
		if err := cfg.Jobs.CreateJob(r.Context(), job); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to create job", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusAccepted, JobToResponse(job))
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := cfg.Jobs.ListJobs(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list jobs", "INTERNAL_ERROR")
			return
		}
		resp := JobsResponse{Jobs: make([]JobResponse, len(jobs))}
		for i, j := range jobs {
			resp.Jobs[i] = JobToResponse(j)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := cfg.Jobs.GetJob(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to get job", "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}

func cancelJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := cfg.Jobs.GetJob(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to get job", "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}

		// In-flight jobs are marked cancelled so a late result is
		// discarded; settled jobs are removed outright.
		switch job.Status {
		case generate.StatusPending, generate.StatusRunning:
			err = cfg.Jobs.UpdateJobStatus(r.Context(), id, generate.StatusCancelled, "")
		default:
			err = cfg.Jobs.DeleteJob(r.Context(), id)
		}
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to cancel job", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func uploadMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart form", "BAD_REQUEST")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "file field is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		imported, err := cfg.Library.Import(r.Context(), header.Filename, file)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to store file", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, FileToResponse(imported))
	}
}

func listMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		files, err := cfg.Library.List(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list media", "INTERNAL_ERROR")
			return
		}
		resp := MediaFilesResponse{Files: make([]MediaFileResponse, len(files))}
		for i, f := range files {
			resp.Files[i] = FileToResponse(f)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func streamMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		file, err := cfg.Library.Get(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to look up media", "INTERNAL_ERROR")
			return
		}
		if file == nil {
			WriteError(w, http.StatusNotFound, "media not found", "NOT_FOUND")
			return
		}
		if err := cfg.Streamer.ServeFile(w, r, file.Path); err != nil {
			cfg.Logger.Error("stream error", "error", err, "media_id", id)
		}
	}
}

func deleteMediaHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Library.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to delete media", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ExportRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		title := req.Title
		if title == "" {
			title = "Untitled Project"
		}

		snap := cfg.Project.Snapshot()
		switch req.Format {
		case export.FormatEDL:
			frameRate := req.FrameRate
			if frameRate == 0 {
				frameRate = 30
			}
			edl := export.GenerateEDL(export.Resolve(snap.State), title, frameRate)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(edl))
		default:
			data, err := export.GenerateManifest(snap.State, title)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, "export failed", "INTERNAL_ERROR")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(data)
		}
	}
}

func banStateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, BanStateToResponse(cfg.Gate.BanState()))
	}
}

func listUsersHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := cfg.Registry.ListUsers(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list users", "INTERNAL_ERROR")
			return
		}
		resp := UsersResponse{Users: make([]UserResponse, len(users))}
		for i, u := range users {
			resp.Users[i] = UserToResponse(u)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func banUserHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := moderation.NormalizeEmail(chi.URLParam(r, "email"))
		if email == "" {
			WriteError(w, http.StatusBadRequest, "email required", "BAD_REQUEST")
			return
		}
		if cfg.Gate.IsOwner(email) {
			WriteError(w, http.StatusBadRequest, "cannot ban the owner", "BAD_REQUEST")
			return
		}

		var req BanRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		var unbanAt *time.Time
		if req.DurationHours > 0 {
			t := time.Now().UTC().Add(time.Duration(req.DurationHours) * time.Hour)
			unbanAt = &t
		}
		if err := cfg.Registry.SetBan(r.Context(), email, req.Reason, unbanAt); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to ban user", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unbanUserHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := moderation.NormalizeEmail(chi.URLParam(r, "email"))
		if err := cfg.Registry.ClearBan(r.Context(), email); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to unban user", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteUserHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := moderation.NormalizeEmail(chi.URLParam(r, "email"))
		if cfg.Gate.IsOwner(email) {
			WriteError(w, http.StatusBadRequest, "cannot delete the owner", "BAD_REQUEST")
			return
		}
		if err := cfg.Registry.DeleteUser(r.Context(), email); err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to delete user", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func warnHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WarnRequest
		if err := decodeRequest(r, &req); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}
		seconds := req.Seconds
		if seconds == 0 {
			seconds = 5
		}
		cfg.Gate.StartWarning(seconds)
		WriteJSON(w, http.StatusOK, BanStateToResponse(cfg.Gate.BanState()))
	}
}

func cancelWarnHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg.Gate.CancelWarning()
		WriteJSON(w, http.StatusOK, BanStateToResponse(cfg.Gate.BanState()))
	}
}
