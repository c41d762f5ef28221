package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/seatmap/pkg/buildinfo"
	"github.com/matzehuels/seatmap/pkg/document"
	"github.com/matzehuels/seatmap/pkg/errors"
	"github.com/matzehuels/seatmap/pkg/floor"
	"github.com/matzehuels/seatmap/pkg/geom"
	"github.com/matzehuels/seatmap/pkg/render"
	"github.com/matzehuels/seatmap/pkg/render/sink"
)

const (
	maxBodySize = 1 << 20

	defaultFrameWidth  = 800
	defaultFrameHeight = 600
	maxFrameSide       = 10000

	formatSVG  = "svg"
	formatJSON = "json"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var draft document.Draft
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&draft); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout"))
		return
	}

	owner := PrincipalFrom(r.Context()).OwnerID()
	id, err := s.store.Save(r.Context(), owner, draft.Name, draft.Tables)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.logger.Debug("saved layout", "id", id, "owner", owner, "tables", len(draft.Tables))
	w.Header().Set("Location", "/layouts/"+url.PathEscape(id))
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), PrincipalFrom(r.Context()).OwnerID())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	owner := PrincipalFrom(r.Context()).OwnerID()
	if err := s.store.Delete(r.Context(), owner, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	frame, err := parseFrame(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	format := q.Get("format")
	if format == "" {
		format = formatSVG
	}
	if format != formatSVG && format != formatJSON {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "unknown format %q (want svg or json)", format))
		return
	}

	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	vp := geom.NewViewport().Fit(frame, floor.Rects(doc.Tables))
	items := render.Render(doc.Tables, vp.Scale, vp.Offset)

	var icon *render.Icon
	if s.icons != nil && s.iconURL != "" {
		ic := render.LoadIcon(r.Context(), s.icons, s.iconURL)
		if ic.Failed() {
			s.logger.Warn("table icon unavailable", "url", s.iconURL, "err", ic.Err)
		}
		icon = &ic
	}

	switch format {
	case formatJSON:
		opts := []sink.JSONOption{sink.WithJSONViewport(vp), sink.WithJSONLayout(doc.ID, doc.Name)}
		if icon != nil {
			opts = append(opts, sink.WithJSONIcon(*icon))
		}
		data, err := sink.RenderJSON(frame, items, opts...)
		if err != nil {
			writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode draw list"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	default:
		opts := []sink.SVGOption{sink.WithTitle(doc.Name)}
		if icon != nil {
			opts = append(opts, sink.WithIcon(*icon))
		}
		if on, _ := strconv.ParseBool(q.Get("labels")); on {
			opts = append(opts, sink.WithLabels())
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(sink.RenderSVG(frame, items, opts...))
	}
}

func parseFrame(q url.Values) (geom.Size, error) {
	size := geom.Size{Width: defaultFrameWidth, Height: defaultFrameHeight}
	for _, p := range []struct {
		name string
		dst  *float64
	}{{"width", &size.Width}, {"height", &size.Height}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(v > 0 && v <= maxFrameSide) {
			return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "%s must be a number in (0, %d], got %q", p.name, maxFrameSide, raw)
		}
		*p.dst = v
	}
	return size, nil
}
