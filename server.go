package png2src

import (
	"encoding/json"
	"image/color"
	"image/png"
	"net/http"

	"github.com/KononK/resize"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Handler serves the catalog over HTTP: a JSON listing at /sprites and
// rendered previews at /sprites/{name}. Previews are drawn with the
// palette p and scaled up with nearest neighbour sampling so pixels
// stay sharp.
func (t *Tool) Handler(p color.Palette, scale int) http.Handler {
	if scale < 1 {
		scale = 1
	}

	r := mux.NewRouter()
	r.HandleFunc("/sprites", t.listSprites).Methods("GET")
	r.HandleFunc("/sprites/{name}", t.previewSprite(p, scale)).Methods("GET")
	return r
}

func (t *Tool) listSprites(w http.ResponseWriter, r *http.Request) {
	entries, err := t.db.Entries()
	if err != nil {
		t.logger.Error("listing sprites", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		t.logger.Error("encoding listing", zap.Error(err))
	}
}

func (t *Tool) previewSprite(p color.Palette, scale int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		s, err := t.db.Sprite(name)
		if err != nil {
			t.logger.Error("loading sprite", zap.String("name", name), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if s == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		// A sprite indexes up to 1<<bpp palette entries; rendering with
		// fewer would read past the palette.
		if n := 1 << s.Flags().BitsPerPixel(); len(p) < n {
			t.logger.Warn("palette too small for sprite",
				zap.String("name", name),
				zap.Int("colors", len(p)),
				zap.Int("want", n))
			http.Error(w, "palette too small", http.StatusUnprocessableEntity)
			return
		}

		m := resize.Resize(uint(s.Width())*uint(scale), uint(s.Height())*uint(scale), s.Image(p), resize.NearestNeighbor)

		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, m); err != nil {
			t.logger.Error("encoding preview", zap.String("name", name), zap.Error(err))
		}
	}
}

// Serve listens on addr and blocks serving sprite previews.
func (t *Tool) Serve(addr string, p color.Palette, scale int) error {
	t.logger.Info("serving sprite previews", zap.String("addr", addr))
	return http.ListenAndServe(addr, t.Handler(p, scale))
}
