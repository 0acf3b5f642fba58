package server

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/dubaiimmo/adgen/pkg/property"
)

// The operator forms mirror the original config pages: three free-text
// lines per format, auto-uppercased at render time, with red:MOT or
// [[MOT]] highlighting and empty lines skipped.

var formTmpl = template.Must(template.New("form").Parse(`<!doctype html>
<html lang="fr">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{.Title}}</title>
    <style>
      body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;padding:24px;max-width:720px;margin:0 auto}
      label{display:block;margin:12px 0 4px}
      input{width:100%;padding:10px;font-size:16px}
      button{margin-top:16px;padding:10px 16px;font-size:16px;background:#111;color:#fff;border:none;border-radius:6px;cursor:pointer}
      .hint{color:#666;font-size:14px}
      .code{background:#f5f5f5;border-radius:6px;padding:2px 6px}
    </style>
  </head>
  <body>
    <h1>{{.Title}}</h1>
    <form method="POST">
      <label for="line1">Ligne 1 ({{.Line1Color}})</label>
      <input id="line1" name="line1" value="{{.Block.Line1}}" />
      <label for="line2">Ligne 2 ({{.Line2Color}})</label>
      <input id="line2" name="line2" value="{{.Block.Line2}}" />
      <label for="line3">Ligne 3 ({{.Line3Color}})</label>
      <input id="line3" name="line3" value="{{.Block.Line3}}" />
      <button type="submit">Enregistrer</button>
    </form>
    <p class="hint">Uppercase automatique; rouge via <span class="code">red:MOT</span> ou <span class="code">[[MOT]]</span>; lignes vides non affichées.</p>
    <p class="hint"><a href="/api/preview?format={{.Format}}">Aperçu avec les textes actuels</a></p>
  </body>
</html>`))

var savedTmpl = template.Must(template.New("saved").Parse(`<!doctype html>
<html lang="fr">
  <head><meta charset="utf-8" /><meta name="viewport" content="width=device-width, initial-scale=1" /><title>Configuration enregistrée</title></head>
  <body style="font-family:system-ui,-apple-system,Segoe UI,Roboto,Helvetica,Arial,sans-serif;padding:24px;max-width:720px;margin:0 auto">
    <h1>Configuration enregistrée ✅</h1>
    <p>Les textes du format {{.Format}} sont sauvegardés et seront appliqués aux prochaines générations.</p>
    <ul>
      <li>Ligne 1: {{.Block.Line1}}</li>
      <li>Ligne 2: {{.Block.Line2}}</li>
      <li>Ligne 3: {{.Block.Line3}}</li>
    </ul>
    <p><a href="/api/preview?format={{.Format}}">Aperçu</a> · <a href="{{.FormPath}}">Retour au formulaire</a></p>
  </body>
</html>`))

type formData struct {
	Title      string
	Format     property.Format
	FormPath   string
	Block      property.TextBlock
	Line1Color string
	Line2Color string
	Line3Color string
}

func (s *Server) formData(f property.Format) formData {
	d := formData{
		Format:     f,
		FormPath:   "/api/text-" + string(f),
		Block:      s.store.Get(f),
		Line1Color: "bleu",
		Line2Color: "bleu",
	}
	if f == property.FormatSquare {
		d.Title = "Texte – Format Carré"
		d.Line3Color = colorLabel(s.cfg.SquareLine3.String())
	} else {
		d.Title = "Texte – Format Story"
		d.Line3Color = colorLabel(s.cfg.StoryLine3.String())
	}
	return d
}

func colorLabel(name string) string {
	if name == "red" {
		return "rouge"
	}
	return "bleu"
}

func (s *Server) handleTextForm(f property.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := formTmpl.Execute(w, s.formData(f)); err != nil {
			s.log.Error().Err(err).Msg("render form")
		}
	}
}

func (s *Server) handleTextSave(f property.Format) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "formulaire invalide", http.StatusBadRequest)
			return
		}

		block := property.TextBlock{
			Line1: r.PostFormValue("line1"),
			Line2: r.PostFormValue("line2"),
			Line3: r.PostFormValue("line3"),
		}

		if err := s.store.Save(f, block); err != nil {
			s.log.Error().Err(err).Msg("save overrides")
			http.Error(w, fmt.Sprintf("sauvegarde impossible: %v", err), http.StatusInternalServerError)
			return
		}

		d := s.formData(f)
		d.Block = block
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := savedTmpl.Execute(w, d); err != nil {
			s.log.Error().Err(err).Msg("render recap")
		}
	}
}
