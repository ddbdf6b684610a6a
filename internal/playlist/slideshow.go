package playlist

import (
	"html/template"
	"strings"

	"github.com/css-signage/css-agent-go/internal/models"
)

// Slideshow renders the self-contained auto-advancing view for the playlist.
// imageBase is the URL prefix images are served from (e.g. "/images").
// An empty playlist renders a friendly placeholder; activate() guards against
// reaching that state, but the page must not break if it does.
func Slideshow(pl models.Playlist, imageBase string) (string, error) {
	data := struct {
		Images      []string
		ImageBase   string
		DisplayTime int
		FadeTime    int
	}{
		Images:      pl.Images,
		ImageBase:   strings.TrimSuffix(imageBase, "/"),
		DisplayTime: pl.DisplayTime,
		FadeTime:    pl.FadeTime,
	}
	var b strings.Builder
	if err := slideshowTmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

var slideshowTmpl = template.Must(template.New("slideshow").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Slideshow</title>
<style>
  html, body { margin: 0; height: 100%; background: #000; overflow: hidden; }
  .slide {
    position: absolute; inset: 0;
    width: 100%; height: 100%;
    object-fit: contain;
    opacity: 0;
    transition: opacity {{.FadeTime}}s ease-in-out;
  }
  .slide.active { opacity: 1; }
  .empty {
    color: #888; font-family: sans-serif; font-size: 3vw;
    display: flex; align-items: center; justify-content: center; height: 100%;
  }
</style>
</head>
<body>
{{- if .Images}}
{{- range $i, $img := .Images}}
<img class="slide{{if eq $i 0}} active{{end}}" src="{{$.ImageBase}}/{{$img}}" alt="">
{{- end}}
<script>
  var slides = document.querySelectorAll('.slide');
  var current = 0;
  if (slides.length > 1) {
    setInterval(function () {
      slides[current].classList.remove('active');
      current = (current + 1) % slides.length;
      slides[current].classList.add('active');
    },{{.DisplayTime}}* 1000);
  }
</script>
{{- else}}
<div class="empty">No images in playlist</div>
{{- end}}
</body>
</html>
`))
