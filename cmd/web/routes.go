package main

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/charmbracelet/log"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/tomz197/invaders/internal/scores"
)

//go:embed index.html
var indexHTML string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(indexHTML))

// rankingSource is the read side of the score store.
type rankingSource interface {
	Rankings(limit int) ([]scores.Entry, error)
}

type site struct {
	scores rankingSource
	sshCmd string
	topN   int
	logger *log.Logger
	qrPNG  []byte
	qrErr  error
}

type indexData struct {
	SSHCommand string
	Rankings   []scores.Entry
}

func newSite(src rankingSource, sshHost, sshPort string, topN int, logger *log.Logger) *site {
	cmd := fmt.Sprintf("ssh %s", sshHost)
	if sshPort != "" && sshPort != "22" {
		cmd = fmt.Sprintf("ssh -p %s %s", sshPort, sshHost)
	}
	png, err := qrcode.Encode(cmd, qrcode.Medium, 256)
	return &site{
		scores: src,
		sshCmd: cmd,
		topN:   topN,
		logger: logger,
		qrPNG:  png,
		qrErr:  err,
	}
}

// routes configures HTTP routes.
func (s *site) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/qr.png", s.handleQR)
	return mux
}

func (s *site) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	list, err := s.scores.Rankings(s.topN)
	if err != nil {
		s.logger.Error("load rankings", "err", err)
		http.Error(w, "rankings unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := indexTemplate.Execute(w, indexData{SSHCommand: s.sshCmd, Rankings: list}); err != nil {
		s.logger.Error("render index", "err", err)
	}
}

func (s *site) handleQR(w http.ResponseWriter, r *http.Request) {
	if s.qrErr != nil {
		http.Error(w, "qr code unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=3600")
	w.Write(s.qrPNG)
}
