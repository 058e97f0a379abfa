package publisher

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/eltonkola/bleta/internal/archive"
	"github.com/eltonkola/bleta/internal/fetcher"
)

// HTMLPublisher renders the day's archive as a static newspaper-style
// index.html in the output directory.
type HTMLPublisher struct {
	outputDir string
	tmpl      *template.Template
}

func NewHTMLPublisher(outputDir string) (*HTMLPublisher, error) {
	tmpl, err := template.New("index").Funcs(template.FuncMap{
		"summary":    articleSummary,
		"formatTime": formatTime,
	}).Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("html: failed to parse template: %w", err)
	}

	return &HTMLPublisher{outputDir: outputDir, tmpl: tmpl}, nil
}

type indexData struct {
	Project       string
	Description   string
	CurrentDate   string
	FormattedDate string
	TotalArticles int
	Featured      *fetcher.Article
	Main          []fetcher.Article
	Sidebar       []fetcher.Article
}

func (p *HTMLPublisher) Publish(_ context.Context, doc *archive.Document) error {
	data := indexData{
		Project:       doc.Project.Name,
		Description:   doc.Project.Description,
		CurrentDate:   time.Now().Format("Monday, 02 January 2006"),
		TotalArticles: doc.TotalArticles,
	}

	if date, err := time.Parse(archive.DateFormat, doc.Date); err == nil {
		data.FormattedDate = date.Format("Monday, 02 January 2006")
	} else {
		data.FormattedDate = doc.Date
	}

	// Featured article first, the next five in the main column, the rest in
	// the sidebar.
	if len(doc.Articles) > 0 {
		data.Featured = &doc.Articles[0]
	}
	if len(doc.Articles) > 1 {
		end := min(len(doc.Articles), 6)
		data.Main = doc.Articles[1:end]
		data.Sidebar = doc.Articles[end:]
	}

	if err := os.MkdirAll(p.outputDir, 0o755); err != nil {
		return fmt.Errorf("html: failed to create %s: %w", p.outputDir, err)
	}

	path := filepath.Join(p.outputDir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("html: failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := p.tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("html: failed to render %s: %w", path, err)
	}
	return nil
}

func articleSummary(a fetcher.Article) string {
	if a.Summary != "" {
		return a.Summary
	}
	return a.Description
}

// formatTime renders a published timestamp for display, keeping the raw
// string when it is not RFC 3339.
func formatTime(published string) string {
	if published == "" {
		return "E panjohur"
	}
	if t, err := time.Parse(time.RFC3339, published); err == nil {
		return t.Format("02/01/2006 15:04")
	}
	return published
}

const indexTemplate = `<!DOCTYPE html>
<html lang="sq">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Project}} - Albanian News Archive</title>
    <link rel="icon" type="image/svg+xml" href="favicon.svg">
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: 'Georgia', 'Times New Roman', serif; line-height: 1.6; color: #333; background: #f8f9fa; }
        .header { background: linear-gradient(135deg, #1a1a1a 0%, #2c2c2c 100%); color: white; padding: 15px 0; border-bottom: 4px solid #d4af37; }
        .header-container { max-width: 1400px; margin: 0 auto; padding: 0 20px; display: flex; align-items: center; justify-content: space-between; }
        .header h1 { font-size: 2.5rem; font-family: 'Times New Roman', serif; }
        .header-date { text-align: right; font-size: 0.9rem; opacity: 0.8; }
        .nav { background: #2c2c2c; padding: 10px 0; }
        .nav-container { max-width: 1400px; margin: 0 auto; padding: 0 20px; display: flex; gap: 15px; }
        .nav-button { padding: 8px 16px; background: #d4af37; color: #1a1a1a; border-radius: 4px; font-weight: bold; font-size: 14px; text-decoration: none; }
        .main-container { max-width: 1400px; margin: 0 auto; padding: 20px; }
        .newspaper { background: white; box-shadow: 0 5px 25px rgba(0,0,0,0.1); border-radius: 8px; overflow: hidden; }
        .newspaper-header { background: linear-gradient(135deg, #1a1a1a 0%, #2c2c2c 100%); color: white; padding: 30px; text-align: center; border-bottom: 3px solid #d4af37; }
        .newspaper-title { font-size: 3.5rem; font-weight: bold; font-family: 'Times New Roman', serif; }
        .newspaper-date { font-size: 1.1rem; color: #d4af37; font-weight: bold; }
        .articles-grid { display: grid; grid-template-columns: 2fr 1fr; min-height: 600px; }
        .main-content { padding: 30px; border-right: 1px solid #eee; }
        .sidebar { padding: 30px; background: #f8f9fa; }
        .article { margin-bottom: 40px; padding-bottom: 30px; border-bottom: 1px solid #eee; }
        .article.featured { border-bottom: 3px solid #d4af37; }
        .article-source { color: #d4af37; font-weight: bold; font-size: 0.8rem; text-transform: uppercase; letter-spacing: 1px; margin-bottom: 8px; }
        .article-title { font-size: 2rem; font-weight: bold; margin-bottom: 15px; line-height: 1.3; color: #1a1a1a; }
        .article.featured .article-title { font-size: 2.5rem; }
        .article-summary { font-size: 1.1rem; color: #555; margin-bottom: 20px; }
        .article-meta { font-size: 0.85rem; color: #888; margin-bottom: 20px; padding: 10px 0; border-top: 1px solid #eee; }
        .article-link { display: inline-block; background: #1a1a1a; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold; font-size: 0.9rem; }
        .sidebar-article { margin-bottom: 30px; padding-bottom: 20px; border-bottom: 1px solid #ddd; }
        .sidebar-article .article-title { font-size: 1.3rem; }
        .sidebar-article .article-summary { font-size: 0.95rem; }
        .footer { background: #1a1a1a; color: white; text-align: center; padding: 30px 20px; margin-top: 40px; }
        @media (max-width: 1200px) { .articles-grid { grid-template-columns: 1fr; } .main-content { border-right: none; } }
    </style>
</head>
<body>
    <div class="header">
        <div class="header-container">
            <div>
                <h1>🐝 {{.Project}}</h1>
                <p>{{.Description}}</p>
            </div>
            <div class="header-date">{{.CurrentDate}}</div>
        </div>
    </div>

    <div class="nav">
        <div class="nav-container">
            <a href="webapp/" class="nav-button">Arkivi i Lajmeve</a>
            <a href="feed.xml" class="nav-button">RSS Feed</a>
        </div>
    </div>

    <div class="main-container">
        <div class="newspaper">
            <div class="newspaper-header">
                <div class="newspaper-title">{{.Project}}</div>
                <div class="newspaper-subtitle">Albanian News Archive</div>
                <div class="newspaper-date">{{.FormattedDate}} • {{.TotalArticles}} artikuj</div>
            </div>
            <div class="articles-grid">
                <div class="main-content">
                    {{if .Featured}}
                    <div class="article featured">
                        <div class="article-source">{{.Featured.Source}}</div>
                        <h2 class="article-title">{{.Featured.Title}}</h2>
                        <div class="article-summary">{{summary .Featured}}</div>
                        <div class="article-meta">
                            <strong>Burimi:</strong> {{.Featured.Source}} |
                            <strong>Gjuha:</strong> {{.Featured.Language}} |
                            <strong>Koha:</strong> {{formatTime .Featured.Published}}
                        </div>
                        <a href="{{.Featured.Link}}" class="article-link" target="_blank">Lexo më shumë</a>
                    </div>
                    {{else}}
                    <div class="article"><h2>Nuk ka lajme për këtë datë</h2></div>
                    {{end}}
                    {{range .Main}}
                    <div class="article">
                        <div class="article-source">{{.Source}}</div>
                        <h2 class="article-title">{{.Title}}</h2>
                        <div class="article-summary">{{summary .}}</div>
                        <div class="article-meta">
                            <strong>Burimi:</strong> {{.Source}} |
                            <strong>Gjuha:</strong> {{.Language}} |
                            <strong>Koha:</strong> {{formatTime .Published}}
                        </div>
                        <a href="{{.Link}}" class="article-link" target="_blank">Lexo më shumë</a>
                    </div>
                    {{end}}
                </div>
                <div class="sidebar">
                    <h3 style="margin-bottom: 20px; border-bottom: 2px solid #d4af37; padding-bottom: 10px;">Lajme të tjera</h3>
                    {{range .Sidebar}}
                    <div class="sidebar-article">
                        <div class="article-source">{{.Source}}</div>
                        <h3 class="article-title">{{.Title}}</h3>
                        <div class="article-summary">{{summary .}}</div>
                        <div class="article-meta"><strong>Koha:</strong> {{formatTime .Published}}</div>
                        <a href="{{.Link}}" class="article-link" target="_blank">Lexo më shumë</a>
                    </div>
                    {{end}}
                </div>
            </div>
        </div>
    </div>

    <div class="footer">
        <p>Powered by AI • {{.Project}} News Archive • Albanian News with AI Summaries</p>
    </div>
</body>
</html>
`
