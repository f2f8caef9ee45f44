package export

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/chromedp/chromedp"
	"github.com/unbound-force/kempt/internal/loader"
)

//go:embed assets/page.html
var pageHTML string

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

// DefaultImageStyle is the chroma style used for image export.
const DefaultImageStyle = "dracula"

// codeSelector is the element whose bounding box is captured.
const codeSelector = "pre"

// Screenshotter captures a PNG of the first element matching selector
// on the page at url.
type Screenshotter interface {
	Screenshot(ctx context.Context, url, selector string) ([]byte, error)
}

// Chrome is a Screenshotter backed by a headless Chrome instance.
// Each call starts a fresh browser and shuts it down before returning.
type Chrome struct{}

// Screenshot implements Screenshotter.
func (Chrome) Screenshot(ctx context.Context, pageURL, selector string) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.Screenshot(selector, &buf, chromedp.NodeVisible, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}

// Image renders code as highlighted HTML and saves a screenshot of it.
type Image struct {
	// Language selects the lexer. Empty means Python.
	Language loader.Language

	// Style is the chroma style name. Empty means DefaultImageStyle.
	Style string

	// Timeout bounds the whole browser session. Zero means no limit.
	Timeout time.Duration

	// Browser takes the screenshot. Nil means Chrome.
	Browser Screenshotter
}

// Export writes a PNG screenshot of the highlighted code to path and
// returns its absolute path. The intermediate HTML page is written to
// a temporary file that is removed before Export returns, on success
// and on failure.
func (im *Image) Export(ctx context.Context, path, code string) (string, error) {
	page, err := im.render(code)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "kempt-*.html")
	if err != nil {
		return "", fmt.Errorf("creating temp page: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(page); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp page: %w", err)
	}

	if im.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.Timeout)
		defer cancel()
	}

	browser := im.Browser
	if browser == nil {
		browser = Chrome{}
	}
	png, err := browser.Screenshot(ctx, fileURL(tmp.Name()), codeSelector)
	if err != nil {
		return "", fmt.Errorf("exporting image: %w", err)
	}
	return writeFile(path, png)
}

// render produces the standalone HTML page for code.
func (im *Image) render(code string) ([]byte, error) {
	styleName := im.Style
	if styleName == "" {
		styleName = DefaultImageStyle
	}
	style := styles.Get(styleName)

	lang := im.Language
	if lang == "" {
		lang = loader.DefaultLanguage
	}
	lexer := lexers.Get(string(lang))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	it, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenising code: %w", err)
	}

	formatter := html.New(html.WithClasses(true), html.TabWidth(4))
	var codeHTML, css bytes.Buffer
	if err := formatter.Format(&codeHTML, style, it); err != nil {
		return nil, fmt.Errorf("rendering html: %w", err)
	}
	if err := formatter.WriteCSS(&css, style); err != nil {
		return nil, fmt.Errorf("rendering css: %w", err)
	}

	background := "#1e1e2e"
	if bg := style.Get(chroma.Background).Background; bg.IsSet() {
		background = bg.String()
	}

	var out bytes.Buffer
	err = pageTmpl.Execute(&out, struct {
		Background template.CSS
		CSS        template.CSS
		Code       template.HTML
	}{
		Background: template.CSS(background),
		CSS:        template.CSS(css.String()),
		Code:       template.HTML(codeHTML.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return out.Bytes(), nil
}

func fileURL(path string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
