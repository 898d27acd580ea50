package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"enel-smeta/models"
	"enel-smeta/templates"
)

// Page geometry of the printed quote, CSS pixels at 96 DPI
const (
	PageWidthPx  = 1040
	PageHeightPx = 2350
	cssPxPerInch = 96.0

	EngineChrome = "chrome"

	DefaultBackgroundURL = "https://static.tildacdn.com/tild3134-3631-4332-b537-356336333531/bgim_1.png"
)

// waits for web fonts and the background image before printing
const waitForAssetsJS = `
(function() {
	return Promise.all([
		document.fonts.ready,
		Promise.all(Array.from(document.images).map(img => new Promise(resolve => {
			if (img.complete) { resolve(); return; }
			const timeout = setTimeout(resolve, 5000);
			img.onload = img.onerror = () => { clearTimeout(timeout); resolve(); };
		})))
	]).then(() => true);
})()
`

// RenderOptions configures the HTML renderer
type RenderOptions struct {
	ChromePath    string
	Timeout       time.Duration
	BackgroundURL string
	// FontPath is a TrueType file inlined into the page as a data URL
	FontPath string
}

// RenderService renders quotes from the HTML template and prints them with headless Chrome
type RenderService struct {
	tmpl    *template.Template
	opts    RenderOptions
	fontURL template.URL
	log     zerolog.Logger
}

type quoteSectionView struct {
	Key            models.Section
	Title          string
	Items          []models.LineItem
	TotalLabel     string
	TotalFormatted string
}

type quoteView struct {
	Company             models.CompanyInfo
	Sections            []quoteSectionView
	GrandTotalFormatted string
	BackgroundURL       string
	FontURL             template.URL
}

// NewRenderService parses the embedded quote template
func NewRenderService(opts RenderOptions, log zerolog.Logger) (*RenderService, error) {
	tmpl, err := template.ParseFS(templates.FS, templates.QuoteTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.BackgroundURL == "" {
		opts.BackgroundURL = DefaultBackgroundURL
	}

	svc := &RenderService{tmpl: tmpl, opts: opts, log: log}
	if opts.FontPath != "" {
		font, err := os.ReadFile(opts.FontPath)
		if err != nil {
			return nil, fmt.Errorf("%w: font not found: %v", ErrInvalidInput, err)
		}
		// the page is loaded into about:blank, so the font travels inside the document
		svc.fontURL = template.URL("data:font/ttf;base64," + base64.StdEncoding.EncodeToString(font))
	}
	return svc, nil
}

// Ensure RenderService implements RenderServiceInterface
var _ RenderServiceInterface = (*RenderService)(nil)

func (s *RenderService) Engine() string { return EngineChrome }

// RenderHTML renders the quote page
func (s *RenderService) RenderHTML(quote models.Quote) ([]byte, error) {
	view := quoteView{
		Company:             quote.CompanyInfo,
		GrandTotalFormatted: quote.GrandTotalFormatted,
		BackgroundURL:       s.opts.BackgroundURL,
		FontURL:             s.fontURL,
	}
	for _, section := range models.Sections {
		_, formatted := quote.SectionTotal(section)
		view.Sections = append(view.Sections, quoteSectionView{
			Key:            section,
			Title:          models.SectionTitle(section),
			Items:          quote.Items(section),
			TotalLabel:     models.SectionTotalLabel(section),
			TotalFormatted: formatted,
		})
	}

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, templates.QuoteTemplate, view); err != nil {
		return nil, fmt.Errorf("%w: failed to execute template: %v", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

// RenderPDF prints the quote page to a single 1040x2350px PDF page with backgrounds
func (s *RenderService) RenderPDF(ctx context.Context, quote models.Quote) ([]byte, error) {
	var pdfBuf []byte
	err := s.withPage(ctx, quote, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdfBuf, _, err = page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(PaperWidthInches()).
			WithPaperHeight(PaperHeightInches()).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to generate PDF: %v", ErrRenderFailed, err)
	}

	s.log.Info().Int("bytes", len(pdfBuf)).Msg("✓ PDF generated")
	return pdfBuf, nil
}

// RenderPNG captures the quote page as a PNG of the same geometry
func (s *RenderService) RenderPNG(ctx context.Context, quote models.Quote) ([]byte, error) {
	var buf []byte
	err := s.withPage(ctx, quote, chromedp.CaptureScreenshot(&buf))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to capture PNG: %v", ErrRenderFailed, err)
	}

	s.log.Info().Int("bytes", len(buf)).Msg("✓ PNG generated")
	return buf, nil
}

// withPage loads the rendered quote into a fresh headless browser tab and runs action on it
func (s *RenderService) withPage(ctx context.Context, quote models.Quote, action chromedp.Action) error {
	html, err := s.RenderHTML(quote)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.WindowSize(PageWidthPx, PageHeightPx),
	)
	if chromePath := detectChromePath(s.opts.ChromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.log.Warn().Msg("⚠️  Chrome not found in known locations, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	return chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(PageWidthPx, PageHeightPx),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(waitForAssetsJS, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		action,
	)
}

// PaperWidthInches converts the page width to the unit PrintToPDF expects
func PaperWidthInches() float64 { return PageWidthPx / cssPxPerInch }

// PaperHeightInches converts the page height to the unit PrintToPDF expects
func PaperHeightInches() float64 { return PageHeightPx / cssPxPerInch }

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
