// Package render turns a listing page into the gallery HTML document.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"video-gallery/pkg/pager"
	"video-gallery/pkg/timestamp"
)

//go:embed templates/*.html
var templateFiles embed.FS

var templates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

// Template names registered in Templates.
const (
	GalleryTemplate = "gallery"
	NavTemplate     = "nav"
)

// Templates returns the parsed gallery template set. It is shared and must
// not be modified; gin engines install it with SetHTMLTemplate.
func Templates() *template.Template {
	return templates
}

// Options carries the configuration values the gallery page depends on.
type Options struct {
	BasePath        string
	InstanceName    string
	PageSize        int
	ParseTimestamps bool
	Location        *time.Location
}

// Nav is the data behind the prev / PAGE n / next controls. Whether prev and
// next are links is decided by the embedded page.
type Nav struct {
	BasePath string
	pager.Page
}

func (n Nav) Prev() int { return n.Number - 1 }
func (n Nav) Next() int { return n.Number + 1 }

// Item is one video block on the page.
type Item struct {
	Name  string
	Label string
}

// PageData is the template data of a full gallery page.
type PageData struct {
	BasePath     string
	InstanceName string
	Nav          Nav
	Items        []Item
	Page         pager.Page
}

// NewPageData paginates items and computes the labels of the requested page.
func NewPageData(items []string, opts Options, requested uint) PageData {
	page := pager.Paginate(len(items), opts.PageSize, requested)

	names := pager.Slice(page, items)
	data := PageData{
		BasePath:     opts.BasePath,
		InstanceName: opts.InstanceName,
		Nav:          Nav{BasePath: opts.BasePath, Page: page},
		Items:        make([]Item, 0, len(names)),
		Page:         page,
	}
	for _, name := range names {
		label := name
		if opts.ParseTimestamps {
			label = timestamp.Format(name, opts.Location)
		}
		data.Items = append(data.Items, Item{Name: name, Label: label})
	}
	return data
}

// RenderNav renders the navigation block for page out of maxPages.
func RenderNav(basePath string, page, maxPages int) (string, error) {
	nav := Nav{
		BasePath: basePath,
		Page:     pager.Page{Number: page, MaxPages: maxPages},
	}
	return execute(NavTemplate, nav)
}

// RenderPage renders the complete gallery document for the requested page.
func RenderPage(items []string, opts Options, requested uint) (string, error) {
	return execute(GalleryTemplate, NewPageData(items, opts, requested))
}

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
